package middleware

import (
	"log"
	"net/http"
	"runtime/debug"
)

// ErrorHandlingMiddleware turns a panic in a handler into a 500 page
func ErrorHandlingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				if err == http.ErrAbortHandler {
					panic(err)
				}
				log.Printf("PANIC [%s] %s %s: %v\n%s", GetRequestID(r.Context()), r.Method, r.URL.Path, err, debug.Stack())

				if IsHTMXRequest(r) {
					w.Header().Set("Content-Type", "text/html; charset=utf-8")
					w.WriteHeader(http.StatusInternalServerError)
					w.Write([]byte(`<div class="alert alert-error" role="alert">Une erreur est survenue. Veuillez réessayer.</div>`))
					return
				}
				http.Error(w, "Erreur interne du serveur", http.StatusInternalServerError)
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// NotFoundHandler answers unknown routes
func NotFoundHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusNotFound)

		if IsHTMXRequest(r) {
			w.Write([]byte(`<div class="not-found"><p>Cette page n'existe pas.</p><a href="/">Retour à l'accueil</a></div>`))
			return
		}

		w.Write([]byte(`<!DOCTYPE html>
<html lang="fr">
<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
	<title>Page introuvable - Billetterie Paris 2024</title>
	<link href="/static/css/app.css" rel="stylesheet">
</head>
<body>
	<main class="not-found">
		<h1>404</h1>
		<p>Cette page n'existe pas.</p>
		<a href="/" class="btn">Retour à l'accueil</a>
	</main>
</body>
</html>`))
	})
}

// MethodNotAllowedHandler answers a known route called with the wrong method
func MethodNotAllowedHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Méthode non autorisée", http.StatusMethodNotAllowed)
	})
}
