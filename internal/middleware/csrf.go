package middleware

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"log"
	"net/http"
)

// CSRFKey is where the visitor's form token is kept in their storage
const CSRFKey = "csrf_token"

const csrfContextKey contextKey = "csrf_token"

// CSRFProtection checks the form token on state-changing requests and
// exposes the token to templates. It must run after LoadSession.
func CSRFProtection(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		store := GetSession(r.Context())
		if store == nil {
			http.Error(w, "Session indisponible", http.StatusInternalServerError)
			return
		}
		kv := store.KV()

		token, ok, err := kv.Get(CSRFKey)
		if err != nil || !ok || token == "" {
			token = GenerateCSRFToken()
			if err := kv.Set(CSRFKey, token); err != nil {
				log.Printf("csrf [%s]: failed to store token: %v", GetRequestID(r.Context()), err)
			}
		}

		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
		default:
			requestToken := r.Header.Get("X-CSRF-Token")
			if requestToken == "" {
				requestToken = r.FormValue(CSRFKey)
			}
			if subtle.ConstantTimeCompare([]byte(requestToken), []byte(token)) != 1 {
				if IsHTMXRequest(r) {
					w.Header().Set("Content-Type", "text/html; charset=utf-8")
					w.WriteHeader(http.StatusForbidden)
					w.Write([]byte(`<div class="alert alert-error" role="alert">Jeton de sécurité invalide. Rechargez la page et réessayez.</div>`))
					return
				}
				http.Error(w, "Jeton de sécurité invalide", http.StatusForbidden)
				return
			}
		}

		ctx := context.WithValue(r.Context(), csrfContextKey, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetCSRFToken returns the token for forms rendered in this request
func GetCSRFToken(ctx context.Context) string {
	token, _ := ctx.Value(csrfContextKey).(string)
	return token
}

// GenerateCSRFToken returns a random hex token
func GenerateCSRFToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b)
}
