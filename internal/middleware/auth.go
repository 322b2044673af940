package middleware

import (
	"net/http"
	"net/url"
	"strings"
)

type contextKey string

const (
	UserContextKey contextKey = "user"
)

// LoginPath is where anonymous visitors are sent
const LoginPath = "/connexion"

// RequireAuth sends anonymous visitors to the login page, remembering where
// they were going.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetUserFromContext(r.Context()) != nil {
			next.ServeHTTP(w, r)
			return
		}

		target := r.URL.Path
		// A form post cannot be replayed after login; go back to the page instead.
		if r.Method != http.MethodGet {
			target = RefererPath(r, "/")
		}
		loginURL := LoginPath + "?redirect=" + url.QueryEscape(target)

		if IsHTMXRequest(r) {
			w.Header().Set("HX-Redirect", loginURL)
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		http.Redirect(w, r, loginURL, http.StatusSeeOther)
	})
}

// RequireGuest sends logged-in visitors away from the login and sign-up pages
func RequireGuest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetUserFromContext(r.Context()) != nil {
			http.Redirect(w, r, "/profil", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// IsHTMXRequest reports whether the request was issued by htmx
func IsHTMXRequest(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// SafeRedirect keeps redirect targets on this site: only absolute paths
// are accepted, anything else yields fallback.
func SafeRedirect(target, fallback string) string {
	if target == "" || !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return fallback
	}
	return target
}

// RefererPath returns the path of the same-site page the request came from
func RefererPath(r *http.Request, fallback string) string {
	ref, err := url.Parse(r.Referer())
	if err != nil || ref.Path == "" || (ref.Host != "" && ref.Host != r.Host) {
		return fallback
	}
	path := ref.Path
	if ref.RawQuery != "" {
		path += "?" + ref.RawQuery
	}
	return SafeRedirect(path, fallback)
}
