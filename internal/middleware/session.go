package middleware

import (
	"context"
	"log"
	"net/http"

	"olympics-storefront/internal/models"
	"olympics-storefront/internal/session"
	"olympics-storefront/internal/storage"
)

const sessionKey contextKey = "session"

// SessionMiddleware opens the visitor's storage and bootstraps their session
// before any handler runs.
type SessionMiddleware struct {
	provider storage.Provider
	auth     session.Authenticator
}

// NewSessionMiddleware creates a new session middleware
func NewSessionMiddleware(provider storage.Provider, auth session.Authenticator) *SessionMiddleware {
	return &SessionMiddleware{
		provider: provider,
		auth:     auth,
	}
}

// LoadSession puts a bootstrapped *session.Store in the request context. When
// the visitor's storage cannot be opened the request is served anonymously
// with throwaway storage.
func (m *SessionMiddleware) LoadSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		kv, err := m.provider.For(w, r)
		if err != nil {
			log.Printf("session [%s]: failed to open visitor storage: %v", GetRequestID(r.Context()), err)
			kv = storage.NewMemory()
		}

		store := session.New(kv, m.auth)
		store.Bootstrap()
		if entry := logEntryFromContext(r.Context()); entry != nil {
			entry.session = store
		}

		ctx := context.WithValue(r.Context(), sessionKey, store)
		if user := store.User(); user != nil {
			ctx = context.WithValue(ctx, UserContextKey, user)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// WithSession returns a copy of ctx carrying store, for tests and tools
func WithSession(ctx context.Context, store *session.Store) context.Context {
	ctx = context.WithValue(ctx, sessionKey, store)
	if user := store.User(); user != nil {
		ctx = context.WithValue(ctx, UserContextKey, user)
	}
	return ctx
}

// GetSession returns the visitor's session, or nil outside LoadSession
func GetSession(ctx context.Context) *session.Store {
	store, _ := ctx.Value(sessionKey).(*session.Store)
	return store
}

// GetUserFromContext returns the logged-in user, or nil
func GetUserFromContext(ctx context.Context) *models.User {
	user, _ := ctx.Value(UserContextKey).(*models.User)
	return user
}

// SecureHeaders sets the browser hardening headers on every response
func SecureHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Referrer-Policy", "same-origin")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; img-src 'self' https: data:; style-src 'self' 'unsafe-inline'")
		next.ServeHTTP(w, r)
	})
}
