package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"olympics-storefront/internal/models"

	"github.com/stretchr/testify/assert"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func withUser(r *http.Request) *http.Request {
	user := &models.User{ID: 7, Email: "marie@example.com"}
	return r.WithContext(context.WithValue(r.Context(), UserContextKey, user))
}

func TestRequireAuth(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		target     string
		referer    string
		htmx       bool
		loggedIn   bool
		wantStatus int
		wantLoc    string
	}{
		{"logged in passes", "GET", "/profil", "", false, true, http.StatusOK, ""},
		{"anonymous get", "GET", "/profil", "", false, false, http.StatusSeeOther, "/connexion?redirect=%2Fprofil"},
		{"anonymous post goes back to referer", "POST", "/reservations", "http://example.com/sports/natation", false, false, http.StatusSeeOther, "/connexion?redirect=%2Fsports%2Fnatation"},
		{"htmx", "GET", "/profil", "", true, false, http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.target, nil)
			if tt.referer != "" {
				req.Header.Set("Referer", tt.referer)
			}
			if tt.htmx {
				req.Header.Set("HX-Request", "true")
			}
			if tt.loggedIn {
				req = withUser(req)
			}
			rr := httptest.NewRecorder()

			RequireAuth(okHandler()).ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantLoc != "" {
				assert.Equal(t, tt.wantLoc, rr.Header().Get("Location"))
			}
			if tt.htmx {
				assert.Equal(t, "/connexion?redirect=%2Fprofil", rr.Header().Get("HX-Redirect"))
			}
		})
	}
}

func TestRequireGuest(t *testing.T) {
	rr := httptest.NewRecorder()
	RequireGuest(okHandler()).ServeHTTP(rr, withUser(httptest.NewRequest("GET", "/connexion", nil)))
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/profil", rr.Header().Get("Location"))

	rr = httptest.NewRecorder()
	RequireGuest(okHandler()).ServeHTTP(rr, httptest.NewRequest("GET", "/connexion", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestSafeRedirect(t *testing.T) {
	tests := []struct {
		target   string
		expected string
	}{
		{"/profil", "/profil"},
		{"/sports/natation?x=1", "/sports/natation?x=1"},
		{"", "/"},
		{"https://evil.example", "/"},
		{"//evil.example", "/"},
		{"/\\evil.example", "/"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, SafeRedirect(tt.target, "/"), tt.target)
	}
}

func TestRefererPath_OtherHost(t *testing.T) {
	req := httptest.NewRequest("POST", "/x", nil)
	req.Header.Set("Referer", "https://evil.example/steal")
	assert.Equal(t, "/", RefererPath(req, "/"))
}
