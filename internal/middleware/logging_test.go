package middleware

import (
	"bytes"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"olympics-storefront/internal/session"
	"olympics-storefront/internal/storage"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestIDMiddleware_Generates(t *testing.T) {
	var seen string
	handler := RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))

	require.NotEmpty(t, seen)
	_, err := uuid.Parse(seen)
	assert.NoError(t, err)
	assert.Equal(t, seen, rr.Header().Get(RequestIDHeader))
}

func TestRequestIDMiddleware_ReusesIncoming(t *testing.T) {
	var seen string
	handler := RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "abc-123", seen)
}

func TestLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	handler := RequestIDMiddleware(LoggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("hello"))
	})))

	req := httptest.NewRequest("POST", "/panier", nil)
	req.Header.Set(RequestIDHeader, "req-1")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	line := buf.String()
	assert.Contains(t, line, "[req-1] POST /panier 418 5 bytes")
	assert.Contains(t, line, "anonymous")
}

func TestLoggingMiddleware_SeesSessionUser(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	kv := storage.NewMemory()
	require.NoError(t, kv.Set(session.UserKey, `{"id":7,"email":"marie@example.com","nom":"Curie","prenom":"Marie"}`))
	sessions := NewSessionMiddleware(fixedProvider{kv: kv}, stubAuth{})

	handler := LoggingMiddleware(sessions.LoadSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotNil(t, GetUserFromContext(r.Context()))
	})))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/profil", nil))

	assert.Contains(t, buf.String(), "GET /profil 200")
	assert.Contains(t, buf.String(), "- marie@example.com -")
	assert.NotContains(t, buf.String(), "anonymous")
}

func TestLoggingMiddleware_SeesLogoutDuringRequest(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	kv := storage.NewMemory()
	require.NoError(t, kv.Set(session.UserKey, `{"id":7,"email":"marie@example.com","nom":"Curie","prenom":"Marie"}`))
	sessions := NewSessionMiddleware(fixedProvider{kv: kv}, stubAuth{})

	handler := LoggingMiddleware(sessions.LoadSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		GetSession(r.Context()).Logout()
	})))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("POST", "/deconnexion", nil))

	assert.Contains(t, buf.String(), "anonymous")
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		expected   string
	}{
		{"host and port", "192.0.2.1:1234", nil, "192.0.2.1"},
		{"forwarded header ignored", "192.0.2.1:1234", map[string]string{"X-Forwarded-For": "203.0.113.5, 10.0.0.1"}, "192.0.2.1"},
		{"real ip header ignored", "192.0.2.1:1234", map[string]string{"X-Real-IP": "198.51.100.7"}, "192.0.2.1"},
		{"rewritten by RealIP", "203.0.113.5", nil, "203.0.113.5"},
		{"ipv6", "[2001:db8::1]:443", nil, "2001:db8::1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.expected, getClientIP(req))
		})
	}
}
