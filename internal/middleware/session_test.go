package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"olympics-storefront/internal/models"
	"olympics-storefront/internal/session"
	"olympics-storefront/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubAuth is never reached by these tests
type stubAuth struct{}

func (stubAuth) Login(ctx context.Context, email, password string) (*models.AuthResult, error) {
	return nil, errors.New("not implemented")
}

func (stubAuth) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	return nil, errors.New("not implemented")
}

// fixedProvider hands every request the same storage
type fixedProvider struct {
	kv  storage.KV
	err error
}

func (p fixedProvider) For(w http.ResponseWriter, r *http.Request) (storage.KV, error) {
	return p.kv, p.err
}

func TestLoadSession_Anonymous(t *testing.T) {
	m := NewSessionMiddleware(fixedProvider{kv: storage.NewMemory()}, stubAuth{})

	var store *session.Store
	var user *models.User
	m.LoadSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		store = GetSession(r.Context())
		user = GetUserFromContext(r.Context())
	})).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

	require.NotNil(t, store)
	assert.False(t, store.IsAuthenticated())
	assert.Nil(t, user)
}

func TestLoadSession_RestoresUser(t *testing.T) {
	kv := storage.NewMemory()
	require.NoError(t, kv.Set(session.UserKey, `{"id":7,"email":"marie@example.com","nom":"Curie","prenom":"Marie"}`))
	m := NewSessionMiddleware(fixedProvider{kv: kv}, stubAuth{})

	var user *models.User
	m.LoadSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user = GetUserFromContext(r.Context())
	})).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

	require.NotNil(t, user)
	assert.Equal(t, 7, user.ID)
}

func TestLoadSession_StorageFailure(t *testing.T) {
	m := NewSessionMiddleware(fixedProvider{err: storage.ErrUnavailable}, stubAuth{})

	called := false
	m.LoadSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		assert.NotNil(t, GetSession(r.Context()))
		assert.Nil(t, GetUserFromContext(r.Context()))
	})).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

	assert.True(t, called)
}

func TestSecureHeaders(t *testing.T) {
	rr := httptest.NewRecorder()
	SecureHeaders(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})).
		ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))

	assert.Equal(t, "DENY", rr.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, rr.Header().Get("Content-Security-Policy"))
}
