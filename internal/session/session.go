// Package session holds the visitor's authenticated identity. A Store is
// built per visitor over their storage.KV, bootstrapped once, and then read by
// every component that needs to know who is logged in.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"olympics-storefront/internal/models"
	"olympics-storefront/internal/storage"
)

// Keys under which the identity is persisted
const (
	UserKey  = "user"
	TokenKey = "token"
)

// Authenticator is the part of the ticketing API the store relies on
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*models.AuthResult, error)
	Register(ctx context.Context, req models.RegisterRequest) (*models.User, error)
}

// Store holds at most one user at a time
type Store struct {
	kv    storage.KV
	auth  Authenticator
	user  *models.User
	token string
}

// New creates a store with no identity loaded. Call Bootstrap before use.
func New(kv storage.KV, auth Authenticator) *Store {
	return &Store{kv: kv, auth: auth}
}

// Bootstrap loads the persisted identity. Anything unusable (absent,
// malformed, missing its id) clears the stored entry and leaves the store
// unauthenticated; it is never an error.
func (s *Store) Bootstrap() {
	s.user = nil
	s.token = ""

	raw, ok, err := s.kv.Get(UserKey)
	if err != nil {
		log.Printf("session: failed to read persisted user: %v", err)
		return
	}
	if !ok {
		s.clear()
		return
	}

	var user models.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		log.Printf("session: discarding malformed persisted user: %v", err)
		s.clear()
		return
	}
	if !user.Valid() {
		log.Printf("session: discarding persisted user without id")
		s.clear()
		return
	}

	s.user = &user
	if token, ok, err := s.kv.Get(TokenKey); err == nil && ok {
		s.token = token
	}
}

// Login authenticates against the API and persists the identity. A response
// without an identifier is reported as models.ErrMissingIdentifier and leaves
// the store unauthenticated. API failures are returned unchanged.
func (s *Store) Login(ctx context.Context, email, password string) (*models.User, error) {
	result, err := s.auth.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if result == nil || !result.User.Valid() {
		return nil, fmt.Errorf("login for %s: %w", email, models.ErrMissingIdentifier)
	}

	user := result.User
	encoded, err := json.Marshal(persistedUser{
		ID:        user.ID,
		Email:     user.Email,
		LastName:  user.LastName,
		FirstName: user.FirstName,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode user: %w", err)
	}
	if err := s.kv.Set(UserKey, string(encoded)); err != nil {
		return nil, fmt.Errorf("failed to persist user: %w", err)
	}

	if result.Token != "" {
		if err := s.kv.Set(TokenKey, result.Token); err != nil {
			return nil, fmt.Errorf("failed to persist token: %w", err)
		}
	} else if err := s.kv.Remove(TokenKey); err != nil {
		log.Printf("session: failed to remove stale token: %v", err)
	}

	s.user = &user
	s.token = result.Token
	return &user, nil
}

// Register creates an account. The visitor stays logged out.
func (s *Store) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	return s.auth.Register(ctx, req)
}

// Logout forgets the identity in memory and in storage
func (s *Store) Logout() {
	s.user = nil
	s.token = ""
	s.clear()
}

// IsAuthenticated reports whether a user is present
func (s *Store) IsAuthenticated() bool {
	return s.user != nil
}

// User returns the current identity, or nil. The returned value is a copy.
func (s *Store) User() *models.User {
	if s.user == nil {
		return nil
	}
	user := *s.user
	return &user
}

// Token returns the bearer token saved at login, if any
func (s *Store) Token() string {
	return s.token
}

// KV exposes the visitor's storage for other client-side state
func (s *Store) KV() storage.KV {
	return s.kv
}

func (s *Store) clear() {
	for _, key := range []string{UserKey, TokenKey} {
		if err := s.kv.Remove(key); err != nil {
			log.Printf("session: failed to remove %s: %v", key, err)
		}
	}
}

// persistedUser is the stored shape: {id, email, nom, prenom}
type persistedUser struct {
	ID        int    `json:"id"`
	Email     string `json:"email"`
	LastName  string `json:"nom"`
	FirstName string `json:"prenom"`
}
