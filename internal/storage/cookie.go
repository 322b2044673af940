package storage

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

const (
	// SessionName is the cookie carrying the visitor's state
	SessionName = "billetterie"

	valuePrefix = "kv:"
	visitorKey  = "visitor_id"
)

// CookieProvider keeps each visitor's KV inside their encrypted session cookie
type CookieProvider struct {
	store sessions.Store
}

// NewCookieProvider creates a provider backed by a gorilla session store
func NewCookieProvider(store sessions.Store) *CookieProvider {
	return &CookieProvider{store: store}
}

func (p *CookieProvider) session(r *http.Request) (*sessions.Session, error) {
	session, err := p.store.Get(r, SessionName)
	if err != nil && session == nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	// A cookie that fails to decode (rotated secret, tampering) yields a fresh
	// session alongside the error; treat it as empty storage.
	return session, nil
}

func (p *CookieProvider) For(w http.ResponseWriter, r *http.Request) (KV, error) {
	session, err := p.session(r)
	if err != nil {
		return nil, err
	}
	return &CookieKV{session: session, w: w, r: r}, nil
}

// VisitorID returns a stable random identifier for the visitor, minting one
// on first sight.
func (p *CookieProvider) VisitorID(w http.ResponseWriter, r *http.Request) (string, error) {
	session, err := p.session(r)
	if err != nil {
		return "", err
	}

	if id, ok := session.Values[visitorKey].(string); ok && id != "" {
		return id, nil
	}

	id := uuid.NewString()
	session.Values[visitorKey] = id
	if err := session.Save(r, w); err != nil {
		return "", fmt.Errorf("failed to save visitor id: %w", err)
	}
	return id, nil
}

// CookieKV is a KV view over one visitor's session. Writes are saved
// immediately so they must happen before the response body is written.
type CookieKV struct {
	session *sessions.Session
	w       http.ResponseWriter
	r       *http.Request
}

func (c *CookieKV) Get(key string) (string, bool, error) {
	value, ok := c.session.Values[valuePrefix+key].(string)
	return value, ok, nil
}

func (c *CookieKV) Set(key, value string) error {
	c.session.Values[valuePrefix+key] = value
	return c.save()
}

func (c *CookieKV) Remove(key string) error {
	if _, ok := c.session.Values[valuePrefix+key]; !ok {
		return nil
	}
	delete(c.session.Values, valuePrefix+key)
	return c.save()
}

func (c *CookieKV) save() error {
	if err := c.session.Save(c.r, c.w); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}
