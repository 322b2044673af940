package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// PostgresProvider keeps visitor state server-side, keyed by the visitor id
// held in the session cookie. Only the id travels in the cookie.
type PostgresProvider struct {
	db      *sql.DB
	cookies *CookieProvider
	timeout time.Duration
}

// NewPostgresProvider creates a provider over the client_storage table
func NewPostgresProvider(db *sql.DB, cookies *CookieProvider) *PostgresProvider {
	return &PostgresProvider{db: db, cookies: cookies, timeout: 5 * time.Second}
}

func (p *PostgresProvider) For(w http.ResponseWriter, r *http.Request) (KV, error) {
	visitorID, err := p.cookies.VisitorID(w, r)
	if err != nil {
		return nil, err
	}
	return p.ForVisitor(r.Context(), visitorID), nil
}

// ForVisitor returns the KV of a known visitor
func (p *PostgresProvider) ForVisitor(ctx context.Context, visitorID string) *PostgresKV {
	return &PostgresKV{db: p.db, ctx: ctx, visitorID: visitorID, timeout: p.timeout}
}

// PurgeStale deletes entries untouched for longer than maxAge
func (p *PostgresProvider) PurgeStale(ctx context.Context, maxAge time.Duration) (int64, error) {
	result, err := p.db.ExecContext(ctx,
		`DELETE FROM client_storage WHERE updated_at < $1`, time.Now().Add(-maxAge))
	if err != nil {
		return 0, fmt.Errorf("failed to purge client storage: %w", err)
	}
	return result.RowsAffected()
}

// PostgresKV is one visitor's rows in client_storage
type PostgresKV struct {
	db        *sql.DB
	ctx       context.Context
	visitorID string
	timeout   time.Duration
}

func (s *PostgresKV) withTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(s.ctx, s.timeout)
}

func (s *PostgresKV) Get(key string) (string, bool, error) {
	ctx, cancel := s.withTimeout()
	defer cancel()

	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM client_storage WHERE visitor_id = $1 AND key = $2`,
		s.visitorID, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%w: get %s: %v", ErrUnavailable, key, err)
	}
	return value, true, nil
}

func (s *PostgresKV) Set(key, value string) error {
	ctx, cancel := s.withTimeout()
	defer cancel()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO client_storage (visitor_id, key, value, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (visitor_id, key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`,
		s.visitorID, key, value)
	if err != nil {
		return fmt.Errorf("%w: set %s: %v", ErrUnavailable, key, err)
	}
	return nil
}

func (s *PostgresKV) Remove(key string) error {
	ctx, cancel := s.withTimeout()
	defer cancel()

	_, err := s.db.ExecContext(ctx,
		`DELETE FROM client_storage WHERE visitor_id = $1 AND key = $2`,
		s.visitorID, key)
	if err != nil {
		return fmt.Errorf("%w: remove %s: %v", ErrUnavailable, key, err)
	}
	return nil
}
