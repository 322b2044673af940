package storage

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping Postgres storage tests")
	}

	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS client_storage (
		visitor_id UUID NOT NULL,
		key VARCHAR(64) NOT NULL,
		value TEXT NOT NULL,
		updated_at TIMESTAMP NOT NULL DEFAULT NOW(),
		PRIMARY KEY (visitor_id, key)
	)`)
	require.NoError(t, err)
	return db
}

func TestPostgresKV(t *testing.T) {
	db := openTestDB(t)
	provider := NewPostgresProvider(db, NewCookieProvider(newCookieStore()))
	ctx := context.Background()

	kv := provider.ForVisitor(ctx, uuid.NewString())

	_, ok, err := kv.Get("user")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, kv.Set("user", `{"id":7}`))
	require.NoError(t, kv.Set("user", `{"id":8}`))

	value, ok, err := kv.Get("user")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"id":8}`, value)

	require.NoError(t, kv.Remove("user"))
	_, ok, err = kv.Get("user")
	require.NoError(t, err)
	assert.False(t, ok)

	other := provider.ForVisitor(ctx, uuid.NewString())
	require.NoError(t, other.Set("token", "tok"))
	_, err = provider.PurgeStale(ctx, time.Hour)
	require.NoError(t, err)
	_, ok, _ = other.Get("token")
	assert.True(t, ok, "fresh rows survive a purge")
}
