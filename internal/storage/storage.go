// Package storage holds the visitor's client-side state: a narrow key-value
// store standing in for the browser's local storage.
package storage

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"sync"
	"time"
)

// ErrUnavailable is returned when the backing store cannot be reached
var ErrUnavailable = errors.New("storage unavailable")

// KV is a string key-value store scoped to one visitor
type KV interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Remove(key string) error
}

// Provider hands out the KV belonging to the visitor behind a request
type Provider interface {
	For(w http.ResponseWriter, r *http.Request) (KV, error)
}

// Memory is an in-process KV, used in tests and as a single-visitor store
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemory creates an empty in-memory store
func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

func (m *Memory) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.values[key]
	return value, ok, nil
}

func (m *Memory) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *Memory) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// Keys lists the stored keys in order
func (m *Memory) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.values))
	for k := range m.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// MemoryProvider keeps one Memory per visitor cookie. It does not survive a
// restart and is meant for development. Visitors idle for too long are
// dropped by PurgeStale.
type MemoryProvider struct {
	cookies  *CookieProvider
	mu       sync.Mutex
	visitors map[string]*memoryVisitor
	now      func() time.Time
}

type memoryVisitor struct {
	kv       *Memory
	lastSeen time.Time
}

// NewMemoryProvider creates a provider identifying visitors through cookies
func NewMemoryProvider(cookies *CookieProvider) *MemoryProvider {
	return &MemoryProvider{
		cookies:  cookies,
		visitors: make(map[string]*memoryVisitor),
		now:      time.Now,
	}
}

func (p *MemoryProvider) For(w http.ResponseWriter, r *http.Request) (KV, error) {
	visitorID, err := p.cookies.VisitorID(w, r)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	v, ok := p.visitors[visitorID]
	if !ok {
		v = &memoryVisitor{kv: NewMemory()}
		p.visitors[visitorID] = v
	}
	v.lastSeen = p.now()
	return v.kv, nil
}

// PurgeStale forgets visitors not seen for longer than maxAge
func (p *MemoryProvider) PurgeStale(ctx context.Context, maxAge time.Duration) (int64, error) {
	cutoff := p.now().Add(-maxAge)

	p.mu.Lock()
	defer p.mu.Unlock()
	var removed int64
	for id, v := range p.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(p.visitors, id)
			removed++
		}
	}
	return removed, ctx.Err()
}
