package middleware

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"
)

// LoginRateLimiter limits login attempts per client address over a sliding window
type LoginRateLimiter struct {
	attempts    map[string][]time.Time
	mutex       sync.Mutex
	maxAttempts int
	window      time.Duration
	now         func() time.Time
}

// NewLoginRateLimiter creates a limiter allowing maxAttempts per window
func NewLoginRateLimiter(maxAttempts int, window time.Duration) *LoginRateLimiter {
	return &LoginRateLimiter{
		attempts:    make(map[string][]time.Time),
		maxAttempts: maxAttempts,
		window:      window,
		now:         time.Now,
	}
}

// recent drops attempts older than the window. Callers hold the mutex.
func (rl *LoginRateLimiter) recent(ip string, now time.Time) []time.Time {
	cutoff := now.Add(-rl.window)
	attempts := rl.attempts[ip]

	kept := attempts[:0]
	for _, attempt := range attempts {
		if attempt.After(cutoff) {
			kept = append(kept, attempt)
		}
	}

	if len(kept) == 0 {
		delete(rl.attempts, ip)
		return nil
	}
	rl.attempts[ip] = kept
	return kept
}

// Allow records an attempt from ip if it is under the limit. Otherwise it
// returns false and how long until the next attempt is allowed.
func (rl *LoginRateLimiter) Allow(ip string) (bool, time.Duration) {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := rl.now()
	attempts := rl.recent(ip, now)
	if len(attempts) >= rl.maxAttempts {
		return false, attempts[0].Add(rl.window).Sub(now)
	}

	rl.attempts[ip] = append(attempts, now)
	return true, 0
}

// Cleanup prunes expired entries every interval until ctx ends
func (rl *LoginRateLimiter) Cleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.mutex.Lock()
			now := rl.now()
			for ip := range rl.attempts {
				rl.recent(ip, now)
			}
			rl.mutex.Unlock()
		}
	}
}

// LoginRateLimit applies the limiter to POST requests
func LoginRateLimit(rateLimiter *LoginRateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				next.ServeHTTP(w, r)
				return
			}

			allowed, wait := rateLimiter.Allow(getClientIP(r))
			if !allowed {
				seconds := int(wait.Round(time.Second).Seconds())
				if seconds < 1 {
					seconds = 1
				}
				w.Header().Set("Retry-After", fmt.Sprint(seconds))
				http.Error(w, fmt.Sprintf("Trop de tentatives de connexion. Réessayez dans %d secondes.", seconds), http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
