package middleware

import (
	"context"
	"log"
	"net"
	"net/http"
	"time"

	"olympics-storefront/internal/session"

	"github.com/google/uuid"
)

// RequestIDHeader carries the request id in and out
const RequestIDHeader = "X-Request-ID"

const (
	requestIDKey contextKey = "request_id"
	logEntryKey  contextKey = "log_entry"
)

// logEntry is filled in by inner middleware while the request is served
type logEntry struct {
	session *session.Store
}

// visitor reads the session after the handler ran, so a login or logout
// during the request is reflected.
func (e *logEntry) visitor() string {
	if e.session != nil {
		if user := e.session.User(); user != nil {
			return user.Email
		}
	}
	return "anonymous"
}

func logEntryFromContext(ctx context.Context) *logEntry {
	entry, _ := ctx.Value(logEntryKey).(*logEntry)
	return entry
}

// RequestIDMiddleware tags each request with an id, reusing the caller's when
// it sends one, and echoes it in the response.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" || len(requestID) > 64 {
			requestID = uuid.NewString()
		}

		w.Header().Set(RequestIDHeader, requestID)
		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID returns the id set by RequestIDMiddleware, or ""
func GetRequestID(ctx context.Context) string {
	requestID, _ := ctx.Value(requestIDKey).(string)
	return requestID
}

// LoggingMiddleware logs one line per request once it has been served
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		entry := &logEntry{}
		next.ServeHTTP(wrapped, r.WithContext(context.WithValue(r.Context(), logEntryKey, entry)))

		log.Printf(
			"[%s] %s %s %d %d bytes %v - %s - %s",
			GetRequestID(r.Context()),
			r.Method,
			r.URL.Path,
			wrapped.statusCode,
			wrapped.size,
			time.Since(start),
			entry.visitor(),
			getClientIP(r),
		)
	})
}

// responseWriter captures the status code and body size
type responseWriter struct {
	http.ResponseWriter
	statusCode  int
	size        int
	wroteHeader bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.statusCode = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	size, err := rw.ResponseWriter.Write(b)
	rw.size += size
	return size, err
}

// getClientIP returns the peer address without its port. Forwarding headers
// are only honoured through chi's RealIP, which rewrites RemoteAddr.
func getClientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
