// Package middle contains HTTP middleware shared across the automaton
// server's handlers.
package middle

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
)

type mwFunc http.HandlerFunc

func (sf mwFunc) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	sf(w, req)
}

// Middleware is a function that takes a handler and returns a new handler
// which wraps the given one and provides some additional functionality.
type Middleware func(next http.Handler) http.Handler

// ctxKey is a key in the context of a request populated by this package's
// middleware.
type ctxKey int

const (
	ctxRequestID ctxKey = iota
)

// RequestID returns the correlation ID assigned to req by WithRequestID, or
// the empty string if none was assigned.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxRequestID).(string)
	return id
}

// WithRequestID assigns a fresh uuid to every request and stores it in the
// request context, so handler and panic-recovery logging can correlate
// lines belonging to the same request.
func WithRequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return mwFunc(func(w http.ResponseWriter, req *http.Request) {
			id := uuid.New().String()
			w.Header().Set("X-Request-Id", id)
			ctx := context.WithValue(req.Context(), ctxRequestID, id)
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	}
}

// LogRequests returns a Middleware that logs the method, path, and duration
// of every request that passes through it.
func LogRequests() Middleware {
	return func(next http.Handler) http.Handler {
		return mwFunc(func(w http.ResponseWriter, req *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, req)
			log.Printf("%s [%s] %s %s (%s)", RequestID(req.Context()), req.RemoteAddr, req.Method, req.URL.Path, time.Since(start))
		})
	}
}

// DontPanic returns a Middleware that recovers any panic from the wrapped
// handler, logs it with a stack trace, and writes a generic HTTP-500
// response instead of crashing the server.
func DontPanic() Middleware {
	return func(next http.Handler) http.Handler {
		return mwFunc(func(w http.ResponseWriter, req *http.Request) {
			defer panicTo500(w, req)
			next.ServeHTTP(w, req)
		})
	}
}

func panicTo500(w http.ResponseWriter, req *http.Request) (panicked bool) {
	if panicVal := recover(); panicVal != nil {
		log.Printf("%s PANIC: %v\n%s", RequestID(req.Context()), panicVal, debug.Stack())
		http.Error(w, fmt.Sprintf("internal server error: %v", panicVal), http.StatusInternalServerError)
		return true
	}
	return false
}
