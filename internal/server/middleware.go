package server

import (
	"context"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/matzehuels/classdiagram/pkg/observability"
)

// RequestIDHeader carries the request ID in both directions.
const RequestIDHeader = "X-Request-ID"

type ctxKey int

const requestIDKey ctxKey = 0

// requestID assigns each request a UUID, reusing an inbound X-Request-ID
// when it parses as one.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		ctx := context.WithValue(r.Context(), requestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequestIDFromContext returns the ID assigned by the request-ID middleware.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// responseWriter records the status and body size.
type responseWriter struct {
	http.ResponseWriter
	status  int
	length  int
	written bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.written {
		rw.written = true
		rw.status = code
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(p []byte) (int, error) {
	if !rw.written {
		rw.written = true
		rw.status = http.StatusOK
	}
	n, err := rw.ResponseWriter.Write(p)
	rw.length += n
	return n, err
}

func (rw *responseWriter) Unwrap() http.ResponseWriter { return rw.ResponseWriter }

// accessLog logs one line per request, recovers panics and fires the HTTP
// hooks. The route is the matched chi pattern so hook cardinality stays
// bounded.
func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rw := &responseWriter{ResponseWriter: w}
		start := time.Now()
		hooks := observability.HTTP()

		defer func() {
			if rec := recover(); rec != nil {
				s.log.Error("caught panic", "panic", rec, "stack", string(debug.Stack()))
				if !rw.written {
					writeError(rw, r, errInternal)
				}
			}

			route := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}
			dur := time.Since(start)
			hooks.OnResponse(r.Context(), r.Method, route, rw.status, dur)

			kv := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", rw.status,
				"bytes", rw.length,
				"duration", dur.Round(time.Microsecond),
				"request_id", RequestIDFromContext(r.Context()),
			}
			switch {
			case rw.status >= 500:
				s.log.Error("request", kv...)
			case rw.status >= 400:
				s.log.Warn("request", kv...)
			default:
				s.log.Info("request", kv...)
			}
		}()

		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)
		next.ServeHTTP(rw, r)
	})
}
