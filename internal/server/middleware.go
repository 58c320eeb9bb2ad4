package server

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/gzip"
	"github.com/rs/zerolog"
)

const maxRequestSize = 10 * 1024 * 1024 // 10MB

// requestIDKey is the context key for request ID.
type requestIDKey struct{}

// RequestID returns the request ID from context, or empty string if not set.
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}

// chain applies middleware in the order they execute (first to last).
// Given: chain(handler, A, B, C)
// Execution order: A -> B -> C -> handler -> C -> B -> A
func chain(h http.Handler, middlewares ...func(http.Handler) http.Handler) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

// requestIDMiddleware assigns a UUID to each request and attaches a logger
// carrying it, retrievable with zerolog.Ctx.
func requestIDMiddleware(base zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := uuid.New().String()
			w.Header().Set("X-Request-ID", id)

			l := base.With().Str("request_id", id).Logger()
			ctx := context.WithValue(r.Context(), requestIDKey{}, id)
			ctx = l.WithContext(ctx)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// recoveryMiddleware catches panics and returns 503.
func recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				zerolog.Ctx(r.Context()).Error().Interface("panic", err).Msg("panic recovered")
				w.WriteHeader(http.StatusServiceUnavailable)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	if s.status == 0 {
		s.status = code
	}
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	if s.status == 0 {
		s.status = http.StatusOK
	}
	return s.ResponseWriter.Write(b)
}

// accessLogMiddleware logs every request and records it in m. The route
// label is the matched mux pattern, which the mux sets on r in place.
func accessLogMiddleware(m *serverMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w}

			next.ServeHTTP(rec, r)

			status := rec.status
			if status == 0 {
				status = http.StatusOK
			}
			route := r.Pattern
			if route == "" {
				route = "unmatched"
			}
			elapsed := time.Since(start)
			m.observeRequest(r.Method, route, status, elapsed)

			zerolog.Ctx(r.Context()).Debug().
				Str("method", r.Method).
				Str("route", route).
				Int("status", status).
				Dur("duration", elapsed).
				Msg("request")
		})
	}
}

// sizeLimitMiddleware enforces max request body size.
func sizeLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestSize)
		next.ServeHTTP(w, r)
	})
}

// gzipMiddleware decompresses gzip-encoded request bodies.
// Rejects unsupported Content-Encoding values with 415.
// Removes Content-Encoding header after successful decompression.
func gzipMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		encoding := r.Header.Get("Content-Encoding")
		if encoding == "" || strings.EqualFold(encoding, "identity") {
			next.ServeHTTP(w, r)
			return
		}

		log := zerolog.Ctx(r.Context())
		if !strings.EqualFold(encoding, "gzip") {
			log.Warn().Str("encoding", encoding).Msg("unsupported Content-Encoding")
			w.WriteHeader(http.StatusUnsupportedMediaType)
			return
		}

		gz, err := gzip.NewReader(r.Body)
		if err != nil {
			log.Warn().Err(err).Msg("gzip decompression failed")
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer gz.Close()

		// Bound the inflated size too.
		r.Body = http.MaxBytesReader(w, io.NopCloser(gz), maxRequestSize)
		r.Header.Del("Content-Encoding")
		next.ServeHTTP(w, r)
	})
}
