package server

import (
	"net/http"

	"github.com/rs/zerolog"
)

// Semaphore bounds the number of requests a handler group serves at once.
// Requests over the limit are refused with 503 instead of queueing.
type Semaphore struct {
	name    string
	slots   chan struct{}
	metrics *serverMetrics
}

func NewSemaphore(name string, limit int, m *serverMetrics) *Semaphore {
	if limit < 1 {
		limit = 1
	}
	return &Semaphore{name: name, slots: make(chan struct{}, limit), metrics: m}
}

func (s *Semaphore) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case s.slots <- struct{}{}:
			defer func() { <-s.slots }()
			next.ServeHTTP(w, r)
		default:
			zerolog.Ctx(r.Context()).Warn().Str("pool", s.name).Msg("concurrency limit reached")
			s.metrics.semaphoreFull.WithLabelValues(s.name).Inc()
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusServiceUnavailable)
		}
	})
}
