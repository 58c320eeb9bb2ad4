package server

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"lumo/internal/logger"
	"lumo/internal/storage"
	"lumo/internal/telemetry"
)

// Store is the storage surface the HTTP handlers use.
type Store interface {
	Health(ctx context.Context) error
	DB() *sql.DB
	Stats(ctx context.Context) (*storage.Stats, error)

	InsertMetrics(ctx context.Context, metrics []telemetry.Metric) (*storage.StoreResult, error)
	InsertEvents(ctx context.Context, events []telemetry.Event) (*storage.StoreResult, error)
	EventsBySession(ctx context.Context, sessionID string, limit int) ([]telemetry.Event, error)
	TokenUsageByModel(ctx context.Context) ([]telemetry.TokenUsageByModel, error)

	InsertNotification(ctx context.Context, n telemetry.NewNotification) (int64, error)
	FindUnnotified(ctx context.Context) ([]telemetry.Notification, error)
	MarkNotified(ctx context.Context, ids []int64) error
	FindRecentNotifications(ctx context.Context, limit, offset int) ([]telemetry.Notification, error)
	UnreadCount(ctx context.Context) (int64, error)
	MarkRead(ctx context.Context, id int64) (bool, error)
	MarkAllRead(ctx context.Context) (int64, error)

	FindSessions(ctx context.Context, limit, offset int) ([]telemetry.Session, error)
	FindSession(ctx context.Context, id string) (*telemetry.Session, error)
	FindSessionsByTimeRange(ctx context.Context, start, end int64) ([]telemetry.Session, error)
	CountSessions(ctx context.Context) (int64, error)
	SessionsSummary(ctx context.Context) (*telemetry.SessionsSummary, error)
}

// Config holds server configuration.
type Config struct {
	Address             string
	Version             string
	RetentionCfg        storage.CleanupConfig
	MaxConcurrentIngest int
	MaxConcurrentQuery  int
}

// New creates the HTTP server with the OTLP, hook, API and ops endpoints.
func New(cfg Config, store Store) *http.Server {
	return &http.Server{
		Addr:              cfg.Address,
		Handler:           NewHandler(cfg, store),
		IdleTimeout:       time.Minute,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
	}
}

// NewHandler builds the routed and middleware-wrapped handler.
func NewHandler(cfg Config, store Store) http.Handler {
	mux := http.NewServeMux()
	m := newServerMetrics()

	// Semaphores for backpressure
	ingestSem := NewSemaphore("ingest", cfg.MaxConcurrentIngest, m)
	querySem := NewSemaphore("query", cfg.MaxConcurrentQuery, m)

	// Ops
	mux.HandleFunc("/health", handleHealth(store, cfg.Version))
	mux.HandleFunc("/stats", handleStats(store, cfg.RetentionCfg))
	mux.Handle("/query", querySem.Middleware(handleQuery(store)))
	mux.Handle("/metrics", m.handler())

	// Ingest
	mux.Handle("/v1/metrics", ingestSem.Middleware(handleMetrics(store, m)))
	mux.Handle("/v1/logs", ingestSem.Middleware(handleLogs(store, m)))
	mux.Handle("/notify", ingestSem.Middleware(handleNotify(store)))

	// API
	api := newAPI(store)
	mux.Handle("/api/sessions", querySem.Middleware(api.listSessions()))
	mux.Handle("/api/sessions/summary", querySem.Middleware(api.sessionsSummary()))
	mux.Handle("/api/sessions/{id}", querySem.Middleware(api.getSession()))
	mux.Handle("/api/sessions/{id}/events", querySem.Middleware(api.sessionEvents()))
	mux.Handle("/api/notifications", querySem.Middleware(api.listNotifications()))
	mux.Handle("/api/notifications/unread", querySem.Middleware(api.unreadCount()))
	mux.Handle("/api/notifications/pending", api.claimPending())
	mux.Handle("/api/notifications/{id}/read", api.markRead())
	mux.Handle("/api/notifications/read-all", api.markAllRead())
	mux.Handle("/api/tokens/by-model", querySem.Middleware(api.tokensByModel()))

	// Middleware execution order (request path):
	// requestID -> recovery -> accessLog -> sizeLimit -> gzip -> handler
	return chain(mux,
		requestIDMiddleware(logger.WithComponent("server")),
		recoveryMiddleware,
		accessLogMiddleware(m),
		sizeLimitMiddleware,
		gzipMiddleware,
	)
}
