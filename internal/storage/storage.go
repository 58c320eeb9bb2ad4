package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/marcboeker/go-duckdb"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"

	"lumo/internal/logger"
)

// Driver selects the database engine behind Storage.
type Driver string

const (
	DriverSQLite Driver = "sqlite"
	DriverDuckDB Driver = "duckdb"
)

// ErrNotFound is returned by lookups that match no row.
var ErrNotFound = errors.New("not found")

// Options configures Open.
type Options struct {
	Driver Driver
	// Path is the database file. Empty means an in-memory database.
	Path string
}

// Storage provides database operations.
type Storage struct {
	db     *sql.DB
	driver Driver
	path   string
	log    zerolog.Logger

	cleanupRunning chan struct{}
	mu             sync.Mutex
	lastCleanup    *CleanupResult
}

// Open connects to the database selected by opts, creating the parent
// directory and the schema when needed.
func Open(ctx context.Context, opts Options) (*Storage, error) {
	if opts.Driver == "" {
		opts.Driver = DriverSQLite
	}

	if opts.Path != "" {
		if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	var (
		db  *sql.DB
		err error
	)
	switch opts.Driver {
	case DriverSQLite:
		db, err = sql.Open("sqlite3", sqliteDSN(opts.Path))
		if err == nil && opts.Path == "" {
			// Every connection to :memory: is a separate database.
			db.SetMaxOpenConns(1)
		}
	case DriverDuckDB:
		db, err = sql.Open("duckdb", opts.Path)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", opts.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", opts.Driver, err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping %s: %w", opts.Driver, err)
	}

	s := &Storage{
		db:             db,
		driver:         opts.Driver,
		path:           opts.Path,
		log:            logger.WithComponent("storage"),
		cleanupRunning: make(chan struct{}, 1),
	}

	if err := s.initSchema(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	s.log.Info().Str("driver", string(opts.Driver)).Str("path", opts.Path).Msg("storage ready")
	return s, nil
}

// sqliteDSN enables WAL with NORMAL sync and a 30s busy timeout so the
// ingest path and readers can share the file.
func sqliteDSN(path string) string {
	if path == "" {
		return "file::memory:?_foreign_keys=on"
	}
	return fmt.Sprintf("file:%s?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=30000&_foreign_keys=on", path)
}

func (s *Storage) initSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements(s.driver) {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// Health checks if the database connection is healthy.
func (s *Storage) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *Storage) Close() error {
	return s.db.Close()
}

// DB returns the underlying sql.DB for direct queries.
func (s *Storage) DB() *sql.DB {
	return s.db
}

func (s *Storage) Driver() Driver {
	return s.driver
}

func (s *Storage) Path() string {
	return s.path
}
