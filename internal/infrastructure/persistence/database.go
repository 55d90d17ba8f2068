package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/config"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// State is the lifecycle state of a Store
type State int32

const (
	StateConnecting State = iota
	StateReady
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateReady:
		return "ready"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// ErrStoreClosed is returned when attaching a connection to a closed Store
var ErrStoreClosed = errors.New("store is closed")

// Store is the handle every repository reads and writes through.
// It starts in StateConnecting and serves connections only once a database is attached.
type Store struct {
	db     atomic.Pointer[gorm.DB]
	state  atomic.Int32
	mu     sync.Mutex // serializes Attach and Close
	logger *zap.Logger
}

// NewStore creates a Store in the connecting state
func NewStore(logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{logger: logger.Named("store")}
	s.state.Store(int32(StateConnecting))
	return s
}

// NewReadyStore wraps an already opened database, mostly for tests and tools
func NewReadyStore(db *gorm.DB) *Store {
	s := NewStore(nil)
	_ = s.Attach(db)
	return s
}

// State returns the current lifecycle state
func (s *Store) State() State {
	return State(s.state.Load())
}

// Ready reports whether the Store can serve connections
func (s *Store) Ready() bool {
	return s.State() == StateReady
}

// Attach publishes an open database and moves the Store to ready.
// Attaching to a closed Store closes db and returns ErrStoreClosed.
func (s *Store) Attach(db *gorm.DB) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.State() == StateClosed {
		closeGorm(db)
		return ErrStoreClosed
	}
	s.db.Store(db)
	s.state.Store(int32(StateReady))
	return nil
}

// Conn returns the database bound to ctx, or a readiness error while not ready
func (s *Store) Conn(ctx context.Context) (*gorm.DB, error) {
	db := s.db.Load()
	if db == nil || !s.Ready() {
		return nil, shared.ErrStoreNotReady
	}
	return db.WithContext(ctx), nil
}

// Opener opens a database connection
type Opener func(ctx context.Context) (*gorm.DB, error)

// Connect calls open until it succeeds or ctx is done, then attaches the result.
// Failed attempts are logged and retried after retryInterval.
func (s *Store) Connect(ctx context.Context, open Opener, retryInterval time.Duration) error {
	for attempt := 1; ; attempt++ {
		db, err := open(ctx)
		if err == nil {
			if err := s.Attach(db); err != nil {
				return err
			}
			s.logger.Info("Database connection ready", zap.Int("attempt", attempt))
			return nil
		}

		s.logger.Warn("Database connection failed, retrying",
			zap.Int("attempt", attempt),
			zap.Duration("retry_in", retryInterval),
			zap.Error(err),
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retryInterval):
		}
		if s.State() == StateClosed {
			return ErrStoreClosed
		}
	}
}

// Ping checks if the database connection is alive
func (s *Store) Ping(ctx context.Context) error {
	db, err := s.Conn(ctx)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// PoolStats returns connection pool statistics, false while no database is attached
func (s *Store) PoolStats() (sql.DBStats, bool) {
	db := s.db.Load()
	if db == nil {
		return sql.DBStats{}, false
	}
	sqlDB, err := db.DB()
	if err != nil {
		return sql.DBStats{}, false
	}
	return sqlDB.Stats(), true
}

// Close moves the Store to closed and releases the connection pool
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Store(int32(StateClosed))
	db := s.db.Swap(nil)
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.Close()
}

// OpenOption configures Open
type OpenOption func(*openOptions)

type openOptions struct {
	logger gormlogger.Interface
	hooks  []func(*gorm.DB) error
}

// WithGormLogger sets the gorm logger
func WithGormLogger(l gormlogger.Interface) OpenOption {
	return func(o *openOptions) {
		o.logger = l
	}
}

// WithHook runs fn on the opened database before it is pinged, e.g. to register plugins
func WithHook(fn func(*gorm.DB) error) OpenOption {
	return func(o *openOptions) {
		o.hooks = append(o.hooks, fn)
	}
}

// Open opens and pings a database for the configured driver
func Open(ctx context.Context, cfg *config.DatabaseConfig, opts ...OpenOption) (*gorm.DB, error) {
	o := openOptions{logger: gormlogger.Default.LogMode(gormlogger.Silent)}
	for _, opt := range opts {
		opt(&o)
	}

	var dialector gorm.Dialector
	switch cfg.Driver {
	case config.DriverSQLite:
		dialector = sqlite.Open(cfg.Path)
	case config.DriverPostgres, "":
		dialector = postgres.Open(cfg.DSN())
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 o.logger,
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if cfg.Driver == config.DriverSQLite {
		// sqlite allows a single writer
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)
	sqlDB.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTime) * time.Minute)

	for _, hook := range o.hooks {
		if err := hook(db); err != nil {
			_ = sqlDB.Close()
			return nil, err
		}
	}

	pingCtx := ctx
	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

func closeGorm(db *gorm.DB) {
	if db == nil {
		return
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
