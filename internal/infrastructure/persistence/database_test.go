package persistence

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openMemory(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	return db
}

func TestStore_Lifecycle(t *testing.T) {
	t.Run("new store is connecting and refuses connections", func(t *testing.T) {
		s := NewStore(zaptest.NewLogger(t))

		assert.Equal(t, StateConnecting, s.State())
		assert.False(t, s.Ready())

		db, err := s.Conn(context.Background())
		assert.Nil(t, db)
		assert.True(t, shared.HasCode(err, shared.CodeStoreNotReady))
		assert.True(t, shared.HasCode(s.Ping(context.Background()), shared.CodeStoreNotReady))
	})

	t.Run("attach makes store ready", func(t *testing.T) {
		s := NewStore(zaptest.NewLogger(t))
		require.NoError(t, s.Attach(openMemory(t)))

		assert.Equal(t, StateReady, s.State())
		db, err := s.Conn(context.Background())
		require.NoError(t, err)
		assert.NotNil(t, db)
		assert.NoError(t, s.Ping(context.Background()))
	})

	t.Run("close refuses further connections", func(t *testing.T) {
		s := NewStore(zaptest.NewLogger(t))
		require.NoError(t, s.Attach(openMemory(t)))
		require.NoError(t, s.Close())

		assert.Equal(t, StateClosed, s.State())
		_, err := s.Conn(context.Background())
		assert.ErrorIs(t, err, shared.ErrStoreNotReady)
	})

	t.Run("attach after close is rejected", func(t *testing.T) {
		s := NewStore(zaptest.NewLogger(t))
		require.NoError(t, s.Close())
		assert.ErrorIs(t, s.Attach(openMemory(t)), ErrStoreClosed)
		assert.False(t, s.Ready())
	})

	t.Run("close without connection is a no-op", func(t *testing.T) {
		s := NewStore(nil)
		assert.NoError(t, s.Close())
	})
}

func TestStore_PoolStats(t *testing.T) {
	s := NewStore(zaptest.NewLogger(t))
	_, ok := s.PoolStats()
	assert.False(t, ok)

	db := openMemory(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(3)
	require.NoError(t, s.Attach(db))

	stats, ok := s.PoolStats()
	require.True(t, ok)
	assert.Equal(t, 3, stats.MaxOpenConnections)

	require.NoError(t, s.Close())
	_, ok = s.PoolStats()
	assert.False(t, ok)
}

func TestStore_Connect(t *testing.T) {
	t.Run("retries until the opener succeeds", func(t *testing.T) {
		s := NewStore(zaptest.NewLogger(t))
		var calls atomic.Int32
		open := func(ctx context.Context) (*gorm.DB, error) {
			if calls.Add(1) < 3 {
				return nil, errors.New("connection refused")
			}
			return openMemory(t), nil
		}

		err := s.Connect(context.Background(), open, time.Millisecond)
		require.NoError(t, err)
		assert.Equal(t, int32(3), calls.Load())
		assert.True(t, s.Ready())
	})

	t.Run("stops when context is cancelled", func(t *testing.T) {
		s := NewStore(zaptest.NewLogger(t))
		ctx, cancel := context.WithCancel(context.Background())
		open := func(ctx context.Context) (*gorm.DB, error) {
			cancel()
			return nil, errors.New("connection refused")
		}

		err := s.Connect(ctx, open, time.Hour)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, StateConnecting, s.State())
	})
}

func TestOpen_SQLite(t *testing.T) {
	cfg := &config.DatabaseConfig{
		Driver:          config.DriverSQLite,
		Path:            ":memory:",
		ConnMaxLifetime: 60,
		ConnMaxIdleTime: 30,
		ConnectTimeout:  time.Second,
	}

	var hooked bool
	db, err := Open(context.Background(), cfg, WithHook(func(db *gorm.DB) error {
		hooked = true
		return nil
	}))
	require.NoError(t, err)
	assert.True(t, hooked)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
	require.NoError(t, sqlDB.Close())
}

func TestOpen_HookErrorAborts(t *testing.T) {
	cfg := &config.DatabaseConfig{Driver: config.DriverSQLite, Path: ":memory:"}
	_, err := Open(context.Background(), cfg, WithHook(func(db *gorm.DB) error {
		return errors.New("plugin failed")
	}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "plugin failed")
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(context.Background(), &config.DatabaseConfig{Driver: "mongodb"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "connecting", StateConnecting.String())
	assert.Equal(t, "ready", StateReady.String())
	assert.Equal(t, "closed", StateClosed.String())
	assert.Equal(t, "unknown", State(42).String())
}
