package telemetry

import (
	"context"
	"database/sql"

	"go.opentelemetry.io/otel/metric"
)

// PoolStatser reports connection pool statistics, false while no pool is open
type PoolStatser interface {
	PoolStats() (sql.DBStats, bool)
}

// RegisterPoolMetrics observes src on every collection:
//   - db_pool_connections{db.pool.state=idle|in_use}
//   - db_pool_connections_max
//   - db_pool_wait_total
//   - db_pool_wait_duration_seconds
//
// Nothing is reported until src has a pool. Unregister the returned registration on shutdown.
func RegisterPoolMetrics(meter metric.Meter, src PoolStatser) (metric.Registration, error) {
	conns, err := meter.Int64ObservableGauge("db_pool_connections",
		metric.WithDescription("Number of connections in the pool by state"),
		metric.WithUnit("{connection}"))
	if err != nil {
		return nil, err
	}
	maxConns, err := meter.Int64ObservableGauge("db_pool_connections_max",
		metric.WithDescription("Maximum number of open connections"),
		metric.WithUnit("{connection}"))
	if err != nil {
		return nil, err
	}
	waits, err := meter.Int64ObservableCounter("db_pool_wait_total",
		metric.WithDescription("Connections waited for because the pool was exhausted"),
		metric.WithUnit("{wait}"))
	if err != nil {
		return nil, err
	}
	waitTime, err := meter.Float64ObservableCounter("db_pool_wait_duration_seconds",
		metric.WithDescription("Total time blocked waiting for a connection"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}

	idle := metric.WithAttributes(AttrDBPoolState.String("idle"))
	inUse := metric.WithAttributes(AttrDBPoolState.String("in_use"))
	return meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		stats, ok := src.PoolStats()
		if !ok {
			return nil
		}
		o.ObserveInt64(conns, int64(stats.Idle), idle)
		o.ObserveInt64(conns, int64(stats.InUse), inUse)
		o.ObserveInt64(maxConns, int64(stats.MaxOpenConnections))
		o.ObserveInt64(waits, stats.WaitCount)
		o.ObserveFloat64(waitTime, stats.WaitDuration.Seconds())
		return nil
	}, conns, maxConns, waits, waitTime)
}
