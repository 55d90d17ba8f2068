package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type tracedRow struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"size:100"`
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&tracedRow{}))
	return db
}

func setupRecorder(t *testing.T) (*sdktrace.TracerProvider, *tracetest.SpanRecorder) {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return tp, recorder
}

func attrMap(span sdktrace.ReadOnlySpan) map[string]any {
	attrs := map[string]any{}
	for _, kv := range span.Attributes() {
		attrs[string(kv.Key)] = kv.Value.AsInterface()
	}
	return attrs
}

func TestNewDBTracingPlugin_DefaultThreshold(t *testing.T) {
	p := NewDBTracingPlugin(DBTracingConfig{Enabled: true}, zap.NewNop())
	assert.Equal(t, 200*time.Millisecond, p.config.SlowQueryThresh)
}

func TestDBTracingPlugin_Register_Disabled(t *testing.T) {
	db := setupTestDB(t)
	_, recorder := setupRecorder(t)

	p := NewDBTracingPlugin(DBTracingConfig{Enabled: false}, zap.NewNop())
	require.NoError(t, p.Register(db))

	require.NoError(t, db.Create(&tracedRow{Name: "a"}).Error)
	assert.Empty(t, recorder.Ended())
}

func TestDBTracingPlugin_Register_RecordsQuerySpans(t *testing.T) {
	db := setupTestDB(t)
	tp, recorder := setupRecorder(t)

	p := NewDBTracingPlugin(DBTracingConfig{
		Enabled:        true,
		DBName:         "storefront",
		TracerProvider: tp,
	}, zap.NewNop())
	require.NoError(t, p.Register(db))

	require.NoError(t, db.WithContext(context.Background()).Create(&tracedRow{Name: "a"}).Error)
	var rows []tracedRow
	require.NoError(t, db.WithContext(context.Background()).Find(&rows).Error)

	assert.GreaterOrEqual(t, len(recorder.Ended()), 2)
}

func TestDBTracingPlugin_AnnotatesParentSpan(t *testing.T) {
	db := setupTestDB(t)
	tp, recorder := setupRecorder(t)

	p := NewDBTracingPlugin(DBTracingConfig{Enabled: true, SlowQueryThresh: time.Nanosecond}, zap.NewNop())
	require.NoError(t, p.registerCallbacks(db))

	ctx, span := tp.Tracer("test").Start(context.Background(), "create-row")
	require.NoError(t, db.WithContext(ctx).Create(&tracedRow{Name: "a"}).Error)
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	attrs := attrMap(spans[0])
	assert.Equal(t, int64(1), attrs["db.rows_affected"])
	assert.Equal(t, "traced_rows", attrs["db.sql.table"])
	assert.Equal(t, true, attrs["db.slow_query"])
}

func TestDBTracingPlugin_MarksErrors(t *testing.T) {
	db := setupTestDB(t)
	tp, recorder := setupRecorder(t)

	p := NewDBTracingPlugin(DBTracingConfig{Enabled: true, SlowQueryThresh: time.Hour}, zap.NewNop())
	require.NoError(t, p.registerCallbacks(db))

	ctx, span := tp.Tracer("test").Start(context.Background(), "missing-table")
	err := db.WithContext(ctx).Table("no_such_table").Find(&[]tracedRow{}).Error
	require.Error(t, err)
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.NotContains(t, attrMap(spans[0]), "db.slow_query")
}

func TestDBTracingPlugin_RecordNotFoundIsNotAnError(t *testing.T) {
	db := setupTestDB(t)
	tp, recorder := setupRecorder(t)

	p := NewDBTracingPlugin(DBTracingConfig{Enabled: true}, zap.NewNop())
	require.NoError(t, p.registerCallbacks(db))

	ctx, span := tp.Tracer("test").Start(context.Background(), "first-row")
	err := db.WithContext(ctx).First(&tracedRow{}).Error
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.NotEqual(t, codes.Error, spans[0].Status().Code)
}
