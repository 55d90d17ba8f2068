package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
	customizationapp "github.com/storefront/backend/internal/application/customization"
	identityapp "github.com/storefront/backend/internal/application/identity"
	reportapp "github.com/storefront/backend/internal/application/report"
	tradeapp "github.com/storefront/backend/internal/application/trade"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"github.com/storefront/backend/internal/infrastructure/storage"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"github.com/storefront/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting storefront backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loggerProvider, err := telemetry.NewLoggerProvider(ctx, cfg.Telemetry, version, log)
	if err != nil {
		log.Fatal("Failed to initialize log export", zap.Error(err))
	}
	log = loggerProvider.Bridge(log)

	tracerProvider, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, version, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, cfg.Telemetry, version, log)
	if err != nil {
		log.Fatal("Failed to initialize metrics", zap.Error(err))
	}

	// The store starts connecting; requests are refused by the readiness gate until it is ready.
	store := persistence.NewStore(log)
	connectDone := make(chan struct{})
	go func() {
		defer close(connectDone)
		err := store.Connect(ctx, databaseOpener(cfg, log, tracerProvider), cfg.Database.RetryInterval)
		if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, persistence.ErrStoreClosed) {
			log.Error("Database connection abandoned", zap.Error(err))
		}
	}()

	if meterProvider.IsEnabled() {
		poolMetrics, err := telemetry.RegisterPoolMetrics(meterProvider.Meter("storefront/db"), store)
		if err != nil {
			log.Fatal("Failed to register pool metrics", zap.Error(err))
		}
		defer func() { _ = poolMetrics.Unregister() }()
	}

	images, err := newImageStorage(ctx, &cfg.Storage, log)
	if err != nil {
		log.Fatal("Failed to initialize image storage", zap.Error(err))
	}

	// Repositories
	adminRepo := persistence.NewGormAdminRepository(store)
	productRepo := persistence.NewGormProductRepository(store)
	orderRepo := persistence.NewGormOrderRepository(store)
	logoRepo := persistence.NewGormLogoRepository(store)
	reportRepo := persistence.NewGormReportRepository(store)

	// Services
	authService := identityapp.NewAuthService(adminRepo, log)
	productService := catalogapp.NewProductService(productRepo, images, cfg.Storage.UploadTimeout, log)
	orderService := tradeapp.NewOrderService(orderRepo, log)
	logoService := customizationapp.NewLogoService(logoRepo, log)
	reportService := reportapp.NewReportService(reportRepo, nil, log)

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Invalid trusted proxies", zap.Error(err))
		}
	} else {
		_ = engine.SetTrustedProxies(nil)
	}

	// Middleware order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Tracing - Route spans (if enabled), so request logs carry trace ids
	// 3. Metrics - Request count and latency (if enabled), outside Recovery so panics count as 500
	// 4. Recovery - Catch panics
	// 5. Logger - Log requests
	// 6. Security - Add security headers
	// 7. CORS - Handle cross-origin requests
	// 8. BodyLimit - Limit request body size
	// 9. Readiness - Refuse requests until the store is connected
	engine.Use(middleware.RequestID())
	if tracerProvider.IsEnabled() {
		tracingCfg := middleware.DefaultTracingConfig()
		tracingCfg.ServiceName = cfg.Telemetry.ServiceName
		tracingCfg.TracerProvider = tracerProvider.Provider()
		engine.Use(middleware.TracingWithConfig(tracingCfg), middleware.SpanAnnotator())
	}
	if meterProvider.IsEnabled() {
		httpMetrics, err := middleware.HTTPMetrics(meterProvider.Meter("http.server"))
		if err != nil {
			log.Fatal("Failed to create HTTP metrics", zap.Error(err))
		}
		engine.Use(httpMetrics)
	}
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfigFromHTTP(&cfg.HTTP)))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	engine.Use(middleware.Readiness(store, "/health"))

	r := router.NewRouter(engine)
	router.RegisterStorefrontRoutes(r, router.Handlers{
		Health:  handler.NewHealthHandler(store),
		Auth:    handler.NewAuthHandler(authService),
		Product: handler.NewProductHandler(productService),
		Order:   handler.NewOrderHandler(orderService),
		Logo:    handler.NewLogoHandler(logoService),
		Report:  handler.NewReportHandler(reportService),
	})
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	stop()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	<-connectDone
	if err := store.Close(); err != nil {
		log.Error("Error closing database", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down tracer provider", zap.Error(err))
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down meter provider", zap.Error(err))
	}

	log.Info("Server exited gracefully")
	if err := loggerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down logger provider", zap.Error(err))
	}
}

// databaseOpener returns the function the store retries until a connection is established
func databaseOpener(cfg *config.Config, log *zap.Logger, tp *telemetry.TracerProvider) persistence.Opener {
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh),
		logger.WithFullSQL(cfg.Telemetry.DBLogFullSQL),
	)
	dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:         tp.IsEnabled() && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		DBName:          cfg.Database.DBName,
		TracerProvider:  tp.Provider(),
	}, log)

	return func(ctx context.Context) (*gorm.DB, error) {
		db, err := persistence.Open(ctx, &cfg.Database,
			persistence.WithGormLogger(gormLog),
			persistence.WithHook(dbTracing.Register),
		)
		if err != nil {
			return nil, err
		}
		if cfg.Database.Driver == config.DriverSQLite {
			// PostgreSQL schemas are owned by cmd/migrate
			if err := db.WithContext(ctx).AutoMigrate(models.AllModels()...); err != nil {
				if sqlDB, dbErr := db.DB(); dbErr == nil {
					_ = sqlDB.Close()
				}
				return nil, err
			}
		}
		return db, nil
	}
}

// newImageStorage selects S3-compatible storage when enabled, otherwise the stub
func newImageStorage(ctx context.Context, cfg *config.StorageConfig, log *zap.Logger) (catalogapp.ImageStorage, error) {
	if !cfg.Enabled {
		log.Warn("Object storage disabled, product images are not persisted")
		return storage.NewStubObjectStorage(cfg.PublicBaseURL), nil
	}

	s3Storage, err := storage.NewS3ObjectStorage(cfg, storage.WithLogger(log))
	if err != nil {
		return nil, err
	}

	ensureCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := s3Storage.EnsureBucket(ensureCtx); err != nil {
		return nil, err
	}

	log.Info("Object storage ready", zap.String("bucket", s3Storage.GetBucket()))
	return s3Storage, nil
}
