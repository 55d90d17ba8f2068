package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"STOREFRONT_APP_NAME",
	"STOREFRONT_APP_ENV",
	"STOREFRONT_APP_PORT",
	"STOREFRONT_DATABASE_DRIVER",
	"STOREFRONT_DATABASE_HOST",
	"STOREFRONT_DATABASE_PORT",
	"STOREFRONT_DATABASE_USER",
	"STOREFRONT_DATABASE_PASSWORD",
	"STOREFRONT_DATABASE_DBNAME",
	"STOREFRONT_DATABASE_SSLMODE",
	"STOREFRONT_DATABASE_PATH",
	"STOREFRONT_DATABASE_MAX_OPEN_CONNS",
	"STOREFRONT_DATABASE_MAX_IDLE_CONNS",
	"STOREFRONT_STORAGE_ENABLED",
	"STOREFRONT_STORAGE_BUCKET",
	"STOREFRONT_STORAGE_ACCESS_KEY",
	"STOREFRONT_STORAGE_SECRET_KEY",
	"STOREFRONT_STORAGE_UPLOAD_TIMEOUT",
	"STOREFRONT_HTTP_CORS_ALLOW_ORIGINS",
	"STOREFRONT_TELEMETRY_SAMPLING_RATIO",
	"STOREFRONT_TELEMETRY_ENABLED",
	"STOREFRONT_TELEMETRY_METRICS_INTERVAL",
}

// withCleanEnv clears every config env var for the test and restores them afterwards
func withCleanEnv(t *testing.T) {
	t.Helper()
	saved := make(map[string]string, len(envKeys))
	for _, k := range envKeys {
		saved[k] = os.Getenv(k)
		os.Unsetenv(k)
	}
	t.Cleanup(func() {
		for k, v := range saved {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	})
}

func TestLoad(t *testing.T) {
	t.Run("loads default values when env vars not set", func(t *testing.T) {
		withCleanEnv(t)

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "storefront-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, DriverPostgres, cfg.Database.Driver)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "storefront", cfg.Database.DBName)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 5, cfg.Database.MaxIdleConns)
		assert.False(t, cfg.Storage.Enabled)
		assert.Equal(t, 30*time.Second, cfg.Storage.UploadTimeout)
		assert.Equal(t, 5*time.Second, cfg.Database.RetryInterval)
		assert.Equal(t, "us-east-1", cfg.Storage.Region)
		assert.Empty(t, cfg.HTTP.CORSAllowOrigins)
		assert.Equal(t, "storefront-backend", cfg.Telemetry.ServiceName)
		assert.False(t, cfg.Telemetry.Enabled)
		assert.Equal(t, time.Minute, cfg.Telemetry.MetricsInterval)
		assert.False(t, cfg.Telemetry.ExportLogs)
	})

	t.Run("loads values from environment variables with STOREFRONT prefix", func(t *testing.T) {
		withCleanEnv(t)
		os.Setenv("STOREFRONT_APP_NAME", "shop")
		os.Setenv("STOREFRONT_APP_PORT", "9000")
		os.Setenv("STOREFRONT_DATABASE_DRIVER", "sqlite")
		os.Setenv("STOREFRONT_DATABASE_PATH", "/tmp/shop.db")
		os.Setenv("STOREFRONT_DATABASE_MAX_OPEN_CONNS", "50")
		os.Setenv("STOREFRONT_DATABASE_MAX_IDLE_CONNS", "10")
		os.Setenv("STOREFRONT_STORAGE_ENABLED", "true")
		os.Setenv("STOREFRONT_STORAGE_BUCKET", "images")
		os.Setenv("STOREFRONT_STORAGE_UPLOAD_TIMEOUT", "5s")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "shop", cfg.App.Name)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, DriverSQLite, cfg.Database.Driver)
		assert.Equal(t, "/tmp/shop.db", cfg.Database.Path)
		assert.Equal(t, 50, cfg.Database.MaxOpenConns)
		assert.Equal(t, 10, cfg.Database.MaxIdleConns)
		assert.True(t, cfg.Storage.Enabled)
		assert.Equal(t, "images", cfg.Storage.Bucket)
		assert.Equal(t, 5*time.Second, cfg.Storage.UploadTimeout)
	})

	t.Run("rejects unknown database driver", func(t *testing.T) {
		withCleanEnv(t)
		os.Setenv("STOREFRONT_DATABASE_DRIVER", "mongodb")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.driver")
	})

	t.Run("rejects idle conns above open conns", func(t *testing.T) {
		withCleanEnv(t)
		os.Setenv("STOREFRONT_DATABASE_MAX_OPEN_CONNS", "5")
		os.Setenv("STOREFRONT_DATABASE_MAX_IDLE_CONNS", "10")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns")
	})

	t.Run("requires bucket when storage is enabled", func(t *testing.T) {
		withCleanEnv(t)
		os.Setenv("STOREFRONT_STORAGE_ENABLED", "true")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "storage.bucket")
	})

	t.Run("rejects sampling ratio out of range", func(t *testing.T) {
		withCleanEnv(t)
		os.Setenv("STOREFRONT_TELEMETRY_SAMPLING_RATIO", "1.5")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sampling_ratio")
	})

	t.Run("rejects zero metrics interval with telemetry on", func(t *testing.T) {
		withCleanEnv(t)
		os.Setenv("STOREFRONT_TELEMETRY_ENABLED", "true")
		os.Setenv("STOREFRONT_TELEMETRY_METRICS_INTERVAL", "0s")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "metrics_interval")
	})
}

func TestLoad_ConfigFile(t *testing.T) {
	withCleanEnv(t)
	dir := t.TempDir()
	toml := `
[app]
name = "shop-admin"

[database]
driver = "sqlite"
path = "/var/lib/shop.db"

[http]
cors_allow_origins = ["https://admin.shop.example"]
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(toml), 0o600))
	t.Chdir(dir)

	t.Run("file values override defaults", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "shop-admin", cfg.App.Name)
		assert.Equal(t, "shop-admin", cfg.Telemetry.ServiceName)
		assert.Equal(t, DriverSQLite, cfg.Database.Driver)
		assert.Equal(t, "/var/lib/shop.db", cfg.Database.Path)
		assert.Equal(t, []string{"https://admin.shop.example"}, cfg.HTTP.CORSAllowOrigins)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	})

	t.Run("environment overrides file", func(t *testing.T) {
		os.Setenv("STOREFRONT_APP_NAME", "from-env")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "from-env", cfg.App.Name)
	})
}

func TestLoad_ProductionValidation(t *testing.T) {
	setProduction := func() {
		os.Setenv("STOREFRONT_APP_ENV", "production")
		os.Setenv("STOREFRONT_DATABASE_PASSWORD", "secret")
		os.Setenv("STOREFRONT_DATABASE_SSLMODE", "require")
	}

	t.Run("accepts a complete production config", func(t *testing.T) {
		withCleanEnv(t)
		setProduction()

		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.App.IsProduction())
	})

	t.Run("requires database password", func(t *testing.T) {
		withCleanEnv(t)
		setProduction()
		os.Unsetenv("STOREFRONT_DATABASE_PASSWORD")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.password")
	})

	t.Run("rejects disabled sslmode", func(t *testing.T) {
		withCleanEnv(t)
		setProduction()
		os.Setenv("STOREFRONT_DATABASE_SSLMODE", "disable")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sslmode")
	})

	t.Run("rejects sqlite driver", func(t *testing.T) {
		withCleanEnv(t)
		setProduction()
		os.Setenv("STOREFRONT_DATABASE_DRIVER", "sqlite")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sqlite")
	})

	t.Run("requires storage credentials when storage is enabled", func(t *testing.T) {
		withCleanEnv(t)
		setProduction()
		os.Setenv("STOREFRONT_STORAGE_ENABLED", "true")
		os.Setenv("STOREFRONT_STORAGE_BUCKET", "images")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "storage.access_key")
	})

	t.Run("rejects wildcard CORS origin", func(t *testing.T) {
		withCleanEnv(t)
		setProduction()
		os.Setenv("STOREFRONT_HTTP_CORS_ALLOW_ORIGINS", "*")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cors_allow_origins")
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Run("builds postgres url", func(t *testing.T) {
		d := DatabaseConfig{Host: "db", Port: 5432, User: "shop", Password: "pw", DBName: "storefront", SSLMode: "disable"}
		assert.Equal(t, "postgres://shop:pw@db:5432/storefront?sslmode=disable", d.DSN())
	})

	t.Run("escapes special characters in password", func(t *testing.T) {
		d := DatabaseConfig{Host: "db", Port: 5432, User: "shop", Password: "p@ss/word", DBName: "storefront", SSLMode: "require"}
		assert.Contains(t, d.DSN(), "p%40ss%2Fword")
	})
}
