// Command migrate applies the embedded PostgreSQL schema migrations.
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/migration"
	"github.com/storefront/backend/migrations"
	"go.uber.org/zap"
)

var errUsage = errors.New("invalid usage")

type command struct {
	args  string
	help  string
	nargs int
	run   func(m *migration.Migrator, log *zap.Logger, args []string) error
}

var commands = map[string]command{
	"up": {
		help: "Apply all pending migrations",
		run: func(m *migration.Migrator, _ *zap.Logger, _ []string) error {
			return m.Up()
		},
	},
	"down": {
		help: "Roll back all migrations",
		run: func(m *migration.Migrator, _ *zap.Logger, _ []string) error {
			return m.Down()
		},
	},
	"step": {
		args:  "<n>",
		help:  "Apply n migrations, negative n rolls back",
		nargs: 1,
		run: func(m *migration.Migrator, _ *zap.Logger, args []string) error {
			n, err := intArg(args[0])
			if err != nil {
				return err
			}
			return m.Steps(n)
		},
	},
	"version": {
		help: "Show the applied migration version",
		run: func(m *migration.Migrator, log *zap.Logger, _ []string) error {
			version, dirty, err := m.Version()
			if err != nil {
				return err
			}
			log.Info("Schema version", zap.Uint("version", version), zap.Bool("dirty", dirty))
			return nil
		},
	},
	"force": {
		args:  "<version>",
		help:  "Set the version without running migrations, clearing a dirty flag",
		nargs: 1,
		run: func(m *migration.Migrator, _ *zap.Logger, args []string) error {
			v, err := intArg(args[0])
			if err != nil {
				return err
			}
			return m.Force(v)
		},
	},
}

func main() {
	dir := flag.String("path", "", "Read migrations from this directory instead of the embedded set")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	flag.Usage = usage
	flag.Parse()

	log, err := logger.New(&logger.Config{
		Level:      *logLevel,
		Format:     "console",
		Output:     "stdout",
		TimeFormat: time.DateTime,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}

	err = run(log, *dir, flag.Args())
	_ = logger.Sync(log)
	if errors.Is(err, errUsage) {
		usage()
		os.Exit(2)
	}
	if err != nil {
		log.Error("Migration failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(log *zap.Logger, dir string, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	name, rest := args[0], args[1:]
	cmd, ok := commands[name]
	if !ok || len(rest) != cmd.nargs {
		return errUsage
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.Database.Driver != config.DriverPostgres {
		return fmt.Errorf("driver %q has no migrations, sqlite schemas are created at startup", cfg.Database.Driver)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("ping database: %w", err)
	}

	var m *migration.Migrator
	if dir != "" {
		m, err = migration.NewFromDir(db, dir, log)
	} else {
		m, err = migration.New(db, migrations.FS, log)
	}
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("create migrator: %w", err)
	}
	defer m.Close()

	log.Info("Running migration command", zap.String("command", name), zap.String("database", cfg.Database.DBName))
	return cmd.run(m, log, rest)
}

func intArg(raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", errUsage, raw)
	}
	return n, nil
}

func usage() {
	var b strings.Builder
	b.WriteString("Usage: migrate [flags] <command> [arguments]\n\nCommands:\n")
	for _, name := range []string{"up", "down", "step", "version", "force"} {
		cmd := commands[name]
		fmt.Fprintf(&b, "  %-18s %s\n", strings.TrimSpace(name+" "+cmd.args), cmd.help)
	}
	b.WriteString("\nFlags:\n")
	fmt.Fprint(os.Stderr, b.String())
	flag.PrintDefaults()
	fmt.Fprintln(os.Stderr, "\nThe database is read from config.toml and STOREFRONT_DATABASE_* variables.")
}
