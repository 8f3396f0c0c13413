// Command migrate manages the storefront's PostgreSQL schema.
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	_ "github.com/lib/pq"
	"github.com/styleco/storefront/internal/infrastructure/config"
	"github.com/styleco/storefront/internal/infrastructure/logger"
	"github.com/styleco/storefront/internal/infrastructure/migration"
	"github.com/styleco/storefront/migrations"
	"go.uber.org/zap"
)

const usage = `StyleCo storefront migrations

Usage:
  migrate [flags] <command> [argument]

Commands:
  up                Apply all pending migrations
  down              Revert all migrations
  step <n>          Move n migrations, negative n reverts
  version           Print the schema version
  force <version>   Mark version as applied and clean
  create <name>     Scaffold an up/down file pair
  list              List known migrations

Flags:
  -path string       Read migrations from this directory instead of the built-in set
  -log-level string  debug, info, warn or error (default info)

The database is configured the same way as the server, through config.yaml
or STORE_DATABASE_* variables.`

// schemaCommand runs against a live database
type schemaCommand func(m *migration.Migrator, arg string) error

var schemaCommands = map[string]schemaCommand{
	"up":   func(m *migration.Migrator, _ string) error { return m.Up() },
	"down": func(m *migration.Migrator, _ string) error { return m.Down() },
	"step": func(m *migration.Migrator, arg string) error {
		n, err := strconv.Atoi(arg)
		if err != nil || n == 0 {
			return fmt.Errorf("step needs a non-zero count, got %q", arg)
		}
		return m.Steps(n)
	},
	"force": func(m *migration.Migrator, arg string) error {
		v, err := strconv.Atoi(arg)
		if err != nil || v < 0 {
			return fmt.Errorf("force needs a version, got %q", arg)
		}
		return m.Force(v)
	},
	"version": func(m *migration.Migrator, _ string) error {
		v, dirty, err := m.Version()
		if err != nil {
			return err
		}
		fmt.Printf("version %d", v)
		if dirty {
			fmt.Print(" (dirty)")
		}
		fmt.Println()
		return nil
	},
}

func main() {
	dir := flag.String("path", "", "")
	level := flag.String("log-level", "info", "")
	flag.Usage = func() { fmt.Fprintln(os.Stderr, usage) }
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}
	command, arg := flag.Arg(0), flag.Arg(1)

	log, err := logger.New(logger.Config{Level: *level, Format: "console"})
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	var source fs.FS = migrations.FS
	if *dir != "" {
		source = os.DirFS(*dir)
	}

	switch command {
	case "create":
		target := *dir
		if target == "" {
			target = cfg.Database.MigrationsPath
		}
		up, down, err := migration.NewFiles(target, arg)
		if err != nil {
			log.Fatal("Failed to create migration", zap.Error(err))
		}
		log.Info("Migration created", zap.String("up", up), zap.String("down", down))
		return
	case "list":
		names, err := migration.List(source)
		if err != nil {
			log.Fatal("Failed to list migrations", zap.Error(err))
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return
	}

	run, ok := schemaCommands[command]
	if !ok {
		log.Error("Unknown command", zap.String("command", command))
		flag.Usage()
		os.Exit(2)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to open database", zap.Error(err))
	}
	if err := db.Ping(); err != nil {
		log.Fatal("Database unreachable", zap.String("host", cfg.Database.Host), zap.Error(err))
	}

	m, err := migration.New(db, source, log)
	if err != nil {
		log.Fatal("Failed to create migrator", zap.Error(err))
	}
	defer func() { _ = m.Close() }()

	if err := run(m, arg); err != nil {
		log.Fatal("Migration failed", zap.String("command", command), zap.Error(err))
	}
}
