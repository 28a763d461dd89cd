// Command migrate applies the review audit schema. The target database is
// resolved the same way the bursar CLI resolves it: an explicit -dsn wins,
// then BURSAR_DB_DSN, then the database section of config.yaml with its
// environment overrides.
package main

import (
	"database/sql"
	"embed"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/mwhitfield/bursar/internal/config"
)

//go:embed migrations/*.sql
var migrations embed.FS

const envDSN = "BURSAR_DB_DSN"

type options struct {
	dsn      string
	cfgFile  string
	up       bool
	down     bool
	steps    int
	version  bool
	force    int
	forceSet bool
}

func main() {
	var opts options
	flag.StringVar(&opts.dsn, "dsn", "", "PostgreSQL URL; overrides the config lookup")
	flag.StringVar(&opts.cfgFile, "config", "", "path to the configuration file")
	flag.BoolVar(&opts.up, "up", false, "apply all pending migrations")
	flag.BoolVar(&opts.down, "down", false, "revert all migrations")
	flag.IntVar(&opts.steps, "steps", 0, "number of migrations (positive=up, negative=down)")
	flag.BoolVar(&opts.version, "version", false, "print the current schema version")
	flag.IntVar(&opts.force, "force", -1, "force set the schema version (use with caution)")
	flag.Parse()

	flag.Visit(func(f *flag.Flag) {
		if f.Name == "force" {
			opts.forceSet = true
		}
	})

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("load migration source: %w", err)
	}

	m, err := migrator(src, opts)
	if err != nil {
		return err
	}
	defer m.Close()

	switch {
	case opts.version:
		v, dirty, err := m.Version()
		if err != nil {
			return fmt.Errorf("read schema version: %w", err)
		}
		fmt.Printf("version: %d, dirty: %v\n", v, dirty)
	case opts.forceSet:
		if err := m.Force(opts.force); err != nil {
			return fmt.Errorf("force version %d: %w", opts.force, err)
		}
		fmt.Printf("forced to version %d\n", opts.force)
	case opts.up:
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("apply migrations: %w", err)
		}
		fmt.Println("migrations applied")
	case opts.down:
		if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("revert migrations: %w", err)
		}
		fmt.Println("migrations reverted")
	case opts.steps != 0:
		if err := m.Steps(opts.steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("apply %d migration steps: %w", opts.steps, err)
		}
		fmt.Printf("applied %d migration steps\n", opts.steps)
	default:
		fmt.Println("usage: migrate [-dsn <url>] [-config <file>] [-up|-down|-steps N|-version|-force N]")
		flag.PrintDefaults()
	}

	return nil
}

// migrator connects using the explicit DSN when one is given. Without one it
// loads the application configuration and opens the database it names, so
// the migrator and the CLI always agree on the target.
func migrator(src source.Driver, opts options) (*migrate.Migrate, error) {
	dsn := opts.dsn
	if dsn == "" {
		dsn = os.Getenv(envDSN)
	}
	if dsn != "" {
		m, err := migrate.NewWithSourceInstance("iofs", src, dsn)
		if err != nil {
			return nil, fmt.Errorf("connect to %s: %w", dsn, err)
		}
		return m, nil
	}

	cfg, err := config.Load(opts.cfgFile)
	if err != nil {
		return nil, err
	}
	if !cfg.Database.Enabled() {
		return nil, errors.New("no database configured: pass -dsn, set BURSAR_DB_DSN, or configure the database section")
	}

	db, err := sql.Open("pgx", cfg.Database.Dsn())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("prepare migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, cfg.Database.Name, driver)
	if err != nil {
		return nil, fmt.Errorf("create migrator: %w", err)
	}
	return m, nil
}
