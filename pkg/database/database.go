// Package database manages the PostgreSQL connection pool behind the
// review audit store and ties its availability to the application
// lifecycle.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/mwhitfield/bursar/pkg/lifecycle"
)

// System exposes the connection pool and its lifecycle registration.
type System interface {
	// Connection returns the pooled handle shared by repositories.
	Connection() *sql.DB
	// Start registers the ping-on-startup and close-on-shutdown hooks.
	Start(lc *lifecycle.Coordinator) error
}

type system struct {
	pool        *sql.DB
	logger      *slog.Logger
	pingTimeout time.Duration
}

// New opens the pool described by cfg through the pgx stdlib driver. The
// DSN is validated here; no connection is attempted until Start runs.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	pool, err := sql.Open("pgx", cfg.Dsn())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	pool.SetMaxOpenConns(cfg.MaxOpenConns)
	pool.SetMaxIdleConns(cfg.MaxIdleConns)
	pool.SetConnMaxLifetime(cfg.ConnMaxLifetimeDuration())

	return &system{
		pool:        pool,
		logger:      logger.With("system", "database"),
		pingTimeout: cfg.ConnTimeoutDuration(),
	}, nil
}

func (s *system) Connection() *sql.DB {
	return s.pool
}

func (s *system) Start(lc *lifecycle.Coordinator) error {
	s.logger.Info("starting database connection")

	lc.OnStartup(func() {
		ctx, cancel := context.WithTimeout(lc.Context(), s.pingTimeout)
		defer cancel()

		if err := s.pool.PingContext(ctx); err != nil {
			s.logger.Error("database ping failed", "error", err)
			return
		}
		s.logger.Info("database connection established")
	})

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		s.logger.Info("closing database connection")

		if err := s.pool.Close(); err != nil {
			s.logger.Error("database close failed", "error", err)
			return
		}
		s.logger.Info("database connection closed")
	})

	return nil
}
