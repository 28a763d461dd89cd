// Package infrastructure assembles the shared runtime a review needs before
// any domain system starts: logging, lifecycle coordination, and the optional
// database and storage systems.
package infrastructure

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/mwhitfield/bursar/internal/config"
	"github.com/mwhitfield/bursar/pkg/database"
	"github.com/mwhitfield/bursar/pkg/lifecycle"
	"github.com/mwhitfield/bursar/pkg/storage"
)

// Infrastructure holds the core systems required by the review pipeline.
// Database and Storage are nil when their config sections are absent; the
// review then runs without the audit record and PDF archive.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
	Storage   storage.System
}

// New creates an Infrastructure from the application configuration. It
// initializes the configured systems but does not start them; call Start
// separately. Verbose lowers the log level to debug.
func New(cfg *config.Config, verbose bool) (*Infrastructure, error) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	infra := &Infrastructure{
		Lifecycle: lifecycle.New(),
		Logger:    logger,
	}

	if cfg.Database.Enabled() {
		db, err := database.New(&cfg.Database, logger)
		if err != nil {
			return nil, fmt.Errorf("database init failed: %w", err)
		}
		infra.Database = db
	} else {
		logger.Info("review audit disabled", "reason", "no database configured")
	}

	if cfg.Storage.Enabled() {
		store, err := storage.New(&cfg.Storage, logger)
		if err != nil {
			return nil, fmt.Errorf("storage init failed: %w", err)
		}
		infra.Storage = store
	} else {
		logger.Info("report archive disabled", "reason", "no storage configured")
	}

	return infra, nil
}

// Start registers the configured systems with the lifecycle coordinator.
func (i *Infrastructure) Start() error {
	if i.Database != nil {
		if err := i.Database.Start(i.Lifecycle); err != nil {
			return fmt.Errorf("database start failed: %w", err)
		}
	}
	if i.Storage != nil {
		if err := i.Storage.Start(i.Lifecycle); err != nil {
			return fmt.Errorf("storage start failed: %w", err)
		}
	}
	return nil
}
