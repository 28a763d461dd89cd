package main

import (
	"github.com/mwhitfield/bursar/internal/backend"
	"github.com/mwhitfield/bursar/internal/config"
	"github.com/mwhitfield/bursar/internal/extraction"
	"github.com/mwhitfield/bursar/internal/infrastructure"
	"github.com/mwhitfield/bursar/internal/reviews"
	"github.com/mwhitfield/bursar/internal/sections"
	"github.com/mwhitfield/bursar/internal/workflow"
)

// runtime bundles the loaded configuration with started infrastructure for
// the lifetime of one command.
type runtime struct {
	cfg   *config.Config
	infra *infrastructure.Infrastructure
}

// newRuntime loads the configuration and starts the configured systems,
// blocking until their startup hooks complete.
func newRuntime() (*runtime, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}

	infra, err := infrastructure.New(cfg, verbose)
	if err != nil {
		return nil, err
	}
	if err := infra.Start(); err != nil {
		return nil, err
	}
	infra.Lifecycle.WaitForStartup()

	return &runtime{cfg: cfg, infra: infra}, nil
}

func (r *runtime) shutdown() {
	if err := r.infra.Lifecycle.Shutdown(r.cfg.ShutdownTimeoutDuration()); err != nil {
		r.infra.Logger.Error("shutdown incomplete", "error", err)
	}
}

// workflowRuntime assembles the collaborators of the review pipeline.
func (r *runtime) workflowRuntime() (*workflow.Runtime, error) {
	be, err := backend.New(&r.cfg.Backend, r.infra.Logger)
	if err != nil {
		return nil, err
	}

	return &workflow.Runtime{
		Sections:   sections.New(r.cfg.Review.MaxPDFSizeBytes(), r.infra.Logger),
		Extraction: extraction.New(r.cfg.AgentConfig(), r.infra.Logger),
		Backend:    be,
		Logger:     r.infra.Logger,
	}, nil
}

// reviews returns the audit system, or nil when no database is configured.
func (r *runtime) reviews() reviews.System {
	if r.infra.Database == nil {
		return nil
	}
	return reviews.New(
		r.infra.Database.Connection(),
		r.infra.Storage,
		r.infra.Logger,
		r.cfg.Review.Pagination,
	)
}
