// Package infrastructure wires the process-wide systems every domain module
// depends on: lifecycle, logging, the cutoff database, upload storage and
// metrics.
package infrastructure

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/JaimeStill/rankwise/internal/config"
	"github.com/JaimeStill/rankwise/pkg/database"
	"github.com/JaimeStill/rankwise/pkg/lifecycle"
	"github.com/JaimeStill/rankwise/pkg/metrics"
	"github.com/JaimeStill/rankwise/pkg/storage"
)

// Infrastructure holds the shared systems handed to domain modules.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
	Storage   storage.System
	Metrics   *metrics.Metrics
}

// New builds the infrastructure from cfg, logging to stderr. Nothing is
// connected until Start.
func New(cfg *config.Config) (*Infrastructure, error) {
	return NewWithLogOutput(cfg, os.Stderr)
}

// NewWithLogOutput is New with the root logger writing to w.
func NewWithLogOutput(cfg *config.Config, w io.Writer) (*Infrastructure, error) {
	logger := cfg.Logging.NewLogger(w).With("version", cfg.Version)

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}

	store, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	m := metrics.New()
	if err := m.Registry().Register(collectors.NewDBStatsCollector(db.Connection(), cfg.Database.Name)); err != nil {
		return nil, fmt.Errorf("register pool metrics: %w", err)
	}

	return &Infrastructure{
		Lifecycle: lifecycle.New(),
		Logger:    logger,
		Database:  db,
		Storage:   store,
		Metrics:   m,
	}, nil
}

// Start hooks the database and storage into the lifecycle. Their startup
// work runs concurrently and gates readiness.
func (i *Infrastructure) Start() error {
	if err := i.Database.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("start database: %w", err)
	}
	if err := i.Storage.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("start storage: %w", err)
	}
	return nil
}
