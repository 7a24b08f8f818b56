package api

import (
	"github.com/JaimeStill/rankwise/internal/config"
	"github.com/JaimeStill/rankwise/internal/infrastructure"
	"github.com/JaimeStill/rankwise/internal/ingestion"
	"github.com/JaimeStill/rankwise/pkg/pagination"
)

// Runtime is the infrastructure as seen by API domain systems: the shared
// systems with a module-tagged logger, plus the settings those systems read.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination    pagination.Config
	Ingestion     ingestion.Options
	YearsBack     int
	MaxUploadSize int64
}

// NewRuntime derives the API runtime from cfg. infra itself is not modified.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	scoped := *infra
	scoped.Logger = infra.Logger.With("module", "api")

	return &Runtime{
		Infrastructure: &scoped,
		Pagination:     cfg.API.Pagination,
		Ingestion: ingestion.Options{
			CheckpointInterval: cfg.Ingestion.CheckpointInterval,
			ErrorSampleSize:    cfg.Ingestion.ErrorSampleSize,
		},
		YearsBack:     cfg.Eligibility.YearsBack,
		MaxUploadSize: cfg.API.MaxUploadSizeBytes(),
	}
}
