// Package api assembles the API module: domain systems, their routes and the
// module's middleware stack.
package api

import (
	"fmt"
	"net/http"

	"github.com/JaimeStill/rankwise/internal/config"
	"github.com/JaimeStill/rankwise/internal/infrastructure"
	"github.com/JaimeStill/rankwise/pkg/formatting"
	"github.com/JaimeStill/rankwise/pkg/middleware"
	"github.com/JaimeStill/rankwise/pkg/module"
)

// NewModule creates the API module mounted at cfg.API.BasePath.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime)

	mux := http.NewServeMux()
	patterns := registerRoutes(mux, domain, runtime.MaxUploadSize)
	for _, p := range patterns {
		runtime.Logger.Debug("route registered", "pattern", p)
	}

	m, err := module.New(cfg.API.BasePath, mux)
	if err != nil {
		return nil, fmt.Errorf("api module: %w", err)
	}
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Instrument(runtime.Metrics))
	m.Use(middleware.Logger(runtime.Logger))

	runtime.Logger.Info(
		"api module ready",
		"base_path", cfg.API.BasePath,
		"routes", len(patterns),
		"max_upload", formatting.FormatBytes(runtime.MaxUploadSize, 0),
	)
	return m, nil
}
