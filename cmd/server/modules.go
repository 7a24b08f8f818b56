package main

import (
	"context"
	"net/http"
	"time"

	"github.com/JaimeStill/rankwise/internal/api"
	"github.com/JaimeStill/rankwise/internal/config"
	"github.com/JaimeStill/rankwise/internal/infrastructure"
	"github.com/JaimeStill/rankwise/pkg/handlers"
	"github.com/JaimeStill/rankwise/pkg/middleware"
	"github.com/JaimeStill/rankwise/pkg/module"
)

const readinessTimeout = 3 * time.Second

type Modules struct {
	API *module.Module
}

func NewModules(infra *infrastructure.Infrastructure, cfg *config.Config) (*Modules, error) {
	apiModule, err := api.NewModule(cfg, infra)
	if err != nil {
		return nil, err
	}

	return &Modules{
		API: apiModule,
	}, nil
}

func (m *Modules) Mount(router *module.Router) error {
	return router.Mount(m.API)
}

func buildRouter(infra *infrastructure.Infrastructure) *module.Router {
	router := module.NewRouter()
	router.Use(middleware.Recover(infra.Logger))

	router.HandleNative("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	router.HandleNative("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		checks, ready := infra.Lifecycle.Check(ctx)
		if !ready {
			handlers.RespondJSON(w, http.StatusServiceUnavailable, map[string]any{
				"status": "not ready",
				"checks": checks,
			})
			return
		}
		handlers.RespondJSON(w, http.StatusOK, map[string]any{
			"status": "ready",
			"checks": checks,
		})
	})

	router.HandleNative("GET /metrics", infra.Metrics.Handler().ServeHTTP)

	return router
}
