package main

import (
	"fmt"
	"time"

	"github.com/JaimeStill/rankwise/internal/config"
	"github.com/JaimeStill/rankwise/internal/infrastructure"
)

// Server owns the process: shared infrastructure, mounted modules and the
// HTTP listener.
type Server struct {
	infra   *infrastructure.Infrastructure
	modules *Modules
	http    *httpServer
}

func NewServer(cfg *config.Config) (*Server, error) {
	infra, err := infrastructure.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("infrastructure: %w", err)
	}

	modules, err := NewModules(infra, cfg)
	if err != nil {
		return nil, fmt.Errorf("modules: %w", err)
	}

	router := buildRouter(infra)
	if err := modules.Mount(router); err != nil {
		return nil, fmt.Errorf("mount: %w", err)
	}

	infra.Logger.Info(
		"server initialized",
		"addr", cfg.Server.Addr(),
		"env", cfg.Env(),
		"version", cfg.Version,
	)

	return &Server{
		infra:   infra,
		modules: modules,
		http:    newHTTPServer(&cfg.Server, router, infra.Logger),
	}, nil
}

// Start registers infrastructure hooks, binds the listener, and reports
// startup completion asynchronously.
func (s *Server) Start() error {
	s.infra.Logger.Info("starting rankwise")

	if err := s.infra.Start(); err != nil {
		return err
	}

	if err := s.http.Start(s.infra.Lifecycle); err != nil {
		return err
	}

	go func() {
		start := time.Now()
		lc := s.infra.Lifecycle
		lc.WaitForStartup()

		checks, ready := lc.Check(lc.Context())
		if !ready {
			s.infra.Logger.Warn("started with failing probes", "elapsed", time.Since(start), "checks", checks)
			return
		}
		s.infra.Logger.Info("all subsystems started", "elapsed", time.Since(start))
	}()

	return nil
}

// Shutdown cancels the lifecycle context and waits for hooks to drain.
func (s *Server) Shutdown(timeout time.Duration) error {
	s.infra.Logger.Info("initiating shutdown")
	return s.infra.Lifecycle.Shutdown(timeout)
}
