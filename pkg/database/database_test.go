package database_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/JaimeStill/rankwise/pkg/database"
	"github.com/JaimeStill/rankwise/pkg/lifecycle"
)

// unreachable points at a closed local port; sql.Open stays lazy, so New
// succeeds and only Ping fails.
func unreachable() *database.Config {
	return &database.Config{
		Host:            "127.0.0.1",
		Port:            1,
		Name:            "cutoffs",
		User:            "loader",
		SSLMode:         "disable",
		MaxOpenConns:    12,
		MaxIdleConns:    3,
		ConnMaxLifetime: "5m",
		ConnTimeout:     "500ms",
		StartupRetries:  1,
	}
}

func TestNewConfiguresPool(t *testing.T) {
	sys, err := database.New(unreachable(), slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	conn := sys.Connection()
	t.Cleanup(func() { conn.Close() })

	if got := conn.Stats().MaxOpenConnections; got != 12 {
		t.Errorf("MaxOpenConnections = %d, want 12", got)
	}
	if got := conn.Stats().OpenConnections; got != 0 {
		t.Errorf("OpenConnections = %d, want lazy pool", got)
	}
}

func TestPingWrapsErrNotReady(t *testing.T) {
	sys, err := database.New(unreachable(), slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { sys.Connection().Close() })

	start := time.Now()
	err = sys.Ping(context.Background())
	if !errors.Is(err, database.ErrNotReady) {
		t.Errorf("Ping = %v, want ErrNotReady", err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("Ping took %v; conn_timeout not applied", elapsed)
	}
}

func TestStartWithUnreachableDatabase(t *testing.T) {
	var logs bytes.Buffer
	sys, err := database.New(unreachable(), slog.New(slog.NewTextHandler(&logs, nil)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	lc := lifecycle.New()
	if err := sys.Start(lc); err != nil {
		t.Fatalf("Start: %v", err)
	}
	lc.WaitForStartup()

	status, ready := lc.Check(context.Background())
	if ready {
		t.Error("ready with an unreachable database")
	}
	if !strings.Contains(status["database"], "cutoff database unreachable") {
		t.Errorf("database probe = %q", status["database"])
	}

	if err := lc.Shutdown(5 * time.Second); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	for _, want := range []string{"database unreachable after startup retries", "database connection closed"} {
		if !strings.Contains(logs.String(), want) {
			t.Errorf("logs missing %q", want)
		}
	}
}
