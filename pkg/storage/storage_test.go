package storage_test

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"testing"

	"github.com/JaimeStill/rankwise/pkg/storage"
)

const azurite = "DefaultEndpointsProtocol=http;AccountName=devstoreaccount1;AccountKey=Eby8vdM02xNOcqFlqUwJPLlmEtlCDXJ1OUzFT50uSRZ6IFsuFq2UVErCz4I6tq/K1SZFPTOtr/KBHBeksoGMGw==;BlobEndpoint=http://127.0.0.1:10000/devstoreaccount1;"

func TestNewValidatesConnectionString(t *testing.T) {
	tests := []struct {
		name    string
		conn    string
		wantErr bool
	}{
		{"azurite", azurite, false},
		{"not key value", "not-a-connection-string", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &storage.Config{ContainerName: "uploads", ConnectionString: tt.conn}
			sys, err := storage.New(cfg, slog.New(slog.DiscardHandler))
			if tt.wantErr {
				if err == nil {
					t.Error("New succeeded")
				}
				return
			}
			if err != nil || sys == nil {
				t.Fatalf("New = %v, %v", sys, err)
			}
		})
	}
}

func TestValidateKey(t *testing.T) {
	tests := []struct {
		key  string
		want error
	}{
		{"ingestions/0b9c7a2e/josaa-round6.xlsx", nil},
		{"ingestions/0b9c7a2e/cutoffs.v2.csv", nil},
		{"", storage.ErrEmptyKey},
		{"/ingestions/0b9c7a2e/cutoffs.csv", storage.ErrInvalidKey},
		{"ingestions/../config.toml", storage.ErrInvalidKey},
		{"ingestions/..cache/cutoffs.csv", storage.ErrInvalidKey},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if err := storage.ValidateKey(tt.key); !errors.Is(err, tt.want) {
				t.Errorf("ValidateKey(%q) = %v, want %v", tt.key, err, tt.want)
			}
		})
	}
}

func TestOperationsRejectBadKeysOffline(t *testing.T) {
	sys, err := storage.New(&storage.Config{ContainerName: "uploads", ConnectionString: azurite}, slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, key := range []string{"", "../escape.csv"} {
		want := storage.ValidateKey(key)
		ops := map[string]error{
			"Put":    sys.Put(ctx, key, []byte("rank,branch\n"), "text/csv"),
			"Delete": sys.Delete(ctx, key),
		}
		_, ops["Open"] = sys.Open(ctx, key)

		for op, err := range ops {
			if !errors.Is(err, want) {
				t.Errorf("%s(%q) = %v, want %v", op, key, err, want)
			}
		}
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{storage.ErrNotFound, http.StatusNotFound},
		{fmt.Errorf("open source: %w", storage.ErrNotFound), http.StatusNotFound},
		{storage.ErrEmptyKey, http.StatusBadRequest},
		{storage.ErrInvalidKey, http.StatusBadRequest},
		{fmt.Errorf("%w: dial tcp", storage.ErrUnavailable), http.StatusServiceUnavailable},
		{errors.New("quota exceeded"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			if got := storage.MapHTTPStatus(tt.err); got != tt.want {
				t.Errorf("MapHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
