package institutions_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/JaimeStill/rankwise/internal/institutions"
	"github.com/JaimeStill/rankwise/pkg/pagination"
)

func TestParseLocation(t *testing.T) {
	tests := []struct {
		location  string
		wantCity  string
		wantState string
	}{
		{"Pune, Maharashtra", "Pune", "Maharashtra"},
		{"Andheri, Mumbai, Maharashtra", "Andheri", "Maharashtra"},
		{"  Vellore ,  Tamil Nadu ", "Vellore", "Tamil Nadu"},
		{"Delhi", "Delhi", ""},
		{"", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.location, func(t *testing.T) {
			city, state := institutions.ParseLocation(tt.location)
			if city != tt.wantCity || state != tt.wantState {
				t.Errorf("ParseLocation(%q) = (%q, %q), want (%q, %q)",
					tt.location, city, state, tt.wantCity, tt.wantState)
			}
		})
	}
}

func TestClassifyCategory(t *testing.T) {
	tests := []struct {
		kind string
		want string
	}{
		{"Government", institutions.CategoryGovernment},
		{"GOVT. AIDED", institutions.CategoryGovernment},
		{"Deemed University", institutions.CategoryDeemed},
		{"deemed", institutions.CategoryDeemed},
		{"Private Unaided", institutions.CategoryPrivate},
		{"Autonomous", institutions.CategoryPrivate},
		{"", institutions.CategoryPrivate},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			if got := institutions.ClassifyCategory(tt.kind); got != tt.want {
				t.Errorf("ClassifyCategory(%q) = %s, want %s", tt.kind, got, tt.want)
			}
		})
	}
}

func TestValidCategory(t *testing.T) {
	for _, c := range []string{"government", "private", "deemed"} {
		if !institutions.ValidCategory(c) {
			t.Errorf("ValidCategory(%q) = false", c)
		}
	}
	if institutions.ValidCategory("Government") {
		t.Error("categories are normalized lower case")
	}
}

func TestGetOrCreateRequiresIdentity(t *testing.T) {
	sys := institutions.New(nil, slog.New(slog.NewTextHandler(io.Discard, nil)), pagination.Config{})

	tests := []institutions.CreateCommand{
		{Name: "", Location: "Pune"},
		{Name: "COEP", Location: "   "},
	}

	for _, cmd := range tests {
		if _, err := sys.GetOrCreate(context.Background(), cmd); !errors.Is(err, institutions.ErrInvalidIdentity) {
			t.Errorf("GetOrCreate(%+v) error = %v, want ErrInvalidIdentity", cmd, err)
		}
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{institutions.ErrNotFound, http.StatusNotFound},
		{institutions.ErrDuplicate, http.StatusConflict},
		{institutions.ErrInvalidIdentity, http.StatusBadRequest},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := institutions.MapHTTPStatus(tt.err); got != tt.want {
			t.Errorf("MapHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestGetOrCreateQuery(t *testing.T) {
	id := uuid.New()
	sql, args := institutions.GetOrCreateQuery(id, institutions.CreateCommand{
		Name:     "COEP",
		Location: "Pune, Maharashtra",
		Category: institutions.CategoryGovernment,
		City:     "Pune",
		State:    "Maharashtra",
	})

	if !strings.Contains(sql, "ON CONFLICT (name, location) DO UPDATE SET name = EXCLUDED.name") {
		t.Errorf("conflict must keep the existing row for the same identity:\n%s", sql)
	}
	set := sql[strings.Index(sql, "DO UPDATE SET"):strings.Index(sql, "RETURNING")]
	for _, col := range []string{"category", "city", "state", "id ="} {
		if strings.Contains(set, col) {
			t.Errorf("conflict must not rewrite %q:\n%s", col, set)
		}
	}
	if !strings.HasSuffix(strings.TrimSpace(sql), "(xmax = 0)") {
		t.Errorf("RETURNING must report whether the row was inserted:\n%s", sql)
	}

	want := []any{id, "COEP", "Pune, Maharashtra", institutions.CategoryGovernment, "Pune", "Maharashtra"}
	if len(args) != len(want) {
		t.Fatalf("args = %v, want %d entries", args, len(want))
	}
	for i := range want {
		if args[i] != want[i] {
			t.Errorf("args[%d] = %v, want %v", i, args[i], want[i])
		}
	}
}
