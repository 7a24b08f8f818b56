package institutions_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/rankwise/internal/institutions"
	"github.com/JaimeStill/rankwise/pkg/pagination"
	"github.com/JaimeStill/rankwise/pkg/routes"
)

type mockSystem struct {
	listFn func(ctx context.Context, page pagination.PageRequest, filters institutions.Filters) (*pagination.PageResult[institutions.Institution], error)
	findFn func(ctx context.Context, id uuid.UUID) (*institutions.Institution, error)
}

func (m *mockSystem) Handler() *institutions.Handler {
	return institutions.NewHandler(m, slog.New(slog.NewTextHandler(io.Discard, nil)), pagination.Config{DefaultPageSize: 20, MaxPageSize: 50})
}

func (m *mockSystem) List(ctx context.Context, page pagination.PageRequest, filters institutions.Filters) (*pagination.PageResult[institutions.Institution], error) {
	return m.listFn(ctx, page, filters)
}

func (m *mockSystem) Find(ctx context.Context, id uuid.UUID) (*institutions.Institution, error) {
	return m.findFn(ctx, id)
}

func (m *mockSystem) FindByIdentity(context.Context, string, string) (*institutions.Institution, error) {
	return nil, institutions.ErrNotFound
}

func (m *mockSystem) GetOrCreate(context.Context, institutions.CreateCommand) (*institutions.Institution, error) {
	return nil, institutions.ErrInvalidIdentity
}

func serve(sys *mockSystem, method, target string) *httptest.ResponseRecorder {
	mux := http.NewServeMux()
	routes.Register(mux, sys.Handler().Routes())

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

var iitb = institutions.Institution{
	ID:        uuid.MustParse("5f0c3a52-8a51-4d59-9d5b-0c1f6a9e2b11"),
	Name:      "Indian Institute of Technology Bombay",
	Location:  "Powai, Mumbai, Maharashtra",
	Category:  institutions.CategoryGovernment,
	City:      "Powai",
	State:     "Maharashtra",
	CreatedAt: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
}

func TestListPassesPageAndFilters(t *testing.T) {
	var gotPage pagination.PageRequest
	var gotFilters institutions.Filters

	sys := &mockSystem{
		listFn: func(_ context.Context, page pagination.PageRequest, f institutions.Filters) (*pagination.PageResult[institutions.Institution], error) {
			gotPage, gotFilters = page, f
			result := pagination.NewPageResult([]institutions.Institution{iitb}, 1, page.Page, page.PageSize)
			return &result, nil
		},
	}

	rec := serve(sys, http.MethodGet, "/institutions?page=2&page_size=500&category=government&state=maha&sort=-Name")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	if gotPage.Page != 2 || gotPage.PageSize != 50 {
		t.Errorf("page = %+v, want page 2 capped at 50", gotPage)
	}
	if len(gotPage.Sort) != 1 || gotPage.Sort[0].Field != "Name" || !gotPage.Sort[0].Descending {
		t.Errorf("sort = %+v", gotPage.Sort)
	}
	if gotFilters.Category == nil || *gotFilters.Category != "government" {
		t.Errorf("category filter = %v", gotFilters.Category)
	}
	if gotFilters.State == nil || *gotFilters.State != "maha" || gotFilters.City != nil {
		t.Errorf("location filters = %+v", gotFilters)
	}

	var body struct {
		Data  []institutions.Institution `json:"data"`
		Total int                        `json:"total"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Total != 1 || len(body.Data) != 1 || body.Data[0].City != "Powai" {
		t.Errorf("body = %+v", body)
	}
}

func TestListStoreFailureIs500(t *testing.T) {
	sys := &mockSystem{
		listFn: func(context.Context, pagination.PageRequest, institutions.Filters) (*pagination.PageResult[institutions.Institution], error) {
			return nil, fmt.Errorf("query institutions: connection reset")
		},
	}

	rec := serve(sys, http.MethodGet, "/institutions")
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestFind(t *testing.T) {
	tests := []struct {
		name       string
		id         string
		err        error
		wantStatus int
	}{
		{"found", iitb.ID.String(), nil, http.StatusOK},
		{"missing", uuid.NewString(), institutions.ErrNotFound, http.StatusNotFound},
		{"wrapped missing", uuid.NewString(), fmt.Errorf("find: %w", institutions.ErrNotFound), http.StatusNotFound},
		{"malformed id", "iit-bombay", nil, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			sys := &mockSystem{
				findFn: func(_ context.Context, id uuid.UUID) (*institutions.Institution, error) {
					called = true
					if tt.err != nil {
						return nil, tt.err
					}
					inst := iitb
					inst.ID = id
					return &inst, nil
				},
			}

			rec := serve(sys, http.MethodGet, "/institutions/"+url.PathEscape(tt.id))
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusBadRequest && called {
				t.Error("system called with a malformed id")
			}
			if tt.wantStatus == http.StatusOK {
				var got institutions.Institution
				if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
					t.Fatalf("decode: %v", err)
				}
				if got.ID.String() != tt.id || got.State != "Maharashtra" {
					t.Errorf("institution = %+v", got)
				}
			}
		})
	}
}

func TestFiltersFromQuery(t *testing.T) {
	f := institutions.FiltersFromQuery(url.Values{"city": {"Chennai"}, "category": {""}})
	if f.Category != nil || f.State != nil {
		t.Errorf("empty values should leave filters nil: %+v", f)
	}
	if f.City == nil || *f.City != "Chennai" {
		t.Errorf("city = %v", f.City)
	}
}
