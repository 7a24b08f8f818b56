package eligibility_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JaimeStill/rankwise/internal/eligibility"
)

type mockSystem struct {
	classifyFn func(ctx context.Context, q eligibility.Query) ([]eligibility.Candidate, error)
	historyFn  func(ctx context.Context, q eligibility.Query, currentYear, yearsBack int) (map[int][]eligibility.Candidate, error)
}

func (m *mockSystem) Handler() *eligibility.Handler {
	return eligibility.NewHandler(m, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func (m *mockSystem) Classify(ctx context.Context, q eligibility.Query) ([]eligibility.Candidate, error) {
	return m.classifyFn(ctx, q)
}

func (m *mockSystem) ClassifyAcrossYears(ctx context.Context, q eligibility.Query, currentYear, yearsBack int) (map[int][]eligibility.Candidate, error) {
	return m.historyFn(ctx, q, currentYear, yearsBack)
}

func setupMux(h *eligibility.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	group := h.Routes()
	for _, route := range group.Routes {
		pattern := route.Method + " " + group.Prefix + route.Pattern
		mux.HandleFunc(pattern, route.Handler)
	}
	return mux
}

func TestHandlerClassify(t *testing.T) {
	var got eligibility.Query
	sys := &mockSystem{
		classifyFn: func(_ context.Context, q eligibility.Query) ([]eligibility.Candidate, error) {
			got = q
			if err := q.Validate(); err != nil {
				return nil, err
			}
			return []eligibility.Candidate{
				{InstitutionName: "COEP", ClosingRank: 1000, Tier: eligibility.ChanceModerate, TierLabel: "Moderate Chance"},
			}, nil
		},
	}

	mux := setupMux(sys.Handler())

	t.Run("returns annotated results", func(t *testing.T) {
		body := `{"rank":900,"branch":"CSE","category":"OPEN","quota":"AI","year":2024,"location":"Pune","track":true}`
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest("POST", "/eligibility", strings.NewReader(body)))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200 (%s)", rec.Code, rec.Body.String())
		}
		if got.Location == nil || *got.Location != "Pune" || !got.Track {
			t.Errorf("query not decoded: %+v", got)
		}

		var resp eligibility.ClassifyResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if resp.Year != 2024 || resp.Count != 1 || resp.Results[0].Tier != eligibility.ChanceModerate {
			t.Errorf("response = %+v", resp)
		}
	})

	t.Run("invalid query is a bad request", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest("POST", "/eligibility", strings.NewReader(`{"branch":"CSE"}`)))

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("malformed body is a bad request", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest("POST", "/eligibility", strings.NewReader(`rank=900`)))

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestHandlerClassifyStoreFailure(t *testing.T) {
	sys := &mockSystem{
		classifyFn: func(context.Context, eligibility.Query) ([]eligibility.Candidate, error) {
			return nil, errors.New("db down")
		},
	}

	rec := httptest.NewRecorder()
	body := `{"rank":900,"branch":"CSE","category":"OPEN","quota":"AI","year":2024}`
	setupMux(sys.Handler()).ServeHTTP(rec, httptest.NewRequest("POST", "/eligibility", strings.NewReader(body)))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestHandlerHistory(t *testing.T) {
	var gotCurrent, gotBack int
	sys := &mockSystem{
		historyFn: func(_ context.Context, _ eligibility.Query, currentYear, yearsBack int) (map[int][]eligibility.Candidate, error) {
			gotCurrent, gotBack = currentYear, yearsBack
			return map[int][]eligibility.Candidate{
				2023: {{InstitutionName: "COEP", Tier: eligibility.ChanceHigh}},
				2022: {},
			}, nil
		},
	}

	body := `{"rank":900,"branch":"CSE","category":"OPEN","quota":"AI","current_year":2024,"years_back":2}`
	rec := httptest.NewRecorder()
	setupMux(sys.Handler()).ServeHTTP(rec, httptest.NewRequest("POST", "/eligibility/history", strings.NewReader(body)))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (%s)", rec.Code, rec.Body.String())
	}
	if gotCurrent != 2024 || gotBack != 2 {
		t.Errorf("forwarded current=%d back=%d", gotCurrent, gotBack)
	}

	var resp eligibility.HistoryResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.CurrentYear != 2024 || len(resp.Years) != 2 || len(resp.Years["2023"]) != 1 {
		t.Errorf("response = %+v", resp)
	}
}

func TestMapHTTPStatus(t *testing.T) {
	if got := eligibility.MapHTTPStatus(eligibility.ErrInvalidQuery); got != http.StatusBadRequest {
		t.Errorf("ErrInvalidQuery -> %d, want 400", got)
	}
	if got := eligibility.MapHTTPStatus(errors.New("boom")); got != http.StatusInternalServerError {
		t.Errorf("unknown -> %d, want 500", got)
	}
}
