package eligibility

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/JaimeStill/rankwise/pkg/handlers"
	"github.com/JaimeStill/rankwise/pkg/routes"
)

// Handler provides HTTP endpoints for eligibility classification.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// ClassifyResponse wraps a single-year classification.
type ClassifyResponse struct {
	Year    int         `json:"year"`
	Count   int         `json:"count"`
	Results []Candidate `json:"results"`
}

// HistoryResponse wraps a multi-year classification keyed by year.
type HistoryResponse struct {
	CurrentYear int                    `json:"current_year"`
	Years       map[string][]Candidate `json:"years"`
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "eligibility"),
	}
}

// Routes returns the route group definition for eligibility endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/eligibility",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: h.Classify},
			{Method: "POST", Pattern: "/history", Handler: h.History},
		},
	}
}

// Classify accepts a JSON Query and returns matching cutoffs annotated with chance tiers.
func (h *Handler) Classify(w http.ResponseWriter, r *http.Request) {
	var q Query
	if err := handlers.DecodeJSON(w, r, &q, 0); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("%w: %w", ErrInvalidQuery, err))
		return
	}

	results, err := h.sys.Classify(r.Context(), q)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, ClassifyResponse{
		Year:    q.Year,
		Count:   len(results),
		Results: results,
	})
}

// History accepts a JSON HistoryQuery and classifies it against prior years.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	var q HistoryQuery
	if err := handlers.DecodeJSON(w, r, &q, 0); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("%w: %w", ErrInvalidQuery, err))
		return
	}

	byYear, err := h.sys.ClassifyAcrossYears(r.Context(), q.Query, q.CurrentYear, q.YearsBack)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	years := make(map[string][]Candidate, len(byYear))
	for y, results := range byYear {
		years[strconv.Itoa(y)] = results
	}

	handlers.RespondJSON(w, http.StatusOK, HistoryResponse{
		CurrentYear: q.CurrentYear,
		Years:       years,
	})
}
