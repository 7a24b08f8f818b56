package eligibility

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/rankwise/internal/cutoffs"
	"github.com/JaimeStill/rankwise/pkg/metrics"
)

// DefaultYearsBack is the history depth used when a caller does not set one.
const DefaultYearsBack = 2

// CutoffReader retrieves cutoffs a candidate qualifies for, ordered by
// ascending closing rank.
type CutoffReader interface {
	QueryEligible(ctx context.Context, f cutoffs.EligibleFilter) ([]cutoffs.Cutoff, error)
}

// Recorder stores tracked lookups.
type Recorder interface {
	Record(ctx context.Context, l Lookup) error
}

// Engine classifies candidate queries against the cutoff store. It holds no
// mutable state and is safe for concurrent use.
type Engine struct {
	cutoffs   CutoffReader
	recorder  Recorder
	metrics   *metrics.Metrics
	logger    *slog.Logger
	yearsBack int
}

// NewEngine creates an Engine. recorder and m may be nil; a non-positive
// yearsBack selects DefaultYearsBack.
func NewEngine(
	reader CutoffReader,
	recorder Recorder,
	m *metrics.Metrics,
	logger *slog.Logger,
	yearsBack int,
) *Engine {
	if yearsBack <= 0 {
		yearsBack = DefaultYearsBack
	}
	return &Engine{
		cutoffs:   reader,
		recorder:  recorder,
		metrics:   m,
		logger:    logger.With("engine", "eligibility"),
		yearsBack: yearsBack,
	}
}

// Classify returns the cutoffs q qualifies for in q.Year, each annotated with
// its chance tier, in ascending closing-rank order. No matches is not an error.
func (e *Engine) Classify(ctx context.Context, q Query) ([]Candidate, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	results, err := e.classify(ctx, q, q.Year)
	if err != nil {
		return nil, err
	}

	if q.Track {
		e.record(ctx, q, len(results))
	}
	return results, nil
}

// ClassifyAcrossYears classifies q independently for each of the yearsBack
// years before currentYear. Years are queried concurrently.
func (e *Engine) ClassifyAcrossYears(
	ctx context.Context,
	q Query,
	currentYear, yearsBack int,
) (map[int][]Candidate, error) {
	if yearsBack <= 0 {
		yearsBack = e.yearsBack
	}
	if currentYear <= 0 {
		return nil, fmt.Errorf("%w: current year required", ErrInvalidQuery)
	}
	q.Year = currentYear - 1
	if err := q.Validate(); err != nil {
		return nil, err
	}

	var (
		mu     sync.Mutex
		byYear = make(map[int][]Candidate, yearsBack)
	)

	g, gctx := errgroup.WithContext(ctx)
	for offset := 1; offset <= yearsBack; offset++ {
		year := currentYear - offset
		g.Go(func() error {
			results, err := e.classify(gctx, q, year)
			if err != nil {
				return fmt.Errorf("year %d: %w", year, err)
			}
			mu.Lock()
			byYear[year] = results
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return byYear, nil
}

func (e *Engine) classify(ctx context.Context, q Query, year int) ([]Candidate, error) {
	start := time.Now()

	rows, err := e.cutoffs.QueryEligible(ctx, q.filter(year))
	if err != nil {
		return nil, err
	}

	results := make([]Candidate, 0, len(rows))
	for _, c := range rows {
		if q.Location != nil && *q.Location != "" && !strings.Contains(c.InstitutionLocation, *q.Location) {
			continue
		}
		results = append(results, annotate(q.Rank, c))
	}

	e.metrics.Classified(len(results), time.Since(start))
	return results, nil
}

func (e *Engine) record(ctx context.Context, q Query, results int) {
	if e.recorder == nil {
		return
	}
	if err := e.recorder.Record(ctx, Lookup{Query: q, Results: results}); err != nil {
		e.logger.Warn("lookup not recorded", "rank", q.Rank, "branch", q.Branch, "error", err)
	}
}

// Validate checks the fields every classification needs.
func (q Query) Validate() error {
	var missing []string
	if q.Rank <= 0 {
		missing = append(missing, "rank")
	}
	if q.Branch == "" {
		missing = append(missing, "branch")
	}
	if q.Category == "" {
		missing = append(missing, "category")
	}
	if q.Quota == "" {
		missing = append(missing, "quota")
	}
	if q.Year <= 0 {
		missing = append(missing, "year")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidQuery, strings.Join(missing, ", "))
	}
	return nil
}
