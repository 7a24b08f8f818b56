package eligibility

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/JaimeStill/rankwise/pkg/metrics"
)

// System defines the public contract for eligibility classification.
type System interface {
	Handler() *Handler

	Classify(ctx context.Context, q Query) ([]Candidate, error)

	ClassifyAcrossYears(
		ctx context.Context,
		q Query,
		currentYear, yearsBack int,
	) (map[int][]Candidate, error)
}

type system struct {
	*Engine
	logger *slog.Logger
}

// New creates the eligibility system over the given cutoff reader, recording
// tracked lookups in db.
func New(
	db *sql.DB,
	reader CutoffReader,
	m *metrics.Metrics,
	logger *slog.Logger,
	yearsBack int,
) System {
	logger = logger.With("system", "eligibility")
	return &system{
		Engine: NewEngine(reader, NewRecorder(db), m, logger, yearsBack),
		logger: logger,
	}
}

func (s *system) Handler() *Handler {
	return NewHandler(s, s.logger)
}
