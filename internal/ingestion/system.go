package ingestion

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/google/uuid"

	"github.com/JaimeStill/rankwise/pkg/metrics"
	"github.com/JaimeStill/rankwise/pkg/pagination"
	"github.com/JaimeStill/rankwise/pkg/storage"
)

// System defines the public contract for ingestion operations.
type System interface {
	Handler(maxUploadSize int64) *Handler

	// Ingest imports one uploaded cutoff file and returns its run summary.
	Ingest(ctx context.Context, cmd IngestCommand) (*Summary, error)

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Run], error)

	Find(ctx context.Context, id uuid.UUID) (*Run, error)

	// Source opens the archived upload of a run. The caller must close the body.
	Source(ctx context.Context, id uuid.UUID) (*Run, *storage.Object, error)
}

type system struct {
	db         *sql.DB
	pipeline   *Pipeline
	storage    storage.System
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates the ingestion system. Institutions and cutoffs are resolved
// through the given registry and store; uploads are archived in store.
func New(
	db *sql.DB,
	store storage.System,
	insts InstitutionResolver,
	cuts CutoffWriter,
	m *metrics.Metrics,
	logger *slog.Logger,
	pagination pagination.Config,
	opts Options,
) System {
	logger = logger.With("system", "ingestion")
	return &system{
		db:         db,
		pipeline:   NewPipeline(NewRuns(db), insts, cuts, store, m, logger, opts),
		storage:    store,
		logger:     logger,
		pagination: pagination,
	}
}

func (s *system) Handler(maxUploadSize int64) *Handler {
	return NewHandler(s, s.logger, s.pagination, maxUploadSize)
}

func (s *system) Ingest(ctx context.Context, cmd IngestCommand) (*Summary, error) {
	return s.pipeline.Ingest(ctx, cmd)
}

func (s *system) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Run], error) {
	return list(ctx, s.db, s.pagination, page, filters)
}

func (s *system) Find(ctx context.Context, id uuid.UUID) (*Run, error) {
	return find(ctx, s.db, id)
}

func (s *system) Source(ctx context.Context, id uuid.UUID) (*Run, *storage.Object, error) {
	run, err := s.Find(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if run.StorageKey == nil {
		return nil, nil, ErrNoSource
	}

	obj, err := s.storage.Open(ctx, *run.StorageKey)
	if err != nil {
		return nil, nil, err
	}
	return run, obj, nil
}
