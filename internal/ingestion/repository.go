package ingestion

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/JaimeStill/rankwise/pkg/pagination"
	"github.com/JaimeStill/rankwise/pkg/query"
	"github.com/JaimeStill/rankwise/pkg/repository"
)

var dbErrors = repository.Errors{NotFound: ErrNotFound, Duplicate: ErrDuplicate}

type runStore struct {
	db *sql.DB
}

// NewRuns creates a PostgreSQL-backed run store.
func NewRuns(db *sql.DB) Runs {
	return &runStore{db: db}
}

func (s *runStore) Create(ctx context.Context, cmd CreateRunCommand) (*Run, error) {
	q := `
		INSERT INTO ingestion_runs(id, year, file_name, uploaded_by, total_rows, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + returning

	args := []any{
		uuid.New(),
		cmd.Year,
		cmd.FileName,
		cmd.UploadedBy,
		cmd.TotalRows,
		StatusProcessing,
	}

	r, err := repository.WithTx(ctx, s.db, func(tx *sql.Tx) (Run, error) {
		return repository.QueryOne(ctx, tx, q, args, scanRun)
	})
	if err != nil {
		return nil, dbErrors.Map(err)
	}
	return &r, nil
}

func (s *runStore) AttachSource(ctx context.Context, id uuid.UUID, key string) error {
	err := repository.ExecExpectOne(
		ctx, s.db,
		"UPDATE ingestion_runs SET storage_key = $1 WHERE id = $2",
		key, id,
	)
	return dbErrors.Map(err)
}

func (s *runStore) Checkpoint(ctx context.Context, id uuid.UUID, p Progress) error {
	errLog, err := marshalErrors(p.Errors)
	if err != nil {
		return fmt.Errorf("marshal error log: %w", err)
	}

	err = repository.ExecExpectOne(
		ctx, s.db,
		`UPDATE ingestion_runs
		SET processed_rows = $1, failed_rows = $2, errors = $3
		WHERE id = $4`,
		p.Processed, p.Failed, errLog, id,
	)
	return dbErrors.Map(err)
}

func (s *runStore) Complete(ctx context.Context, id uuid.UUID, p Progress, status string) error {
	errLog, err := marshalErrors(p.Errors)
	if err != nil {
		return fmt.Errorf("marshal error log: %w", err)
	}

	err = repository.ExecExpectOne(
		ctx, s.db,
		`UPDATE ingestion_runs
		SET processed_rows = $1, failed_rows = $2, errors = $3, status = $4, completed_at = NOW()
		WHERE id = $5`,
		p.Processed, p.Failed, errLog, status, id,
	)
	return dbErrors.Map(err)
}

func list(
	ctx context.Context,
	db *sql.DB,
	cfg pagination.Config,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Run], error) {
	page.Normalize(cfg)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "FileName", "UploadedBy")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	total, err := repository.Count(ctx, db, countSQL, countArgs)
	if err != nil {
		return nil, fmt.Errorf("count ingestion runs: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	runs, err := repository.QueryMany(ctx, db, pageSQL, pageArgs, scanRun)
	if err != nil {
		return nil, fmt.Errorf("query ingestion runs: %w", err)
	}

	result := pagination.NewPageResult(runs, total, page.Page, page.PageSize)
	return &result, nil
}

func find(ctx context.Context, db *sql.DB, id uuid.UUID) (*Run, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	r, err := repository.QueryOne(ctx, db, q, args, scanRun)
	if err != nil {
		return nil, dbErrors.Map(err)
	}
	return &r, nil
}
