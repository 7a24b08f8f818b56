package cutoffs

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/JaimeStill/rankwise/pkg/pagination"
	"github.com/JaimeStill/rankwise/pkg/query"
	"github.com/JaimeStill/rankwise/pkg/repository"
)

var dbErrors = repository.Errors{
	NotFound:  ErrNotFound,
	Duplicate: ErrDuplicate,
	Invalid:   ErrInvalidRanks,
}

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a cutoff repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "cutoffs"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Cutoff], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort, closingOrder).
		WhereSearch(page.Search, "InstitutionName", "InstitutionLocation", "Branch")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	total, err := repository.Count(ctx, r.db, countSQL, countArgs)
	if err != nil {
		return nil, fmt.Errorf("count cutoffs: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanCutoff)
	if err != nil {
		return nil, fmt.Errorf("query cutoffs: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Cutoff, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	c, err := repository.QueryOne(ctx, r.db, q, args, scanCutoff)
	if err != nil {
		return nil, dbErrors.Map(err)
	}
	return &c, nil
}

func (r *repo) FindByKey(ctx context.Context, key Key) (*Cutoff, error) {
	q, args := query.
		NewBuilder(projection).
		WhereEquals("InstitutionID", key.InstitutionID).
		WhereEquals("Branch", key.Branch).
		WhereEquals("Year", key.Year).
		WhereEquals("Category", key.Category).
		WhereEquals("Quota", key.Quota).
		BuildSingleOrNull()

	c, err := repository.QueryOne(ctx, r.db, q, args, scanCutoff)
	if err != nil {
		return nil, dbErrors.Map(err)
	}
	return &c, nil
}

func (r *repo) Upsert(ctx context.Context, cmd UpsertCommand) (*Cutoff, error) {
	if cmd.OpeningRank > cmd.ClosingRank {
		return nil, ErrInvalidRanks
	}

	q, args := UpsertQuery(uuid.New(), cmd)

	c, err := repository.QueryOne(ctx, r.db, q, args, scanCutoff)
	if err != nil {
		return nil, fmt.Errorf("upsert cutoff: %w", dbErrors.Map(err))
	}

	r.logger.Debug("cutoff upserted",
		"id", c.ID,
		"institution_id", c.InstitutionID,
		"branch", c.Branch,
		"year", c.Year,
	)
	return &c, nil
}

func (r *repo) QueryEligible(ctx context.Context, f EligibleFilter) ([]Cutoff, error) {
	q, args := EligibleQuery(f)

	items, err := repository.QueryMany(ctx, r.db, q, args, scanCutoff)
	if err != nil {
		return nil, fmt.Errorf("query eligible cutoffs: %w", err)
	}
	return items, nil
}

func (r *repo) ListYears(ctx context.Context) ([]int, error) {
	years, err := repository.QueryValues[int](
		ctx, r.db,
		"SELECT DISTINCT year FROM public.cutoffs ORDER BY year DESC",
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("list cutoff years: %w", err)
	}
	return years, nil
}
