package institutions

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/JaimeStill/rankwise/pkg/pagination"
	"github.com/JaimeStill/rankwise/pkg/query"
	"github.com/JaimeStill/rankwise/pkg/repository"
)

var dbErrors = repository.Errors{NotFound: ErrNotFound, Duplicate: ErrDuplicate}

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates an institution repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "institutions"),
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
) (*pagination.PageResult[Institution], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Name", "Location")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	total, err := repository.Count(ctx, r.db, countSQL, countArgs)
	if err != nil {
		return nil, fmt.Errorf("count institutions: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanInstitution)
	if err != nil {
		return nil, fmt.Errorf("query institutions: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Institution, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	i, err := repository.QueryOne(ctx, r.db, q, args, scanInstitution)
	if err != nil {
		return nil, dbErrors.Map(err)
	}
	return &i, nil
}

func (r *repo) FindByIdentity(ctx context.Context, name, location string) (*Institution, error) {
	q, args := query.
		NewBuilder(projection).
		WhereEquals("Name", name).
		WhereEquals("Location", location).
		BuildSingleOrNull()

	i, err := repository.QueryOne(ctx, r.db, q, args, scanInstitution)
	if err != nil {
		return nil, dbErrors.Map(err)
	}
	return &i, nil
}

func (r *repo) GetOrCreate(ctx context.Context, cmd CreateCommand) (*Institution, error) {
	if strings.TrimSpace(cmd.Name) == "" || strings.TrimSpace(cmd.Location) == "" {
		return nil, ErrInvalidIdentity
	}

	if cmd.City == "" && cmd.State == "" {
		cmd.City, cmd.State = ParseLocation(cmd.Location)
	}
	if !ValidCategory(cmd.Category) {
		cmd.Category = ClassifyCategory(cmd.Category)
	}

	q, args := GetOrCreateQuery(uuid.New(), cmd)

	var created bool
	i, err := repository.QueryOne(ctx, r.db, q, args, func(s repository.Scanner) (Institution, error) {
		var i Institution
		err := s.Scan(
			&i.ID,
			&i.Name,
			&i.Location,
			&i.Category,
			&i.City,
			&i.State,
			&i.CreatedAt,
			&created,
		)
		return i, err
	})
	if err != nil {
		return nil, fmt.Errorf("get or create institution %q: %w", cmd.Name, dbErrors.Map(err))
	}

	if created {
		r.logger.Info("institution created", "id", i.ID, "name", i.Name, "location", i.Location)
	}
	return &i, nil
}
