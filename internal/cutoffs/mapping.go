package cutoffs

import (
	"net/url"
	"strconv"

	"github.com/google/uuid"

	"github.com/JaimeStill/rankwise/pkg/query"
	"github.com/JaimeStill/rankwise/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "cutoffs", "c").
	Project("id", "ID").
	Project("institution_id", "InstitutionID").
	Project("institution_name", "InstitutionName").
	Project("institution_location", "InstitutionLocation").
	Project("institution_category", "InstitutionCategory").
	Project("branch", "Branch").
	Project("year", "Year").
	Project("category", "Category").
	Project("quota", "Quota").
	Project("opening_rank", "OpeningRank").
	Project("closing_rank", "ClosingRank").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var (
	defaultSort  = query.SortField{Field: "Year", Descending: true}
	closingOrder = query.SortField{Field: "ClosingRank"}
)

const returning = `id, institution_id, institution_name, institution_location, institution_category,
		branch, year, category, quota, opening_rank, closing_rank, created_at, updated_at`

// Filters contains optional filtering criteria for cutoff listings.
// All fields use exact matching except InstitutionName (case-insensitive contains).
type Filters struct {
	InstitutionID       *string `json:"institution_id,omitempty"`
	InstitutionName     *string `json:"institution_name,omitempty"`
	InstitutionCategory *string `json:"institution_category,omitempty"`
	Branch              *string `json:"branch,omitempty"`
	Year                *int    `json:"year,omitempty"`
	Category            *string `json:"category,omitempty"`
	Quota               *string `json:"quota,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("InstitutionID", f.InstitutionID).
		WhereContains("InstitutionName", f.InstitutionName).
		WhereEquals("InstitutionCategory", f.InstitutionCategory).
		WhereEquals("Branch", f.Branch).
		WhereEquals("Year", f.Year).
		WhereEquals("Category", f.Category).
		WhereEquals("Quota", f.Quota)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if v := values.Get("institution_id"); v != "" {
		f.InstitutionID = &v
	}
	if v := values.Get("institution_name"); v != "" {
		f.InstitutionName = &v
	}
	if v := values.Get("institution_category"); v != "" {
		f.InstitutionCategory = &v
	}
	if v := values.Get("branch"); v != "" {
		f.Branch = &v
	}
	if v := values.Get("year"); v != "" {
		if y, err := strconv.Atoi(v); err == nil {
			f.Year = &y
		}
	}
	if v := values.Get("category"); v != "" {
		f.Category = &v
	}
	if v := values.Get("quota"); v != "" {
		f.Quota = &v
	}

	return f
}

// EligibleQuery builds the store query for f: equality on branch, category,
// quota, and year, closing rank at least the candidate's rank, and an optional
// institution category, ordered by ascending closing rank.
func EligibleQuery(f EligibleFilter) (string, []any) {
	return query.
		NewBuilder(projection, closingOrder).
		WhereEquals("Branch", f.Branch).
		WhereEquals("Category", f.Category).
		WhereEquals("Quota", f.Quota).
		WhereEquals("Year", f.Year).
		WhereAtLeast("ClosingRank", f.Rank).
		WhereEquals("InstitutionCategory", f.InstitutionCategory).
		Build()
}

// UpsertQuery builds the insert for cmd under a fresh id. A row with the same
// Key keeps its id and created_at; the institution fields and both ranks are
// overwritten.
func UpsertQuery(id uuid.UUID, cmd UpsertCommand) (string, []any) {
	q := `
		INSERT INTO cutoffs(
			id, institution_id, institution_name, institution_location, institution_category,
			branch, year, category, quota, opening_rank, closing_rank
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (institution_id, branch, year, category, quota) DO UPDATE SET
			institution_name = EXCLUDED.institution_name,
			institution_location = EXCLUDED.institution_location,
			institution_category = EXCLUDED.institution_category,
			opening_rank = EXCLUDED.opening_rank,
			closing_rank = EXCLUDED.closing_rank,
			updated_at = NOW()
		RETURNING ` + returning

	args := []any{
		id,
		cmd.InstitutionID,
		cmd.InstitutionName,
		cmd.InstitutionLocation,
		cmd.InstitutionCategory,
		cmd.Branch,
		cmd.Year,
		cmd.Category,
		cmd.Quota,
		cmd.OpeningRank,
		cmd.ClosingRank,
	}
	return q, args
}

func scanCutoff(s repository.Scanner) (Cutoff, error) {
	var c Cutoff
	err := s.Scan(
		&c.ID,
		&c.InstitutionID,
		&c.InstitutionName,
		&c.InstitutionLocation,
		&c.InstitutionCategory,
		&c.Branch,
		&c.Year,
		&c.Category,
		&c.Quota,
		&c.OpeningRank,
		&c.ClosingRank,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	return c, err
}
