package institutions

import (
	"net/url"

	"github.com/google/uuid"

	"github.com/JaimeStill/rankwise/pkg/query"
	"github.com/JaimeStill/rankwise/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "institutions", "i").
	Project("id", "ID").
	Project("name", "Name").
	Project("location", "Location").
	Project("category", "Category").
	Project("city", "City").
	Project("state", "State").
	Project("created_at", "CreatedAt")

var defaultSort = query.SortField{Field: "Name"}

const returning = "id, name, location, category, city, state, created_at"

// Filters contains optional filtering criteria for institution queries.
// Category uses exact matching; City and State use case-insensitive contains matching.
type Filters struct {
	Category *string `json:"category,omitempty"`
	City     *string `json:"city,omitempty"`
	State    *string `json:"state,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Category", f.Category).
		WhereContains("City", f.City).
		WhereContains("State", f.State)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if c := values.Get("category"); c != "" {
		f.Category = &c
	}
	if c := values.Get("city"); c != "" {
		f.City = &c
	}
	if s := values.Get("state"); s != "" {
		f.State = &s
	}

	return f
}

// GetOrCreateQuery builds the insert for cmd under a fresh id. The no-op
// update makes RETURNING yield the existing row on a (name, location)
// conflict; the trailing column is true only for a freshly inserted tuple.
func GetOrCreateQuery(id uuid.UUID, cmd CreateCommand) (string, []any) {
	q := `
		INSERT INTO institutions(id, name, location, category, city, state)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (name, location) DO UPDATE SET name = EXCLUDED.name
		RETURNING ` + returning + `, (xmax = 0)`

	return q, []any{id, cmd.Name, cmd.Location, cmd.Category, cmd.City, cmd.State}
}

func scanInstitution(s repository.Scanner) (Institution, error) {
	var i Institution
	err := s.Scan(
		&i.ID,
		&i.Name,
		&i.Location,
		&i.Category,
		&i.City,
		&i.State,
		&i.CreatedAt,
	)
	return i, err
}
