// Package cutoffs implements the admission cutoff store for Rankwise.
// A cutoff is the historical opening and closing rank for one institution,
// branch, year, candidate category, and quota. That tuple is the record's
// identity: re-ingesting it overwrites the ranks in place.
package cutoffs

import (
	"time"

	"github.com/google/uuid"
)

// Cutoff is one historical admission cutoff. Institution fields are
// denormalized for query convenience.
type Cutoff struct {
	ID                  uuid.UUID `json:"id"`
	InstitutionID       uuid.UUID `json:"institution_id"`
	InstitutionName     string    `json:"institution_name"`
	InstitutionLocation string    `json:"institution_location"`
	InstitutionCategory string    `json:"institution_category"`
	Branch              string    `json:"branch"`
	Year                int       `json:"year"`
	Category            string    `json:"category"`
	Quota               string    `json:"quota"`
	OpeningRank         int       `json:"opening_rank"`
	ClosingRank         int       `json:"closing_rank"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// Key is the composite identity of a cutoff.
type Key struct {
	InstitutionID uuid.UUID
	Branch        string
	Year          int
	Category      string
	Quota         string
}

// Key returns the composite identity of c.
func (c Cutoff) Key() Key {
	return Key{
		InstitutionID: c.InstitutionID,
		Branch:        c.Branch,
		Year:          c.Year,
		Category:      c.Category,
		Quota:         c.Quota,
	}
}

// UpsertCommand carries a cutoff observation keyed by Key. The institution
// fields are copied onto the record.
type UpsertCommand struct {
	Key
	InstitutionName     string
	InstitutionLocation string
	InstitutionCategory string
	OpeningRank         int
	ClosingRank         int
}

// EligibleFilter selects cutoffs a candidate of Rank qualifies for.
// InstitutionCategory is optional.
type EligibleFilter struct {
	Rank                int
	Branch              string
	Category            string
	Quota               string
	Year                int
	InstitutionCategory *string
}
