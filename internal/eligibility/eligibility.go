package eligibility

import (
	"github.com/JaimeStill/rankwise/internal/cutoffs"
)

// Query describes a candidate lookup. InstitutionCategory and Location are
// optional; Track records the lookup for follow-up.
type Query struct {
	Rank                int     `json:"rank"`
	Branch              string  `json:"branch"`
	Category            string  `json:"category"`
	Quota               string  `json:"quota"`
	Year                int     `json:"year"`
	InstitutionCategory *string `json:"institution_category,omitempty"`
	Location            *string `json:"location,omitempty"`
	Track               bool    `json:"track,omitempty"`
}

// Candidate is a cutoff the candidate qualifies for, annotated with a chance tier.
type Candidate struct {
	InstitutionID       string  `json:"institution_id"`
	InstitutionName     string  `json:"institution_name"`
	InstitutionLocation string  `json:"institution_location"`
	InstitutionCategory string  `json:"institution_category"`
	Branch              string  `json:"branch"`
	Year                int     `json:"year"`
	Category            string  `json:"category"`
	Quota               string  `json:"quota"`
	OpeningRank         int     `json:"opening_rank"`
	ClosingRank         int     `json:"closing_rank"`
	Margin              float64 `json:"margin_percent"`
	Tier                Chance  `json:"tier"`
	TierLabel           string  `json:"tier_label"`
}

// HistoryQuery classifies Query against the years preceding CurrentYear.
type HistoryQuery struct {
	Query
	CurrentYear int `json:"current_year"`
	YearsBack   int `json:"years_back,omitempty"`
}

// Lookup is a tracked candidate query, recorded for the lead workflow.
type Lookup struct {
	Query
	Results int
}

func (q Query) filter(year int) cutoffs.EligibleFilter {
	return cutoffs.EligibleFilter{
		Rank:                q.Rank,
		Branch:              q.Branch,
		Category:            q.Category,
		Quota:               q.Quota,
		Year:                year,
		InstitutionCategory: q.InstitutionCategory,
	}
}

func annotate(rank int, c cutoffs.Cutoff) Candidate {
	tier := Tier(rank, c.ClosingRank)
	return Candidate{
		InstitutionID:       c.InstitutionID.String(),
		InstitutionName:     c.InstitutionName,
		InstitutionLocation: c.InstitutionLocation,
		InstitutionCategory: c.InstitutionCategory,
		Branch:              c.Branch,
		Year:                c.Year,
		Category:            c.Category,
		Quota:               c.Quota,
		OpeningRank:         c.OpeningRank,
		ClosingRank:         c.ClosingRank,
		Margin:              MarginPercent(rank, c.ClosingRank),
		Tier:                tier,
		TierLabel:           tier.Label(),
	}
}
