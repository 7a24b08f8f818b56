package ingestion

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/JaimeStill/rankwise/internal/institutions"
	"github.com/JaimeStill/rankwise/pkg/tabular"
)

// observation is one validated, normalized cutoff row.
type observation struct {
	Name                string
	Location            string
	City                string
	State               string
	InstitutionCategory string
	Branch              string
	Year                int
	Category            string
	Quota               string
	OpeningRank         int
	ClosingRank         int
}

// rowNumber converts a zero-based data row index to the spreadsheet row
// number a user sees: one-indexed, plus the header row.
func rowNumber(index int) int {
	return index + 2
}

// parseRow validates row and returns one message per problem found.
// A row with any problem yields a nil observation.
func parseRow(row tabular.Row, num int) (*observation, []string) {
	var problems []string

	for _, col := range RequiredColumns {
		if row.Get(col) == "" {
			problems = append(problems, fmt.Sprintf("Row %d: Missing %s", num, col))
		}
	}

	number := func(col string) int {
		v := row.Get(col)
		if v == "" {
			return 0
		}
		n, ok := parseNumber(v)
		if !ok || n <= 0 {
			problems = append(problems, fmt.Sprintf("Row %d: Invalid %s %q", num, col, v))
			return 0
		}
		return n
	}

	year := number(ColYear)
	opening := number(ColOpeningRank)
	closing := number(ColClosingRank)

	if opening > 0 && closing > 0 && opening > closing {
		problems = append(problems, fmt.Sprintf(
			"Row %d: %s %d exceeds %s %d", num, ColOpeningRank, opening, ColClosingRank, closing,
		))
	}

	if len(problems) > 0 {
		return nil, problems
	}

	location := row.Get(ColLocation)
	city, state := institutions.ParseLocation(location)

	return &observation{
		Name:                row.Get(ColCollegeName),
		Location:            location,
		City:                city,
		State:               state,
		InstitutionCategory: institutions.ClassifyCategory(row.Get(ColType)),
		Branch:              row.Get(ColBranch),
		Year:                year,
		Category:            row.Get(ColCategory),
		Quota:               row.Get(ColQuota),
		OpeningRank:         opening,
		ClosingRank:         closing,
	}, nil
}

// parseNumber accepts integers and integral decimals ("1200", "1200.0"),
// which spreadsheets commonly emit for numeric cells. Values outside the
// stored INTEGER range are rejected.
func parseNumber(s string) (int, bool) {
	s = strings.TrimSpace(s)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0, false
	}
	return int(f), true
}

// nominalYear reads the run's year from the first data row; zero when absent
// or unparsable.
func nominalYear(rows []tabular.Row) int {
	if len(rows) == 0 {
		return 0
	}
	n, ok := parseNumber(rows[0].Get(ColYear))
	if !ok {
		return 0
	}
	return n
}
