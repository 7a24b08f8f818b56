// Package eligibility classifies a candidate's admission chances against
// historical cutoffs. It reads the cutoff store only; results are advisory
// and may reflect a partially ingested upload.
package eligibility

// Chance is a coarse confidence bucket derived from a candidate's margin
// against a closing rank.
type Chance string

const (
	ChanceHigh        Chance = "high"
	ChanceModerate    Chance = "moderate"
	ChanceLow         Chance = "low"
	ChanceNotEligible Chance = "not_eligible"
)

// Margin thresholds, as a percentage of the closing rank.
const (
	HighMargin     = 20.0
	ModerateMargin = 10.0
)

// Label returns the display label for c.
func (c Chance) Label() string {
	switch c {
	case ChanceHigh:
		return "High Chance"
	case ChanceModerate:
		return "Moderate Chance"
	case ChanceLow:
		return "Low Chance"
	default:
		return "Not Eligible"
	}
}

// MarginPercent returns 100 * (closingRank - rank) / closingRank.
func MarginPercent(rank, closingRank int) float64 {
	if closingRank <= 0 {
		return 0
	}
	return float64(closingRank-rank) * 100 / float64(closingRank)
}

// Tier buckets rank against closingRank. Boundaries are inclusive on the
// lower edge: exactly 20% is high and exactly 10% is moderate.
func Tier(rank, closingRank int) Chance {
	if rank > closingRank || closingRank <= 0 {
		return ChanceNotEligible
	}

	pct := MarginPercent(rank, closingRank)
	switch {
	case pct >= HighMargin:
		return ChanceHigh
	case pct >= ModerateMargin:
		return ChanceModerate
	default:
		return ChanceLow
	}
}
