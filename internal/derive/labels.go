package derive

import (
	"fmt"

	"github.com/sportsight/dashboard-core/pkg/models"
)

// Band is the confidence badge label for a win probability.
type Band string

const (
	BandHigh   Band = "High"
	BandMedium Band = "Medium"
	BandLow    Band = "Low"
)

// Confidence thresholds, inclusive on the lower bound.
const (
	HighConfidence   = 0.75
	MediumConfidence = 0.55
)

// ConfidenceBand maps a probability in [0, 1] to a badge label:
// >= 0.75 High, >= 0.55 Medium, otherwise Low.
func ConfidenceBand(p float64) Band {
	switch {
	case p >= HighConfidence:
		return BandHigh
	case p >= MediumConfidence:
		return BandMedium
	default:
		return BandLow
	}
}

// PeriodLabels produces scoring-period column headers for a sport:
// NHL periods are P1..Pn, MLB innings are plain 1..n, NCAAB plays two
// halves, and everything else (NBA, NCAAF included) uses quarters Q1..Qn.
func PeriodLabels(sport models.Sport, n int) []string {
	if n <= 0 {
		return []string{}
	}

	switch sport {
	case models.SportNHL:
		labels := make([]string, n)
		for i := range labels {
			labels[i] = fmt.Sprintf("P%d", i+1)
		}
		return labels
	case models.SportMLB:
		labels := make([]string, n)
		for i := range labels {
			labels[i] = fmt.Sprintf("%d", i+1)
		}
		return labels
	case models.SportNCAAB:
		return []string{"1st Half", "2nd Half"}
	default:
		labels := make([]string, n)
		for i := range labels {
			labels[i] = fmt.Sprintf("Q%d", i+1)
		}
		return labels
	}
}
