// Package derive turns raw backend responses into display-ready values.
// Every function is pure: no I/O, no clock, and malformed or empty input
// degrades to a documented default instead of an error.
package derive

import (
	"math"

	"github.com/sportsight/dashboard-core/pkg/models"
)

// Overview is the "all sports" calibration headline.
type Overview struct {
	TotalCorrect int     `json:"total_correct"`
	Total        int     `json:"total"`
	AccuracyPct  float64 `json:"accuracy_pct"`
}

// AggregateOverview sums per-sport calibration totals into one headline.
//
// accuracy_pct = round(total_correct / total * 100, 1 decimal)
//
// An empty sport list (or all-zero totals) yields 0, never NaN.
func AggregateOverview(sports []models.CalibrationSportData) Overview {
	var o Overview
	for _, s := range sports {
		o.TotalCorrect += s.OverallCorrect
		o.Total += s.OverallTotal
	}
	if o.Total > 0 {
		o.AccuracyPct = Round1(float64(o.TotalCorrect) / float64(o.Total) * 100)
	}
	return o
}

// ModelAccuracyPct normalizes the backend's nullable model_accuracy field
// into a displayable percentage. Absent means the sport's model has not
// been trained; it reports 0 and false.
func ModelAccuracyPct(v *float64) (float64, bool) {
	if v == nil {
		return 0, false
	}
	return Round1(*v), true
}

// Round1 rounds to one decimal place.
func Round1(x float64) float64 {
	return math.Round(x*10) / 10
}
