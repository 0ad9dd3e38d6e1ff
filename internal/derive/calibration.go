package derive

import (
	"math"

	"github.com/sportsight/dashboard-core/pkg/models"
)

// MinBucketSample is the smallest bucket worth judging calibration on.
// Smaller buckets are noise.
const MinBucketSample = 5

// NoBucket is reported when a sport has no calibration buckets at all.
const NoBucket = "N/A"

// BestBucket picks the confidence bucket whose observed accuracy sits
// closest to its stated midpoint, considering only buckets with at least
// MinBucketSample graded predictions. If no bucket qualifies the first
// bucket wins regardless of size; an empty set reports NoBucket. Ties go
// to the earlier bucket in input order — the input is never re-sorted.
func BestBucket(buckets []models.CalibrationBucket) string {
	if len(buckets) == 0 {
		return NoBucket
	}

	best := ""
	bestDiff := math.MaxFloat64
	for _, b := range buckets {
		if b.Total < MinBucketSample {
			continue
		}
		diff := math.Abs(b.AccuracyPct - b.BucketMidpoint)
		if diff < bestDiff {
			bestDiff = diff
			best = b.BucketLabel
		}
	}
	if best == "" {
		return buckets[0].BucketLabel
	}
	return best
}

// BestBucketAllSports applies BestBucket to the sport with the largest
// graded sample. Calibration quality in "all sports" mode is reported for
// the statistically biggest sample only, not blended across sports.
func BestBucketAllSports(sports []models.CalibrationSportData) string {
	if len(sports) == 0 {
		return NoBucket
	}

	largest := sports[0]
	for _, s := range sports[1:] {
		if s.OverallTotal > largest.OverallTotal {
			largest = s
		}
	}
	return BestBucket(largest.Buckets)
}

// SportCalibration finds one sport's calibration data by code. The second
// return is false when the sport is absent from the response.
func SportCalibration(sports []models.CalibrationSportData, sport models.Sport) (models.CalibrationSportData, bool) {
	for _, s := range sports {
		if s.Sport == sport.String() {
			return s, true
		}
	}
	return models.CalibrationSportData{}, false
}
