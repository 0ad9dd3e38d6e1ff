package derive

import "github.com/sportsight/dashboard-core/pkg/models"

// Point is one bar or line-chart datum: a categorical name and a numeric
// value. Series builders preserve input order; trend data arrives in date
// order from the backend and categorical bars keep their response order.
type Point struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// TrendSeries shapes the daily accuracy trend for a line chart.
func TrendSeries(trend []models.AccuracyTrendPoint) []Point {
	points := make([]Point, 0, len(trend))
	for _, p := range trend {
		points = append(points, Point{Name: p.Date, Value: p.AccuracyPct})
	}
	return points
}

// BySportSeries shapes per-sport accuracy for a bar chart.
func BySportSeries(items []models.AccuracyBySportItem) []Point {
	points := make([]Point, 0, len(items))
	for _, item := range items {
		points = append(points, Point{Name: item.Sport, Value: item.AccuracyPct})
	}
	return points
}

// ByTypeSeries shapes per-prediction-type accuracy for a bar chart.
func ByTypeSeries(items []models.AccuracyByTypeItem) []Point {
	points := make([]Point, 0, len(items))
	for _, item := range items {
		points = append(points, Point{Name: item.PredictionType, Value: item.AccuracyPct})
	}
	return points
}

// CalibrationSeries shapes a sport's confidence buckets for a bar chart.
func CalibrationSeries(buckets []models.CalibrationBucket) []Point {
	points := make([]Point, 0, len(buckets))
	for _, b := range buckets {
		points = append(points, Point{Name: b.BucketLabel, Value: b.AccuracyPct})
	}
	return points
}
