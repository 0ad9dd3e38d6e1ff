package models

// AccuracyOverview is the headline accuracy summary from GET /api/v1/accuracy.
// ModelAccuracy is the model's cross-validation accuracy and may be absent for
// sports whose model has not been trained yet.
type AccuracyOverview struct {
	TotalPredictions   int      `json:"total_predictions"`
	CorrectPredictions int      `json:"correct_predictions"`
	AccuracyPct        float64  `json:"accuracy_pct"`
	AvgScoreError      float64  `json:"avg_score_error"`
	AvgSpreadError     float64  `json:"avg_spread_error"`
	GamesPredicted     int      `json:"games_predicted"`
	ModelAccuracy      *float64 `json:"model_accuracy"`
}

// AccuracyBySportItem is one sport's row from GET /api/v1/accuracy/by-sport.
type AccuracyBySportItem struct {
	Sport         string   `json:"sport"`
	Total         int      `json:"total"`
	Correct       int      `json:"correct"`
	AccuracyPct   float64  `json:"accuracy_pct"`
	ModelAccuracy *float64 `json:"model_accuracy"`
}

// AccuracyBySportResponse is the envelope for GET /api/v1/accuracy/by-sport.
type AccuracyBySportResponse struct {
	BySport []AccuracyBySportItem `json:"by_sport"`
}

// AccuracyByTypeItem is one prediction type's row (winner, spread, total...).
type AccuracyByTypeItem struct {
	PredictionType string  `json:"prediction_type"`
	AccuracyPct    float64 `json:"accuracy_pct"`
	AvgError       float64 `json:"avg_error"`
}

// AccuracyByTypeResponse is the envelope for GET /api/v1/accuracy/by-type.
type AccuracyByTypeResponse struct {
	ByType []AccuracyByTypeItem `json:"by_type"`
}

// AccuracyTrendPoint is one day of the rolling accuracy trend.
type AccuracyTrendPoint struct {
	Date        string  `json:"date"`
	AccuracyPct float64 `json:"accuracy_pct"`
	Total       int     `json:"total"`
}

// AccuracyTrendResponse is the envelope for GET /api/v1/accuracy/trend.
type AccuracyTrendResponse struct {
	Trend []AccuracyTrendPoint `json:"trend"`
}

// RecentPrediction is one graded prediction from GET /api/v1/accuracy/recent.
type RecentPrediction struct {
	GameID          int     `json:"game_id"`
	GameDate        string  `json:"game_date"`
	HomeTeam        string  `json:"home_team"`
	AwayTeam        string  `json:"away_team"`
	PredictedWinner string  `json:"predicted_winner"`
	ActualWinner    string  `json:"actual_winner"`
	WasCorrect      bool    `json:"was_correct"`
	PredictedScore  string  `json:"predicted_score"`
	ActualScore     string  `json:"actual_score"`
	ScoreError      float64 `json:"score_error"`
}

// CalibrationBucket is one confidence band with its observed hit rate.
type CalibrationBucket struct {
	BucketLabel    string  `json:"bucket_label"`
	BucketMidpoint float64 `json:"bucket_midpoint"`
	Correct        int     `json:"correct"`
	Total          int     `json:"total"`
	AccuracyPct    float64 `json:"accuracy_pct"`
}

// CalibrationSportData is one sport's calibration breakdown.
type CalibrationSportData struct {
	Sport              string              `json:"sport"`
	OverallCorrect     int                 `json:"overall_correct"`
	OverallTotal       int                 `json:"overall_total"`
	OverallAccuracyPct float64             `json:"overall_accuracy_pct"`
	Buckets            []CalibrationBucket `json:"buckets"`
}

// CalibrationResponse is the envelope for GET /api/v1/accuracy/calibration.
type CalibrationResponse struct {
	Sports []CalibrationSportData `json:"sports"`
}
