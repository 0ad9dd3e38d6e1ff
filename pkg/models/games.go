package models

// GameTeam is the trimmed team shape embedded in game list rows.
type GameTeam struct {
	ID           int     `json:"id"`
	Name         string  `json:"name"`
	Abbreviation string  `json:"abbreviation"`
	LogoURL      string  `json:"logo_url"`
	CurrentElo   float64 `json:"current_elo"`
}

// PredictionSummary is the headline prediction attached to a game list row.
type PredictionSummary struct {
	WinProbability     float64 `json:"win_probability"`
	PredictedWinnerID  int     `json:"predicted_winner_id"`
	PredictedHomeScore float64 `json:"predicted_home_score"`
	PredictedAwayScore float64 `json:"predicted_away_score"`
	Confidence         float64 `json:"confidence"`
}

// GameListItem is one row of GET /api/v1/games.
type GameListItem struct {
	ID           int                `json:"id"`
	ExternalID   string             `json:"external_id"`
	Sport        string             `json:"sport"`
	Season       int                `json:"season"`
	GameDate     string             `json:"game_date"`
	Status       string             `json:"status"`
	IsPostseason bool               `json:"is_postseason"`
	HomeTeam     GameTeam           `json:"home_team"`
	AwayTeam     GameTeam           `json:"away_team"`
	HomeScore    *int               `json:"home_score"`
	AwayScore    *int               `json:"away_score"`
	Prediction   *PredictionSummary `json:"prediction"`
}

// GameListResponse is the envelope for GET /api/v1/games.
type GameListResponse struct {
	Games []GameListItem `json:"games"`
	Total int            `json:"total"`
}

// KeyFactor is one model input that drove a prediction.
type KeyFactor struct {
	Factor    string  `json:"factor"`
	Impact    float64 `json:"impact"`
	Direction string  `json:"direction"`
	Detail    string  `json:"detail"`
}

// QuarterPredictions holds per-period predicted scores for both sides.
type QuarterPredictions struct {
	Home []float64 `json:"home"`
	Away []float64 `json:"away"`
}

// PredictionDetail is the full prediction record on a game detail page.
type PredictionDetail struct {
	ID                 int                 `json:"id"`
	WinProbability     float64             `json:"win_probability"`
	Confidence         float64             `json:"confidence"`
	PredictedWinnerID  int                 `json:"predicted_winner_id"`
	PredictedHomeScore float64             `json:"predicted_home_score"`
	PredictedAwayScore float64             `json:"predicted_away_score"`
	PredictedSpread    float64             `json:"predicted_spread"`
	PredictedTotal     float64             `json:"predicted_total"`
	QuarterPredictions *QuarterPredictions `json:"quarter_predictions"`
	KeyFactors         []KeyFactor         `json:"key_factors"`
}

// HeadToHeadGame is one prior meeting between the two teams.
type HeadToHeadGame struct {
	GameDate             string `json:"game_date"`
	HomeTeamAbbreviation string `json:"home_team_abbreviation"`
	AwayTeamAbbreviation string `json:"away_team_abbreviation"`
	HomeScore            int    `json:"home_score"`
	AwayScore            int    `json:"away_score"`
	WinnerAbbreviation   string `json:"winner_abbreviation"`
}

// TeamComparisonStat compares one stat between the two teams.
type TeamComparisonStat struct {
	StatName  string  `json:"stat_name"`
	HomeValue float64 `json:"home_value"`
	AwayValue float64 `json:"away_value"`
}

// GameDetail is the response of GET /api/v1/games/{id}.
type GameDetail struct {
	ID               int                  `json:"id"`
	ExternalID       string               `json:"external_id"`
	Sport            string               `json:"sport"`
	Season           int                  `json:"season"`
	GameDate         string               `json:"game_date"`
	Status           string               `json:"status"`
	IsPostseason     bool                 `json:"is_postseason"`
	HomeTeam         Team                 `json:"home_team"`
	AwayTeam         Team                 `json:"away_team"`
	HomeScore        *int                 `json:"home_score"`
	AwayScore        *int                 `json:"away_score"`
	HomePeriodScores []int                `json:"home_period_scores"`
	AwayPeriodScores []int                `json:"away_period_scores"`
	Predictions      []PredictionDetail   `json:"predictions"`
	HeadToHead       []HeadToHeadGame     `json:"head_to_head"`
	TeamComparison   []TeamComparisonStat `json:"team_comparison"`
}
