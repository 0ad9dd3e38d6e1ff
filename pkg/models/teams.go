package models

// Team is the full team shape returned by GET /api/v1/teams.
type Team struct {
	ID           int     `json:"id"`
	ExternalID   string  `json:"external_id"`
	Sport        string  `json:"sport"`
	Name         string  `json:"name"`
	Abbreviation string  `json:"abbreviation"`
	City         string  `json:"city"`
	Conference   string  `json:"conference"`
	Division     string  `json:"division"`
	LogoURL      string  `json:"logo_url"`
	CurrentElo   float64 `json:"current_elo"`
}

// TeamDetail adds season record fields to the base team shape.
type TeamDetail struct {
	Team
	Wins   int     `json:"wins"`
	Losses int     `json:"losses"`
	WinPct float64 `json:"win_pct"`
}
