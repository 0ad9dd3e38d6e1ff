package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/sportsight/dashboard-core/pkg/models"
)

// Default page sizes, mirroring the backend's caps.
const (
	DefaultGamesLimit  = 200
	DefaultRecentLimit = 20
)

// GamesFilter holds the list-games query parameters. Zero values are
// omitted from the request except Limit, which falls back to
// DefaultGamesLimit.
type GamesFilter struct {
	Sport  models.Sport
	Date   string // YYYY-MM-DD, empty for all dates
	Status string
	TeamID int
	Limit  int
	Offset int
}

// ListGames fetches games for a sport, optionally narrowed by date, status
// and team. The caller's UTC offset is always attached as tz_offset so the
// backend buckets "today" by the caller's wall-clock day; omitting it would
// silently shift day boundaries for users east or west of the backend.
func (c *Client) ListGames(ctx context.Context, f GamesFilter) (*models.GameListResponse, error) {
	q := url.Values{}
	q.Set("sport", f.Sport.String())
	if f.Date != "" {
		q.Set("date", f.Date)
	}
	if f.Status != "" {
		q.Set("status", f.Status)
	}
	if f.TeamID > 0 {
		q.Set("team_id", strconv.Itoa(f.TeamID))
	}
	limit := f.Limit
	if limit <= 0 {
		limit = DefaultGamesLimit
	}
	q.Set("limit", strconv.Itoa(limit))
	if f.Offset > 0 {
		q.Set("offset", strconv.Itoa(f.Offset))
	}
	q.Set("tz_offset", formatTZOffset(localTZOffsetHours(time.Now())))

	var out models.GameListResponse
	if err := c.Get(ctx, "/api/v1/games?"+q.Encode(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetGame fetches a single game with predictions, head-to-head history and
// team comparison. IDs are positive; callers disable the query otherwise.
func (c *Client) GetGame(ctx context.Context, id int) (*models.GameDetail, error) {
	if id <= 0 {
		return nil, fmt.Errorf("game id must be positive, got %d", id)
	}
	var out models.GameDetail
	if err := c.Get(ctx, fmt.Sprintf("/api/v1/games/%d", id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListTeams fetches all teams for a sport.
func (c *Client) ListTeams(ctx context.Context, sport models.Sport) ([]models.Team, error) {
	q := url.Values{}
	q.Set("sport", sport.String())

	var out []models.Team
	if err := c.Get(ctx, "/api/v1/teams?"+q.Encode(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AccuracyOverview fetches the headline accuracy summary. An empty sport
// requests the all-sports rollup.
func (c *Client) AccuracyOverview(ctx context.Context, sport models.Sport) (*models.AccuracyOverview, error) {
	var out models.AccuracyOverview
	if err := c.Get(ctx, "/api/v1/accuracy"+sportQuery(sport), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AccuracyBySport fetches per-sport accuracy rows.
func (c *Client) AccuracyBySport(ctx context.Context) (*models.AccuracyBySportResponse, error) {
	var out models.AccuracyBySportResponse
	if err := c.Get(ctx, "/api/v1/accuracy/by-sport", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AccuracyByType fetches accuracy broken down by prediction type.
func (c *Client) AccuracyByType(ctx context.Context, sport models.Sport) (*models.AccuracyByTypeResponse, error) {
	var out models.AccuracyByTypeResponse
	if err := c.Get(ctx, "/api/v1/accuracy/by-type"+sportQuery(sport), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AccuracyTrend fetches the daily accuracy trend series.
func (c *Client) AccuracyTrend(ctx context.Context, sport models.Sport) (*models.AccuracyTrendResponse, error) {
	var out models.AccuracyTrendResponse
	if err := c.Get(ctx, "/api/v1/accuracy/trend"+sportQuery(sport), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RecentPredictions fetches the latest graded predictions. limit <= 0
// falls back to DefaultRecentLimit; the backend caps it at 50.
func (c *Client) RecentPredictions(ctx context.Context, sport models.Sport, limit int) ([]models.RecentPrediction, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	q := url.Values{}
	if sport != "" {
		q.Set("sport", sport.String())
	}
	q.Set("limit", strconv.Itoa(limit))

	var out []models.RecentPrediction
	if err := c.Get(ctx, "/api/v1/accuracy/recent?"+q.Encode(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Calibration fetches the confidence-calibration breakdown for all sports.
func (c *Client) Calibration(ctx context.Context) (*models.CalibrationResponse, error) {
	var out models.CalibrationResponse
	if err := c.Get(ctx, "/api/v1/accuracy/calibration", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func sportQuery(sport models.Sport) string {
	if sport == "" {
		return ""
	}
	q := url.Values{}
	q.Set("sport", sport.String())
	return "?" + q.Encode()
}

// localTZOffsetHours returns t's UTC offset in hours, fractional for
// half-hour zones (e.g. 5.5 for IST).
func localTZOffsetHours(t time.Time) float64 {
	_, seconds := t.Zone()
	return float64(seconds) / 3600.0
}

// formatTZOffset renders an offset without trailing zeros: -5, 5.5.
func formatTZOffset(hours float64) string {
	return strconv.FormatFloat(hours, 'f', -1, 64)
}
