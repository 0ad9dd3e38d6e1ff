package viewmodel

import (
	"context"
	"errors"
	"fmt"

	"github.com/sportsight/dashboard-core/internal/api"
	"github.com/sportsight/dashboard-core/internal/derive"
	"github.com/sportsight/dashboard-core/internal/navstate"
	"github.com/sportsight/dashboard-core/internal/querycache"
	"github.com/sportsight/dashboard-core/pkg/models"
)

// Section carries per-query load state alongside its data, so one failed
// query surfaces a terse inline message without blocking its neighbors.
type Section struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

func sectionOf[T any](r querycache.Result[T]) Section {
	s := Section{Status: string(r.Status)}
	if r.Err != nil {
		s.Error = TerseError(r.Err)
	}
	return s
}

// TerseError reduces a fetch failure to a short user-facing message.
func TerseError(err error) string {
	var httpErr *api.HTTPError
	var netErr *api.NetworkError
	var decErr *api.DecodeError
	switch {
	case errors.As(err, &httpErr):
		if httpErr.NotFound() {
			return "not found"
		}
		return fmt.Sprintf("backend error (status %d)", httpErr.Status)
	case errors.As(err, &netErr):
		return "backend unreachable"
	case errors.As(err, &decErr):
		return "unreadable backend response"
	default:
		return "request failed"
	}
}

// DashboardView is the main accuracy dashboard for the selected sport.
type DashboardView struct {
	Nav          navstate.State            `json:"nav"`
	Overview     *models.AccuracyOverview  `json:"overview"`
	OverviewMeta Section                   `json:"overview_meta"`
	BySportChart []derive.Point            `json:"by_sport_chart"`
	BySportMeta  Section                   `json:"by_sport_meta"`
	ByTypeChart  []derive.Point            `json:"by_type_chart"`
	ByTypeMeta   Section                   `json:"by_type_meta"`
	TrendChart   []derive.Point            `json:"trend_chart"`
	TrendMeta    Section                   `json:"trend_meta"`
	Recent       []RecentPredictionView    `json:"recent"`
	RecentMeta   Section                   `json:"recent_meta"`
}

// RecentPredictionView is a graded prediction row with its badge band.
type RecentPredictionView struct {
	models.RecentPrediction
	ResultLabel string `json:"result_label"`
}

// Dashboard assembles the accuracy dashboard for the currently selected
// sport. Sections load and fail independently.
func (s *Service) Dashboard(ctx context.Context) DashboardView {
	sport := s.nav.Current().SelectedSport

	overview := s.overview(ctx, sport)
	bySport := s.bySport(ctx)
	byType := s.byType(ctx, sport)
	trend := s.trend(ctx, sport)
	recent := s.recent(ctx, sport, api.DefaultRecentLimit)

	view := DashboardView{
		Nav:          s.nav.Current(),
		OverviewMeta: sectionOf(overview),
		BySportMeta:  sectionOf(bySport),
		ByTypeMeta:   sectionOf(byType),
		TrendMeta:    sectionOf(trend),
		RecentMeta:   sectionOf(recent),
	}
	if overview.HasData {
		view.Overview = overview.Data
	}
	if bySport.HasData {
		view.BySportChart = derive.BySportSeries(bySport.Data.BySport)
	}
	if byType.HasData {
		view.ByTypeChart = derive.ByTypeSeries(byType.Data.ByType)
	}
	if trend.HasData {
		view.TrendChart = derive.TrendSeries(trend.Data.Trend)
	}
	if recent.HasData {
		view.Recent = make([]RecentPredictionView, 0, len(recent.Data))
		for _, p := range recent.Data {
			label := "Miss"
			if p.WasCorrect {
				label = "Hit"
			}
			view.Recent = append(view.Recent, RecentPredictionView{
				RecentPrediction: p,
				ResultLabel:      label,
			})
		}
	}
	return view
}

// CalibrationView reports how well stated confidence matches observed win
// rate, for one sport or the all-sports rollup.
type CalibrationView struct {
	Sport              string         `json:"sport"`
	OverallAccuracyPct float64        `json:"overall_accuracy_pct"`
	TotalGames         int            `json:"total_games"`
	BestBucket         string         `json:"best_bucket"`
	BucketChart        []derive.Point `json:"bucket_chart"`
	Meta               Section        `json:"meta"`
}

// Calibration assembles the calibration view. sport is a sport code or
// AllSports; in all-sports mode the headline sums every sport while the
// best-bucket verdict and chart come from the largest graded sample.
func (s *Service) Calibration(ctx context.Context, sport string) CalibrationView {
	res := s.calibration(ctx)
	view := CalibrationView{
		Sport:      sport,
		BestBucket: derive.NoBucket,
		Meta:       sectionOf(res),
	}
	if !res.HasData {
		return view
	}
	sports := res.Data.Sports

	if sport == AllSports {
		overview := derive.AggregateOverview(sports)
		view.OverallAccuracyPct = overview.AccuracyPct
		view.TotalGames = overview.Total
		view.BestBucket = derive.BestBucketAllSports(sports)
		if largest, ok := largestSample(sports); ok {
			view.BucketChart = derive.CalibrationSeries(largest.Buckets)
		}
		return view
	}

	data, ok := derive.SportCalibration(sports, models.Sport(sport))
	if !ok {
		return view
	}
	view.OverallAccuracyPct = derive.Round1(float64(data.OverallCorrect) / nonZero(data.OverallTotal) * 100)
	view.TotalGames = data.OverallTotal
	view.BestBucket = derive.BestBucket(data.Buckets)
	view.BucketChart = derive.CalibrationSeries(data.Buckets)
	return view
}

// GamesView lists the selected day's games for the selected sport.
type GamesView struct {
	Nav   navstate.State `json:"nav"`
	Games []GameRowView  `json:"games"`
	Total int            `json:"total"`
	Meta  Section        `json:"meta"`
}

// GameRowView is one game list row with its confidence badge.
type GameRowView struct {
	models.GameListItem
	ConfidenceBand derive.Band `json:"confidence_band,omitempty"`
}

// Games assembles the games list for the current navigation state.
func (s *Service) Games(ctx context.Context) GamesView {
	nav := s.nav.Current()
	res := s.games(ctx, nav.SelectedSport, nav.SelectedDate)

	view := GamesView{Nav: nav, Meta: sectionOf(res)}
	if !res.HasData {
		return view
	}
	view.Total = res.Data.Total
	view.Games = make([]GameRowView, 0, len(res.Data.Games))
	for _, g := range res.Data.Games {
		row := GameRowView{GameListItem: g}
		if g.Prediction != nil {
			row.ConfidenceBand = derive.ConfidenceBand(g.Prediction.Confidence)
		}
		view.Games = append(view.Games, row)
	}
	return view
}

// GameDetailView is one game's detail page data.
type GameDetailView struct {
	Game           *models.GameDetail `json:"game"`
	PeriodLabels   []string           `json:"period_labels"`
	ConfidenceBand derive.Band        `json:"confidence_band,omitempty"`
	Meta           Section            `json:"meta"`
}

// GameDetail assembles a game detail view. Non-positive ids disable the
// query; the view reports idle, not an error.
func (s *Service) GameDetail(ctx context.Context, id int) GameDetailView {
	res := s.gameDetail(ctx, id)
	view := GameDetailView{Meta: sectionOf(res)}
	if !res.HasData {
		return view
	}
	game := res.Data
	view.Game = game
	view.PeriodLabels = derive.PeriodLabels(models.Sport(game.Sport), periodCount(game))
	if len(game.Predictions) > 0 {
		// Highest id is the latest model run.
		latest := game.Predictions[0]
		for _, p := range game.Predictions[1:] {
			if p.ID > latest.ID {
				latest = p
			}
		}
		view.ConfidenceBand = derive.ConfidenceBand(latest.Confidence)
	}
	return view
}

// TeamsView lists a sport's teams.
type TeamsView struct {
	Sport models.Sport  `json:"sport"`
	Teams []models.Team `json:"teams"`
	Meta  Section       `json:"meta"`
}

// Teams assembles the team list for the currently selected sport.
func (s *Service) Teams(ctx context.Context) TeamsView {
	sport := s.nav.Current().SelectedSport
	res := s.teams(ctx, sport)
	view := TeamsView{Sport: sport, Meta: sectionOf(res)}
	if res.HasData {
		view.Teams = res.Data
	}
	return view
}

// periodCount returns how many scoring periods the game actually has,
// falling back to the longer of the two period-score slices.
func periodCount(game *models.GameDetail) int {
	n := len(game.HomePeriodScores)
	if len(game.AwayPeriodScores) > n {
		n = len(game.AwayPeriodScores)
	}
	if n == 0 {
		n = defaultPeriods(models.Sport(game.Sport))
	}
	return n
}

// defaultPeriods is the regulation period count per sport, used when a
// game has no period scores yet.
func defaultPeriods(sport models.Sport) int {
	switch sport {
	case models.SportNHL:
		return 3
	case models.SportMLB:
		return 9
	case models.SportNCAAB:
		return 2
	default:
		return 4
	}
}

func largestSample(sports []models.CalibrationSportData) (models.CalibrationSportData, bool) {
	if len(sports) == 0 {
		return models.CalibrationSportData{}, false
	}
	largest := sports[0]
	for _, s := range sports[1:] {
		if s.OverallTotal > largest.OverallTotal {
			largest = s
		}
	}
	return largest, true
}

func nonZero(total int) float64 {
	if total == 0 {
		return 1
	}
	return float64(total)
}
