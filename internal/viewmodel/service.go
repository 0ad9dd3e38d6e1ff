// Package viewmodel assembles display-ready view-models. It is the one
// place that walks the whole pipeline: navigation state supplies query
// parameters, the key builder addresses a cache slot, the cache fetches
// through the endpoint set when stale, and the derivation functions shape
// the raw responses for display.
package viewmodel

import (
	"context"
	"time"

	"github.com/sportsight/dashboard-core/internal/api"
	"github.com/sportsight/dashboard-core/internal/navstate"
	"github.com/sportsight/dashboard-core/internal/querycache"
	"github.com/sportsight/dashboard-core/pkg/models"
)

// AllSports is the pseudo-sport selecting the cross-sport rollup.
const AllSports = "ALL"

// Freshness windows per query family. Game lists move during play;
// accuracy stats change once a day; team rosters barely change.
const (
	GamesStaleTime    = 60 * time.Second
	AccuracyStaleTime = 5 * time.Minute
	TeamsStaleTime    = time.Hour
)

// Service builds view-models from cached backend data.
type Service struct {
	client *api.Client
	cache  *querycache.Cache
	nav    *navstate.Store
}

// New wires a view-model service.
func New(client *api.Client, cache *querycache.Cache, nav *navstate.Store) *Service {
	return &Service{client: client, cache: cache, nav: nav}
}

// Nav exposes the navigation store for dispatching actions.
func (s *Service) Nav() *navstate.Store {
	return s.nav
}

// Query keys. Absent parameters are omitted so e.g. the all-sports trend
// shares a slot no matter how the caller spelled "no sport filter".

func gamesKey(sport models.Sport, date string) querycache.Key {
	return querycache.BuildKey("games", "list", map[string]any{
		"sport": sport,
		"date":  date,
	})
}

func gameDetailKey(id int) querycache.Key {
	return querycache.BuildKey("games", "detail", map[string]any{"id": id})
}

func teamsKey(sport models.Sport) querycache.Key {
	return querycache.BuildKey("teams", "list", map[string]any{"sport": sport})
}

func overviewKey(sport models.Sport) querycache.Key {
	return querycache.BuildKey("accuracy", "overview", map[string]any{"sport": sport})
}

func bySportKey() querycache.Key {
	return querycache.BuildKey("accuracy", "by-sport", nil)
}

func byTypeKey(sport models.Sport) querycache.Key {
	return querycache.BuildKey("accuracy", "by-type", map[string]any{"sport": sport})
}

func trendKey(sport models.Sport) querycache.Key {
	return querycache.BuildKey("accuracy", "trend", map[string]any{"sport": sport})
}

func recentKey(sport models.Sport, limit int) querycache.Key {
	return querycache.BuildKey("accuracy", "recent", map[string]any{
		"sport": sport,
		"limit": limit,
	})
}

func calibrationKey() querycache.Key {
	return querycache.BuildKey("accuracy", "calibration", nil)
}

// Cached query wrappers.

func (s *Service) games(ctx context.Context, sport models.Sport, date string) querycache.Result[*models.GameListResponse] {
	return querycache.Fetch(ctx, s.cache, gamesKey(sport, date),
		func(ctx context.Context) (*models.GameListResponse, error) {
			return s.client.ListGames(ctx, api.GamesFilter{Sport: sport, Date: date})
		},
		querycache.Options{StaleTime: GamesStaleTime})
}

func (s *Service) gameDetail(ctx context.Context, id int) querycache.Result[*models.GameDetail] {
	return querycache.Fetch(ctx, s.cache, gameDetailKey(id),
		func(ctx context.Context) (*models.GameDetail, error) {
			return s.client.GetGame(ctx, id)
		},
		querycache.Options{StaleTime: GamesStaleTime, Disabled: id <= 0})
}

func (s *Service) teams(ctx context.Context, sport models.Sport) querycache.Result[[]models.Team] {
	return querycache.Fetch(ctx, s.cache, teamsKey(sport),
		func(ctx context.Context) ([]models.Team, error) {
			return s.client.ListTeams(ctx, sport)
		},
		querycache.Options{StaleTime: TeamsStaleTime})
}

func (s *Service) overview(ctx context.Context, sport models.Sport) querycache.Result[*models.AccuracyOverview] {
	return querycache.Fetch(ctx, s.cache, overviewKey(sport),
		func(ctx context.Context) (*models.AccuracyOverview, error) {
			return s.client.AccuracyOverview(ctx, sport)
		},
		querycache.Options{StaleTime: AccuracyStaleTime})
}

func (s *Service) bySport(ctx context.Context) querycache.Result[*models.AccuracyBySportResponse] {
	return querycache.Fetch(ctx, s.cache, bySportKey(),
		func(ctx context.Context) (*models.AccuracyBySportResponse, error) {
			return s.client.AccuracyBySport(ctx)
		},
		querycache.Options{StaleTime: AccuracyStaleTime})
}

func (s *Service) byType(ctx context.Context, sport models.Sport) querycache.Result[*models.AccuracyByTypeResponse] {
	return querycache.Fetch(ctx, s.cache, byTypeKey(sport),
		func(ctx context.Context) (*models.AccuracyByTypeResponse, error) {
			return s.client.AccuracyByType(ctx, sport)
		},
		querycache.Options{StaleTime: AccuracyStaleTime})
}

func (s *Service) trend(ctx context.Context, sport models.Sport) querycache.Result[*models.AccuracyTrendResponse] {
	return querycache.Fetch(ctx, s.cache, trendKey(sport),
		func(ctx context.Context) (*models.AccuracyTrendResponse, error) {
			return s.client.AccuracyTrend(ctx, sport)
		},
		querycache.Options{StaleTime: AccuracyStaleTime})
}

func (s *Service) recent(ctx context.Context, sport models.Sport, limit int) querycache.Result[[]models.RecentPrediction] {
	return querycache.Fetch(ctx, s.cache, recentKey(sport, limit),
		func(ctx context.Context) ([]models.RecentPrediction, error) {
			return s.client.RecentPredictions(ctx, sport, limit)
		},
		querycache.Options{StaleTime: AccuracyStaleTime})
}

func (s *Service) calibration(ctx context.Context) querycache.Result[*models.CalibrationResponse] {
	return querycache.Fetch(ctx, s.cache, calibrationKey(),
		func(ctx context.Context) (*models.CalibrationResponse, error) {
			return s.client.Calibration(ctx)
		},
		querycache.Options{StaleTime: AccuracyStaleTime})
}
