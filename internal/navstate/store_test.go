package navstate_test

import (
	"testing"
	"time"

	"github.com/sportsight/dashboard-core/internal/navstate"
	"github.com/sportsight/dashboard-core/pkg/models"
)

func TestInitial(t *testing.T) {
	now := time.Date(2024, 3, 10, 22, 45, 0, 0, time.FixedZone("EST", -5*3600))
	state := navstate.Initial(now)

	if state.SelectedSport != models.SportNBA {
		t.Errorf("initial sport = %s, want NBA", state.SelectedSport)
	}
	if state.SelectedDate != "2024-03-10" {
		t.Errorf("initial date = %s, want 2024-03-10", state.SelectedDate)
	}
}

func TestReduce_DayStepping(t *testing.T) {
	tests := []struct {
		name   string
		date   string
		action navstate.Action
		want   string
	}{
		// 2024-03-10 is the US spring-forward day; stepping must not
		// depend on wall-clock instants.
		{"next across DST transition", "2024-03-10", navstate.NextDay{}, "2024-03-11"},
		{"prev onto DST transition", "2024-03-11", navstate.PrevDay{}, "2024-03-10"},
		{"next across month boundary", "2024-01-31", navstate.NextDay{}, "2024-02-01"},
		{"next onto leap day", "2024-02-28", navstate.NextDay{}, "2024-02-29"},
		{"next off leap day", "2024-02-29", navstate.NextDay{}, "2024-03-01"},
		{"prev across year boundary", "2025-01-01", navstate.PrevDay{}, "2024-12-31"},
		{"next across year boundary", "2024-12-31", navstate.NextDay{}, "2025-01-01"},
		{"prev across fall-back day", "2024-11-04", navstate.PrevDay{}, "2024-11-03"},
		{"malformed date unchanged on next", "not-a-date", navstate.NextDay{}, "not-a-date"},
		{"malformed date unchanged on prev", "", navstate.PrevDay{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := navstate.State{SelectedSport: models.SportNBA, SelectedDate: tt.date}
			got := navstate.Reduce(state, tt.action)
			if got.SelectedDate != tt.want {
				t.Errorf("Reduce(%q, %T) date = %q, want %q", tt.date, tt.action, got.SelectedDate, tt.want)
			}
			if got.SelectedSport != state.SelectedSport {
				t.Errorf("day stepping changed the sport to %s", got.SelectedSport)
			}
		})
	}
}

func TestReduce_SetSportAndDate(t *testing.T) {
	state := navstate.State{SelectedSport: models.SportNBA, SelectedDate: "2024-03-10"}

	next := navstate.Reduce(state, navstate.SetSport{Sport: models.SportNHL})
	if next.SelectedSport != models.SportNHL {
		t.Errorf("SetSport: sport = %s, want NHL", next.SelectedSport)
	}
	if next.SelectedDate != "2024-03-10" {
		t.Errorf("SetSport changed the date to %s", next.SelectedDate)
	}

	next = navstate.Reduce(state, navstate.SetDate{Date: "2024-06-01"})
	if next.SelectedDate != "2024-06-01" {
		t.Errorf("SetDate: date = %s, want 2024-06-01", next.SelectedDate)
	}

	// Reduce is pure: the input state is untouched.
	if state.SelectedSport != models.SportNBA || state.SelectedDate != "2024-03-10" {
		t.Errorf("Reduce mutated its input: %+v", state)
	}
}

func TestStore_Dispatch(t *testing.T) {
	store := navstate.NewStore(navstate.State{
		SelectedSport: models.SportNBA,
		SelectedDate:  "2024-03-10",
	})

	got := store.Dispatch(navstate.NextDay{})
	if got.SelectedDate != "2024-03-11" {
		t.Errorf("dispatch result date = %s, want 2024-03-11", got.SelectedDate)
	}
	if current := store.Current(); current != got {
		t.Errorf("Current() = %+v, want %+v", current, got)
	}

	store.Dispatch(navstate.SetSport{Sport: models.SportMLB})
	store.Dispatch(navstate.PrevDay{})
	current := store.Current()
	if current.SelectedSport != models.SportMLB || current.SelectedDate != "2024-03-10" {
		t.Errorf("after dispatches: %+v", current)
	}
}
