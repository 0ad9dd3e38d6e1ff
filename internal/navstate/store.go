package navstate

import (
	"sync"
	"time"

	"github.com/sportsight/dashboard-core/pkg/models"
)

// DateLayout is the calendar-date form carried in navigation state.
const DateLayout = "2006-01-02"

// State is the shared navigational state every view keys its queries from.
// SelectedDate is a plain calendar date with no time or zone component.
type State struct {
	SelectedSport models.Sport `json:"selected_sport"`
	SelectedDate  string       `json:"selected_date"`
}

// Action is one of the four navigation transitions.
type Action interface {
	isAction()
}

// SetSport selects a sport.
type SetSport struct {
	Sport models.Sport
}

// SetDate selects a calendar date. The caller validates the format.
type SetDate struct {
	Date string
}

// NextDay advances the selected date by one calendar day.
type NextDay struct{}

// PrevDay moves the selected date back one calendar day.
type PrevDay struct{}

func (SetSport) isAction() {}
func (SetDate) isAction()  {}
func (NextDay) isAction()  {}
func (PrevDay) isAction()  {}

// Initial returns the start-of-process state: NBA on today's local date.
func Initial(now time.Time) State {
	return State{
		SelectedSport: models.SportNBA,
		SelectedDate:  now.Format(DateLayout),
	}
}

// Reduce applies one action to a state and returns the replacement state.
// It is pure and total: every action is valid in every state. Day stepping
// works on the calendar date's own components, never on a parsed instant,
// so crossing a DST transition cannot shift the displayed day.
func Reduce(s State, a Action) State {
	switch act := a.(type) {
	case SetSport:
		s.SelectedSport = act.Sport
	case SetDate:
		s.SelectedDate = act.Date
	case NextDay:
		s.SelectedDate = stepDay(s.SelectedDate, 1)
	case PrevDay:
		s.SelectedDate = stepDay(s.SelectedDate, -1)
	}
	return s
}

// stepDay shifts a YYYY-MM-DD date by days. A date that does not parse is
// returned unchanged; transitions never fail.
func stepDay(date string, days int) string {
	t, err := time.ParseInLocation(DateLayout, date, time.UTC)
	if err != nil {
		return date
	}
	return t.AddDate(0, 0, days).Format(DateLayout)
}

// Store holds the process-wide navigation state. Reads return the whole
// state value; writes replace it wholesale through Reduce.
type Store struct {
	mu    sync.RWMutex
	state State
}

// NewStore creates a store with the given initial state.
func NewStore(initial State) *Store {
	return &Store{state: initial}
}

// Current returns the state as of now.
func (s *Store) Current() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Dispatch applies an action and returns the resulting state.
func (s *Store) Dispatch(a Action) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Reduce(s.state, a)
	return s.state
}
