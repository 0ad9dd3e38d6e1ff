package querycache

import "time"

// Status is the lifecycle state of a cache entry as seen by subscribers.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Entry is an immutable snapshot of one cache slot. Updates replace the
// whole entry under its key; cached values are never mutated in place.
//
// Invariants: StatusSuccess implies Data present and Err nil. StatusError
// implies Err present, and Data still holds the last successful value if
// one exists — a failed refetch never drops previously good data.
type Entry struct {
	Key        Key
	Data       any
	Status     Status
	Err        error
	FetchedAt  time.Time
	StaleAfter time.Duration
}

// HasData reports whether the entry holds a (possibly stale) value.
func (e Entry) HasData() bool { return e.Data != nil }

// IsStale reports whether the entry's value is older than its freshness
// window at the given instant. Entries without data are always stale.
func (e Entry) IsStale(now time.Time) bool {
	if !e.HasData() {
		return true
	}
	return now.Sub(e.FetchedAt) >= e.StaleAfter
}
