package querycache

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/sportsight/dashboard-core/internal/retry"
)

// Defaults for freshness and slot retention.
const (
	DefaultStaleTime = 5 * time.Minute
	DefaultRetention = 10 * time.Minute
)

// ErrNoSnapshot is returned by a SnapshotStore when no persisted value
// exists for a key.
var ErrNoSnapshot = errors.New("no snapshot for key")

// FetchFunc loads the value for one key from the backend.
type FetchFunc func(ctx context.Context) (any, error)

// SnapshotStore persists successful entries so a restarted process can
// serve warm (stale-but-present) data before its first fetch completes.
type SnapshotStore interface {
	Load(ctx context.Context, key string) (value []byte, fetchedAt time.Time, err error)
	Save(ctx context.Context, key string, value []byte, fetchedAt time.Time) error
}

// Options control one query's read behavior.
type Options struct {
	// StaleTime overrides the cache default freshness window when > 0.
	StaleTime time.Duration
	// Disabled queries never fetch and report StatusIdle.
	Disabled bool
}

// Result is the typed outcome of a cache read.
type Result[T any] struct {
	Data    T
	HasData bool
	Status  Status
	Err     error
}

// Cache is a key-addressed async query cache. Concurrent reads for the
// same key share one underlying fetch, stale entries are served while a
// background refetch runs, and a failed refetch records the error without
// dropping the last good value. All mutation is wholesale entry
// replacement under the key's slot, so a slow response for an old key can
// never clobber the slot of a newer key.
type Cache struct {
	mu      sync.Mutex
	entries map[Key]*slot
	group   singleflight.Group

	staleTime time.Duration
	retention time.Duration
	retrier   *retry.Policy
	retryable func(error) bool
	snapshots SnapshotStore
	onUpdate  func(Entry)
	now       func() time.Time

	done      chan struct{}
	closeOnce sync.Once
}

type slot struct {
	entry       Entry
	subscribers map[uuid.UUID]struct{}
	lastAccess  time.Time
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithStaleTime sets the default freshness window.
func WithStaleTime(d time.Duration) CacheOption {
	return func(c *Cache) { c.staleTime = d }
}

// WithRetention sets how long an unsubscribed, unread slot survives
// before the sweeper collects it.
func WithRetention(d time.Duration) CacheOption {
	return func(c *Cache) { c.retention = d }
}

// WithRetry applies a bounded retry policy to fetches. retryable decides
// which errors earn another attempt; typically transport errors only.
func WithRetry(p *retry.Policy, retryable func(error) bool) CacheOption {
	return func(c *Cache) {
		c.retrier = p
		c.retryable = retryable
	}
}

// WithSnapshotStore adds a persistence tier consulted on cold reads and
// written through on successful fetches.
func WithSnapshotStore(s SnapshotStore) CacheOption {
	return func(c *Cache) { c.snapshots = s }
}

// WithUpdateHook registers a callback invoked after every entry
// replacement. The hook runs outside the cache lock and must not block.
func WithUpdateHook(fn func(Entry)) CacheOption {
	return func(c *Cache) { c.onUpdate = fn }
}

// WithClock replaces the time source (used by tests).
func WithClock(now func() time.Time) CacheOption {
	return func(c *Cache) { c.now = now }
}

// New creates an empty cache.
func New(opts ...CacheOption) *Cache {
	c := &Cache{
		entries:   make(map[Key]*slot),
		staleTime: DefaultStaleTime,
		retention: DefaultRetention,
		now:       time.Now,
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch reads the value for key, fetching through fn when the slot is
// missing or stale. Fresh values return immediately; stale values return
// immediately while one shared background refetch runs; a slot with no
// value blocks on the shared fetch. Disabled queries report StatusIdle
// without touching the network.
func Fetch[T any](ctx context.Context, c *Cache, key Key, fn func(ctx context.Context) (T, error), opts Options) Result[T] {
	if opts.Disabled {
		return Result[T]{Status: StatusIdle}
	}
	staleTime := opts.StaleTime
	if staleTime <= 0 {
		staleTime = c.staleTime
	}

	c.mu.Lock()
	s := c.slotLocked(key, staleTime)
	s.lastAccess = c.now()
	entry := s.entry
	c.mu.Unlock()

	if !entry.HasData() && c.snapshots != nil {
		entry = seedFromSnapshot[T](ctx, c, key, staleTime, entry)
	}

	if entry.Status == StatusSuccess && !entry.IsStale(c.now()) {
		return resultOf[T](entry)
	}

	fetcher := func(ctx context.Context) (any, error) { return fn(ctx) }

	if entry.HasData() {
		// Stale-while-revalidate: the caller keeps the old value, one
		// shared refetch runs detached from the caller's context.
		bg := context.WithoutCancel(ctx)
		go c.fetchShared(bg, key, fetcher, staleTime)
		return resultOf[T](entry)
	}

	return resultOf[T](c.fetchShared(ctx, key, fetcher, staleTime))
}

// Subscribe registers interest in key and returns a handle for
// Unsubscribe. Subscribed slots are exempt from retention sweeps.
func (c *Cache) Subscribe(key Key) uuid.UUID {
	id := uuid.New()
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.slotLocked(key, c.staleTime)
	s.subscribers[id] = struct{}{}
	s.lastAccess = c.now()
	return id
}

// Unsubscribe drops a subscription handle. The slot stays until the
// retention window elapses without further reads.
func (c *Cache) Unsubscribe(key Key, id uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if s, ok := c.entries[key]; ok {
		delete(s.subscribers, id)
		s.lastAccess = c.now()
	}
}

// Peek returns the current entry for key without fetching.
func (c *Cache) Peek(key Key) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if s, ok := c.entries[key]; ok {
		return s.entry, true
	}
	return Entry{}, false
}

// Invalidate marks key's entry stale so the next read refetches. The
// current value stays visible until then.
func (c *Cache) Invalidate(key Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if s, ok := c.entries[key]; ok {
		e := s.entry
		e.FetchedAt = time.Time{}
		s.entry = e
	}
}

// InvalidateDomain marks every entry in a domain stale.
func (c *Cache) InvalidateDomain(domain string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, s := range c.entries {
		if key.Domain() == domain {
			e := s.entry
			e.FetchedAt = time.Time{}
			s.entry = e
		}
	}
}

// Len returns the number of live slots.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// StartGC runs a background sweeper that drops slots nobody subscribes
// to once they age past the retention window.
func (c *Cache) StartGC(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				c.sweep()
			case <-c.done:
				return
			}
		}
	}()
}

// Close stops the sweeper.
func (c *Cache) Close() {
	c.closeOnce.Do(func() { close(c.done) })
}

func (c *Cache) sweep() {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, s := range c.entries {
		if len(s.subscribers) == 0 && now.Sub(s.lastAccess) >= c.retention {
			delete(c.entries, key)
		}
	}
}

// slotLocked returns the slot for key, creating an idle one if needed.
// Caller holds c.mu.
func (c *Cache) slotLocked(key Key, staleTime time.Duration) *slot {
	s, ok := c.entries[key]
	if !ok {
		s = &slot{
			entry:       Entry{Key: key, Status: StatusIdle, StaleAfter: staleTime},
			subscribers: make(map[uuid.UUID]struct{}),
			lastAccess:  c.now(),
		}
		c.entries[key] = s
	}
	return s
}

// fetchShared runs the fetch for key, collapsed across concurrent callers
// by singleflight, and returns the slot's entry afterwards.
func (c *Cache) fetchShared(ctx context.Context, key Key, fn FetchFunc, staleTime time.Duration) Entry {
	c.group.Do(key.String(), func() (any, error) {
		c.markLoading(key, staleTime)
		var value any
		err := c.runFetch(ctx, fn, &value)
		c.applyResult(ctx, key, value, err, staleTime)
		return value, err
	})

	c.mu.Lock()
	defer c.mu.Unlock()
	if s, ok := c.entries[key]; ok {
		return s.entry
	}
	return Entry{Key: key, Status: StatusIdle, StaleAfter: staleTime}
}

func (c *Cache) runFetch(ctx context.Context, fn FetchFunc, out *any) error {
	if c.retrier == nil {
		v, err := fn(ctx)
		if err == nil {
			*out = v
		}
		return err
	}
	return c.retrier.Execute(ctx, func() error {
		v, err := fn(ctx)
		if err == nil {
			*out = v
		}
		return err
	}, c.retryable)
}

// markLoading flips a slot without data to StatusLoading. Slots that
// already hold a value keep showing it while the refetch runs, and no
// update fires for them since the entry did not change.
func (c *Cache) markLoading(key Key, staleTime time.Duration) {
	c.mu.Lock()
	s, ok := c.entries[key]
	if !ok {
		c.mu.Unlock()
		return
	}
	e := s.entry
	if e.HasData() {
		c.mu.Unlock()
		return
	}
	e.Status = StatusLoading
	e.StaleAfter = staleTime
	s.entry = e
	c.mu.Unlock()
	c.notify(e)
}

// applyResult replaces key's entry with the fetch outcome. Results for
// slots the sweeper already collected are discarded; failure keeps the
// last successful value alongside the error.
func (c *Cache) applyResult(ctx context.Context, key Key, value any, err error, staleTime time.Duration) {
	c.mu.Lock()
	s, ok := c.entries[key]
	if !ok {
		c.mu.Unlock()
		return
	}

	prev := s.entry
	var next Entry
	if err != nil {
		next = Entry{
			Key:        key,
			Data:       prev.Data,
			Status:     StatusError,
			Err:        err,
			FetchedAt:  prev.FetchedAt,
			StaleAfter: staleTime,
		}
	} else {
		next = Entry{
			Key:        key,
			Data:       value,
			Status:     StatusSuccess,
			FetchedAt:  c.now(),
			StaleAfter: staleTime,
		}
	}
	s.entry = next
	c.mu.Unlock()

	if err == nil && c.snapshots != nil {
		if raw, merr := json.Marshal(value); merr == nil {
			// Snapshot failures are non-fatal; the in-memory entry is
			// already current.
			_ = c.snapshots.Save(ctx, key.String(), raw, next.FetchedAt)
		}
	}
	c.notify(next)
}

// seedFromSnapshot loads a persisted value into an empty slot. The seeded
// entry keeps its original fetch time, so it is typically stale and the
// caller falls through to a refetch with warm data on display.
func seedFromSnapshot[T any](ctx context.Context, c *Cache, key Key, staleTime time.Duration, current Entry) Entry {
	raw, fetchedAt, err := c.snapshots.Load(ctx, key.String())
	if err != nil {
		return current
	}
	var value T
	if err := json.Unmarshal(raw, &value); err != nil {
		return current
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.entries[key]
	if !ok || s.entry.HasData() {
		if ok {
			return s.entry
		}
		return current
	}
	s.entry = Entry{
		Key:        key,
		Data:       value,
		Status:     StatusSuccess,
		FetchedAt:  fetchedAt,
		StaleAfter: staleTime,
	}
	return s.entry
}

func (c *Cache) notify(e Entry) {
	if c.onUpdate != nil {
		c.onUpdate(e)
	}
}

func resultOf[T any](e Entry) Result[T] {
	r := Result[T]{Status: e.Status, Err: e.Err}
	if e.Data != nil {
		if v, ok := e.Data.(T); ok {
			r.Data = v
			r.HasData = true
		}
	}
	return r
}
