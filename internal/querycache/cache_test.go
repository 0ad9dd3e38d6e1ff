package querycache_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sportsight/dashboard-core/internal/querycache"
)

// fakeClock is a settable time source shared with the cache under test.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal(msg)
}

func TestFetch_ServedFromCacheUntilStale(t *testing.T) {
	clock := newFakeClock()
	cache := querycache.New(querycache.WithClock(clock.Now))
	defer cache.Close()

	key := querycache.BuildKey("accuracy", "overview", nil)
	var calls atomic.Int64
	fetcher := func(ctx context.Context) (string, error) {
		calls.Add(1)
		return "v1", nil
	}
	opts := querycache.Options{StaleTime: 300000 * time.Millisecond}

	res := querycache.Fetch(context.Background(), cache, key, fetcher, opts)
	if res.Status != querycache.StatusSuccess || res.Data != "v1" {
		t.Fatalf("first read: got status=%s data=%q", res.Status, res.Data)
	}
	if calls.Load() != 1 {
		t.Fatalf("first read should fetch once, got %d", calls.Load())
	}

	// One millisecond inside the freshness window: no new fetch.
	clock.Advance(299999 * time.Millisecond)
	res = querycache.Fetch(context.Background(), cache, key, fetcher, opts)
	if res.Data != "v1" || calls.Load() != 1 {
		t.Fatalf("fresh read refetched: calls=%d", calls.Load())
	}

	// Past the window: the stale value returns immediately and exactly
	// one background refetch runs.
	clock.Advance(2 * time.Millisecond)
	res = querycache.Fetch(context.Background(), cache, key, fetcher, opts)
	if res.Data != "v1" {
		t.Fatalf("stale read should serve old value, got %q", res.Data)
	}
	waitFor(t, func() bool { return calls.Load() == 2 }, "background refetch never ran")

	time.Sleep(20 * time.Millisecond)
	if calls.Load() != 2 {
		t.Fatalf("expected exactly one background refetch, got %d total calls", calls.Load())
	}
}

func TestFetch_ConcurrentReadsShareOneFetch(t *testing.T) {
	cache := querycache.New()
	defer cache.Close()

	key := querycache.BuildKey("accuracy", "calibration", nil)
	var calls atomic.Int64
	gate := make(chan struct{})
	fetcher := func(ctx context.Context) (int, error) {
		calls.Add(1)
		<-gate
		return 42, nil
	}

	var wg sync.WaitGroup
	results := make([]querycache.Result[int], 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = querycache.Fetch(context.Background(), cache, key, fetcher, querycache.Options{})
		}(i)
	}

	waitFor(t, func() bool { return calls.Load() == 1 }, "fetch never started")
	time.Sleep(20 * time.Millisecond) // give the second reader time to pile on
	close(gate)
	wg.Wait()

	if calls.Load() != 1 {
		t.Fatalf("concurrent reads should share one fetch, got %d", calls.Load())
	}
	for i, res := range results {
		if res.Status != querycache.StatusSuccess || res.Data != 42 {
			t.Errorf("reader %d: status=%s data=%d", i, res.Status, res.Data)
		}
	}
}

func TestFetch_DisabledReportsIdle(t *testing.T) {
	cache := querycache.New()
	defer cache.Close()

	key := querycache.BuildKey("games", "detail", map[string]any{"id": 0})
	fetcher := func(ctx context.Context) (string, error) {
		t.Fatal("disabled query must not fetch")
		return "", nil
	}

	res := querycache.Fetch(context.Background(), cache, key, fetcher, querycache.Options{Disabled: true})
	if res.Status != querycache.StatusIdle {
		t.Errorf("disabled query status = %s, want idle", res.Status)
	}
	if res.HasData {
		t.Error("disabled query should carry no data")
	}
	if cache.Len() != 0 {
		t.Errorf("disabled query should not create a slot, got %d", cache.Len())
	}
}

func TestFetch_StaleValueRetainedOnError(t *testing.T) {
	clock := newFakeClock()
	cache := querycache.New(querycache.WithClock(clock.Now))
	defer cache.Close()

	key := querycache.BuildKey("accuracy", "trend", map[string]any{"sport": "NBA"})
	var fail atomic.Bool
	fetcher := func(ctx context.Context) (string, error) {
		if fail.Load() {
			return "", errors.New("backend down")
		}
		return "good", nil
	}
	opts := querycache.Options{StaleTime: time.Minute}

	res := querycache.Fetch(context.Background(), cache, key, fetcher, opts)
	if res.Data != "good" {
		t.Fatalf("seed read failed: %+v", res)
	}

	fail.Store(true)
	clock.Advance(2 * time.Minute)

	res = querycache.Fetch(context.Background(), cache, key, fetcher, opts)
	if res.Data != "good" {
		t.Fatalf("stale read should still serve old value, got %q", res.Data)
	}

	waitFor(t, func() bool {
		e, ok := cache.Peek(key)
		return ok && e.Status == querycache.StatusError
	}, "refetch failure never recorded")

	entry, _ := cache.Peek(key)
	if entry.Data != "good" {
		t.Errorf("failed refetch dropped the last good value, data=%v", entry.Data)
	}
	if entry.Err == nil {
		t.Error("failed refetch should record the error")
	}
}

func TestFetch_FailureIsolatedPerKey(t *testing.T) {
	cache := querycache.New()
	defer cache.Close()

	goodKey := querycache.BuildKey("accuracy", "overview", map[string]any{"sport": "NBA"})
	badKey := querycache.BuildKey("accuracy", "overview", map[string]any{"sport": "NHL"})

	good := querycache.Fetch(context.Background(), cache, goodKey,
		func(ctx context.Context) (string, error) { return "ok", nil }, querycache.Options{})
	bad := querycache.Fetch(context.Background(), cache, badKey,
		func(ctx context.Context) (string, error) { return "", errors.New("boom") }, querycache.Options{})

	if bad.Status != querycache.StatusError || bad.Err == nil {
		t.Fatalf("bad key should report error, got %+v", bad)
	}
	if good.Status != querycache.StatusSuccess || good.Data != "ok" {
		t.Fatalf("good key affected by unrelated failure: %+v", good)
	}

	entry, ok := cache.Peek(goodKey)
	if !ok || entry.Status != querycache.StatusSuccess {
		t.Error("unrelated failure corrupted a healthy entry")
	}
}

func TestCache_SweepRespectsSubscribers(t *testing.T) {
	clock := newFakeClock()
	cache := querycache.New(
		querycache.WithClock(clock.Now),
		querycache.WithRetention(time.Minute),
	)
	defer cache.Close()

	subscribed := querycache.BuildKey("games", "list", map[string]any{"sport": "NBA"})
	abandoned := querycache.BuildKey("games", "list", map[string]any{"sport": "NHL"})

	fetcher := func(ctx context.Context) (string, error) { return "x", nil }
	querycache.Fetch(context.Background(), cache, subscribed, fetcher, querycache.Options{})
	querycache.Fetch(context.Background(), cache, abandoned, fetcher, querycache.Options{})

	id := cache.Subscribe(subscribed)
	clock.Advance(2 * time.Minute)

	cache.StartGC(5 * time.Millisecond)
	waitFor(t, func() bool { return cache.Len() == 1 }, "abandoned slot never collected")

	if _, ok := cache.Peek(subscribed); !ok {
		t.Fatal("subscribed slot was collected")
	}
	if _, ok := cache.Peek(abandoned); ok {
		t.Fatal("abandoned slot survived the sweep")
	}

	cache.Unsubscribe(subscribed, id)
	clock.Advance(2 * time.Minute)
	waitFor(t, func() bool { return cache.Len() == 0 }, "unsubscribed slot never collected")
}

func TestCache_InvalidateForcesRefetch(t *testing.T) {
	cache := querycache.New(querycache.WithStaleTime(time.Hour))
	defer cache.Close()

	key := querycache.BuildKey("teams", "list", map[string]any{"sport": "MLB"})
	var calls atomic.Int64
	fetcher := func(ctx context.Context) (string, error) {
		calls.Add(1)
		return "teams", nil
	}

	querycache.Fetch(context.Background(), cache, key, fetcher, querycache.Options{})
	cache.Invalidate(key)
	querycache.Fetch(context.Background(), cache, key, fetcher, querycache.Options{})

	waitFor(t, func() bool { return calls.Load() == 2 }, "invalidated key never refetched")
}

func TestFetch_RefreshNotifiesOnlyOnCompletion(t *testing.T) {
	clock := newFakeClock()
	var mu sync.Mutex
	var statuses []querycache.Status
	cache := querycache.New(
		querycache.WithClock(clock.Now),
		querycache.WithUpdateHook(func(e querycache.Entry) {
			mu.Lock()
			statuses = append(statuses, e.Status)
			mu.Unlock()
		}),
	)
	defer cache.Close()

	key := querycache.BuildKey("accuracy", "overview", nil)
	fetcher := func(ctx context.Context) (string, error) { return "v", nil }
	opts := querycache.Options{StaleTime: time.Minute}

	// First fetch announces loading and then success.
	querycache.Fetch(context.Background(), cache, key, fetcher, opts)

	clock.Advance(2 * time.Minute)
	querycache.Fetch(context.Background(), cache, key, fetcher, opts)

	successes := func() int {
		mu.Lock()
		defer mu.Unlock()
		n := 0
		for _, s := range statuses {
			if s == querycache.StatusSuccess {
				n++
			}
		}
		return n
	}
	waitFor(t, func() bool { return successes() == 2 }, "background refresh never completed")

	// A refresh of a slot that still shows its old value changes
	// nothing at its start, so subscribers hear only the completion.
	mu.Lock()
	defer mu.Unlock()
	loading := 0
	for _, s := range statuses {
		if s == querycache.StatusLoading {
			loading++
		}
	}
	if loading != 1 {
		t.Errorf("got %d loading updates, want 1 (first fetch only): %v", loading, statuses)
	}
}

// memorySnapshots is an in-memory SnapshotStore for tests.
type memorySnapshots struct {
	mu     sync.Mutex
	values map[string][]byte
	times  map[string]time.Time
}

func newMemorySnapshots() *memorySnapshots {
	return &memorySnapshots{
		values: make(map[string][]byte),
		times:  make(map[string]time.Time),
	}
}

func (m *memorySnapshots) Load(ctx context.Context, key string) ([]byte, time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	if !ok {
		return nil, time.Time{}, querycache.ErrNoSnapshot
	}
	return v, m.times[key], nil
}

func (m *memorySnapshots) Save(ctx context.Context, key string, value []byte, fetchedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	m.times[key] = fetchedAt
	return nil
}

func TestFetch_SeedsFromSnapshotOnColdStart(t *testing.T) {
	clock := newFakeClock()
	snaps := newMemorySnapshots()
	key := querycache.BuildKey("accuracy", "overview", nil)

	// A previous process persisted a value an hour ago.
	snaps.Save(context.Background(), key.String(), []byte(`"persisted"`), clock.Now().Add(-time.Hour))

	cache := querycache.New(
		querycache.WithClock(clock.Now),
		querycache.WithSnapshotStore(snaps),
	)
	defer cache.Close()

	var calls atomic.Int64
	fetcher := func(ctx context.Context) (string, error) {
		calls.Add(1)
		return "fresh", nil
	}

	res := querycache.Fetch(context.Background(), cache, key, fetcher, querycache.Options{StaleTime: time.Minute})
	if res.Data != "persisted" {
		t.Fatalf("cold read should serve the snapshot, got %q", res.Data)
	}

	// The seeded value is stale, so a background refetch replaces it.
	waitFor(t, func() bool {
		e, ok := cache.Peek(key)
		return ok && e.Data == "fresh"
	}, "snapshot-seeded entry never refreshed")
	if calls.Load() != 1 {
		t.Errorf("expected one refetch after seeding, got %d", calls.Load())
	}
}

func TestCache_WriteThroughSnapshots(t *testing.T) {
	snaps := newMemorySnapshots()
	cache := querycache.New(querycache.WithSnapshotStore(snaps))
	defer cache.Close()

	key := querycache.BuildKey("accuracy", "by-sport", nil)
	querycache.Fetch(context.Background(), cache, key,
		func(ctx context.Context) (string, error) { return "value", nil }, querycache.Options{})

	raw, _, err := snaps.Load(context.Background(), key.String())
	if err != nil {
		t.Fatalf("successful fetch was not written through: %v", err)
	}
	if string(raw) != `"value"` {
		t.Errorf("snapshot holds %s, want \"value\"", raw)
	}
}
