package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sportsight/dashboard-core/internal/querycache"
)

// SnapshotTTL bounds how long a persisted query result survives. Snapshots
// only bridge restarts; the in-memory staleness rules still apply once a
// value is seeded back.
const SnapshotTTL = 24 * time.Hour

// RedisStore persists query-cache snapshots in Redis so a restarted
// dashboard process has warm data before its first backend fetch.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// envelope is the stored wire form: the raw value plus its fetch time.
type envelope struct {
	FetchedAt time.Time       `json:"fetched_at"`
	Value     json.RawMessage `json:"value"`
}

// NewRedisStore creates a snapshot store around an existing Redis client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: "dashboard:query:",
	}
}

// Load retrieves a persisted value and its original fetch time.
func (s *RedisStore) Load(ctx context.Context, key string) ([]byte, time.Time, error) {
	data, err := s.client.Get(ctx, s.prefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, time.Time{}, querycache.ErrNoSnapshot
		}
		return nil, time.Time{}, fmt.Errorf("loading snapshot: %w", err)
	}

	var env envelope
	if err := json.Unmarshal([]byte(data), &env); err != nil {
		return nil, time.Time{}, fmt.Errorf("parsing snapshot: %w", err)
	}
	return env.Value, env.FetchedAt, nil
}

// Save writes a successful fetch result through to Redis.
func (s *RedisStore) Save(ctx context.Context, key string, value []byte, fetchedAt time.Time) error {
	data, err := json.Marshal(envelope{FetchedAt: fetchedAt, Value: value})
	if err != nil {
		return fmt.Errorf("marshaling snapshot: %w", err)
	}
	return s.client.Set(ctx, s.prefix+key, data, SnapshotTTL).Err()
}
