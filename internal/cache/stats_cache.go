package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/e-ashyoviy-dalillar/evidence-service/internal/domain"
)

const (
	statsPrefix     = "stats:"
	statsVersionKey = statsPrefix + "version"
)

// StatsCache keeps dashboard counters in Redis for a short TTL. Entries are
// keyed by a version number, so bumping the version drops them all at once.
type StatsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStatsCache builds the cache. A zero ttl disables caching.
func NewStatsCache(client *redis.Client, ttl time.Duration) *StatsCache {
	return &StatsCache{client: client, ttl: ttl}
}

// Version returns the current generation of cached entries. Callers pass it
// to Get and Set so counters computed before an Invalidate are never stored
// under the newer generation.
func (s *StatsCache) Version(ctx context.Context) (int64, error) {
	if s == nil || s.ttl <= 0 {
		return 0, nil
	}
	version, err := s.client.Get(ctx, statsVersionKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return 0, err
	}
	return version, nil
}

// Get returns cached stats for scope at version. ok is false on a miss.
func (s *StatsCache) Get(ctx context.Context, version int64, scope string) (stats domain.EvidenceStats, ok bool, err error) {
	if s == nil || s.ttl <= 0 {
		return stats, false, nil
	}
	raw, err := s.client.Get(ctx, key(version, scope)).Bytes()
	if errors.Is(err, redis.Nil) {
		return stats, false, nil
	}
	if err != nil {
		return stats, false, err
	}
	if err := json.Unmarshal(raw, &stats); err != nil {
		return stats, false, fmt.Errorf("decode cached stats: %w", err)
	}
	return stats, true, nil
}

// Set stores stats for scope at version.
func (s *StatsCache) Set(ctx context.Context, version int64, scope string, stats domain.EvidenceStats) error {
	if s == nil || s.ttl <= 0 {
		return nil
	}
	raw, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key(version, scope), raw, s.ttl).Err()
}

// Invalidate drops every cached entry.
func (s *StatsCache) Invalidate(ctx context.Context) error {
	if s == nil || s.ttl <= 0 {
		return nil
	}
	return s.client.Incr(ctx, statsVersionKey).Err()
}

func key(version int64, scope string) string {
	return fmt.Sprintf("%sv%d:%s", statsPrefix, version, scope)
}

// Scope builds the cache scope for a caller's visible set.
func Scope(user domain.User) string {
	if user.Role.HasGlobalVisibility() {
		return "all"
	}
	return "user:" + user.Username
}
