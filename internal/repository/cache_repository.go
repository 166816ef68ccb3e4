package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Snapshot cache keys per directory. Writes through any repository
// invalidate its key, so coverage queries see fresh data on the next
// load.
const (
	teacherSnapshotKey = "subplan:snapshot:teachers"
	classSnapshotKey   = "subplan:snapshot:classes"
	slotSnapshotKey    = "subplan:snapshot:time_slots"
)

// SnapshotCache is a best-effort read-through cache for directory
// listings. Every method tolerates a nil receiver and a broken Redis
// connection; the database stays the source of truth.
type SnapshotCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewSnapshotCache wraps a Redis client for directory snapshots.
func NewSnapshotCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *SnapshotCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	return &SnapshotCache{client: client, ttl: ttl, logger: logger}
}

// Get loads a cached snapshot into dest, reporting whether it was found.
func (c *SnapshotCache) Get(ctx context.Context, key string, dest interface{}) bool {
	if c == nil || c.client == nil {
		return false
	}
	payload, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	if err := json.Unmarshal(payload, dest); err != nil {
		c.logger.Warn("snapshot cache decode failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// Set stores a snapshot with the configured TTL.
func (c *SnapshotCache) Set(ctx context.Context, key string, value interface{}) {
	if c == nil || c.client == nil {
		return
	}
	payload, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("snapshot cache encode failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.logger.Warn("snapshot cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// Invalidate drops cached snapshots after a write.
func (c *SnapshotCache) Invalidate(ctx context.Context, keys ...string) {
	if c == nil || c.client == nil || len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn("snapshot cache invalidation failed", zap.Error(err))
	}
}
