package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const staffDashboardKey = "dashboard:staff"

func studentDashboardKey(studentID uint) string {
	return fmt.Sprintf("dashboard:student:%d", studentID)
}

// dashboardCache stores rendered dashboards in Redis. A nil client disables it.
type dashboardCache struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

func newDashboardCache(client *redis.Client, ttl time.Duration, logger zerolog.Logger) dashboardCache {
	return dashboardCache{client: client, ttl: ttl, logger: logger}
}

func (c dashboardCache) get(ctx context.Context, key string, dest interface{}) bool {
	if c.client == nil {
		return false
	}

	cached, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn().Err(err).Str("key", key).Msg("failed to read dashboard cache")
		}
		return false
	}

	if err := json.Unmarshal([]byte(cached), dest); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("discarding unreadable dashboard cache entry")
		return false
	}
	return true
}

func (c dashboardCache) set(ctx context.Context, key string, value interface{}) {
	if c.client == nil {
		return
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("failed to store dashboard cache")
	}
}

// invalidate drops the staff dashboard and the dashboards of the given students.
func (c dashboardCache) invalidate(ctx context.Context, studentIDs ...uint) {
	if c.client == nil {
		return
	}

	keys := make([]string, 0, len(studentIDs)+1)
	keys = append(keys, staffDashboardKey)
	for _, id := range studentIDs {
		keys = append(keys, studentDashboardKey(id))
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn().Err(err).Int("keys", len(keys)).Msg("failed to invalidate dashboard cache")
	}
}
