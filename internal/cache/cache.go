package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// ProfileStats are the follow counters shown on a profile.
type ProfileStats struct {
	Followers int64
	Following int64
}

// StatsCache stores ProfileStats per user id.
type StatsCache interface {
	Get(ctx context.Context, userID uint) (ProfileStats, bool, error)
	Set(ctx context.Context, userID uint, stats ProfileStats) error
	Invalidate(ctx context.Context, userIDs ...uint) error
}

const statsKeyPrefix = "socialnet:profile_stats:"

func statsKey(userID uint) string {
	return statsKeyPrefix + strconv.FormatUint(uint64(userID), 10)
}

// RedisStatsCache keeps one hash per user with a TTL.
type RedisStatsCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStatsCache(rdb *redis.Client, ttl time.Duration) *RedisStatsCache {
	return &RedisStatsCache{rdb: rdb, ttl: ttl}
}

// Connect dials Redis and checks it answers.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

func (c *RedisStatsCache) Get(ctx context.Context, userID uint) (ProfileStats, bool, error) {
	values, err := c.rdb.HGetAll(ctx, statsKey(userID)).Result()
	if err != nil {
		return ProfileStats{}, false, err
	}
	if len(values) == 0 {
		return ProfileStats{}, false, nil
	}

	followers, err := strconv.ParseInt(values["followers"], 10, 64)
	if err != nil {
		return ProfileStats{}, false, nil
	}
	following, err := strconv.ParseInt(values["following"], 10, 64)
	if err != nil {
		return ProfileStats{}, false, nil
	}
	return ProfileStats{Followers: followers, Following: following}, true, nil
}

func (c *RedisStatsCache) Set(ctx context.Context, userID uint, stats ProfileStats) error {
	key := statsKey(userID)
	pipe := c.rdb.TxPipeline()
	pipe.HSet(ctx, key, "followers", stats.Followers, "following", stats.Following)
	pipe.Expire(ctx, key, c.ttl)
	_, err := pipe.Exec(ctx)
	return err
}

func (c *RedisStatsCache) Invalidate(ctx context.Context, userIDs ...uint) error {
	if len(userIDs) == 0 {
		return nil
	}
	keys := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		keys = append(keys, statsKey(id))
	}
	return c.rdb.Del(ctx, keys...).Err()
}

// NopStatsCache never hits.
type NopStatsCache struct{}

func (NopStatsCache) Get(context.Context, uint) (ProfileStats, bool, error) {
	return ProfileStats{}, false, nil
}
func (NopStatsCache) Set(context.Context, uint, ProfileStats) error { return nil }
func (NopStatsCache) Invalidate(context.Context, ...uint) error     { return nil }
