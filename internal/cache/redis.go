package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// likeCountTTL bounds staleness of the cached counter; the DB remains the
// source of truth on a miss.
const likeCountTTL = time.Hour

// RedisCache wraps the redis client used for hot counters.
type RedisCache struct {
	Client *redis.Client
}

// NewRedisCache initializes a Redis client.
// Only addr is mandatory, password/db are optional.
func NewRedisCache(addr, password string, db int) *RedisCache {
	opts := &redis.Options{Addr: addr}
	if password != "" {
		opts.Password = password
	}
	if db != 0 {
		opts.DB = db
	}
	return &RedisCache{Client: redis.NewClient(opts)}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.Client.Ping(ctx).Err()
}

func likeCountKey(userID uint) string {
	return fmt.Sprintf("likes:count:%d", userID)
}

// SetLikeCount stores the number of likes a user has received, refreshing
// the TTL.
func (c *RedisCache) SetLikeCount(ctx context.Context, userID uint, count int64) error {
	return c.Client.Set(ctx, likeCountKey(userID), count, likeCountTTL).Err()
}

// GetLikeCount returns the cached like count. The boolean is false on a
// cache miss.
func (c *RedisCache) GetLikeCount(ctx context.Context, userID uint) (int64, bool, error) {
	val, err := c.Client.Get(ctx, likeCountKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	} else if err != nil {
		return 0, false, err
	}
	// refresh TTL on access
	_ = c.Client.Expire(ctx, likeCountKey(userID), likeCountTTL).Err()

	count, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, err
	}
	return count, true, nil
}

// IncrLikeCount bumps the cached like count if the key is present. A miss
// is left alone so the next read repopulates from the DB.
func (c *RedisCache) IncrLikeCount(ctx context.Context, userID uint) error {
	key := likeCountKey(userID)
	exists, err := c.Client.Exists(ctx, key).Result()
	if err != nil || exists == 0 {
		return err
	}
	return c.Client.Incr(ctx, key).Err()
}
