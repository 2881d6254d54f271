package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/oggyb/photoshare/internal/config"
	"github.com/redis/go-redis/v9"
)

// LikeCountTTL is how long a cached like count lives without being read.
const LikeCountTTL = time.Hour

// ErrMiss is returned when a key is not cached.
var ErrMiss = errors.New("cache miss")

// RedisCache is an advisory cache in front of the relational store. A nil
// *RedisCache is valid and behaves as an always-empty cache.
type RedisCache struct {
	Client *redis.Client
}

// NewRedisCache initializes Redis client from config.
// Returns nil when no address is configured.
func NewRedisCache(cfg *config.Config) *RedisCache {
	if cfg.Redis.Addr == "" {
		return nil
	}
	opts := &redis.Options{
		Addr: cfg.Redis.Addr,
	}
	if cfg.Redis.Password != "" {
		opts.Password = cfg.Redis.Password
	}
	if cfg.Redis.DB != 0 {
		opts.DB = cfg.Redis.DB
	}
	return &RedisCache{Client: redis.NewClient(opts)}
}

func (c *RedisCache) Enabled() bool { return c != nil && c.Client != nil }

func (c *RedisCache) Ping(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}
	return c.Client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.Client.Close()
}

func (c *RedisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if !c.Enabled() {
		return nil
	}
	return c.Client.Set(ctx, key, value, ttl).Err()
}

// SetNX stores value only if key is absent and reports whether it did.
func (c *RedisCache) SetNX(ctx context.Context, key string, value interface{}, ttl time.Duration) (bool, error) {
	if !c.Enabled() {
		return false, nil
	}
	return c.Client.SetNX(ctx, key, value, ttl).Result()
}

func (c *RedisCache) Get(ctx context.Context, key string) (string, error) {
	if !c.Enabled() {
		return "", ErrMiss
	}
	val, err := c.Client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrMiss
	}
	return val, err
}

func (c *RedisCache) Del(ctx context.Context, keys ...string) error {
	if !c.Enabled() || len(keys) == 0 {
		return nil
	}
	return c.Client.Del(ctx, keys...).Err()
}

// KeyForLikeCount generates Redis key for a post's like count
func KeyForLikeCount(postID uint64) string {
	return fmt.Sprintf("likes:post:%d", postID)
}

// SetLikeCount overwrites the count with a fresh TTL. Writers that just
// changed the likes use this.
func (c *RedisCache) SetLikeCount(ctx context.Context, postID uint64, count int64) error {
	return c.Set(ctx, KeyForLikeCount(postID), count, LikeCountTTL)
}

// FillLikeCount stores a count read from the DB only if nothing is cached.
// A reader that lost a race with a writer must not overwrite the writer's
// fresher value.
func (c *RedisCache) FillLikeCount(ctx context.Context, postID uint64, count int64) error {
	_, err := c.SetNX(ctx, KeyForLikeCount(postID), count, LikeCountTTL)
	return err
}

// GetLikeCount returns the cached count or ErrMiss. Reads do not extend the
// TTL, so any value is at most LikeCountTTL old.
func (c *RedisCache) GetLikeCount(ctx context.Context, postID uint64) (int64, error) {
	val, err := c.Get(ctx, KeyForLikeCount(postID))
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, ErrMiss
	}
	return n, nil
}

// InvalidateLikeCount drops cached counts for the given posts.
func (c *RedisCache) InvalidateLikeCount(ctx context.Context, postIDs ...uint64) error {
	keys := make([]string, 0, len(postIDs))
	for _, id := range postIDs {
		keys = append(keys, KeyForLikeCount(id))
	}
	return c.Del(ctx, keys...)
}
