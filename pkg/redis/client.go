// Package redis holds the Redis-backed pieces shared by the API and the cron
// worker: rate-limit counters, the popular-queries cache, the cron lock and the
// phone view buffer.
package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/angelmondragon/phonedex-backend/pkg/config"
	"github.com/angelmondragon/phonedex-backend/pkg/logger"
)

// Key prefixes below the phonedex namespace.
const (
	keyNamespace    = "phonedex"
	rateLimitPrefix = "rate_limit"
	cachePrefix     = "cache"
	lockPrefix      = "lock"
	viewsPrefix     = "views"
)

// cmdable is the subset of go-redis commands the helpers issue.
type cmdable interface {
	Ping(context.Context) *redis.StatusCmd
	Set(context.Context, string, any, time.Duration) *redis.StatusCmd
	Get(context.Context, string) *redis.StringCmd
	SetNX(context.Context, string, any, time.Duration) *redis.BoolCmd
	Incr(context.Context, string) *redis.IntCmd
	Expire(context.Context, string, time.Duration) *redis.BoolCmd
	Del(context.Context, ...string) *redis.IntCmd
	HIncrBy(context.Context, string, string, int64) *redis.IntCmd
	HGetAll(context.Context, string) *redis.MapStringStringCmd
	Rename(context.Context, string, string) *redis.StatusCmd
}

type Client struct {
	store cmdable
	raw   *redis.Client
}

var errNotInitialized = errors.New("redis client not initialized")

// New connects using cfg and pings once before returning.
func New(ctx context.Context, cfg config.RedisConfig, logg *logger.Logger) (*Client, error) {
	opts, err := optionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	raw := redis.NewClient(opts)
	if err := raw.Ping(ctx).Err(); err != nil {
		_ = raw.Close()
		return nil, fmt.Errorf("ping redis %s: %w", opts.Addr, err)
	}
	if logg != nil {
		logg.Info(logg.WithFields(ctx, map[string]any{"addr": opts.Addr, "db": opts.DB}), "redis connection established")
	}
	return &Client{store: raw, raw: raw}, nil
}

// optionsFromConfig prefers the URL; explicit pool and timeout settings fill
// whatever the URL leaves unset.
func optionsFromConfig(cfg config.RedisConfig) (*redis.Options, error) {
	var opts *redis.Options
	switch {
	case cfg.URL != "":
		parsed, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("parsing redis url: %w", err)
		}
		opts = parsed
	case cfg.Address != "":
		opts = &redis.Options{Addr: cfg.Address, Password: cfg.Password}
	default:
		return nil, errors.New("redis url or address is required")
	}

	fill(&opts.DB, cfg.DB)
	fill(&opts.PoolSize, cfg.PoolSize)
	fill(&opts.MinIdleConns, cfg.MinIdleConns)
	fill(&opts.DialTimeout, cfg.DialTimeout)
	fill(&opts.ReadTimeout, cfg.ReadTimeout)
	fill(&opts.WriteTimeout, cfg.WriteTimeout)
	opts.ContextTimeoutEnabled = true
	return opts, nil
}

func fill[T comparable](dst *T, fallback T) {
	var zero T
	if *dst == zero {
		*dst = fallback
	}
}

func (c *Client) cmd() (cmdable, error) {
	if c == nil || c.store == nil {
		return nil, errNotInitialized
	}
	return c.store, nil
}

func (c *Client) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	store, err := c.cmd()
	if err != nil {
		return err
	}
	return store.Set(ctx, key, value, ttl).Err()
}

// Get returns redis.Nil when key is absent.
func (c *Client) Get(ctx context.Context, key string) (string, error) {
	store, err := c.cmd()
	if err != nil {
		return "", err
	}
	return store.Get(ctx, key).Result()
}

func (c *Client) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	store, err := c.cmd()
	if err != nil {
		return false, err
	}
	return store.SetNX(ctx, key, value, ttl).Result()
}

func (c *Client) Del(ctx context.Context, keys ...string) error {
	store, err := c.cmd()
	if err != nil {
		return err
	}
	return store.Del(ctx, keys...).Err()
}

// IncrWithTTL increments key and starts its TTL on the first increment.
func (c *Client) IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	store, err := c.cmd()
	if err != nil {
		return 0, err
	}
	count, err := store.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 && ttl > 0 {
		if err := store.Expire(ctx, key, ttl).Err(); err != nil {
			return count, err
		}
	}
	return count, nil
}

// FixedWindowAllow counts a hit against scope and reports whether it is
// within limit for the current window.
func (c *Client) FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error) {
	count, err := c.IncrWithTTL(ctx, c.RateLimitKey(scope), window)
	if err != nil {
		return false, 0, err
	}
	return count <= limit, count, nil
}

func (c *Client) Ping(ctx context.Context) error {
	store, err := c.cmd()
	if err != nil {
		return err
	}
	return store.Ping(ctx).Err()
}

func (c *Client) Close() error {
	if c == nil || c.raw == nil {
		return nil
	}
	return c.raw.Close()
}

func (c *Client) RateLimitKey(scope string) string {
	return key(rateLimitPrefix, scope)
}

func (c *Client) CacheKey(parts ...string) string {
	return key(append([]string{cachePrefix}, parts...)...)
}

func (c *Client) LockKey(name string) string {
	return key(lockPrefix, name)
}

// key joins non-empty parts under the phonedex namespace.
func key(parts ...string) string {
	var b strings.Builder
	b.WriteString(keyNamespace)
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			b.WriteByte(':')
			b.WriteString(part)
		}
	}
	return b.String()
}
