package redis

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/equilog/equilog-backend/pkg/config"
	"github.com/equilog/equilog-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const keyNamespace = "eq"

var errNotInitialized = errors.New("redis client not initialized")

var (
	// releaseScript deletes the key only while it still holds the caller's token.
	releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

	// fixedWindowScript counts a hit and starts the window on the first one, so
	// a counter can never be left without an expiry.
	fixedWindowScript = redis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if n == 1 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return n
`)
)

type cmdable interface {
	redis.Scripter
	Ping(context.Context) *redis.StatusCmd
	Set(context.Context, string, any, time.Duration) *redis.StatusCmd
	Get(context.Context, string) *redis.StringCmd
	GetDel(context.Context, string) *redis.StringCmd
	SetNX(context.Context, string, any, time.Duration) *redis.BoolCmd
	Del(context.Context, ...string) *redis.IntCmd
}

// Client is the service's view of Redis: sessions, rate limits, idempotency
// records and short-lived locks.
type Client struct {
	store cmdable
	raw   *redis.Client
}

// Pinger exposes the health-check surface.
type Pinger interface {
	Ping(context.Context) error
}

// New connects and pings before returning.
func New(ctx context.Context, cfg config.RedisConfig, logg *logger.Logger) (*Client, error) {
	opts, err := optionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	raw := redis.NewClient(opts)
	if err := raw.Ping(ctx).Err(); err != nil {
		_ = raw.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", opts.Addr, err)
	}
	if logg != nil {
		logg.Info(logg.WithField(ctx, "addr", opts.Addr), "redis.connected")
	}
	return &Client{store: raw, raw: raw}, nil
}

// optionsFromConfig prefers URL; discrete fields fill whatever the URL left unset.
func optionsFromConfig(cfg config.RedisConfig) (*redis.Options, error) {
	opts := &redis.Options{Addr: cfg.Address, Password: cfg.Password}
	switch {
	case cfg.URL != "":
		parsed, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("parsing redis url: %w", err)
		}
		opts = parsed
	case cfg.Address == "":
		return nil, errors.New("redis url or address is required")
	}
	opts.DB = cmp.Or(opts.DB, cfg.DB)
	opts.PoolSize = cmp.Or(opts.PoolSize, cfg.PoolSize)
	opts.MinIdleConns = cmp.Or(opts.MinIdleConns, cfg.MinIdleConns)
	opts.DialTimeout = cmp.Or(opts.DialTimeout, cfg.DialTimeout)
	opts.ReadTimeout = cmp.Or(opts.ReadTimeout, cfg.ReadTimeout)
	opts.WriteTimeout = cmp.Or(opts.WriteTimeout, cfg.WriteTimeout)
	return opts, nil
}

func (c *Client) conn() (cmdable, error) {
	if c == nil || c.store == nil {
		return nil, errNotInitialized
	}
	return c.store, nil
}

func (c *Client) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	store, err := c.conn()
	if err != nil {
		return err
	}
	return store.Set(ctx, key, value, ttl).Err()
}

// Get returns redis.Nil when key is absent.
func (c *Client) Get(ctx context.Context, key string) (string, error) {
	store, err := c.conn()
	if err != nil {
		return "", err
	}
	return store.Get(ctx, key).Result()
}

// GetDel reads and removes key in one round trip.
func (c *Client) GetDel(ctx context.Context, key string) (string, error) {
	store, err := c.conn()
	if err != nil {
		return "", err
	}
	return store.GetDel(ctx, key).Result()
}

func (c *Client) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	store, err := c.conn()
	if err != nil {
		return false, err
	}
	return store.SetNX(ctx, key, value, ttl).Result()
}

// ReleaseIfOwner deletes key when its value still equals token. It reports
// whether the key was removed.
func (c *Client) ReleaseIfOwner(ctx context.Context, key, token string) (bool, error) {
	store, err := c.conn()
	if err != nil {
		return false, err
	}
	n, err := releaseScript.Run(ctx, store, []string{key}, token).Int64()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// FixedWindowAllow counts one hit against scope and reports whether the count
// is still within limit for the current window.
func (c *Client) FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error) {
	store, err := c.conn()
	if err != nil {
		return false, 0, err
	}
	count, err := fixedWindowScript.Run(ctx, store, []string{c.RateLimitKey(scope)}, window.Milliseconds()).Int64()
	if err != nil {
		return false, 0, err
	}
	return count <= limit, count, nil
}

func (c *Client) Del(ctx context.Context, keys ...string) error {
	store, err := c.conn()
	if err != nil {
		return err
	}
	return store.Del(ctx, keys...).Err()
}

func (c *Client) Ping(ctx context.Context) error {
	store, err := c.conn()
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
	return buildKey("rate_limit", scope)
}

// AccessSessionKey names the session opened for an access token id.
func (c *Client) AccessSessionKey(accessID string) string {
	return buildKey("session", "access", accessID)
}

// IdempotencyKey namespaces a stored response by request scope and client key.
func (c *Client) IdempotencyKey(scope, key string) string {
	return buildKey("idempotency", scope, key)
}

// StableLockKey names the mutex guarding ownership changes of a stable.
func (c *Client) StableLockKey(stableID int) string {
	return buildKey("lock", "stable", strconv.Itoa(stableID))
}

// MaintenanceLockKey returns the key guarding one maintenance run per environment.
func (c *Client) MaintenanceLockKey(env string) string {
	return buildKey("lock", "maintenance", cmp.Or(env, "local"))
}

// buildKey joins non-blank parts under the service namespace.
func buildKey(parts ...string) string {
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
