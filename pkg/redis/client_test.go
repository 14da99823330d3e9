package redis

import (
	"context"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/equilog/equilog-backend/pkg/config"
)

func TestFixedWindowAllow(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	client := &Client{store: mock}

	allowed, count, err := client.FixedWindowAllow(ctx, "reset:rider@example.com", 2, time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !allowed || count != 1 {
		t.Fatalf("expected first request allowed with count 1, got allowed=%v count=%d", allowed, count)
	}
	if got := mock.windows["eq:rate_limit:reset:rider@example.com"]; got != time.Minute {
		t.Fatalf("expected one minute window, got %s", got)
	}

	allowed, count, err = client.FixedWindowAllow(ctx, "reset:rider@example.com", 2, time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !allowed || count != 2 {
		t.Fatalf("unexpected second call state allowed=%v count=%d", allowed, count)
	}

	allowed, _, err = client.FixedWindowAllow(ctx, "reset:rider@example.com", 2, time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if allowed {
		t.Fatalf("expected limit reached")
	}
}

func TestReleaseIfOwnerOnlyDeletesMatchingToken(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	client := &Client{store: mock}
	key := client.StableLockKey(7)

	ok, err := client.SetNX(ctx, key, "token-a", time.Minute)
	if err != nil || !ok {
		t.Fatalf("expected first SetNX to succeed, ok=%v err=%v", ok, err)
	}
	if ok, _ := client.SetNX(ctx, key, "token-b", time.Minute); ok {
		t.Fatal("expected second SetNX to be rejected")
	}

	released, err := client.ReleaseIfOwner(ctx, key, "token-b")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if released {
		t.Fatal("foreign token must not release the lock")
	}

	released, err = client.ReleaseIfOwner(ctx, key, "token-a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !released {
		t.Fatal("owner token should release the lock")
	}
	if _, err := client.Get(ctx, key); err != redis.Nil {
		t.Fatalf("expected key to be gone, got %v", err)
	}
}

func TestKeyBuilders(t *testing.T) {
	client := &Client{}
	if got := client.RateLimitKey("scope"); got != "eq:rate_limit:scope" {
		t.Fatalf("unexpected rate limit key %s", got)
	}
	if got := client.AccessSessionKey("abc"); got != "eq:session:access:abc" {
		t.Fatalf("unexpected session key %s", got)
	}
	if got := client.StableLockKey(42); got != "eq:lock:stable:42" {
		t.Fatalf("unexpected lock key %s", got)
	}
	if got := client.IdempotencyKey("7|POST|/api/stables", "k1"); got != "eq:idempotency:7|POST|/api/stables:k1" {
		t.Fatalf("unexpected idempotency key %s", got)
	}
	if got := client.MaintenanceLockKey(""); got != "eq:lock:maintenance:local" {
		t.Fatalf("unexpected maintenance lock key %s", got)
	}
	if got := client.AccessSessionKey(""); got != "eq:session:access" {
		t.Fatalf("empty parts should be skipped, got %s", got)
	}
}

func TestUninitializedClientErrors(t *testing.T) {
	var client *Client
	if err := client.Ping(context.Background()); err == nil {
		t.Fatal("expected error from nil client")
	}
}

func TestGetDelConsumesKey(t *testing.T) {
	ctx := context.Background()
	client := &Client{store: newMockCmdable()}

	if err := client.Set(ctx, "eq:session:access:a1", "payload", time.Hour); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := client.GetDel(ctx, "eq:session:access:a1")
	if err != nil || got != "payload" {
		t.Fatalf("expected payload, got %q err=%v", got, err)
	}
	if _, err := client.GetDel(ctx, "eq:session:access:a1"); err != redis.Nil {
		t.Fatalf("expected redis.Nil on second read, got %v", err)
	}
}

type mockCmdable struct {
	redis.Scripter
	data    map[string]string
	windows map[string]time.Duration
}

func newMockCmdable() *mockCmdable {
	return &mockCmdable{
		data:    make(map[string]string),
		windows: make(map[string]time.Duration),
	}
}

func (m *mockCmdable) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (m *mockCmdable) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	m.data[key] = fmt.Sprint(value)
	return redis.NewStatusResult("OK", nil)
}

func (m *mockCmdable) Get(ctx context.Context, key string) *redis.StringCmd {
	v, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *mockCmdable) GetDel(ctx context.Context, key string) *redis.StringCmd {
	cmd := m.Get(ctx, key)
	delete(m.data, key)
	return cmd
}

func (m *mockCmdable) SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd {
	if _, exists := m.data[key]; exists {
		return redis.NewBoolResult(false, nil)
	}
	m.data[key] = fmt.Sprint(value)
	return redis.NewBoolResult(true, nil)
}

func (m *mockCmdable) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	for _, key := range keys {
		delete(m.data, key)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}

// EvalSha emulates the two scripts the client runs.
func (m *mockCmdable) EvalSha(ctx context.Context, sha1 string, keys []string, args ...any) *redis.Cmd {
	switch sha1 {
	case fixedWindowScript.Hash():
		n, _ := strconv.ParseInt(m.data[keys[0]], 10, 64)
		n++
		m.data[keys[0]] = strconv.FormatInt(n, 10)
		if n == 1 {
			m.windows[keys[0]] = time.Duration(args[0].(int64)) * time.Millisecond
		}
		return redis.NewCmdResult(n, nil)
	case releaseScript.Hash():
		if len(args) == 1 && m.data[keys[0]] == fmt.Sprint(args[0]) {
			delete(m.data, keys[0])
			return redis.NewCmdResult(int64(1), nil)
		}
		return redis.NewCmdResult(int64(0), nil)
	}
	return redis.NewCmdResult(nil, fmt.Errorf("unexpected script %s", sha1))
}

func TestOptionsFromConfig(t *testing.T) {
	opts, err := optionsFromConfig(config.RedisConfig{URL: "redis://:pw@cache.internal:6380/2", PoolSize: 7, DB: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Addr != "cache.internal:6380" || opts.DB != 2 || opts.PoolSize != 7 {
		t.Fatalf("unexpected options addr=%s db=%d pool=%d", opts.Addr, opts.DB, opts.PoolSize)
	}

	opts, err = optionsFromConfig(config.RedisConfig{Address: "localhost:6379", DB: 3})
	if err != nil || opts.Addr != "localhost:6379" || opts.DB != 3 {
		t.Fatalf("unexpected address options %+v err=%v", opts, err)
	}

	if _, err := optionsFromConfig(config.RedisConfig{}); err == nil {
		t.Fatal("expected error without url or address")
	}
}
