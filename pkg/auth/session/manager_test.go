package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	redislib "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/equilog/equilog-backend/pkg/config"
)

type memoryStore struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{data: make(map[string]string)}
}

func (m *memoryStore) Set(_ context.Context, key string, value any, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = fmt.Sprint(value)
	return nil
}

func (m *memoryStore) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.data[key]
	if !ok {
		return "", redislib.Nil
	}
	return val, nil
}

func (m *memoryStore) GetDel(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.data[key]
	if !ok {
		return "", redislib.Nil
	}
	delete(m.data, key)
	return val, nil
}

func (m *memoryStore) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

func (m *memoryStore) AccessSessionKey(accessID string) string {
	return "sess:" + accessID
}

var issuedAt = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func newTestManager() (*Manager, *memoryStore) {
	store := newMemoryStore()
	return &Manager{store: store, ttl: time.Hour, now: func() time.Time { return issuedAt }}, store
}

func TestGenerateStoresDigestOnly(t *testing.T) {
	manager, store := newTestManager()

	token, err := manager.Generate(context.Background(), 9, "access-123")
	require.NoError(t, err)

	raw := store.data["sess:access-123"]
	assert.NotContains(t, raw, token)
	var rec record
	require.NoError(t, json.Unmarshal([]byte(raw), &rec))
	assert.Equal(t, 9, rec.UserID)
	assert.Equal(t, digest(token), rec.TokenHash)
	assert.True(t, rec.IssuedAt.Equal(issuedAt))
}

func TestRotateIssuesNewSession(t *testing.T) {
	manager, store := newTestManager()
	ctx := context.Background()

	token, err := manager.Generate(ctx, 9, "access-123")
	require.NoError(t, err)

	newAccessID, newToken, err := manager.Rotate(ctx, 9, "access-123", token)
	require.NoError(t, err)
	assert.NotEqual(t, "access-123", newAccessID)
	assert.NotEqual(t, token, newToken)
	assert.NotContains(t, store.data, "sess:access-123")
	assert.Contains(t, store.data, "sess:"+newAccessID)

	_, _, err = manager.Rotate(ctx, 9, "access-123", token)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken, "a rotated token cannot be replayed")
}

func TestRotateRejectsWrongTokenAndBurnsSession(t *testing.T) {
	manager, store := newTestManager()
	ctx := context.Background()

	token, err := manager.Generate(ctx, 9, "access-123")
	require.NoError(t, err)

	_, _, err = manager.Rotate(ctx, 9, "access-123", "guess")
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	assert.Empty(t, store.data)

	_, _, err = manager.Rotate(ctx, 9, "access-123", token)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestRotateRejectsOtherUserAndUnknownSession(t *testing.T) {
	manager, _ := newTestManager()
	ctx := context.Background()

	token, err := manager.Generate(ctx, 4, "access-4")
	require.NoError(t, err)

	_, _, err = manager.Rotate(ctx, 5, "access-4", token)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	_, _, err = manager.Rotate(ctx, 4, "missing", token)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	_, _, err = manager.Rotate(ctx, 4, "", token)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestRevokeAndHasSession(t *testing.T) {
	manager, _ := newTestManager()
	ctx := context.Background()

	_, err := manager.Generate(ctx, 1, "access-1")
	require.NoError(t, err)

	live, err := manager.HasSession(ctx, "access-1")
	require.NoError(t, err)
	assert.True(t, live)

	require.NoError(t, manager.Revoke(ctx, "access-1"))
	live, err = manager.HasSession(ctx, "access-1")
	require.NoError(t, err)
	assert.False(t, live)

	_, err = manager.HasSession(ctx, " ")
	assert.ErrorIs(t, err, ErrMissingAccessID)
	assert.ErrorIs(t, manager.Revoke(ctx, ""), ErrMissingAccessID)
}

func TestSessionTTL(t *testing.T) {
	_, err := NewManager(nil, config.JWTConfig{})
	assert.Error(t, err)

	_, err = sessionTTL(config.JWTConfig{ExpirationMinutes: 15})
	assert.ErrorContains(t, err, "must be positive")

	_, err = sessionTTL(config.JWTConfig{ExpirationMinutes: 60, RefreshTokenTTLMinutes: 60})
	assert.ErrorContains(t, err, "must exceed access token ttl")

	ttl, err := sessionTTL(config.JWTConfig{ExpirationMinutes: 15, RefreshTokenTTLMinutes: 120})
	require.NoError(t, err)
	assert.Equal(t, 2*time.Hour, ttl)
}
