package session

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/equilog/equilog-backend/pkg/config"
	redisclient "github.com/equilog/equilog-backend/pkg/redis"
	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
)

const refreshTokenBytes = 32

var (
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrMissingAccessID     = errors.New("access id is required")
)

type sessionStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	GetDel(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	AccessSessionKey(accessID string) string
}

// record is what a session key holds. Only a digest of the refresh token is
// stored.
type record struct {
	UserID    int       `json:"uid"`
	TokenHash string    `json:"th"`
	IssuedAt  time.Time `json:"iat"`
}

// Manager issues refresh tokens and tracks the live session behind each access
// token id. A session exists exactly as long as its refresh token is valid.
type Manager struct {
	store sessionStore
	ttl   time.Duration
	now   func() time.Time
}

// AccessSessionChecker is the read-only surface used by the auth middleware.
type AccessSessionChecker interface {
	HasSession(ctx context.Context, accessID string) (bool, error)
}

func NewManager(client *redisclient.Client, cfg config.JWTConfig) (*Manager, error) {
	if client == nil {
		return nil, errors.New("redis client is required")
	}
	ttl, err := sessionTTL(cfg)
	if err != nil {
		return nil, err
	}
	return &Manager{store: client, ttl: ttl, now: time.Now}, nil
}

// sessionTTL is the refresh token lifetime, which must outlive the access token.
func sessionTTL(cfg config.JWTConfig) (time.Duration, error) {
	ttl := cfg.RefreshTokenTTL()
	accessTTL := time.Duration(cfg.ExpirationMinutes) * time.Minute
	switch {
	case ttl <= 0:
		return 0, errors.New("refresh token ttl must be positive")
	case ttl <= accessTTL:
		return 0, fmt.Errorf("refresh token ttl (%s) must exceed access token ttl (%s)", ttl, accessTTL)
	}
	return ttl, nil
}

// Generate opens a session for accessID and returns its refresh token.
func (m *Manager) Generate(ctx context.Context, userID int, accessID string) (string, error) {
	if strings.TrimSpace(accessID) == "" {
		return "", ErrMissingAccessID
	}
	if userID <= 0 {
		return "", errors.New("user id is required")
	}
	token, err := newRefreshToken()
	if err != nil {
		return "", err
	}
	payload, err := json.Marshal(record{UserID: userID, TokenHash: digest(token), IssuedAt: m.now().UTC()})
	if err != nil {
		return "", err
	}
	if err := m.store.Set(ctx, m.store.AccessSessionKey(accessID), string(payload), m.ttl); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return token, nil
}

// Rotate consumes the session stored for oldAccessID and opens a new one. The
// old session is removed even when the token does not match, so a leaked
// access id cannot be used to guess refresh tokens.
func (m *Manager) Rotate(ctx context.Context, userID int, oldAccessID, provided string) (string, string, error) {
	if strings.TrimSpace(oldAccessID) == "" || provided == "" {
		return "", "", ErrInvalidRefreshToken
	}
	stored, err := m.store.GetDel(ctx, m.store.AccessSessionKey(oldAccessID))
	if errors.Is(err, redislib.Nil) {
		return "", "", ErrInvalidRefreshToken
	}
	if err != nil {
		return "", "", fmt.Errorf("load session: %w", err)
	}

	var rec record
	if err := json.Unmarshal([]byte(stored), &rec); err != nil || rec.UserID != userID {
		return "", "", ErrInvalidRefreshToken
	}
	if subtle.ConstantTimeCompare([]byte(rec.TokenHash), []byte(digest(provided))) != 1 {
		return "", "", ErrInvalidRefreshToken
	}

	newAccessID := NewAccessID()
	token, err := m.Generate(ctx, userID, newAccessID)
	if err != nil {
		return "", "", err
	}
	return newAccessID, token, nil
}

func (m *Manager) Revoke(ctx context.Context, accessID string) error {
	if strings.TrimSpace(accessID) == "" {
		return ErrMissingAccessID
	}
	return m.store.Del(ctx, m.store.AccessSessionKey(accessID))
}

func (m *Manager) HasSession(ctx context.Context, accessID string) (bool, error) {
	if strings.TrimSpace(accessID) == "" {
		return false, ErrMissingAccessID
	}
	_, err := m.store.Get(ctx, m.store.AccessSessionKey(accessID))
	switch {
	case errors.Is(err, redislib.Nil):
		return false, nil
	case err != nil:
		return false, err
	default:
		return true, nil
	}
}

// NewAccessID produces the identifier used as the JWT jti and session key.
func NewAccessID() string {
	return uuid.NewString()
}

func newRefreshToken() (string, error) {
	buf := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating refresh token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func digest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
