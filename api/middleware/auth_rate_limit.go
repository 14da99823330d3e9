package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/equilog/equilog-backend/api/responses"
	"github.com/equilog/equilog-backend/pkg/config"
	pkgerrors "github.com/equilog/equilog-backend/pkg/errors"
	"github.com/equilog/equilog-backend/pkg/logger"
)

const (
	rateLimitedMessage = "Too many attempts. Try again later."
	emailPeekBytes     = 16 << 10
)

// RateLimiterStore counts hits for scope in a fixed window.
type RateLimiterStore interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// RateLimitPolicy caps attempts per client IP and per submitted email within Window.
// A zero limit disables that dimension.
type RateLimitPolicy struct {
	Name     string
	Window   time.Duration
	PerIP    int64
	PerEmail int64
}

// AuthPolicies maps the configured limits onto the login, register and
// password reset surfaces.
func AuthPolicies(cfg config.AuthRateLimitConfig) (login, register, reset RateLimitPolicy) {
	login = RateLimitPolicy{"login", cfg.LoginWindow, int64(cfg.LoginIPLimit), int64(cfg.LoginEmailLimit)}
	register = RateLimitPolicy{"register", cfg.RegisterWindow, int64(cfg.RegisterIPLimit), int64(cfg.RegisterEmailLimit)}
	reset = RateLimitPolicy{"password_reset", cfg.ResetWindow, int64(cfg.ResetIPLimit), int64(cfg.ResetEmailLimit)}
	return login, register, reset
}

func (p RateLimitPolicy) active() bool {
	return p.Window > 0 && (p.PerIP > 0 || p.PerEmail > 0)
}

// RateLimit rejects requests over policy with 429 and a Retry-After header.
// It expects chi's RealIP to have normalised RemoteAddr.
func RateLimit(policy RateLimitPolicy, store RateLimiterStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if store == nil || !policy.active() {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if policy.PerIP > 0 {
				if ip := remoteIP(r); ip != "" && !checkLimit(ctx, w, store, logg, policy, "ip", ip, policy.PerIP) {
					return
				}
			}

			if policy.PerEmail > 0 {
				peek, err := io.ReadAll(io.LimitReader(r.Body, emailPeekBytes))
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read request body"))
					return
				}
				r.Body = readCloser{io.MultiReader(bytes.NewReader(peek), r.Body), r.Body}
				if addr := submittedEmail(peek); addr != "" && !checkLimit(ctx, w, store, logg, policy, "email", digest(addr), policy.PerEmail) {
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// checkLimit reports whether the request may continue; on false the response
// has already been written.
func checkLimit(ctx context.Context, w http.ResponseWriter, store RateLimiterStore, logg *logger.Logger, policy RateLimitPolicy, dimension, subject string, limit int64) bool {
	allowed, count, err := store.FixedWindowAllow(ctx, policy.Name+":"+dimension+":"+subject, limit, policy.Window)
	if err != nil {
		responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiting"))
		return false
	}
	if allowed {
		return true
	}
	if logg != nil {
		logg.Warn(logg.WithFields(ctx, map[string]any{
			"policy":    policy.Name,
			"dimension": dimension,
			"subject":   subject,
			"attempts":  count,
			"limit":     limit,
		}), "auth.rate_limited")
	}
	w.Header().Set("Retry-After", strconv.Itoa(int(policy.Window.Round(time.Second).Seconds())))
	responses.WriteError(ctx, nil, w, pkgerrors.New(pkgerrors.CodeRateLimit, rateLimitedMessage))
	return false
}

type readCloser struct {
	io.Reader
	io.Closer
}

func remoteIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return strings.TrimSpace(r.RemoteAddr)
}

func submittedEmail(payload []byte) string {
	var body struct {
		Email string `json:"email"`
	}
	if json.Unmarshal(payload, &body) != nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(body.Email))
}

// digest keeps raw addresses out of Redis keys and logs.
func digest(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:12])
}
