// Package auth mints and verifies the HS256 access tokens handed to clients.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/equilog/equilog-backend/pkg/config"
)

// clockSkew tolerates small differences between API nodes.
const clockSkew = 30 * time.Second

var (
	ErrNoSubject     = errors.New("token carries no user")
	ErrMisconfigured = errors.New("jwt config incomplete")
)

func checkConfig(cfg config.JWTConfig) error {
	switch {
	case cfg.Secret == "":
		return fmt.Errorf("%w: secret is required", ErrMisconfigured)
	case cfg.Issuer == "":
		return fmt.Errorf("%w: issuer is required", ErrMisconfigured)
	}
	return nil
}

// MintAccessToken signs a token for payload valid for cfg.ExpirationMinutes from now.
func MintAccessToken(cfg config.JWTConfig, now time.Time, payload AccessTokenPayload) (string, error) {
	if err := checkConfig(cfg); err != nil {
		return "", err
	}
	if cfg.ExpirationMinutes <= 0 {
		return "", fmt.Errorf("%w: expiration minutes must be positive", ErrMisconfigured)
	}
	if payload.UserID <= 0 {
		return "", ErrNoSubject
	}
	jti := strings.TrimSpace(payload.JTI)
	if jti == "" {
		jti = uuid.NewString()
	}
	claims := AccessTokenClaims{
		Email:     payload.Email,
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			Subject:   strconv.Itoa(payload.UserID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(cfg.ExpirationMinutes) * time.Minute)),
			ID:        jti,
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("signing jwt: %w", err)
	}
	return signed, nil
}

// ParseAccessToken verifies signature, issuer and expiry.
func ParseAccessToken(cfg config.JWTConfig, token string) (*AccessTokenClaims, error) {
	return parse(cfg, token, jwt.WithExpirationRequired(), jwt.WithLeeway(clockSkew))
}

// ParseAccessTokenAllowExpired verifies signature and issuer only, so refresh
// can recover the session id from a token that has already lapsed.
func ParseAccessTokenAllowExpired(cfg config.JWTConfig, token string) (*AccessTokenClaims, error) {
	return parse(cfg, token, jwt.WithoutClaimsValidation())
}

func parse(cfg config.JWTConfig, token string, opts ...jwt.ParserOption) (*AccessTokenClaims, error) {
	if err := checkConfig(cfg); err != nil {
		return nil, err
	}
	opts = append(opts,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(cfg.Issuer),
	)
	claims := &AccessTokenClaims{}
	_, err := jwt.NewParser(opts...).ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return []byte(cfg.Secret), nil
	})
	if err != nil {
		return nil, err
	}
	if err := claims.resolveUser(); err != nil {
		return nil, err
	}
	return claims, nil
}
