// Package security hashes passwords with Argon2id in the PHC string format
// ($argon2id$v=19$m=..,t=..,p=..$salt$key) and mints reset tokens.
package security

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/equilog/equilog-backend/pkg/config"
	"github.com/google/uuid"
	"golang.org/x/crypto/argon2"
)

var (
	ErrInvalidHash         = errors.New("invalid argon2id hash")
	ErrIncompatibleVersion = errors.New("incompatible argon2 version")
)

var b64 = base64.RawStdEncoding

// ArgonParams are the cost settings stored in every hash.
type ArgonParams struct {
	Memory      uint32
	Time        uint32
	Parallelism uint8
	SaltLen     uint32
	KeyLen      uint32
}

// ParamsFromConfig clamps configured costs to sane bounds.
func ParamsFromConfig(cfg config.PasswordConfig) ArgonParams {
	return ArgonParams{
		Memory:      clamp(cfg.ArgonMemoryKB, 8, 512*1024),
		Time:        clamp(cfg.ArgonTime, 1, 10),
		Parallelism: uint8(clamp(cfg.ArgonParallelism, 1, 255)),
		SaltLen:     clamp(cfg.ArgonSaltLen, 8, 64),
		KeyLen:      clamp(cfg.ArgonKeyLen, 16, 64),
	}
}

type argonHash struct {
	params ArgonParams
	salt   []byte
	key    []byte
}

// HashPassword returns an encoded Argon2id hash of password.
func HashPassword(password string, cfg config.PasswordConfig) (string, error) {
	if password == "" {
		return "", errors.New("password cannot be empty")
	}
	p := ParamsFromConfig(cfg)
	salt := make([]byte, p.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	key := argon2.IDKey([]byte(password), salt, p.Time, p.Memory, p.Parallelism, p.KeyLen)
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, p.Memory, p.Time, p.Parallelism, b64.EncodeToString(salt), b64.EncodeToString(key)), nil
}

// VerifyPassword reports whether password matches encoded.
func VerifyPassword(password, encoded string) (bool, error) {
	h, err := parseHash(encoded)
	if err != nil {
		return false, err
	}
	computed := argon2.IDKey([]byte(password), h.salt, h.params.Time, h.params.Memory, h.params.Parallelism, h.params.KeyLen)
	return subtle.ConstantTimeCompare(h.key, computed) == 1, nil
}

// NeedsRehash reports whether encoded was produced with costs other than the
// configured ones. Unparseable hashes always need a rehash.
func NeedsRehash(encoded string, cfg config.PasswordConfig) bool {
	h, err := parseHash(encoded)
	if err != nil {
		return true
	}
	return h.params != ParamsFromConfig(cfg)
}

func parseHash(encoded string) (argonHash, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return argonHash{}, ErrInvalidHash
	}
	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return argonHash{}, ErrInvalidHash
	}
	if version != argon2.Version {
		return argonHash{}, ErrIncompatibleVersion
	}
	var h argonHash
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &h.params.Memory, &h.params.Time, &h.params.Parallelism); err != nil {
		return argonHash{}, ErrInvalidHash
	}
	var err error
	if h.salt, err = b64.DecodeString(parts[4]); err != nil || len(h.salt) == 0 {
		return argonHash{}, ErrInvalidHash
	}
	if h.key, err = b64.DecodeString(parts[5]); err != nil || len(h.key) == 0 {
		return argonHash{}, ErrInvalidHash
	}
	h.params.SaltLen = uint32(len(h.salt))
	h.params.KeyLen = uint32(len(h.key))
	return h, nil
}

func clamp(value, lo, hi int) uint32 {
	return uint32(min(max(value, lo), hi))
}

// GenerateResetToken returns a URL-safe random token for password reset links.
func GenerateResetToken() string {
	id := uuid.New()
	return base64.RawURLEncoding.EncodeToString(id[:])
}
