package security_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/equilog/equilog-backend/pkg/config"
	"github.com/equilog/equilog-backend/pkg/security"
)

func TestHashAndVerifyPassword(t *testing.T) {
	cfg := config.PasswordConfig{
		ArgonMemoryKB:    32768,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}

	hash, err := security.HashPassword("very-secure-password", cfg)
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if hash == "" {
		t.Fatal("HashPassword returned empty string")
	}

	ok, err := security.VerifyPassword("very-secure-password", hash)
	if err != nil {
		t.Fatalf("VerifyPassword returned error for valid hash: %v", err)
	}
	if !ok {
		t.Fatal("VerifyPassword failed for the correct password")
	}

	ok, err = security.VerifyPassword("bogus-password", hash)
	if err != nil {
		t.Fatalf("VerifyPassword returned error for invalid password: %v", err)
	}
	if ok {
		t.Fatal("VerifyPassword returned true for incorrect password")
	}
}

func TestVerifyPasswordBadHash(t *testing.T) {
	if _, err := security.VerifyPassword("irrelevant", "not-a-hash"); err == nil {
		t.Fatal("expected error for malformed hash")
	}
}

func TestNeedsRehashTracksConfiguredCosts(t *testing.T) {
	cheap := config.PasswordConfig{ArgonMemoryKB: 8, ArgonTime: 1, ArgonParallelism: 1, ArgonSaltLen: 16, ArgonKeyLen: 32}
	hash, err := security.HashPassword("stallet", cheap)
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if security.NeedsRehash(hash, cheap) {
		t.Fatal("hash produced with the current costs should not need a rehash")
	}
	stronger := cheap
	stronger.ArgonTime = 3
	if !security.NeedsRehash(hash, stronger) {
		t.Fatal("expected rehash after the time cost increased")
	}
	if !security.NeedsRehash("garbage", cheap) {
		t.Fatal("expected malformed hashes to need a rehash")
	}
}

func TestVerifyPasswordRejectsOtherVersions(t *testing.T) {
	hash, err := security.HashPassword("stallet", config.PasswordConfig{ArgonMemoryKB: 8, ArgonTime: 1, ArgonParallelism: 1, ArgonSaltLen: 16, ArgonKeyLen: 32})
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	old := strings.Replace(hash, "$v=19$", "$v=16$", 1)
	if _, err := security.VerifyPassword("stallet", old); !errors.Is(err, security.ErrIncompatibleVersion) {
		t.Fatalf("expected ErrIncompatibleVersion, got %v", err)
	}
}

func TestGenerateResetTokenIsURLSafeAndUnique(t *testing.T) {
	first := security.GenerateResetToken()
	second := security.GenerateResetToken()
	if first == second {
		t.Fatal("expected distinct tokens")
	}
	if len(first) != 22 {
		t.Fatalf("expected 22 character token, got %d", len(first))
	}
	if strings.ContainsAny(first, "+/=") {
		t.Fatalf("token %q is not url safe", first)
	}
}
