package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/equilog/equilog-backend/api/responses"
	pkgAuth "github.com/equilog/equilog-backend/pkg/auth"
	"github.com/equilog/equilog-backend/pkg/auth/session"
	"github.com/equilog/equilog-backend/pkg/config"
	pkgerrors "github.com/equilog/equilog-backend/pkg/errors"
	"github.com/equilog/equilog-backend/pkg/logger"
)

// Auth requires a bearer access token whose session is still live and stores
// the resulting Principal on the request context.
func Auth(cfg config.JWTConfig, verifier session.AccessSessionChecker, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, err := authenticate(r.Context(), cfg, verifier, r.Header.Get("Authorization"))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			ctx := WithPrincipal(r.Context(), principal)
			if logg != nil {
				ctx = logg.WithUserID(ctx, principal.UserID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func authenticate(ctx context.Context, cfg config.JWTConfig, verifier session.AccessSessionChecker, header string) (Principal, error) {
	token, ok := bearerToken(header)
	if !ok {
		return Principal{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	claims, err := pkgAuth.ParseAccessToken(cfg, token)
	if err != nil {
		return Principal{}, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token")
	}
	if claims.ID == "" || claims.UserID <= 0 {
		return Principal{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session id")
	}
	if verifier != nil {
		live, err := verifier.HasSession(ctx, claims.ID)
		if err != nil {
			return Principal{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "validate session")
		}
		if !live {
			return Principal{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "session unavailable")
		}
	}
	return Principal{UserID: claims.UserID, AccessID: claims.ID}, nil
}

// bearerToken extracts the credential from an "Authorization: Bearer <token>"
// header. Other schemes are rejected.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
