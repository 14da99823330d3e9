package middleware

import "context"

type contextKey int

const (
	ctxPrincipal contextKey = iota
	ctxRequestID
)

// Principal is the caller established by Auth.
type Principal struct {
	UserID   int
	AccessID string
}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, ctxPrincipal, p)
}

func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	if ctx == nil {
		return Principal{}, false
	}
	p, ok := ctx.Value(ctxPrincipal).(Principal)
	return p, ok && p.UserID > 0
}

// UserIDFromContext returns the authenticated user id, if any.
func UserIDFromContext(ctx context.Context) (int, bool) {
	p, ok := PrincipalFromContext(ctx)
	return p.UserID, ok
}

// AccessIDFromContext returns the session id of the bearer token.
func AccessIDFromContext(ctx context.Context) string {
	p, _ := PrincipalFromContext(ctx)
	return p.AccessID
}

// WithUserID marks ctx as authenticated for userID without a session.
func WithUserID(ctx context.Context, userID int) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return WithPrincipal(ctx, Principal{UserID: userID})
}
