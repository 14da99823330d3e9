package middleware

import (
	"fmt"
	"net/http"

	"github.com/equilog/equilog-backend/api/responses"
	pkgerrors "github.com/equilog/equilog-backend/pkg/errors"
	"github.com/equilog/equilog-backend/pkg/logger"
)

// Recoverer turns a handler panic into a 500 failure envelope. Aborted
// handlers keep propagating so net/http can drop the connection.
func Recoverer(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				err, ok := rec.(error)
				if !ok {
					err = fmt.Errorf("%v", rec)
				}
				ctx := r.Context()
				if logg != nil {
					ctx = logg.WithFields(ctx, map[string]any{
						"method":     r.Method,
						"path":       r.URL.Path,
						"request_id": RequestIDFromContext(ctx),
					})
				}
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "handler panicked"))
			}()
			next.ServeHTTP(w, r)
		})
	}
}
