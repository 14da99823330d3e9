package controllers

import (
	"context"
	"net/http"
	"sort"
	"time"

	"go.uber.org/multierr"

	"github.com/equilog/equilog-backend/api/responses"
	"github.com/equilog/equilog-backend/pkg/config"
	pkgerrors "github.com/equilog/equilog-backend/pkg/errors"
	"github.com/equilog/equilog-backend/pkg/logger"
	"github.com/equilog/equilog-backend/pkg/types"
)

const readinessTimeout = 3 * time.Second

// Pinger is a dependency probed by the readiness check.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Equilog-Env", cfg.App.Env)
		responses.WriteSuccess(w, http.StatusOK, map[string]string{"status": "live"}, "")
	}
}

// HealthReady pings every dependency and reports each one's state.
func HealthReady(cfg *config.Config, deps map[string]Pinger, logg *logger.Logger) http.HandlerFunc {
	names := make([]string, 0, len(deps))
	for name := range deps {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Equilog-Env", cfg.App.Env)
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		status := map[string]string{}
		var errs error
		for _, name := range names {
			if err := deps[name].Ping(ctx); err != nil {
				status[name] = "down"
				errs = multierr.Append(errs, pkgerrors.Wrap(pkgerrors.CodeDependency, err, name))
				continue
			}
			status[name] = "up"
		}
		if errs != nil {
			if logg != nil {
				logg.Warn(logg.WithField(ctx, "error", errs.Error()), "health.not_ready")
			}
			responses.WriteResult(w, readinessFailure(status))
			return
		}
		responses.WriteSuccess(w, http.StatusOK, status, "ready")
	}
}

func readinessFailure(status map[string]string) types.Result[map[string]string] {
	msg := "not ready"
	return types.Result[map[string]string]{
		StatusCode: http.StatusServiceUnavailable,
		Value:      &status,
		Message:    &msg,
	}
}
