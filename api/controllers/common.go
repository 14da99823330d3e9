package controllers

import (
	"net/http"

	"github.com/equilog/equilog-backend/api/middleware"
	"github.com/equilog/equilog-backend/api/responses"
	"github.com/equilog/equilog-backend/api/validators"
	pkgerrors "github.com/equilog/equilog-backend/pkg/errors"
	"github.com/equilog/equilog-backend/pkg/logger"
)

func pathID(w http.ResponseWriter, r *http.Request, logg *logger.Logger, key string) (int, bool) {
	id, err := validators.ParsePathID(r, key)
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return 0, false
	}
	return id, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, logg *logger.Logger, dest any) bool {
	if err := validators.DecodeJSONBody(r, dest); err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return false
	}
	return true
}

func currentUser(w http.ResponseWriter, r *http.Request, logg *logger.Logger) (int, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
		return 0, false
	}
	return userID, true
}

// requireSelf rejects requests acting on another user's account.
func requireSelf(w http.ResponseWriter, r *http.Request, logg *logger.Logger, userID int) bool {
	actor, ok := currentUser(w, r, logg)
	if !ok {
		return false
	}
	if actor != userID {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "You can only perform this action on your own account."))
		return false
	}
	return true
}

func unavailable(w http.ResponseWriter, r *http.Request, logg *logger.Logger, name string) {
	responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, name+" unavailable"))
}

// writeValue maps a service call into the response envelope.
func writeValue[T any](w http.ResponseWriter, r *http.Request, logg *logger.Logger, value T, err error) {
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return
	}
	responses.WriteSuccess(w, http.StatusOK, value, "")
}

func writeDone(w http.ResponseWriter, r *http.Request, logg *logger.Logger, status int, message string, err error) {
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return
	}
	responses.WriteMessage(w, status, message)
}
