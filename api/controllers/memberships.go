package controllers

import (
	"net/http"

	"github.com/equilog/equilog-backend/internal/memberships"
	"github.com/equilog/equilog-backend/pkg/enums"
	"github.com/equilog/equilog-backend/pkg/logger"
)

type roleUpdateRequest struct {
	Role *enums.StableRole `json:"role" validate:"required,stablerole"`
}

// UserStableUpdateRole changes a member's role. Demoting the last owner is left
// to the caller; ownership hand-over runs through the compositions.
func UserStableUpdateRole(svc memberships.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userStableID, ok := pathID(w, r, logg, "userStableId")
		if !ok {
			return
		}
		var body roleUpdateRequest
		if !decodeBody(w, r, logg, &body) {
			return
		}
		writeDone(w, r, logg, http.StatusOK, "Role updated successfully.", svc.UpdateRole(r.Context(), userStableID, *body.Role))
	}
}

func UserStableRemove(svc memberships.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userStableID, ok := pathID(w, r, logg, "userStableId")
		if !ok {
			return
		}
		writeDone(w, r, logg, http.StatusOK, "User removed from stable successfully.", svc.RemoveMember(r.Context(), userStableID))
	}
}
