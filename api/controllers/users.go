package controllers

import (
	"net/http"

	"github.com/equilog/equilog-backend/internal/joinrequests"
	"github.com/equilog/equilog-backend/internal/memberships"
	"github.com/equilog/equilog-backend/internal/users"
	"github.com/equilog/equilog-backend/pkg/logger"
)

func UserList(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.List(r.Context())
		writeValue(w, r, logg, list, err)
	}
}

func UserGet(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := pathID(w, r, logg, "userId")
		if !ok {
			return
		}
		user, err := svc.Get(r.Context(), userID)
		writeValue(w, r, logg, user, err)
	}
}

// UserMe returns the authenticated user.
func UserMe(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(w, r, logg)
		if !ok {
			return
		}
		user, err := svc.Get(r.Context(), userID)
		writeValue(w, r, logg, user, err)
	}
}

// UserProfile returns a user as seen from inside one stable.
func UserProfile(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := pathID(w, r, logg, "userId")
		if !ok {
			return
		}
		stableID, ok := pathID(w, r, logg, "stableId")
		if !ok {
			return
		}
		profile, err := svc.Profile(r.Context(), userID, stableID)
		writeValue(w, r, logg, profile, err)
	}
}

func UserUpdate(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := pathID(w, r, logg, "userId")
		if !ok || !requireSelf(w, r, logg, userID) {
			return
		}
		var body users.UpdateUserInput
		body.ID = userID
		if !decodeBody(w, r, logg, &body) {
			return
		}
		body.ID = userID
		writeDone(w, r, logg, http.StatusOK, "User updated successfully.", svc.Update(r.Context(), body))
	}
}

// UserDelete removes only the user row. Stables the user owns are left to the
// database cascade; clients should prefer the composition route.
func UserDelete(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := pathID(w, r, logg, "userId")
		if !ok || !requireSelf(w, r, logg, userID) {
			return
		}
		writeDone(w, r, logg, http.StatusOK, "User deleted successfully.", svc.Delete(r.Context(), userID))
	}
}

func UserStables(svc memberships.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := pathID(w, r, logg, "userId")
		if !ok {
			return
		}
		list, err := svc.ListStablesByUser(r.Context(), userID)
		writeValue(w, r, logg, list, err)
	}
}

func UserJoinRequests(svc joinrequests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := pathID(w, r, logg, "userId")
		if !ok || !requireSelf(w, r, logg, userID) {
			return
		}
		list, err := svc.ListByUser(r.Context(), userID)
		writeValue(w, r, logg, list, err)
	}
}
