package controllers

import (
	"net/http"

	"github.com/equilog/equilog-backend/internal/invites"
	"github.com/equilog/equilog-backend/internal/joinrequests"
	"github.com/equilog/equilog-backend/pkg/logger"
)

// StableInviteCreate invites a user into a stable.
func StableInviteCreate(svc invites.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body invites.InviteInput
		if !decodeBody(w, r, logg, &body) {
			return
		}
		writeDone(w, r, logg, http.StatusCreated, "Stable invite created successfully.", svc.Create(r.Context(), body))
	}
}

// StableInviteAccept lets the invited user join the stable.
func StableInviteAccept(svc invites.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body invites.InviteInput
		if !decodeBody(w, r, logg, &body) || !requireSelf(w, r, logg, body.UserID) {
			return
		}
		writeDone(w, r, logg, http.StatusOK, "Stable invite accepted successfully.", svc.Accept(r.Context(), body))
	}
}

func StableInviteRefuse(svc invites.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body invites.InviteInput
		if !decodeBody(w, r, logg, &body) {
			return
		}
		writeDone(w, r, logg, http.StatusOK, "Stable invite refused successfully.", svc.Refuse(r.Context(), body))
	}
}

// StableJoinRequestCreate asks to join a stable on behalf of the caller.
func StableJoinRequestCreate(svc joinrequests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body joinrequests.JoinRequestInput
		if !decodeBody(w, r, logg, &body) || !requireSelf(w, r, logg, body.UserID) {
			return
		}
		writeDone(w, r, logg, http.StatusCreated, "Stable join request created successfully.", svc.Create(r.Context(), body))
	}
}

func StableJoinRequestAccept(svc joinrequests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body joinrequests.JoinRequestInput
		if !decodeBody(w, r, logg, &body) {
			return
		}
		writeDone(w, r, logg, http.StatusOK, "Stable join request accepted successfully.", svc.Accept(r.Context(), body))
	}
}

func StableJoinRequestRefuse(svc joinrequests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body joinrequests.JoinRequestInput
		if !decodeBody(w, r, logg, &body) {
			return
		}
		writeDone(w, r, logg, http.StatusOK, "Stable join request refused successfully.", svc.Refuse(r.Context(), body))
	}
}
