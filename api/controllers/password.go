package controllers

import (
	"net/http"

	"github.com/equilog/equilog-backend/internal/password"
	"github.com/equilog/equilog-backend/pkg/logger"
)

// PasswordReset consumes a reset token and sets the new password.
func PasswordReset(svc password.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body password.ResetPasswordInput
		if !decodeBody(w, r, logg, &body) {
			return
		}
		writeDone(w, r, logg, http.StatusOK, "Password reset successfully.", svc.Reset(r.Context(), body))
	}
}

func PasswordChange(svc password.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(w, r, logg)
		if !ok {
			return
		}
		var body password.ChangePasswordInput
		if !decodeBody(w, r, logg, &body) {
			return
		}
		body.UserID = userID
		writeDone(w, r, logg, http.StatusOK, "Password changed successfully.", svc.Change(r.Context(), body))
	}
}

// PasswordResetRequestDelete withdraws a pending reset request.
func PasswordResetRequestDelete(svc password.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID, ok := pathID(w, r, logg, "requestId")
		if !ok {
			return
		}
		writeDone(w, r, logg, http.StatusOK, "Password reset request deleted successfully.", svc.DeleteResetRequest(r.Context(), requestID))
	}
}
