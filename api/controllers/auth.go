package controllers

import (
	"net/http"

	"github.com/equilog/equilog-backend/api/middleware"
	"github.com/equilog/equilog-backend/api/responses"
	"github.com/equilog/equilog-backend/internal/auth"
	"github.com/equilog/equilog-backend/pkg/logger"
)

// AuthRegister creates an account and returns a fresh token pair.
func AuthRegister(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "auth service")
			return
		}
		var body auth.RegisterRequest
		if !decodeBody(w, r, logg, &body) {
			return
		}
		result, err := svc.Register(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, http.StatusCreated, result, "User registered successfully.")
	}
}

// AuthLogin wires the login endpoint into the HTTP layer.
func AuthLogin(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "auth service")
			return
		}
		var body auth.LoginRequest
		if !decodeBody(w, r, logg, &body) {
			return
		}
		result, err := svc.Login(r.Context(), body)
		writeValue(w, r, logg, result, err)
	}
}

// AuthRefresh rotates the refresh token bound to an access token.
func AuthRefresh(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "auth service")
			return
		}
		var body auth.RefreshRequest
		if !decodeBody(w, r, logg, &body) {
			return
		}
		result, err := svc.Refresh(r.Context(), body)
		writeValue(w, r, logg, result, err)
	}
}

func AuthLogout(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "auth service")
			return
		}
		err := svc.Logout(r.Context(), middleware.AccessIDFromContext(r.Context()))
		writeDone(w, r, logg, http.StatusOK, "Logged out.", err)
	}
}
