package auth

import "github.com/equilog/equilog-backend/internal/users"

// RegisterRequest is the payload for creating an account.
type RegisterRequest struct {
	FirstName   string  `json:"firstName" validate:"required,max=50"`
	LastName    string  `json:"lastName" validate:"required,max=50"`
	Email       string  `json:"email" validate:"required,email,max=254"`
	Password    string  `json:"password" validate:"required,min=8,max=128"`
	PhoneNumber *string `json:"phoneNumber,omitempty" validate:"omitempty,max=20"`
}

// LoginRequest captures the user credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest pairs the possibly expired access token with its refresh token.
type RefreshRequest struct {
	AccessToken  string `json:"accessToken" validate:"required"`
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// TokenResponse is returned by login, register and refresh.
type TokenResponse struct {
	AccessToken  string         `json:"accessToken"`
	RefreshToken string         `json:"refreshToken"`
	User         *users.UserDTO `json:"user"`
}
