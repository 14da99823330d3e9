package auth

import (
	"strconv"

	"github.com/golang-jwt/jwt/v5"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID    int
	Email     string
	FirstName string
	LastName  string
	// JTI doubles as the session id the refresh token is stored under.
	JTI string
}

// AccessTokenClaims is the typed body of an equilog access token. The user id
// travels as the standard subject; UserID is filled in on parse.
type AccessTokenClaims struct {
	UserID    int    `json:"-"`
	Email     string `json:"email"`
	FirstName string `json:"given_name,omitempty"`
	LastName  string `json:"family_name,omitempty"`
	jwt.RegisteredClaims
}

func (c *AccessTokenClaims) resolveUser() error {
	id, err := strconv.Atoi(c.Subject)
	if err != nil || id <= 0 {
		return ErrNoSubject
	}
	c.UserID = id
	return nil
}
