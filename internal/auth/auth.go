package auth

import "errors"

var ErrInvalidToken = errors.New("invalid token")

// Claims is what the API needs back out of a validated token.
type Claims struct {
	UserID string
	Admin  bool
}

type Authenticator interface {
	GenerateTokens(userID string, admin bool) (access string, refresh string, err error)
	GenerateAccessToken(userID string, admin bool) (string, error)
	ValidateAccessToken(token string) (Claims, error)
	ValidateRefreshToken(token string) (Claims, error)
}
