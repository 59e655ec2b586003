package models

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid access token")

// Session is the authenticated identity context for the current user.
// UserID and Email are lifted out of the access token claims so the rest of
// the client never has to touch the JWT.
type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"`
	ExpiresAt    time.Time `json:"expires_at"`
	UserID       string    `json:"user_id"`
	Email        string    `json:"email"`
}

type sessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// ParseSession builds a Session from a token pair. The access token is
// decoded without signature verification: the backend issued it and is the
// only party that verifies it, the client just needs the subject, email and
// expiry claims.
func ParseSession(accessToken, refreshToken string) (*Session, error) {
	if accessToken == "" {
		return nil, ErrInvalidToken
	}

	var claims sessionClaims
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(accessToken, &claims); err != nil {
		return nil, errors.Join(ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	s := &Session{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		UserID:       claims.Subject,
		Email:        claims.Email,
	}
	if claims.ExpiresAt != nil {
		s.ExpiresAt = claims.ExpiresAt.Time
	}
	return s, nil
}

// Expired reports whether the access token expiry has passed. Sessions
// without an expiry claim never report expired.
func (s *Session) Expired() bool {
	if s == nil || s.ExpiresAt.IsZero() {
		return false
	}
	return time.Now().After(s.ExpiresAt)
}

// ExpiresWithin reports whether the access token expires inside d.
func (s *Session) ExpiresWithin(d time.Duration) bool {
	if s == nil || s.ExpiresAt.IsZero() {
		return false
	}
	return time.Now().Add(d).After(s.ExpiresAt)
}
