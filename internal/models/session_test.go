package models

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func TestParseSession(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	access := signToken(t, jwt.MapClaims{
		"sub":   "user-123",
		"email": "user@example.com",
		"exp":   exp.Unix(),
	})

	s, err := ParseSession(access, "refresh-abc")
	require.NoError(t, err)
	assert.Equal(t, "user-123", s.UserID)
	assert.Equal(t, "user@example.com", s.Email)
	assert.Equal(t, "refresh-abc", s.RefreshToken)
	assert.WithinDuration(t, exp, s.ExpiresAt, time.Second)
	assert.False(t, s.Expired())
}

func TestParseSessionRejectsGarbage(t *testing.T) {
	_, err := ParseSession("not.a.token", "r")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = ParseSession("", "r")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseSessionRequiresSubject(t *testing.T) {
	access := signToken(t, jwt.MapClaims{"email": "user@example.com"})
	_, err := ParseSession(access, "r")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExpired(t *testing.T) {
	s := &Session{ExpiresAt: time.Now().Add(-time.Minute)}
	assert.True(t, s.Expired())

	s = &Session{ExpiresAt: time.Now().Add(time.Minute)}
	assert.False(t, s.Expired())
	assert.True(t, s.ExpiresWithin(2*time.Minute))

	var none *Session
	assert.False(t, none.Expired())
}
