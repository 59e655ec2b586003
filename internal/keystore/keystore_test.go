package keystore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wemitwqw/calorie-tracker-go/internal/models"
)

func sampleSession() *models.Session {
	return &models.Session{
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		TokenType:    "bearer",
		ExpiresAt:    time.Now().Add(time.Hour).Truncate(time.Second),
		UserID:       "u1",
		Email:        "u1@example.com",
	}
}

func TestMemoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	loaded, err := store.LoadSession(ctx)
	require.NoError(t, err)
	assert.Nil(t, loaded)

	session := sampleSession()
	require.NoError(t, store.SaveSession(ctx, session))

	loaded, err = store.LoadSession(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, *session, *loaded)

	// The stored copy must not alias the caller's value.
	session.AccessToken = "mutated"
	loaded, err = store.LoadSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, "access-1", loaded.AccessToken)

	require.NoError(t, store.ClearSession(ctx))
	loaded, err = store.LoadSession(ctx)
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestSqliteRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := NewSqlite(t.TempDir())
	require.NoError(t, err)

	loaded, err := store.LoadSession(ctx)
	require.NoError(t, err)
	assert.Nil(t, loaded)

	session := sampleSession()
	require.NoError(t, store.SaveSession(ctx, session))

	loaded, err = store.LoadSession(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, session.UserID, loaded.UserID)
	assert.Equal(t, session.RefreshToken, loaded.RefreshToken)
	assert.True(t, session.ExpiresAt.Equal(loaded.ExpiresAt))

	require.NoError(t, store.ClearSession(ctx))
	loaded, err = store.LoadSession(ctx)
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestSqliteOverwritesExistingSession(t *testing.T) {
	ctx := context.Background()
	store, err := NewSqlite(t.TempDir())
	require.NoError(t, err)

	first := sampleSession()
	require.NoError(t, store.SaveSession(ctx, first))

	second := sampleSession()
	second.AccessToken = "access-2"
	second.UserID = "u2"
	require.NoError(t, store.SaveSession(ctx, second))

	loaded, err := store.LoadSession(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "u2", loaded.UserID)
	assert.Equal(t, "access-2", loaded.AccessToken)
}
