package supabase

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wemitwqw/calorie-tracker-go/internal/keystore"
	"github.com/wemitwqw/calorie-tracker-go/internal/models"
)

func signToken(t *testing.T, sub, email string, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   sub,
		"email": email,
		"exp":   exp.Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func newAuthTestClient(t *testing.T, handler http.Handler, store TokenStore) *Client {
	t.Helper()
	client, _ := newTestClient(t, handler)
	if store != nil {
		client.auth.keystore = store
	}
	return client
}

func TestAuthorizeURL(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	raw := client.Auth().AuthorizeURL("discord", "http://127.0.0.1:8976/auth/callback", "nonce-1")
	u, err := url.Parse(raw)
	require.NoError(t, err)

	assert.Equal(t, "/auth/v1/authorize", u.Path)
	assert.Equal(t, "discord", u.Query().Get("provider"))
	assert.Equal(t, "http://127.0.0.1:8976/auth/callback", u.Query().Get("redirect_to"))
	assert.Equal(t, "nonce-1", u.Query().Get("state"))
}

func TestExchangeCodeInstallsSessionAndNotifies(t *testing.T) {
	access := signToken(t, "u1", "u1@example.com", time.Now().Add(time.Hour))
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/token", r.URL.Path)
		assert.Equal(t, "pkce", r.URL.Query().Get("grant_type"))

		var payload map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "code-1", payload["auth_code"])

		json.NewEncoder(w).Encode(map[string]any{
			"access_token":  access,
			"refresh_token": "refresh-1",
			"expires_in":    3600,
		})
	})

	store := keystore.NewMemory()
	client := newAuthTestClient(t, handler, store)

	var notified []*models.Session
	client.Auth().OnSessionChange(func(s *models.Session) {
		notified = append(notified, s)
	})

	session, err := client.Auth().ExchangeCode(context.Background(), "code-1")
	require.NoError(t, err)
	assert.Equal(t, "u1", session.UserID)
	assert.Equal(t, "u1@example.com", session.Email)
	assert.Equal(t, "refresh-1", session.RefreshToken)

	require.Len(t, notified, 1)
	assert.Equal(t, "u1", notified[0].UserID)

	persisted, err := store.LoadSession(context.Background())
	require.NoError(t, err)
	require.NotNil(t, persisted)
	assert.Equal(t, access, persisted.AccessToken)
}

func TestSignInWithPassword(t *testing.T) {
	access := signToken(t, "u2", "u2@example.com", time.Now().Add(time.Hour))
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "password", r.URL.Query().Get("grant_type"))
		json.NewEncoder(w).Encode(map[string]any{
			"access_token":  access,
			"refresh_token": "refresh-2",
		})
	})
	client := newAuthTestClient(t, handler, nil)

	session, err := client.Auth().SignInWithPassword(context.Background(), "u2@example.com", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "u2", session.UserID)
	assert.Same(t, session, client.Auth().Session())
}

func TestRestoreRefreshesExpiredSession(t *testing.T) {
	expired := signToken(t, "u1", "u1@example.com", time.Now().Add(-time.Hour))
	fresh := signToken(t, "u1", "u1@example.com", time.Now().Add(time.Hour))

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/v1/token", r.URL.Path)
		assert.Equal(t, "refresh_token", r.URL.Query().Get("grant_type"))

		var payload map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "refresh-old", payload["refresh_token"])

		json.NewEncoder(w).Encode(map[string]any{
			"access_token":  fresh,
			"refresh_token": "refresh-new",
		})
	})

	store := keystore.NewMemory()
	stale, err := models.ParseSession(expired, "refresh-old")
	require.NoError(t, err)
	require.NoError(t, store.SaveSession(context.Background(), stale))

	client := newAuthTestClient(t, handler, store)
	session, err := client.Auth().Restore(context.Background())
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, fresh, session.AccessToken)
	assert.Equal(t, "refresh-new", session.RefreshToken)
}

func TestRestoreWithStaleRefreshTokenDegradesToSignedOut(t *testing.T) {
	expired := signToken(t, "u1", "u1@example.com", time.Now().Add(-time.Hour))
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error_description":"Invalid Refresh Token"}`))
	})

	store := keystore.NewMemory()
	stale, err := models.ParseSession(expired, "refresh-old")
	require.NoError(t, err)
	require.NoError(t, store.SaveSession(context.Background(), stale))

	client := newAuthTestClient(t, handler, store)
	session, err := client.Auth().Restore(context.Background())
	require.NoError(t, err)
	assert.Nil(t, session)
	assert.Nil(t, client.Auth().Session())

	persisted, err := store.LoadSession(context.Background())
	require.NoError(t, err)
	assert.Nil(t, persisted)
}

func TestRestoreWithoutKeystore(t *testing.T) {
	client := newAuthTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}), nil)
	client.auth.keystore = nil

	session, err := client.Auth().Restore(context.Background())
	require.NoError(t, err)
	assert.Nil(t, session)
}

func TestSignOutClearsSessionThroughListener(t *testing.T) {
	access := signToken(t, "u1", "u1@example.com", time.Now().Add(time.Hour))
	var sawLogout bool
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/logout") {
			sawLogout = true
			assert.Equal(t, "Bearer "+access, r.Header.Get("Authorization"))
			w.WriteHeader(http.StatusNoContent)
			return
		}
		t.Errorf("unexpected request %s", r.URL.Path)
	})

	store := keystore.NewMemory()
	client := newAuthTestClient(t, handler, store)

	session, err := models.ParseSession(access, "refresh-1")
	require.NoError(t, err)
	client.auth.setSession(context.Background(), session)

	var last *models.Session = session
	client.Auth().OnSessionChange(func(s *models.Session) { last = s })

	require.NoError(t, client.Auth().SignOut(context.Background()))
	assert.True(t, sawLogout)
	assert.Nil(t, client.Auth().Session())
	assert.Nil(t, last)

	persisted, err := store.LoadSession(context.Background())
	require.NoError(t, err)
	assert.Nil(t, persisted)
}

func TestSignOutWhileSignedOutIsNoop(t *testing.T) {
	client := newAuthTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}), nil)

	require.NoError(t, client.Auth().SignOut(context.Background()))
}

func TestUnsubscribeStopsNotifications(t *testing.T) {
	client := newAuthTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}), nil)

	var calls int
	unsubscribe := client.Auth().OnSessionChange(func(*models.Session) { calls++ })

	client.auth.setSession(context.Background(), nil)
	assert.Equal(t, 1, calls)

	unsubscribe()
	client.auth.setSession(context.Background(), nil)
	assert.Equal(t, 1, calls)
}
