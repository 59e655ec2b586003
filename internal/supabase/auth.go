package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/wemitwqw/calorie-tracker-go/internal/models"
)

// TokenStore persists the session token pair across runs. Which
// implementation backs it is a platform decision made at startup.
type TokenStore interface {
	SaveSession(ctx context.Context, s *models.Session) error
	LoadSession(ctx context.Context) (*models.Session, error)
	ClearSession(ctx context.Context) error
}

// AuthClient handles GoTrue authentication and owns the current session.
// It is the session provider the rest of the client registers listeners
// against: every local session change (restore, code exchange, refresh,
// sign-out) is fanned out to subscribers.
type AuthClient struct {
	client   *Client
	keystore TokenStore

	mu        sync.RWMutex
	session   *models.Session
	listeners map[int]func(*models.Session)
	nextID    int
}

func newAuthClient(c *Client, keystore TokenStore) *AuthClient {
	return &AuthClient{
		client:    c,
		keystore:  keystore,
		listeners: map[int]func(*models.Session){},
	}
}

// Session returns the current session, or nil when signed out.
func (a *AuthClient) Session() *models.Session {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.session
}

// OnSessionChange registers a listener invoked on every session transition,
// including sign-out (nil session). The returned function unsubscribes.
func (a *AuthClient) OnSessionChange(fn func(*models.Session)) func() {
	a.mu.Lock()
	id := a.nextID
	a.nextID++
	a.listeners[id] = fn
	a.mu.Unlock()

	return func() {
		a.mu.Lock()
		delete(a.listeners, id)
		a.mu.Unlock()
	}
}

func (a *AuthClient) setSession(ctx context.Context, s *models.Session) {
	a.mu.Lock()
	a.session = s
	listeners := make([]func(*models.Session), 0, len(a.listeners))
	for _, fn := range a.listeners {
		listeners = append(listeners, fn)
	}
	a.mu.Unlock()

	if a.keystore != nil {
		var err error
		if s == nil {
			err = a.keystore.ClearSession(ctx)
		} else {
			err = a.keystore.SaveSession(ctx, s)
		}
		if err != nil {
			a.client.logger.Error().Err(err).Msg("persist session")
		}
	}

	for _, fn := range listeners {
		fn(s)
	}
}

// Restore seeds the session from the keystore, refreshing the token pair
// when the persisted access token has expired. It returns the restored
// session, or nil when none is available.
func (a *AuthClient) Restore(ctx context.Context) (*models.Session, error) {
	if a.keystore == nil {
		return nil, nil
	}
	s, err := a.keystore.LoadSession(ctx)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if s == nil {
		return nil, nil
	}
	if s.Expired() {
		refreshed, err := a.refresh(ctx, s.RefreshToken)
		if err != nil {
			// Stale refresh token. Treat as signed out.
			a.setSession(ctx, nil)
			return nil, nil
		}
		s = refreshed
	}
	a.setSession(ctx, s)
	return s, nil
}

// AuthorizeURL builds the hosted OAuth authorize URL for the provider. The
// state nonce round-trips through the provider and must be checked by the
// callback listener.
func (a *AuthClient) AuthorizeURL(provider, redirectTo, state string) string {
	params := url.Values{}
	params.Set("provider", provider)
	params.Set("redirect_to", redirectTo)
	if state != "" {
		params.Set("state", state)
	}
	return a.client.baseURL + "/auth/v1/authorize?" + params.Encode()
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

func (a *AuthClient) token(ctx context.Context, grantType string, payload any) (*models.Session, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	reqURL := a.client.baseURL + "/auth/v1/token?grant_type=" + grantType
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.client.anonKey)

	var tok tokenResponse
	if err := a.client.do(req, &tok); err != nil {
		return nil, err
	}

	s, err := models.ParseSession(tok.AccessToken, tok.RefreshToken)
	if err != nil {
		return nil, err
	}
	if s.ExpiresAt.IsZero() && tok.ExpiresIn > 0 {
		s.ExpiresAt = time.Now().Add(time.Duration(tok.ExpiresIn) * time.Second)
	}
	return s, nil
}

// ExchangeCode trades the authorization code from the OAuth redirect for a
// session and installs it.
func (a *AuthClient) ExchangeCode(ctx context.Context, code string) (*models.Session, error) {
	s, err := a.token(ctx, "pkce", map[string]string{"auth_code": code})
	if err != nil {
		return nil, err
	}
	a.setSession(ctx, s)
	return s, nil
}

// SignInWithPassword authenticates with the email/password grant and
// installs the resulting session.
func (a *AuthClient) SignInWithPassword(ctx context.Context, email, password string) (*models.Session, error) {
	s, err := a.token(ctx, "password", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, err
	}
	a.setSession(ctx, s)
	return s, nil
}

func (a *AuthClient) refresh(ctx context.Context, refreshToken string) (*models.Session, error) {
	return a.token(ctx, "refresh_token", map[string]string{"refresh_token": refreshToken})
}

// Refresh replaces the current session with a fresh token pair.
func (a *AuthClient) Refresh(ctx context.Context) (*models.Session, error) {
	current := a.Session()
	if current == nil {
		return nil, nil
	}
	s, err := a.refresh(ctx, current.RefreshToken)
	if err != nil {
		return nil, err
	}
	a.setSession(ctx, s)
	return s, nil
}

// SignOut revokes the session remotely and clears it locally. The local
// clear happens through the listener path, so subscribers observe sign-out
// the same way they observe any other transition.
func (a *AuthClient) SignOut(ctx context.Context) error {
	current := a.Session()
	if current == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.client.baseURL+"/auth/v1/logout", nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+current.AccessToken)
	err = a.client.do(req, nil)

	a.setSession(ctx, nil)
	return err
}

// StartAutoRefresh refreshes the session shortly before expiry until ctx is
// cancelled.
func (a *AuthClient) StartAutoRefresh(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s := a.Session()
				if s == nil || !s.ExpiresWithin(2*interval) {
					continue
				}
				if _, err := a.Refresh(ctx); err != nil {
					a.client.logger.Error().Err(err).Msg("session refresh failed")
				}
			}
		}
	}()
}
