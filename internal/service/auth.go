// Package service contains the sync services: each operation performs a
// remote read or write and reconciles the client stores with the
// server-returned records, so consumers never need a manual refetch.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/wemitwqw/calorie-tracker-go/internal/models"
	"github.com/wemitwqw/calorie-tracker-go/internal/store"
)

// ErrNoSession is returned by write operations invoked while signed out.
// No remote call is made in that case.
var ErrNoSession = errors.New("no active session")

const (
	// Bounds for the post-login admin check. Backend authorization state
	// can lag a freshly issued session, so a failed check is retried with
	// backoff instead of trusting the first answer.
	adminCheckAttempts = 3
	adminCheckBackoff  = 500 * time.Millisecond
)

// AuthService drives the session lifecycle: one initial restore, then a
// provider listener for the rest of the process.
type AuthService struct {
	sessions *store.SessionStore
	provider SessionProvider
	admin    AdminChecker
	logger   zerolog.Logger
}

// NewAuthService creates an auth service over the injected provider.
func NewAuthService(sessions *store.SessionStore, provider SessionProvider, admin AdminChecker, logger zerolog.Logger) *AuthService {
	return &AuthService{
		sessions: sessions,
		provider: provider,
		admin:    admin,
		logger:   logger.With().Str("service", "auth").Logger(),
	}
}

// Initialize seeds the session store with exactly one restore call, flips
// the loading flag false exactly once, and subscribes to session changes
// for the remainder of the process lifetime. Restore failures degrade to
// signed-out; they are never surfaced as blocking errors.
func (s *AuthService) Initialize(ctx context.Context) {
	session, err := s.provider.Restore(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("session restore failed")
		session = nil
	}
	s.sessions.SetSession(session)
	s.sessions.SetLoading(false)

	if session != nil {
		go s.checkAdminWithRetry(ctx)
	}

	s.provider.OnSessionChange(func(next *models.Session) {
		s.handleSessionChange(ctx, next)
	})
}

// handleSessionChange overwrites the stored session on every notification.
// A signed-in transition schedules the remote admin check; a signed-out
// transition clears the admin flag locally inside the store, with no
// remote call.
func (s *AuthService) handleSessionChange(ctx context.Context, next *models.Session) {
	wasSignedOut := s.sessions.Session() == nil
	s.sessions.SetSession(next)

	if next != nil && wasSignedOut {
		go s.checkAdminWithRetry(ctx)
	}
}

// CheckIsAdmin runs the remote admin predicate once and caches the result.
// Any failure resolves to not-admin.
func (s *AuthService) CheckIsAdmin(ctx context.Context) {
	userID := s.sessions.UserID()
	if userID == "" {
		s.sessions.SetAdmin(false)
		return
	}
	isAdmin, err := s.admin.IsAdmin(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Msg("admin check failed")
		isAdmin = false
	}
	s.sessions.SetAdmin(isAdmin)
}

// checkAdminWithRetry retries transient admin-check failures with a short
// exponential backoff before failing closed.
func (s *AuthService) checkAdminWithRetry(ctx context.Context) {
	userID := s.sessions.UserID()
	if userID == "" {
		s.sessions.SetAdmin(false)
		return
	}

	backoff := adminCheckBackoff
	for attempt := 1; ; attempt++ {
		isAdmin, err := s.admin.IsAdmin(ctx, userID)
		if err == nil {
			s.sessions.SetAdmin(isAdmin)
			return
		}
		if attempt >= adminCheckAttempts {
			s.logger.Error().Err(err).Int("attempts", attempt).Msg("admin check failed")
			s.sessions.SetAdmin(false)
			return
		}
		select {
		case <-time.After(backoff):
			backoff *= 2
		case <-ctx.Done():
			s.sessions.SetAdmin(false)
			return
		}
	}
}

// SignInURL builds the OAuth authorize URL for the provider and returns it
// together with the state nonce the callback listener must verify.
func (s *AuthService) SignInURL(provider, redirectTo string) (string, string) {
	state := uuid.NewString()
	return s.provider.AuthorizeURL(provider, redirectTo, state), state
}

// CompleteSignIn exchanges the authorization code from the OAuth redirect.
// The resulting session reaches the store through the provider's change
// notification, like every other transition.
func (s *AuthService) CompleteSignIn(ctx context.Context, code string) error {
	if _, err := s.provider.ExchangeCode(ctx, code); err != nil {
		return err
	}
	return nil
}

// SignOut revokes the session remotely. The store is not cleared
// optimistically: the provider's change notification nulls it out, so
// consumers must treat sign-out as asynchronous.
func (s *AuthService) SignOut(ctx context.Context) {
	if err := s.provider.SignOut(ctx); err != nil {
		s.logger.Error().Err(err).Msg("sign out failed")
	}
}
