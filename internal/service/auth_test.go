package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/wemitwqw/calorie-tracker-go/internal/mocks"
	"github.com/wemitwqw/calorie-tracker-go/internal/models"
	"github.com/wemitwqw/calorie-tracker-go/internal/store"
)

// fakeProvider is a hand-rolled SessionProvider whose change listener the
// tests fire directly.
type fakeProvider struct {
	mu         sync.Mutex
	restored   *models.Session
	restoreErr error
	restores   int
	listener   func(*models.Session)
	signOutErr error
	signOuts   int
}

func (p *fakeProvider) Restore(ctx context.Context) (*models.Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.restores++
	return p.restored, p.restoreErr
}

func (p *fakeProvider) OnSessionChange(fn func(*models.Session)) func() {
	p.mu.Lock()
	p.listener = fn
	p.mu.Unlock()
	return func() {}
}

func (p *fakeProvider) AuthorizeURL(provider, redirectTo, state string) string {
	return "https://auth.example.com/authorize?provider=" + provider + "&state=" + state
}

func (p *fakeProvider) ExchangeCode(ctx context.Context, code string) (*models.Session, error) {
	return nil, nil
}

func (p *fakeProvider) SignOut(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.signOuts++
	return p.signOutErr
}

func (p *fakeProvider) fire(session *models.Session) {
	p.mu.Lock()
	fn := p.listener
	p.mu.Unlock()
	if fn != nil {
		fn(session)
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	require.Eventually(t, cond, 5*time.Second, 10*time.Millisecond)
}

func TestInitializeRestoresOnceAndClearsLoading(t *testing.T) {
	sessions := store.NewSessionStore()
	provider := &fakeProvider{restored: &models.Session{UserID: "u1"}}
	admin := new(mocks.MockAdminChecker)
	admin.On("IsAdmin", mock.Anything, "u1").Return(true, nil)

	svc := NewAuthService(sessions, provider, admin, zerolog.Nop())
	require.True(t, sessions.Loading())

	svc.Initialize(context.Background())

	assert.False(t, sessions.Loading())
	assert.Equal(t, 1, provider.restores)
	assert.Equal(t, "u1", sessions.UserID())
	waitFor(t, sessions.IsAdmin)
}

func TestInitializeRestoreFailureDegradesToSignedOut(t *testing.T) {
	sessions := store.NewSessionStore()
	provider := &fakeProvider{restoreErr: errors.New("keystore gone")}
	admin := new(mocks.MockAdminChecker)

	svc := NewAuthService(sessions, provider, admin, zerolog.Nop())
	svc.Initialize(context.Background())

	assert.False(t, sessions.Loading())
	assert.Nil(t, sessions.Session())
	admin.AssertNotCalled(t, "IsAdmin", mock.Anything, mock.Anything)
}

func TestSignedOutNotificationClearsAdminWithoutRemoteCall(t *testing.T) {
	sessions := store.NewSessionStore()
	provider := &fakeProvider{restored: &models.Session{UserID: "u1"}}
	admin := new(mocks.MockAdminChecker)
	admin.On("IsAdmin", mock.Anything, "u1").Return(true, nil).Once()

	svc := NewAuthService(sessions, provider, admin, zerolog.Nop())
	svc.Initialize(context.Background())
	waitFor(t, sessions.IsAdmin)

	provider.fire(nil)

	assert.Nil(t, sessions.Session())
	assert.False(t, sessions.IsAdmin())
	admin.AssertNumberOfCalls(t, "IsAdmin", 1)
}

func TestSignedInNotificationSchedulesAdminCheck(t *testing.T) {
	sessions := store.NewSessionStore()
	provider := &fakeProvider{}
	admin := new(mocks.MockAdminChecker)
	admin.On("IsAdmin", mock.Anything, "u2").Return(true, nil)

	svc := NewAuthService(sessions, provider, admin, zerolog.Nop())
	svc.Initialize(context.Background())
	require.Nil(t, sessions.Session())

	provider.fire(&models.Session{UserID: "u2"})

	assert.Equal(t, "u2", sessions.UserID())
	waitFor(t, sessions.IsAdmin)
}

func TestAdminCheckRetriesThenSucceeds(t *testing.T) {
	sessions := store.NewSessionStore()
	sessions.SetSession(&models.Session{UserID: "u1"})
	admin := new(mocks.MockAdminChecker)
	admin.On("IsAdmin", mock.Anything, "u1").Return(false, errors.New("not ready")).Twice()
	admin.On("IsAdmin", mock.Anything, "u1").Return(true, nil).Once()

	svc := NewAuthService(sessions, &fakeProvider{}, admin, zerolog.Nop())
	svc.checkAdminWithRetry(context.Background())

	assert.True(t, sessions.IsAdmin())
	admin.AssertNumberOfCalls(t, "IsAdmin", 3)
}

func TestAdminCheckFailsClosedAfterRetriesExhausted(t *testing.T) {
	sessions := store.NewSessionStore()
	sessions.SetSession(&models.Session{UserID: "u1"})
	admin := new(mocks.MockAdminChecker)
	admin.On("IsAdmin", mock.Anything, "u1").Return(false, errors.New("boom"))

	svc := NewAuthService(sessions, &fakeProvider{}, admin, zerolog.Nop())
	svc.checkAdminWithRetry(context.Background())

	assert.False(t, sessions.IsAdmin())
	admin.AssertNumberOfCalls(t, "IsAdmin", adminCheckAttempts)
}

func TestCheckIsAdminFailsClosedOnError(t *testing.T) {
	sessions := store.NewSessionStore()
	sessions.SetSession(&models.Session{UserID: "u1"})
	sessions.SetAdmin(true)
	admin := new(mocks.MockAdminChecker)
	admin.On("IsAdmin", mock.Anything, "u1").Return(false, errors.New("boom"))

	svc := NewAuthService(sessions, &fakeProvider{}, admin, zerolog.Nop())
	svc.CheckIsAdmin(context.Background())

	assert.False(t, sessions.IsAdmin())
}

func TestSignInURLReturnsFreshState(t *testing.T) {
	svc := NewAuthService(store.NewSessionStore(), &fakeProvider{}, new(mocks.MockAdminChecker), zerolog.Nop())

	url1, state1 := svc.SignInURL("discord", "http://127.0.0.1:8976/auth/callback")
	url2, state2 := svc.SignInURL("discord", "http://127.0.0.1:8976/auth/callback")

	assert.NotEmpty(t, state1)
	assert.NotEqual(t, state1, state2)
	assert.Contains(t, url1, state1)
	assert.Contains(t, url2, state2)
}

func TestSignOutDoesNotClearStoreDirectly(t *testing.T) {
	sessions := store.NewSessionStore()
	sessions.SetSession(&models.Session{UserID: "u1"})
	provider := &fakeProvider{}

	svc := NewAuthService(sessions, provider, new(mocks.MockAdminChecker), zerolog.Nop())
	svc.SignOut(context.Background())

	assert.Equal(t, 1, provider.signOuts)
	assert.NotNil(t, sessions.Session())

	provider.fire(nil)
	assert.Nil(t, sessions.Session())
}
