// Package store holds the client-side state containers. Each store is an
// explicit, constructor-created instance guarded by a RWMutex; readers get
// defensive copies and derived values are computed on access rather than
// cached next to the base collection.
package store

import (
	"sync"

	"github.com/wemitwqw/calorie-tracker-go/internal/models"
)

// SessionStore holds the authenticated session, the initial-load flag and
// the derived admin flag. At most one session is active per store.
type SessionStore struct {
	mu          sync.RWMutex
	session     *models.Session
	loading     bool
	isAdmin     bool
	subscribers map[int]func()
	nextID      int
}

// NewSessionStore creates a session store in the loading state: consumers
// should not treat "no session" as signed-out until the initial fetch
// completes.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		loading:     true,
		subscribers: map[int]func(){},
	}
}

// Session returns a copy of the current session, or nil when signed out.
func (s *SessionStore) Session() *models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return nil
	}
	copied := *s.session
	return &copied
}

// UserID returns the current user id, or "" when signed out.
func (s *SessionStore) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return ""
	}
	return s.session.UserID
}

// Loading reports whether the initial session fetch is still in flight.
func (s *SessionStore) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// IsAdmin reports the cached admin flag.
func (s *SessionStore) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isAdmin
}

// SetSession replaces the session. A nil session forces the admin flag off
// in the same critical section: a signed-out user is never an admin and no
// remote check is needed to know it.
func (s *SessionStore) SetSession(session *models.Session) {
	s.mu.Lock()
	if session == nil {
		s.session = nil
		s.isAdmin = false
	} else {
		copied := *session
		s.session = &copied
	}
	s.mu.Unlock()
	s.notify()
}

// SetLoading updates the initial-load flag.
func (s *SessionStore) SetLoading(loading bool) {
	s.mu.Lock()
	s.loading = loading
	s.mu.Unlock()
	s.notify()
}

// SetAdmin caches the result of the remote admin check. It is ignored while
// signed out so a slow check can never resurrect the flag after sign-out.
func (s *SessionStore) SetAdmin(isAdmin bool) {
	s.mu.Lock()
	if s.session == nil {
		isAdmin = false
	}
	s.isAdmin = isAdmin
	s.mu.Unlock()
	s.notify()
}

// Subscribe registers fn to run after every store change. The returned
// function unsubscribes.
func (s *SessionStore) Subscribe(fn func()) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subscribers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

func (s *SessionStore) notify() {
	s.mu.RLock()
	subscribers := make([]func(), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subscribers = append(subscribers, fn)
	}
	s.mu.RUnlock()
	for _, fn := range subscribers {
		fn()
	}
}
