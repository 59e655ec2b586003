// Package keystore persists the session token pair. The backing store is a
// platform capability chosen at startup: sqlite for on-device profiles,
// redis for hosted deployments, memory for tests.
package keystore

import (
	"context"
	"sync"

	"github.com/wemitwqw/calorie-tracker-go/internal/models"
)

// sessionKey is the single key under which the serialized session lives.
const sessionKey = "auth.session"

// Memory keeps the session in process memory only.
type Memory struct {
	mu      sync.Mutex
	session *models.Session
}

// NewMemory creates an in-memory keystore.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) SaveSession(_ context.Context, s *models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *s
	m.session = &copied
	return nil
}

func (m *Memory) LoadSession(_ context.Context) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return nil, nil
	}
	copied := *m.session
	return &copied, nil
}

func (m *Memory) ClearSession(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = nil
	return nil
}
