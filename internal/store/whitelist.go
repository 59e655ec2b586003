package store

import (
	"sync"

	"github.com/wemitwqw/calorie-tracker-go/internal/models"
)

// WhitelistStore holds the admin screen's email whitelist. Mutations patch
// the list in place, matching the meal and product stores.
type WhitelistStore struct {
	mu      sync.RWMutex
	entries []models.WhitelistEntry
}

// NewWhitelistStore creates an empty whitelist store.
func NewWhitelistStore() *WhitelistStore {
	return &WhitelistStore{}
}

// Entries returns a copy of the whitelist, newest-added first.
func (s *WhitelistStore) Entries() []models.WhitelistEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := make([]models.WhitelistEntry, len(s.entries))
	copy(entries, s.entries)
	return entries
}

// SetEntries replaces the list.
func (s *WhitelistStore) SetEntries(entries []models.WhitelistEntry) {
	copied := make([]models.WhitelistEntry, len(entries))
	copy(copied, entries)
	s.mu.Lock()
	s.entries = copied
	s.mu.Unlock()
}

// AddEntry prepends an entry.
func (s *WhitelistStore) AddEntry(entry models.WhitelistEntry) {
	s.mu.Lock()
	s.entries = append([]models.WhitelistEntry{entry}, s.entries...)
	s.mu.Unlock()
}

// RemoveEntry removes the entry with the given email.
func (s *WhitelistStore) RemoveEntry(email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.entries {
		if s.entries[i].Email == email {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return
		}
	}
}
