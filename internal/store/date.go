package store

import (
	"sort"
	"sync"

	"github.com/wemitwqw/calorie-tracker-go/internal/models"
)

// DateStore holds the calendar view state: the selected day and the set of
// days that have at least one logged meal.
type DateStore struct {
	mu       sync.RWMutex
	selected string
	marked   map[string]struct{}
}

// NewDateStore creates a date store selecting today in the viewer's local
// time zone.
func NewDateStore() *DateStore {
	return &DateStore{
		selected: models.Today(),
		marked:   map[string]struct{}{},
	}
}

// Selected returns the selected calendar-day key.
func (s *DateStore) Selected() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected
}

// SetSelected changes the selected day.
func (s *DateStore) SetSelected(date string) {
	s.mu.Lock()
	s.selected = date
	s.mu.Unlock()
}

// Marked returns the marked days sorted ascending.
func (s *DateStore) Marked() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	dates := make([]string, 0, len(s.marked))
	for d := range s.marked {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates
}

// IsMarked reports whether the day has at least one logged meal.
func (s *DateStore) IsMarked(date string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.marked[date]
	return ok
}

// SetMarked replaces the marked set. Duplicates in the input collapse.
func (s *DateStore) SetMarked(dates []string) {
	marked := make(map[string]struct{}, len(dates))
	for _, d := range dates {
		marked[d] = struct{}{}
	}
	s.mu.Lock()
	s.marked = marked
	s.mu.Unlock()
}

// AddMarked marks a day. Idempotent.
func (s *DateStore) AddMarked(date string) {
	s.mu.Lock()
	s.marked[date] = struct{}{}
	s.mu.Unlock()
}

// RemoveMarked unmarks a day.
func (s *DateStore) RemoveMarked(date string) {
	s.mu.Lock()
	delete(s.marked, date)
	s.mu.Unlock()
}
