package store

import (
	"sync"

	"github.com/wemitwqw/calorie-tracker-go/internal/models"
)

// MealStore holds the meals of the currently selected day, newest first.
// Daily totals are a computed accessor over the list, so they can never go
// stale behind a mutation.
type MealStore struct {
	mu    sync.RWMutex
	meals []models.Meal
}

// NewMealStore creates an empty meal store.
func NewMealStore() *MealStore {
	return &MealStore{}
}

// Meals returns a copy of the meal list, newest-created first.
func (s *MealStore) Meals() []models.Meal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	meals := make([]models.Meal, len(s.meals))
	copy(meals, s.meals)
	return meals
}

// Len returns the number of meals held for the selected day.
func (s *MealStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.meals)
}

// DailyTotals folds the current meal list into macro sums.
func (s *MealStore) DailyTotals() models.Macros {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.SumMeals(s.meals)
}

// SetMeals replaces the list, e.g. after fetching a newly selected day.
func (s *MealStore) SetMeals(meals []models.Meal) {
	copied := make([]models.Meal, len(meals))
	copy(copied, meals)
	s.mu.Lock()
	s.meals = copied
	s.mu.Unlock()
}

// AddMeal prepends a meal, preserving newest-first ordering.
func (s *MealStore) AddMeal(meal models.Meal) {
	s.mu.Lock()
	s.meals = append([]models.Meal{meal}, s.meals...)
	s.mu.Unlock()
}

// UpdateMeal shallow-merges the patch into the meal with the given id.
// Unknown ids are ignored.
func (s *MealStore) UpdateMeal(id string, patch models.MealPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.meals {
		if s.meals[i].ID == id {
			patch.Apply(&s.meals[i])
			return
		}
	}
}

// DeleteMeal removes the meal with the given id.
func (s *MealStore) DeleteMeal(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.meals {
		if s.meals[i].ID == id {
			s.meals = append(s.meals[:i], s.meals[i+1:]...)
			return
		}
	}
}
