package service

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/wemitwqw/calorie-tracker-go/internal/models"
	"github.com/wemitwqw/calorie-tracker-go/internal/store"
)

// MealService synchronizes the meal store and the calendar marking with the
// backend.
type MealService struct {
	meals    *store.MealStore
	dates    *store.DateStore
	sessions *store.SessionStore
	gateway  MealGateway
	items    MealItemGateway
	validate *validator.Validate
	logger   zerolog.Logger
}

// NewMealService creates a meal service over the injected gateways.
func NewMealService(meals *store.MealStore, dates *store.DateStore, sessions *store.SessionStore, gateway MealGateway, items MealItemGateway, logger zerolog.Logger) *MealService {
	return &MealService{
		meals:    meals,
		dates:    dates,
		sessions: sessions,
		gateway:  gateway,
		items:    items,
		validate: validator.New(),
		logger:   logger.With().Str("service", "meal").Logger(),
	}
}

// FetchMealDates loads the set of days with at least one logged meal and
// replaces the marked dates. On failure the previous marking is kept.
func (s *MealService) FetchMealDates(ctx context.Context) error {
	userID := s.sessions.UserID()
	if userID == "" {
		return ErrNoSession
	}
	dates, err := s.gateway.ListMealDates(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Msg("fetch meal dates failed")
		return err
	}
	s.dates.SetMarked(dates)
	return nil
}

// FetchMealsForDate loads the meals of the given day into the meal store,
// newest-created first.
func (s *MealService) FetchMealsForDate(ctx context.Context, date string) error {
	userID := s.sessions.UserID()
	if userID == "" {
		return ErrNoSession
	}
	meals, err := s.gateway.ListMeals(ctx, userID, date)
	if err != nil {
		s.logger.Error().Err(err).Str("date", date).Msg("fetch meals failed")
		return err
	}
	s.meals.SetMeals(meals)
	return nil
}

// AddMeal inserts a meal for the current user and, on success, adds the
// server-returned record to the store and marks its date.
func (s *MealService) AddMeal(ctx context.Context, meal models.NewMeal) (models.Meal, error) {
	userID := s.sessions.UserID()
	if userID == "" {
		return models.Meal{}, ErrNoSession
	}
	meal.UserID = userID
	if meal.Date == "" {
		meal.Date = s.dates.Selected()
	}
	if err := s.validate.Struct(meal); err != nil {
		return models.Meal{}, fmt.Errorf("invalid meal: %w", err)
	}

	created, err := s.gateway.InsertMeal(ctx, meal)
	if err != nil {
		s.logger.Error().Err(err).Msg("add meal failed")
		return models.Meal{}, err
	}

	if created.Date == s.dates.Selected() {
		s.meals.AddMeal(created)
	}
	s.dates.AddMarked(created.Date)
	return created, nil
}

// UpdateMeal patches a meal remotely and merges the server-returned row
// into the store, so backend-assigned fields are picked up.
func (s *MealService) UpdateMeal(ctx context.Context, id string, patch models.MealPatch) error {
	if s.sessions.UserID() == "" {
		return ErrNoSession
	}
	updated, err := s.gateway.UpdateMeal(ctx, id, patch)
	if err != nil {
		s.logger.Error().Err(err).Str("meal_id", id).Msg("update meal failed")
		return err
	}
	s.meals.UpdateMeal(id, models.PatchFromMeal(updated))
	return nil
}

// DeleteMeal deletes remotely first, then reconciles local state. Whether
// the meal was the last one of its day must be decided before the list
// mutation: afterwards the list is already empty and the question is
// unanswerable.
func (s *MealService) DeleteMeal(ctx context.Context, id string) error {
	if s.sessions.UserID() == "" {
		return ErrNoSession
	}

	var (
		date      string
		lastOfDay bool
	)
	current := s.meals.Meals()
	for _, meal := range current {
		if meal.ID == id {
			date = meal.Date
			lastOfDay = len(current) == 1
			break
		}
	}

	if err := s.gateway.DeleteMeal(ctx, id); err != nil {
		s.logger.Error().Err(err).Str("meal_id", id).Msg("delete meal failed")
		return err
	}

	if lastOfDay {
		s.dates.RemoveMarked(date)
	}
	s.meals.DeleteMeal(id)
	return nil
}

// FetchMealItems loads the line items of a meal with their products
// expanded. Items are returned to the caller, not cached in a store.
func (s *MealService) FetchMealItems(ctx context.Context, mealID string) ([]models.MealItem, error) {
	items, err := s.items.ListMealItems(ctx, mealID)
	if err != nil {
		s.logger.Error().Err(err).Str("meal_id", mealID).Msg("fetch meal items failed")
		return nil, err
	}
	return items, nil
}

// AddMealItem attaches amount units of a product to a meal. The product's
// serving size is validated up front since the macro ratio divides by it.
func (s *MealService) AddMealItem(ctx context.Context, mealID string, product models.Product, amount float64) (models.MealItem, models.Macros, error) {
	macros, err := models.ScaleMacros(product, amount)
	if err != nil {
		return models.MealItem{}, models.Macros{}, err
	}

	created, err := s.items.InsertMealItem(ctx, models.MealItem{
		MealID:    mealID,
		ProductID: product.ID,
		Amount:    amount,
	})
	if err != nil {
		s.logger.Error().Err(err).Str("meal_id", mealID).Msg("add meal item failed")
		return models.MealItem{}, models.Macros{}, err
	}
	return created, macros, nil
}

// UpdateMealItem changes the consumed amount of a line item.
func (s *MealService) UpdateMealItem(ctx context.Context, id string, amount float64) (models.MealItem, error) {
	updated, err := s.items.UpdateMealItem(ctx, id, amount)
	if err != nil {
		s.logger.Error().Err(err).Str("item_id", id).Msg("update meal item failed")
		return models.MealItem{}, err
	}
	return updated, nil
}

// DeleteMealItem removes a line item.
func (s *MealService) DeleteMealItem(ctx context.Context, id string) error {
	if err := s.items.DeleteMealItem(ctx, id); err != nil {
		s.logger.Error().Err(err).Str("item_id", id).Msg("delete meal item failed")
		return err
	}
	return nil
}
