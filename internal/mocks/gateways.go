// Package mocks provides testify mocks for the service gateway interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/wemitwqw/calorie-tracker-go/internal/models"
)

// MockMealGateway is a mock implementation of service.MealGateway.
type MockMealGateway struct {
	mock.Mock
}

func (m *MockMealGateway) ListMealDates(ctx context.Context, userID string) ([]string, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockMealGateway) ListMeals(ctx context.Context, userID, date string) ([]models.Meal, error) {
	args := m.Called(ctx, userID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Meal), args.Error(1)
}

func (m *MockMealGateway) InsertMeal(ctx context.Context, meal models.NewMeal) (models.Meal, error) {
	args := m.Called(ctx, meal)
	return args.Get(0).(models.Meal), args.Error(1)
}

func (m *MockMealGateway) UpdateMeal(ctx context.Context, id string, patch models.MealPatch) (models.Meal, error) {
	args := m.Called(ctx, id, patch)
	return args.Get(0).(models.Meal), args.Error(1)
}

func (m *MockMealGateway) DeleteMeal(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockMealItemGateway is a mock implementation of service.MealItemGateway.
type MockMealItemGateway struct {
	mock.Mock
}

func (m *MockMealItemGateway) ListMealItems(ctx context.Context, mealID string) ([]models.MealItem, error) {
	args := m.Called(ctx, mealID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MealItem), args.Error(1)
}

func (m *MockMealItemGateway) InsertMealItem(ctx context.Context, item models.MealItem) (models.MealItem, error) {
	args := m.Called(ctx, item)
	return args.Get(0).(models.MealItem), args.Error(1)
}

func (m *MockMealItemGateway) UpdateMealItem(ctx context.Context, id string, amount float64) (models.MealItem, error) {
	args := m.Called(ctx, id, amount)
	return args.Get(0).(models.MealItem), args.Error(1)
}

func (m *MockMealItemGateway) DeleteMealItem(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockProductGateway is a mock implementation of service.ProductGateway.
type MockProductGateway struct {
	mock.Mock
}

func (m *MockProductGateway) ListProducts(ctx context.Context, userID string) ([]models.Product, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductGateway) InsertProduct(ctx context.Context, product models.NewProduct) (models.Product, error) {
	args := m.Called(ctx, product)
	return args.Get(0).(models.Product), args.Error(1)
}

func (m *MockProductGateway) UpdateProduct(ctx context.Context, id string, patch models.ProductPatch) (models.Product, error) {
	args := m.Called(ctx, id, patch)
	return args.Get(0).(models.Product), args.Error(1)
}

func (m *MockProductGateway) DeleteProduct(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockWhitelistGateway is a mock implementation of service.WhitelistGateway.
type MockWhitelistGateway struct {
	mock.Mock
}

func (m *MockWhitelistGateway) ListWhitelist(ctx context.Context) ([]models.WhitelistEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.WhitelistEntry), args.Error(1)
}

func (m *MockWhitelistGateway) InsertWhitelistEntry(ctx context.Context, entry models.WhitelistEntry) (models.WhitelistEntry, error) {
	args := m.Called(ctx, entry)
	return args.Get(0).(models.WhitelistEntry), args.Error(1)
}

func (m *MockWhitelistGateway) DeleteWhitelistEntry(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

// MockAdminChecker is a mock implementation of service.AdminChecker.
type MockAdminChecker struct {
	mock.Mock
}

func (m *MockAdminChecker) IsAdmin(ctx context.Context, userID string) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}
