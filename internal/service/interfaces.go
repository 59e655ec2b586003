package service

import (
	"context"

	"github.com/wemitwqw/calorie-tracker-go/internal/models"
)

// MealGateway is the remote side of meal synchronization.
type MealGateway interface {
	ListMealDates(ctx context.Context, userID string) ([]string, error)
	ListMeals(ctx context.Context, userID, date string) ([]models.Meal, error)
	InsertMeal(ctx context.Context, meal models.NewMeal) (models.Meal, error)
	UpdateMeal(ctx context.Context, id string, patch models.MealPatch) (models.Meal, error)
	DeleteMeal(ctx context.Context, id string) error
}

// MealItemGateway is the remote side of meal line items.
type MealItemGateway interface {
	ListMealItems(ctx context.Context, mealID string) ([]models.MealItem, error)
	InsertMealItem(ctx context.Context, item models.MealItem) (models.MealItem, error)
	UpdateMealItem(ctx context.Context, id string, amount float64) (models.MealItem, error)
	DeleteMealItem(ctx context.Context, id string) error
}

// ProductGateway is the remote side of catalog synchronization.
type ProductGateway interface {
	ListProducts(ctx context.Context, userID string) ([]models.Product, error)
	InsertProduct(ctx context.Context, product models.NewProduct) (models.Product, error)
	UpdateProduct(ctx context.Context, id string, patch models.ProductPatch) (models.Product, error)
	DeleteProduct(ctx context.Context, id string) error
}

// WhitelistGateway is the remote side of the admin email whitelist.
type WhitelistGateway interface {
	ListWhitelist(ctx context.Context) ([]models.WhitelistEntry, error)
	InsertWhitelistEntry(ctx context.Context, entry models.WhitelistEntry) (models.WhitelistEntry, error)
	DeleteWhitelistEntry(ctx context.Context, email string) error
}

// AdminChecker answers the remote "is this user an admin" predicate.
type AdminChecker interface {
	IsAdmin(ctx context.Context, userID string) (bool, error)
}

// SessionProvider is the injected authentication capability. The auth
// service registers a listener against it instead of reaching into any
// particular backend client.
type SessionProvider interface {
	Restore(ctx context.Context) (*models.Session, error)
	OnSessionChange(fn func(*models.Session)) func()
	AuthorizeURL(provider, redirectTo, state string) string
	ExchangeCode(ctx context.Context, code string) (*models.Session, error)
	SignOut(ctx context.Context) error
}
