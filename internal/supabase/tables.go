package supabase

import (
	"context"
	"fmt"

	"github.com/wemitwqw/calorie-tracker-go/internal/models"
)

// Typed table access. These methods satisfy the gateway interfaces the sync
// services are written against.

const (
	tableMeals     = "meals"
	tableMealItems = "meal_items"
	tableProducts  = "products"
	tableWhitelist = "allowed_emails"
)

// ListMealDates returns the calendar-day keys the user has logged meals on,
// newest day first. Duplicates are collapsed by the caller's set semantics.
func (c *Client) ListMealDates(ctx context.Context, userID string) ([]string, error) {
	var rows []struct {
		Date string `json:"date"`
	}
	err := c.From(tableMeals).
		Select("date").
		Eq("user_id", userID).
		Order("date", false).
		Get(ctx, &rows)
	if err != nil {
		return nil, err
	}
	dates := make([]string, len(rows))
	for i, row := range rows {
		dates[i] = row.Date
	}
	return dates, nil
}

// ListMeals returns the user's meals for one day, newest-created first.
func (c *Client) ListMeals(ctx context.Context, userID, date string) ([]models.Meal, error) {
	var meals []models.Meal
	err := c.From(tableMeals).
		Select("*").
		Eq("user_id", userID).
		Eq("date", date).
		Order("created_at", false).
		Get(ctx, &meals)
	return meals, err
}

// InsertMeal inserts a meal and returns the server-assigned row.
func (c *Client) InsertMeal(ctx context.Context, meal models.NewMeal) (models.Meal, error) {
	var rows []models.Meal
	if err := c.From(tableMeals).Select("*").Insert(ctx, meal, &rows); err != nil {
		return models.Meal{}, err
	}
	return firstRow(rows, tableMeals)
}

// UpdateMeal patches a meal by id and returns the updated row.
func (c *Client) UpdateMeal(ctx context.Context, id string, patch models.MealPatch) (models.Meal, error) {
	var rows []models.Meal
	if err := c.From(tableMeals).Select("*").Eq("id", id).Update(ctx, patch, &rows); err != nil {
		return models.Meal{}, err
	}
	return firstRow(rows, tableMeals)
}

// DeleteMeal deletes a meal by id.
func (c *Client) DeleteMeal(ctx context.Context, id string) error {
	return c.From(tableMeals).Eq("id", id).Delete(ctx)
}

// mealItemColumns embeds the related product row alongside each item.
const mealItemColumns = "*,product:products(*)"

// ListMealItems returns a meal's line items with products expanded.
func (c *Client) ListMealItems(ctx context.Context, mealID string) ([]models.MealItem, error) {
	var items []models.MealItem
	err := c.From(tableMealItems).
		Select(mealItemColumns).
		Eq("meal_id", mealID).
		Get(ctx, &items)
	return items, err
}

// InsertMealItem inserts a line item and returns it with the product
// expanded.
func (c *Client) InsertMealItem(ctx context.Context, item models.MealItem) (models.MealItem, error) {
	record := map[string]any{
		"meal_id":    item.MealID,
		"product_id": item.ProductID,
		"amount":     item.Amount,
	}
	var rows []models.MealItem
	if err := c.From(tableMealItems).Select(mealItemColumns).Insert(ctx, record, &rows); err != nil {
		return models.MealItem{}, err
	}
	return firstRow(rows, tableMealItems)
}

// UpdateMealItem changes the consumed amount of a line item.
func (c *Client) UpdateMealItem(ctx context.Context, id string, amount float64) (models.MealItem, error) {
	var rows []models.MealItem
	record := map[string]any{"amount": amount}
	if err := c.From(tableMealItems).Select(mealItemColumns).Eq("id", id).Update(ctx, record, &rows); err != nil {
		return models.MealItem{}, err
	}
	return firstRow(rows, tableMealItems)
}

// DeleteMealItem deletes a line item by id.
func (c *Client) DeleteMealItem(ctx context.Context, id string) error {
	return c.From(tableMealItems).Eq("id", id).Delete(ctx)
}

// ListProducts returns the user's catalog ordered by name.
func (c *Client) ListProducts(ctx context.Context, userID string) ([]models.Product, error) {
	var products []models.Product
	err := c.From(tableProducts).
		Select("*").
		Eq("user_id", userID).
		Order("name", true).
		Get(ctx, &products)
	return products, err
}

// InsertProduct inserts a catalog product and returns the server-assigned
// row.
func (c *Client) InsertProduct(ctx context.Context, product models.NewProduct) (models.Product, error) {
	var rows []models.Product
	if err := c.From(tableProducts).Select("*").Insert(ctx, product, &rows); err != nil {
		return models.Product{}, err
	}
	return firstRow(rows, tableProducts)
}

// UpdateProduct patches a product by id and returns the updated row.
func (c *Client) UpdateProduct(ctx context.Context, id string, patch models.ProductPatch) (models.Product, error) {
	var rows []models.Product
	if err := c.From(tableProducts).Select("*").Eq("id", id).Update(ctx, patch, &rows); err != nil {
		return models.Product{}, err
	}
	return firstRow(rows, tableProducts)
}

// DeleteProduct deletes a product by id.
func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.From(tableProducts).Eq("id", id).Delete(ctx)
}

// ListWhitelist returns the whitelist, newest-added first.
func (c *Client) ListWhitelist(ctx context.Context) ([]models.WhitelistEntry, error) {
	var entries []models.WhitelistEntry
	err := c.From(tableWhitelist).
		Select("*").
		Order("added_at", false).
		Get(ctx, &entries)
	return entries, err
}

// InsertWhitelistEntry inserts a whitelist entry and returns the stored row.
func (c *Client) InsertWhitelistEntry(ctx context.Context, entry models.WhitelistEntry) (models.WhitelistEntry, error) {
	record := map[string]any{
		"email":    entry.Email,
		"added_by": entry.AddedBy,
		"notes":    entry.Notes,
	}
	var rows []models.WhitelistEntry
	if err := c.From(tableWhitelist).Select("*").Insert(ctx, record, &rows); err != nil {
		return models.WhitelistEntry{}, err
	}
	return firstRow(rows, tableWhitelist)
}

// DeleteWhitelistEntry deletes by exact email match.
func (c *Client) DeleteWhitelistEntry(ctx context.Context, email string) error {
	return c.From(tableWhitelist).Eq("email", email).Delete(ctx)
}

// IsAdmin calls the is_admin predicate for the user.
func (c *Client) IsAdmin(ctx context.Context, userID string) (bool, error) {
	var isAdmin bool
	err := c.RPC(ctx, "is_admin", map[string]string{"check_user_id": userID}, &isAdmin)
	if err != nil {
		return false, err
	}
	return isAdmin, nil
}

func firstRow[T any](rows []T, table string) (T, error) {
	var zero T
	if len(rows) == 0 {
		return zero, fmt.Errorf("%s: no row returned", table)
	}
	return rows[0], nil
}
