package models

import "time"

// DateLayout is the calendar-day key used for meal filtering and calendar
// marking. It deliberately carries no time component.
const DateLayout = "2006-01-02"

// Meal represents a single logged meal on a calendar day.
type Meal struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Calories  float64   `json:"calories"`
	Protein   float64   `json:"protein"`
	Carbs     float64   `json:"carbs"`
	Fat       float64   `json:"fat"`
	Fiber     float64   `json:"fiber"`
	Date      string    `json:"date"`
	CreatedAt time.Time `json:"created_at"`
}

// NewMeal is the payload for inserting a meal. The backend assigns id and
// created_at.
type NewMeal struct {
	UserID   string  `json:"user_id"`
	Name     string  `json:"name" validate:"required"`
	Calories float64 `json:"calories" validate:"gte=0"`
	Protein  float64 `json:"protein" validate:"gte=0"`
	Carbs    float64 `json:"carbs" validate:"gte=0"`
	Fat      float64 `json:"fat" validate:"gte=0"`
	Fiber    float64 `json:"fiber" validate:"gte=0"`
	Date     string  `json:"date" validate:"required"`
}

// MealPatch is a shallow-merge update: nil fields are left untouched.
type MealPatch struct {
	Name     *string  `json:"name,omitempty"`
	Calories *float64 `json:"calories,omitempty"`
	Protein  *float64 `json:"protein,omitempty"`
	Carbs    *float64 `json:"carbs,omitempty"`
	Fat      *float64 `json:"fat,omitempty"`
	Fiber    *float64 `json:"fiber,omitempty"`
	Date     *string  `json:"date,omitempty"`
}

// Apply merges the patch into m.
func (p MealPatch) Apply(m *Meal) {
	if p.Name != nil {
		m.Name = *p.Name
	}
	if p.Calories != nil {
		m.Calories = *p.Calories
	}
	if p.Protein != nil {
		m.Protein = *p.Protein
	}
	if p.Carbs != nil {
		m.Carbs = *p.Carbs
	}
	if p.Fat != nil {
		m.Fat = *p.Fat
	}
	if p.Fiber != nil {
		m.Fiber = *p.Fiber
	}
	if p.Date != nil {
		m.Date = *p.Date
	}
}

// PatchFromMeal builds a full patch from a server-returned row, so a
// complete representation can flow through the same merge path as a
// partial edit.
func PatchFromMeal(m Meal) MealPatch {
	return MealPatch{
		Name:     &m.Name,
		Calories: &m.Calories,
		Protein:  &m.Protein,
		Carbs:    &m.Carbs,
		Fat:      &m.Fat,
		Fiber:    &m.Fiber,
		Date:     &m.Date,
	}
}

// MealItem links a meal to a catalog product with a consumed amount.
// The Product field is populated when the backend expands the relation.
type MealItem struct {
	ID        string    `json:"id"`
	MealID    string    `json:"meal_id"`
	ProductID string    `json:"product_id"`
	Amount    float64   `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
	Product   *Product  `json:"product,omitempty"`
}

// Today returns the viewer's current calendar day in local time. Using the
// local day rather than the UTC day avoids off-by-one drift near midnight.
func Today() string {
	return time.Now().Format(DateLayout)
}
