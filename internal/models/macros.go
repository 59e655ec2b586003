package models

import "errors"

var ErrZeroServingSize = errors.New("product serving size must be greater than zero")

// Macros holds nutrition sums. It doubles as the daily-totals value computed
// over the meals of the selected day.
type Macros struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Fiber    float64 `json:"fiber"`
}

// Add accumulates the macros of a single meal.
func (m *Macros) Add(meal Meal) {
	m.Calories += meal.Calories
	m.Protein += meal.Protein
	m.Carbs += meal.Carbs
	m.Fat += meal.Fat
	m.Fiber += meal.Fiber
}

// SumMeals folds the meal list into daily totals. Missing numeric fields
// decode as zero, so the fold never sees anything but real numbers.
func SumMeals(meals []Meal) Macros {
	var totals Macros
	for _, meal := range meals {
		totals.Add(meal)
	}
	return totals
}

// ScaleMacros computes the macros of amount units of a product, scaling each
// value by amount / serving_size. A non-positive serving size is rejected
// rather than dividing by zero.
func ScaleMacros(p Product, amount float64) (Macros, error) {
	if p.ServingSize <= 0 {
		return Macros{}, ErrZeroServingSize
	}
	ratio := amount / p.ServingSize
	return Macros{
		Calories: p.Calories * ratio,
		Protein:  p.Protein * ratio,
		Carbs:    p.Carbs * ratio,
		Fat:      p.Fat * ratio,
		Fiber:    p.Fiber * ratio,
	}, nil
}
