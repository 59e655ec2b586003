package models

import "time"

// Product is an entry in the user's personal catalog. Macros are stated per
// one serving of ServingSize ServingUnit.
type Product struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	Calories    float64   `json:"calories"`
	Protein     float64   `json:"protein"`
	Carbs       float64   `json:"carbs"`
	Fat         float64   `json:"fat"`
	Fiber       float64   `json:"fiber"`
	ServingSize float64   `json:"serving_size"`
	ServingUnit string    `json:"serving_unit"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewProduct is the payload for inserting a product. ServingSize must be
// strictly positive: amount ratios divide by it.
type NewProduct struct {
	UserID      string  `json:"user_id"`
	Name        string  `json:"name" validate:"required"`
	Calories    float64 `json:"calories" validate:"gte=0"`
	Protein     float64 `json:"protein" validate:"gte=0"`
	Carbs       float64 `json:"carbs" validate:"gte=0"`
	Fat         float64 `json:"fat" validate:"gte=0"`
	Fiber       float64 `json:"fiber" validate:"gte=0"`
	ServingSize float64 `json:"serving_size" validate:"required,gt=0"`
	ServingUnit string  `json:"serving_unit" validate:"required"`
}

// ProductPatch is a shallow-merge update: nil fields are left untouched.
type ProductPatch struct {
	Name        *string  `json:"name,omitempty"`
	Calories    *float64 `json:"calories,omitempty"`
	Protein     *float64 `json:"protein,omitempty"`
	Carbs       *float64 `json:"carbs,omitempty"`
	Fat         *float64 `json:"fat,omitempty"`
	Fiber       *float64 `json:"fiber,omitempty"`
	ServingSize *float64 `json:"serving_size,omitempty" validate:"omitempty,gt=0"`
	ServingUnit *string  `json:"serving_unit,omitempty"`
}

// Apply merges the patch into p.
func (pp ProductPatch) Apply(p *Product) {
	if pp.Name != nil {
		p.Name = *pp.Name
	}
	if pp.Calories != nil {
		p.Calories = *pp.Calories
	}
	if pp.Protein != nil {
		p.Protein = *pp.Protein
	}
	if pp.Carbs != nil {
		p.Carbs = *pp.Carbs
	}
	if pp.Fat != nil {
		p.Fat = *pp.Fat
	}
	if pp.Fiber != nil {
		p.Fiber = *pp.Fiber
	}
	if pp.ServingSize != nil {
		p.ServingSize = *pp.ServingSize
	}
	if pp.ServingUnit != nil {
		p.ServingUnit = *pp.ServingUnit
	}
}

// PatchFromProduct builds a full patch from a server-returned row.
func PatchFromProduct(p Product) ProductPatch {
	return ProductPatch{
		Name:        &p.Name,
		Calories:    &p.Calories,
		Protein:     &p.Protein,
		Carbs:       &p.Carbs,
		Fat:         &p.Fat,
		Fiber:       &p.Fiber,
		ServingSize: &p.ServingSize,
		ServingUnit: &p.ServingUnit,
	}
}
