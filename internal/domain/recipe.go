package domain

import (
	"strings"
	"time"
)

type Unit string

const (
	UnitGram       Unit = "g"
	UnitKilogram   Unit = "kg"
	UnitMillilitre Unit = "ml"
	UnitLitre      Unit = "l"
	UnitTablespoon Unit = "tbsp"
	UnitTeaspoon   Unit = "tsp"
	UnitCup        Unit = "cup"
	UnitPiece      Unit = "piece"
	UnitSlice      Unit = "slice"
	UnitClove      Unit = "clove"
	UnitBunch      Unit = "bunch"
	UnitPinch      Unit = "pinch"
	UnitDash       Unit = "dash"
	UnitWhole      Unit = "whole"
	UnitCan        Unit = "can"
	UnitJar        Unit = "jar"
	UnitPacket     Unit = "packet"
)

var validUnits = map[Unit]struct{}{
	UnitGram: {}, UnitKilogram: {}, UnitMillilitre: {}, UnitLitre: {},
	UnitTablespoon: {}, UnitTeaspoon: {}, UnitCup: {}, UnitPiece: {},
	UnitSlice: {}, UnitClove: {}, UnitBunch: {}, UnitPinch: {}, UnitDash: {},
	UnitWhole: {}, UnitCan: {}, UnitJar: {}, UnitPacket: {},
}

func (u Unit) Valid() bool {
	_, ok := validUnits[u]
	return ok
}

type Cuisine string

const (
	CuisineNepali        Cuisine = "Nepali"
	CuisineItalian       Cuisine = "Italian"
	CuisineChinese       Cuisine = "Chinese"
	CuisineIndian        Cuisine = "Indian"
	CuisineMexican       Cuisine = "Mexican"
	CuisineAmerican      Cuisine = "American"
	CuisineThai          Cuisine = "Thai"
	CuisineJapanese      Cuisine = "Japanese"
	CuisineMediterranean Cuisine = "Mediterranean"
	CuisineOther         Cuisine = "Other"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

type Ingredient struct {
	Name     string  `json:"name" bson:"name"`
	Quantity float64 `json:"quantity" bson:"quantity"`
	Unit     Unit    `json:"unit" bson:"unit"`
	Price    float64 `json:"price" bson:"price"`
}

type Step struct {
	StepNumber  int    `json:"stepNumber" bson:"step_number"`
	Instruction string `json:"instruction" bson:"instruction"`
	Duration    int    `json:"duration" bson:"duration"` // minutes
}

// Recipe is priced per Servings: ingredient quantities and prices describe a
// batch for that many people.
type Recipe struct {
	ID          string       `json:"id" bson:"_id"`
	Title       string       `json:"title" bson:"title"`
	Description string       `json:"description" bson:"description"`
	Image       string       `json:"image" bson:"image"`
	Cuisine     Cuisine      `json:"cuisine" bson:"cuisine"`
	Difficulty  Difficulty   `json:"difficulty" bson:"difficulty"`
	PrepTime    int          `json:"prepTime" bson:"prep_time"`
	CookTime    int          `json:"cookTime" bson:"cook_time"`
	Servings    int          `json:"servings" bson:"servings"`
	Ingredients []Ingredient `json:"ingredients" bson:"ingredients"`
	Steps       []Step       `json:"steps" bson:"steps"`
	TotalPrice  float64      `json:"totalPrice" bson:"total_price"`
	Rating      float64      `json:"rating" bson:"rating"`
	ReviewCount int          `json:"reviewCount" bson:"review_count"`
	IsActive    bool         `json:"isActive" bson:"is_active"`
	CreatedBy   string       `json:"createdBy" bson:"created_by"`
	CreatedAt   time.Time    `json:"createdAt" bson:"created_at"`
	UpdatedAt   time.Time    `json:"updatedAt" bson:"updated_at"`
}

// Validate checks the invariants a recipe must hold before it is stored.
func (r *Recipe) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return KindError(ErrInvalidInput, "title is required")
	}
	if r.Servings <= 0 {
		return KindError(ErrInvalidInput, "servings must be positive")
	}
	if r.TotalPrice < 0 {
		return KindError(ErrInvalidInput, "totalPrice must not be negative")
	}
	for i, ing := range r.Ingredients {
		if strings.TrimSpace(ing.Name) == "" {
			return KindErrorf(ErrInvalidInput, "ingredient %d is missing a name", i+1)
		}
		if ing.Quantity <= 0 {
			return KindErrorf(ErrInvalidInput, "ingredient %q must have a positive quantity", ing.Name)
		}
		if !ing.Unit.Valid() {
			return KindErrorf(ErrInvalidInput, "invalid unit %q for ingredient %q", ing.Unit, ing.Name)
		}
		if ing.Price < 0 {
			return KindErrorf(ErrInvalidInput, "ingredient %q must not have a negative price", ing.Name)
		}
	}
	for i, s := range r.Steps {
		if s.StepNumber <= 0 || strings.TrimSpace(s.Instruction) == "" {
			return KindErrorf(ErrInvalidInput, "step %d is missing stepNumber or instruction", i+1)
		}
	}
	return nil
}
