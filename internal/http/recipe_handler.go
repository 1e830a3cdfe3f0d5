package http

import (
	"context"
	"net/http"
	"time"

	"github.com/Priyanka-Kadel/Cookbook-backend/internal/domain"
	"github.com/Priyanka-Kadel/Cookbook-backend/internal/service"
	"github.com/go-chi/chi/v5"
)

type RecipeService interface {
	Create(ctx context.Context, createdBy string, recipe *domain.Recipe) (*domain.Recipe, error)
	Get(ctx context.Context, id string) (*domain.Recipe, error)
	Delete(ctx context.Context, id string) error
	Quote(ctx context.Context, id string, servings int) (*service.Quote, error)
}

type RecipeHandler struct {
	recipes RecipeService
	timeout time.Duration
}

func NewRecipeHandler(recipes RecipeService, timeout time.Duration) *RecipeHandler {
	return &RecipeHandler{
		recipes: recipes,
		timeout: timeout,
	}
}

type IngredientDTO struct {
	Name     string  `json:"name" validate:"required,max=100"`
	Quantity float64 `json:"quantity" validate:"gt=0"`
	Unit     string  `json:"unit" validate:"required"`
	Price    float64 `json:"price" validate:"gte=0"`
}

type StepDTO struct {
	StepNumber  int    `json:"stepNumber" validate:"gt=0"`
	Instruction string `json:"instruction" validate:"required"`
	Duration    int    `json:"duration" validate:"gte=0"`
}

type CreateRecipeRequestDTO struct {
	Title       string          `json:"title" validate:"required,max=200"`
	Description string          `json:"description" validate:"max=2000"`
	Image       string          `json:"image"`
	Cuisine     string          `json:"cuisine" validate:"omitempty,oneof=Nepali Italian Chinese Indian Mexican American Thai Japanese Mediterranean Other"`
	Difficulty  string          `json:"difficulty" validate:"omitempty,oneof=Easy Medium Hard"`
	PrepTime    int             `json:"prepTime" validate:"gte=0"`
	CookTime    int             `json:"cookTime" validate:"gte=0"`
	Servings    int             `json:"servings" validate:"gt=0"`
	Ingredients []IngredientDTO `json:"ingredients" validate:"dive"`
	Steps       []StepDTO       `json:"steps" validate:"dive"`
	TotalPrice  float64         `json:"totalPrice" validate:"gte=0"`
}

func (d *CreateRecipeRequestDTO) toDomain() *domain.Recipe {
	r := &domain.Recipe{
		Title:       d.Title,
		Description: d.Description,
		Image:       d.Image,
		Cuisine:     domain.Cuisine(d.Cuisine),
		Difficulty:  domain.Difficulty(d.Difficulty),
		PrepTime:    d.PrepTime,
		CookTime:    d.CookTime,
		Servings:    d.Servings,
		TotalPrice:  d.TotalPrice,
		Ingredients: make([]domain.Ingredient, 0, len(d.Ingredients)),
		Steps:       make([]domain.Step, 0, len(d.Steps)),
	}
	if r.Cuisine == "" {
		r.Cuisine = domain.CuisineOther
	}
	if r.Difficulty == "" {
		r.Difficulty = domain.DifficultyMedium
	}
	for _, ing := range d.Ingredients {
		r.Ingredients = append(r.Ingredients, domain.Ingredient{
			Name: ing.Name, Quantity: ing.Quantity, Unit: domain.Unit(ing.Unit), Price: ing.Price,
		})
	}
	for _, s := range d.Steps {
		r.Steps = append(r.Steps, domain.Step{StepNumber: s.StepNumber, Instruction: s.Instruction, Duration: s.Duration})
	}
	return r
}

type CalculatePriceRequestDTO struct {
	Servings int `json:"servings" validate:"gt=0"`
}

// POST /api/v1/recipes
func (h *RecipeHandler) CreateRecipe(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	who, ok := identityFrom(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	var req CreateRecipeRequestDTO
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	recipe, err := h.recipes.Create(ctx, who.UserID, req.toDomain())
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, recipe)
}

// GET /api/v1/recipes/{id}
func (h *RecipeHandler) GetRecipe(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	recipe, err := h.recipes.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, recipe)
}

// DELETE /api/v1/recipes/{id}
func (h *RecipeHandler) DeleteRecipe(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.recipes.Delete(ctx, chi.URLParam(r, "id")); err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "recipe deleted"})
}

// POST /api/v1/recipes/{id}/calculate-price
func (h *RecipeHandler) CalculatePrice(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req CalculatePriceRequestDTO
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	quote, err := h.recipes.Quote(ctx, chi.URLParam(r, "id"), req.Servings)
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, quote)
}
