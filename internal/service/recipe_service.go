package service

import (
	"context"
	"time"

	"github.com/Priyanka-Kadel/Cookbook-backend/internal/domain"
	"github.com/Priyanka-Kadel/Cookbook-backend/internal/repository"
	"github.com/rs/zerolog"
)

type RecipeService struct {
	repo repository.RecipeRepository
	now  func() time.Time
}

func NewRecipeService(repo repository.RecipeRepository) *RecipeService {
	return &RecipeService{repo: repo, now: time.Now}
}

// Quote is the price of a recipe scaled to a number of servings.
type Quote struct {
	RecipeID        string  `json:"recipeId"`
	Servings        int     `json:"servings"`
	BaseServings    int     `json:"baseServings"`
	BasePrice       float64 `json:"basePrice"`
	PricePerServing float64 `json:"pricePerServing"`
	TotalPrice      float64 `json:"totalPrice"`
}

// Create stores recipe on behalf of createdBy. A zero TotalPrice is derived
// from the ingredients.
func (s *RecipeService) Create(ctx context.Context, createdBy string, recipe *domain.Recipe) (*domain.Recipe, error) {
	if recipe.TotalPrice == 0 {
		recipe.TotalPrice = domain.BasePrice(recipe)
	}
	if err := recipe.Validate(); err != nil {
		return nil, err
	}

	now := s.now()
	recipe.ID = ""
	recipe.CreatedBy = createdBy
	recipe.IsActive = true
	recipe.CreatedAt = now
	recipe.UpdatedAt = now
	if recipe.Ingredients == nil {
		recipe.Ingredients = []domain.Ingredient{}
	}
	if recipe.Steps == nil {
		recipe.Steps = []domain.Step{}
	}

	if err := s.repo.CreateRecipe(ctx, recipe); err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Info().Str("recipe_id", recipe.ID).Str("created_by", createdBy).Msg("recipe created")
	return recipe, nil
}

func (s *RecipeService) Get(ctx context.Context, id string) (*domain.Recipe, error) {
	return s.repo.GetRecipe(ctx, id)
}

func (s *RecipeService) Delete(ctx context.Context, id string) error {
	if err := s.repo.DeleteRecipe(ctx, id); err != nil {
		return err
	}
	zerolog.Ctx(ctx).Info().Str("recipe_id", id).Msg("recipe deleted")
	return nil
}

// Quote prices servings of the recipe from its current ingredient prices.
func (s *RecipeService) Quote(ctx context.Context, id string, servings int) (*Quote, error) {
	if servings <= 0 {
		return nil, domain.ErrInvalidServings
	}
	recipe, err := s.repo.GetRecipe(ctx, id)
	if err != nil {
		return nil, err
	}

	total, err := domain.PriceForServings(recipe, servings)
	if err != nil {
		return nil, err
	}

	base := domain.BasePrice(recipe)
	return &Quote{
		RecipeID:        recipe.ID,
		Servings:        servings,
		BaseServings:    recipe.Servings,
		BasePrice:       base,
		PricePerServing: base / float64(recipe.Servings),
		TotalPrice:      total,
	}, nil
}

// price looks the recipe up and scales it. Lookup failures keep their
// NotFound kind.
func (s *RecipeService) price(ctx context.Context, id string, servings int) (float64, error) {
	q, err := s.Quote(ctx, id, servings)
	if err != nil {
		return 0, err
	}
	return q.TotalPrice, nil
}
