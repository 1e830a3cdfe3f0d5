package service

import (
	"context"
	"errors"
	"time"

	"github.com/Priyanka-Kadel/Cookbook-backend/internal/domain"
	"github.com/Priyanka-Kadel/Cookbook-backend/internal/repository"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

const cartLoadTimeout = 10 * time.Second

type CartService struct {
	repo    repository.CartRepository
	recipes *RecipeService
	sfg     singleflight.Group // coalesces lazy cart creation per user
	now     func() time.Time
}

func NewCartService(repo repository.CartRepository, recipes *RecipeService) *CartService {
	return &CartService{
		repo:    repo,
		recipes: recipes,
		now:     time.Now,
	}
}

// GetOrCreateActiveCart returns the user's active cart, creating an empty one
// on first access.
func (s *CartService) GetOrCreateActiveCart(ctx context.Context, userID string) (*domain.Cart, error) {
	ch := s.sfg.DoChan(userID, func() (interface{}, error) {
		// shared by every waiting caller: detached from the first one's cancellation
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cartLoadTimeout)
		defer cancel()

		cart, err := s.repo.GetActiveCart(ctx, userID)
		if err == nil {
			return cart, nil
		}
		if !errors.Is(err, repository.ErrCartNotFound) {
			return nil, err
		}

		cart = domain.NewCart(userID, s.now())
		err = s.repo.CreateCart(ctx, cart)
		if errors.Is(err, repository.ErrActiveCartExists) {
			// lost the race to another instance
			return s.repo.GetActiveCart(ctx, userID)
		}
		if err != nil {
			return nil, err
		}

		zerolog.Ctx(ctx).Debug().Str("user_id", userID).Str("cart_id", cart.ID).Msg("created active cart")
		return cart, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		// every caller gets its own copy to mutate
		return cloneCart(res.Val.(*domain.Cart)), nil
	}
}

// AddItem prices servings of recipeID and upserts it into the cart.
func (s *CartService) AddItem(ctx context.Context, userID, recipeID string, servings int) (*domain.Cart, error) {
	if servings <= 0 {
		return nil, domain.ErrInvalidServings
	}
	price, err := s.recipes.price(ctx, recipeID, servings)
	if err != nil {
		return nil, err
	}

	cart, err := s.GetOrCreateActiveCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	cart.UpsertRecipe(recipeID, servings, price, s.now())
	if err := s.repo.SaveCart(ctx, cart); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("user_id", userID).Msg("repo save cart error")
		return nil, err
	}
	return cart, nil
}

// UpdateItem re-prices an existing item at the new servings.
func (s *CartService) UpdateItem(ctx context.Context, userID, itemID string, servings int) (*domain.Cart, error) {
	if servings <= 0 {
		return nil, domain.ErrInvalidServings
	}
	cart, err := s.GetOrCreateActiveCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	item := cart.Item(itemID)
	if item == nil {
		return nil, domain.KindErrorf(domain.ErrNotFound, "item %s not found in cart", itemID)
	}
	price, err := s.recipes.price(ctx, item.RecipeID, servings)
	if err != nil {
		return nil, err
	}

	if err := cart.UpdateItem(itemID, servings, price, s.now()); err != nil {
		return nil, err
	}
	if err := s.repo.SaveCart(ctx, cart); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("user_id", userID).Msg("repo save cart error")
		return nil, err
	}
	return cart, nil
}

// RemoveItem is idempotent: removing an absent item returns the cart as is.
func (s *CartService) RemoveItem(ctx context.Context, userID, itemID string) (*domain.Cart, error) {
	cart, err := s.GetOrCreateActiveCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !cart.RemoveItem(itemID, s.now()) {
		return cart, nil
	}
	if err := s.repo.SaveCart(ctx, cart); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("user_id", userID).Msg("repo save cart error")
		return nil, err
	}
	return cart, nil
}

func (s *CartService) Clear(ctx context.Context, userID string) (*domain.Cart, error) {
	cart, err := s.GetOrCreateActiveCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	cart.Clear(s.now())
	if err := s.repo.SaveCart(ctx, cart); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("user_id", userID).Msg("repo save cart error")
		return nil, err
	}
	return cart, nil
}

func cloneCart(c *domain.Cart) *domain.Cart {
	out := *c
	out.Items = append([]domain.CartItem{}, c.Items...)
	return &out
}
