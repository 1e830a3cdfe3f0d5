package repository

import (
	"context"

	"github.com/Priyanka-Kadel/Cookbook-backend/internal/domain"
)

var (
	ErrRecipeNotFound       = domain.KindError(domain.ErrNotFound, "recipe not found")
	ErrCartNotFound         = domain.KindError(domain.ErrNotFound, "cart not found")
	ErrOrderNotFound        = domain.KindError(domain.ErrNotFound, "order not found")
	ErrActiveCartExists     = domain.KindError(domain.ErrInvalidState, "user already has an active cart")
	ErrDuplicateOrderNumber = domain.KindError(domain.ErrInvalidState, "order number already exists")
	ErrStatusConflict       = domain.KindError(domain.ErrInvalidState, "order status was changed concurrently")
)

// RecipeRepository defines the recipe data operations used by the services.
type RecipeRepository interface {
	CreateRecipe(ctx context.Context, recipe *domain.Recipe) error
	GetRecipe(ctx context.Context, id string) (*domain.Recipe, error)
	DeleteRecipe(ctx context.Context, id string) error
}

// CartRepository stores one document per cart. Mutations are read-modify-write
// of the whole document.
type CartRepository interface {
	GetActiveCart(ctx context.Context, userID string) (*domain.Cart, error)
	CreateCart(ctx context.Context, cart *domain.Cart) error
	SaveCart(ctx context.Context, cart *domain.Cart) error
}

// OrderRepository never rewrites order items, totals, owner or payment method
// after CreateOrder.
type OrderRepository interface {
	CreateOrder(ctx context.Context, order *domain.Order) error
	GetOrderByID(ctx context.Context, id string) (*domain.Order, error)
	GetOrderByTransactionID(ctx context.Context, transactionID string) (*domain.Order, error)
	ListOrdersByUserID(ctx context.Context, userID string) ([]*domain.Order, error)
	ListOrders(ctx context.Context) ([]*domain.Order, error)
	// UpdateOrderStatus persists Status, PaymentStatus and StatusHistory only if
	// the stored order still has prevStatus and prevPayment.
	UpdateOrderStatus(ctx context.Context, order *domain.Order, prevStatus domain.OrderStatus, prevPayment domain.PaymentStatus) error
}
