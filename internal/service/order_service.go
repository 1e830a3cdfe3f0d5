package service

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/Priyanka-Kadel/Cookbook-backend/internal/domain"
	"github.com/Priyanka-Kadel/Cookbook-backend/internal/events"
	"github.com/Priyanka-Kadel/Cookbook-backend/internal/payment"
	"github.com/Priyanka-Kadel/Cookbook-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	maxOrderNumberAttempts = 5
	amountTolerance        = 0.01
)

// PaymentInitiator starts a provider transaction for an order.
type PaymentInitiator interface {
	Initiate(amount float64, txID string) *payment.Form
}

type OrderService struct {
	orders    repository.OrderRepository
	carts     repository.CartRepository
	recipes   *RecipeService
	gateway   PaymentInitiator
	publisher events.Publisher
	now       func() time.Time
}

func NewOrderService(orders repository.OrderRepository, carts repository.CartRepository, recipes *RecipeService,
	gateway PaymentInitiator, publisher events.Publisher) *OrderService {
	return &OrderService{
		orders:    orders,
		carts:     carts,
		recipes:   recipes,
		gateway:   gateway,
		publisher: publisher,
		now:       time.Now,
	}
}

// Checkout is a persisted order together with the payment form to submit.
type Checkout struct {
	Order *domain.Order `json:"order"`
	Form  *payment.Form `json:"formData"`
}

type DirectOrderInput struct {
	RecipeID        string
	Servings        int
	ShippingAddress domain.ShippingAddress
	// Amount is what the client believes the order costs. When set it must
	// agree with the server price.
	Amount *float64
}

// CreateDirectOrder orders servings of a single recipe priced from stored
// recipe data.
func (s *OrderService) CreateDirectOrder(ctx context.Context, userID string, in DirectOrderInput) (*Checkout, error) {
	if in.Servings <= 0 {
		return nil, domain.ErrInvalidServings
	}
	price, err := s.recipes.price(ctx, in.RecipeID, in.Servings)
	if err != nil {
		return nil, err
	}
	if in.Amount != nil && math.Abs(*in.Amount-price) > amountTolerance {
		return nil, domain.KindErrorf(domain.ErrInvalidInput,
			"amount %.2f does not match the price %.2f for %d servings", *in.Amount, price, in.Servings)
	}

	order, err := domain.NewDirectOrder(userID, in.RecipeID, in.Servings, price, in.ShippingAddress,
		domain.PaymentMethodEsewa, uuid.NewString(), s.now())
	if err != nil {
		return nil, err
	}
	if err := s.insert(ctx, order); err != nil {
		return nil, err
	}

	return &Checkout{Order: order, Form: s.gateway.Initiate(order.TotalAmount, order.TransactionID)}, nil
}

// CreateOrderFromCart snapshots the active cart into an order and then
// empties the cart.
func (s *OrderService) CreateOrderFromCart(ctx context.Context, userID string, addr domain.ShippingAddress) (*Checkout, error) {
	cart, err := s.carts.GetActiveCart(ctx, userID)
	if errors.Is(err, repository.ErrCartNotFound) {
		return nil, domain.ErrEmptyCart
	}
	if err != nil {
		return nil, err
	}

	now := s.now()
	order, err := domain.NewOrderFromCart(cart, addr, domain.PaymentMethodEsewa, uuid.NewString(), now)
	if err != nil {
		return nil, err
	}
	if err := s.insert(ctx, order); err != nil {
		return nil, err
	}

	cart.Clear(now)
	if err := s.carts.SaveCart(ctx, cart); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).
			Str("user_id", userID).
			Str("order_id", order.ID).
			Msg("order created but cart could not be cleared")
	}

	return &Checkout{Order: order, Form: s.gateway.Initiate(order.TotalAmount, order.TransactionID)}, nil
}

// insert persists order, drawing a fresh order number on collision.
func (s *OrderService) insert(ctx context.Context, order *domain.Order) error {
	var err error
	for range maxOrderNumberAttempts {
		err = s.orders.CreateOrder(ctx, order)
		if !errors.Is(err, repository.ErrDuplicateOrderNumber) {
			break
		}
		zerolog.Ctx(ctx).Warn().Str("order_number", order.OrderNumber).Msg("order number collision, regenerating")
		order.OrderNumber = domain.NewOrderNumber(s.now())
	}
	if err != nil {
		return err
	}

	zerolog.Ctx(ctx).Info().
		Str("order_id", order.ID).
		Str("order_number", order.OrderNumber).
		Str("user_id", order.UserID).
		Float64("total_amount", order.TotalAmount).
		Msg("order created")
	publish(ctx, s.publisher, events.TypeOrderCreated, order, "")
	return nil
}

func (s *OrderService) ListMyOrders(ctx context.Context, who domain.Identity) ([]*domain.Order, error) {
	return s.orders.ListOrdersByUserID(ctx, who.UserID)
}

func (s *OrderService) ListAllOrders(ctx context.Context, who domain.Identity) ([]*domain.Order, error) {
	if !who.IsAdmin() {
		return nil, domain.KindError(domain.ErrForbidden, "admin role required")
	}
	return s.orders.ListOrders(ctx)
}

// GetOrder returns the order when who owns it or is an admin.
func (s *OrderService) GetOrder(ctx context.Context, who domain.Identity, id string) (*domain.Order, error) {
	order, err := s.orders.GetOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !who.CanAccess(order) {
		return nil, domain.KindError(domain.ErrForbidden, "not authorized to access this order")
	}
	return order, nil
}

func (s *OrderService) CancelOrder(ctx context.Context, who domain.Identity, id string) (*domain.Order, error) {
	return s.transition(ctx, who, id, domain.OrderStatusCancelled)
}

// AdvanceStatus lets an admin move an order one step along the fulfillment
// path.
func (s *OrderService) AdvanceStatus(ctx context.Context, who domain.Identity, id string, to domain.OrderStatus) (*domain.Order, error) {
	if !who.IsAdmin() {
		return nil, domain.KindError(domain.ErrForbidden, "admin role required")
	}
	if !to.Valid() {
		return nil, domain.KindErrorf(domain.ErrInvalidInput, "unknown order status %q", to)
	}
	return s.transition(ctx, who, id, to)
}

func (s *OrderService) transition(ctx context.Context, who domain.Identity, id string, to domain.OrderStatus) (*domain.Order, error) {
	order, err := s.GetOrder(ctx, who, id)
	if err != nil {
		return nil, err
	}

	var previous domain.OrderStatus
	order, _, err = updateOrder(ctx, s.orders, order, func(o *domain.Order) (bool, error) {
		previous = o.Status
		return true, o.Transition(to, who.Actor(), who.UserID, s.now())
	})
	if err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Info().
		Str("order_id", order.ID).
		Str("from", string(previous)).
		Str("to", string(to)).
		Str("by", who.UserID).
		Msg("order status changed")
	publish(ctx, s.publisher, events.TypeOrderStatusChanged, order, previous)
	return order, nil
}
