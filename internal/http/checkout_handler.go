package http

import (
	"context"
	"net/http"
	"time"

	"github.com/Priyanka-Kadel/Cookbook-backend/internal/domain"
	"github.com/Priyanka-Kadel/Cookbook-backend/internal/payment"
	"github.com/Priyanka-Kadel/Cookbook-backend/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

type CheckoutService interface {
	CreateDirectOrder(ctx context.Context, userID string, in service.DirectOrderInput) (*service.Checkout, error)
	CreateOrderFromCart(ctx context.Context, userID string, addr domain.ShippingAddress) (*service.Checkout, error)
}

type PaymentService interface {
	ConfirmPayment(ctx context.Context, data string) (service.Outcome, error)
}

// CheckoutHandler serves the eSewa checkout endpoints.
type CheckoutHandler struct {
	checkout   CheckoutService
	payments   PaymentService
	successURL string
	failureURL string
	timeout    time.Duration
}

func NewCheckoutHandler(checkout CheckoutService, payments PaymentService, successURL, failureURL string,
	timeout time.Duration) *CheckoutHandler {
	return &CheckoutHandler{
		checkout:   checkout,
		payments:   payments,
		successURL: successURL,
		failureURL: failureURL,
		timeout:    timeout,
	}
}

type ShippingAddressDTO struct {
	Street  string `json:"street" validate:"max=200"`
	City    string `json:"city" validate:"max=100"`
	State   string `json:"state" validate:"max=100"`
	ZipCode string `json:"zipCode" validate:"max=20"`
	Country string `json:"country" validate:"max=100"`
}

func (d *ShippingAddressDTO) toDomain() domain.ShippingAddress {
	if d == nil {
		return domain.ShippingAddress{}
	}
	return domain.ShippingAddress{
		Street:  d.Street,
		City:    d.City,
		State:   d.State,
		ZipCode: d.ZipCode,
		Country: d.Country,
	}
}

type DirectOrderRequestDTO struct {
	Servings        int                 `json:"servings" validate:"gt=0"`
	ShippingAddress *ShippingAddressDTO `json:"shippingAddress"`
	Amount          *float64            `json:"amount" validate:"omitempty,gte=0"`
}

type CartOrderRequestDTO struct {
	ShippingAddress *ShippingAddressDTO `json:"shippingAddress"`
}

type CheckoutResponseDTO struct {
	Message       string        `json:"message"`
	FormData      *payment.Form `json:"formData"`
	PaymentMethod string        `json:"payment_method"`
	OrderID       string        `json:"orderId"`
	OrderNumber   string        `json:"orderNumber"`
	RecipeID      string        `json:"recipeId,omitempty"`
	Servings      int           `json:"servings,omitempty"`
}

// POST /api/v1/esewa/create/{recipeId}
func (h *CheckoutHandler) CreateDirectOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	who, ok := identityFrom(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	var req DirectOrderRequestDTO
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	recipeID := chi.URLParam(r, "recipeId")
	co, err := h.checkout.CreateDirectOrder(ctx, who.UserID, service.DirectOrderInput{
		RecipeID:        recipeID,
		Servings:        req.Servings,
		ShippingAddress: req.ShippingAddress.toDomain(),
		Amount:          req.Amount,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, CheckoutResponseDTO{
		Message:       "Recipe Order Created Successfully",
		FormData:      co.Form,
		PaymentMethod: string(co.Order.PaymentMethod),
		OrderID:       co.Order.ID,
		OrderNumber:   co.Order.OrderNumber,
		RecipeID:      recipeID,
		Servings:      req.Servings,
	})
}

// POST /api/v1/esewa/create-from-cart
func (h *CheckoutHandler) CreateOrderFromCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	who, ok := identityFrom(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	var req CartOrderRequestDTO
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	co, err := h.checkout.CreateOrderFromCart(ctx, who.UserID, req.ShippingAddress.toDomain())
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, CheckoutResponseDTO{
		Message:       "Cart Order Created Successfully",
		FormData:      co.Form,
		PaymentMethod: string(co.Order.PaymentMethod),
		OrderID:       co.Order.ID,
		OrderNumber:   co.Order.OrderNumber,
	})
}

// GET /api/v1/esewa/success?data=...
//
// The provider redirects the payer's browser here, so the answer is always a
// redirect to the client app.
func (h *CheckoutHandler) PaymentSuccess(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	data := r.URL.Query().Get("data")
	if data == "" {
		http.Redirect(w, r, h.failureURL, http.StatusFound)
		return
	}

	outcome, err := h.payments.ConfirmPayment(ctx, data)
	if err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Msg("payment confirmation failed")
		http.Redirect(w, r, h.failureURL, http.StatusFound)
		return
	}

	zerolog.Ctx(r.Context()).Info().Str("outcome", string(outcome)).Msg("payment callback handled")
	http.Redirect(w, r, h.successURL, http.StatusFound)
}
