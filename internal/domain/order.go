package domain

import (
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PaymentMethod string

const (
	PaymentMethodEsewa          PaymentMethod = "esewa"
	PaymentMethodCreditCard     PaymentMethod = "credit_card"
	PaymentMethodDebitCard      PaymentMethod = "debit_card"
	PaymentMethodPaypal         PaymentMethod = "paypal"
	PaymentMethodCashOnDelivery PaymentMethod = "cash_on_delivery"
)

type ShippingAddress struct {
	Street  string `json:"street,omitempty" bson:"street,omitempty"`
	City    string `json:"city,omitempty" bson:"city,omitempty"`
	State   string `json:"state,omitempty" bson:"state,omitempty"`
	ZipCode string `json:"zipCode,omitempty" bson:"zip_code,omitempty"`
	Country string `json:"country,omitempty" bson:"country,omitempty"`
}

// OrderItem is a frozen price snapshot; it does not follow later recipe or
// cart changes.
type OrderItem struct {
	RecipeID   string  `json:"recipe" bson:"recipe_id"`
	Servings   int     `json:"servings" bson:"servings"`
	UnitPrice  float64 `json:"unitPrice" bson:"unit_price"`
	TotalPrice float64 `json:"totalPrice" bson:"total_price"`
}

// StatusChange is one entry of an order's audit trail.
type StatusChange struct {
	Field string    `json:"field" bson:"field"` // "status" or "paymentStatus"
	From  string    `json:"from" bson:"from"`
	To    string    `json:"to" bson:"to"`
	Actor Actor     `json:"actor" bson:"actor"`
	By    string    `json:"by,omitempty" bson:"by,omitempty"`
	At    time.Time `json:"at" bson:"at"`
}

// Order fields other than Status, PaymentStatus, StatusHistory and UpdatedAt
// are fixed at creation.
type Order struct {
	ID              string          `json:"id" bson:"_id"`
	OrderNumber     string          `json:"orderNumber" bson:"order_number"`
	UserID          string          `json:"user" bson:"user_id"`
	Items           []OrderItem     `json:"items" bson:"items"`
	TotalAmount     float64         `json:"totalAmount" bson:"total_amount"`
	ShippingAddress ShippingAddress `json:"shippingAddress" bson:"shipping_address"`
	Status          OrderStatus     `json:"status" bson:"status"`
	PaymentStatus   PaymentStatus   `json:"paymentStatus" bson:"payment_status"`
	PaymentMethod   PaymentMethod   `json:"paymentMethod" bson:"payment_method"`
	TransactionID   string          `json:"transactionId" bson:"transaction_id"`
	StatusHistory   []StatusChange  `json:"statusHistory" bson:"status_history"`
	CreatedAt       time.Time       `json:"createdAt" bson:"created_at"`
	UpdatedAt       time.Time       `json:"updatedAt" bson:"updated_at"`
}

// NewDirectOrder builds a single-line order for servings of recipeID costing
// price in total.
func NewDirectOrder(userID, recipeID string, servings int, price float64, addr ShippingAddress,
	method PaymentMethod, txID string, now time.Time) (*Order, error) {
	if servings <= 0 {
		return nil, ErrInvalidServings
	}
	item := OrderItem{
		RecipeID:   recipeID,
		Servings:   servings,
		UnitPrice:  price / float64(servings),
		TotalPrice: price,
	}
	return newOrder(userID, []OrderItem{item}, price, addr, method, txID, now), nil
}

// NewOrderFromCart snapshots every cart item. The order total is the cart
// total.
func NewOrderFromCart(cart *Cart, addr ShippingAddress, method PaymentMethod, txID string, now time.Time) (*Order, error) {
	if cart == nil || cart.IsEmpty() {
		return nil, ErrEmptyCart
	}
	items := make([]OrderItem, 0, len(cart.Items))
	for _, it := range cart.Items {
		if it.Servings <= 0 {
			return nil, ErrInvalidServings
		}
		items = append(items, OrderItem{
			RecipeID:   it.RecipeID,
			Servings:   it.Servings,
			UnitPrice:  it.TotalPrice / float64(it.Servings),
			TotalPrice: it.TotalPrice,
		})
	}
	return newOrder(cart.UserID, items, cart.TotalAmount, addr, method, txID, now), nil
}

func newOrder(userID string, items []OrderItem, total float64, addr ShippingAddress,
	method PaymentMethod, txID string, now time.Time) *Order {
	return &Order{
		ID:              primitive.NewObjectID().Hex(),
		OrderNumber:     NewOrderNumber(now),
		UserID:          userID,
		Items:           items,
		TotalAmount:     total,
		ShippingAddress: addr,
		Status:          OrderStatusPending,
		PaymentStatus:   PaymentStatusPending,
		PaymentMethod:   method,
		TransactionID:   txID,
		StatusHistory:   []StatusChange{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

const orderNumberAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// NewOrderNumber returns ORD-<unix millis>-<9 random base36 characters>.
func NewOrderNumber(now time.Time) string {
	var b strings.Builder
	b.WriteString("ORD-")
	b.WriteString(strconv.FormatInt(now.UnixMilli(), 10))
	b.WriteByte('-')
	for range 9 {
		b.WriteByte(orderNumberAlphabet[rand.IntN(len(orderNumberAlphabet))])
	}
	return b.String()
}

// Transition moves the order to status `to` when the state machine allows
// actor to do so, and records the change.
func (o *Order) Transition(to OrderStatus, actor Actor, by string, now time.Time) error {
	if err := CanTransition(o.Status, to, actor); err != nil {
		return err
	}
	o.StatusHistory = append(o.StatusHistory, StatusChange{
		Field: "status", From: string(o.Status), To: string(to), Actor: actor, By: by, At: now,
	})
	o.Status = to
	o.UpdatedAt = now
	return nil
}

// MarkPaid applies a successful payment confirmation: payment becomes paid
// and a pending order becomes confirmed. Replaying it on a paid order changes
// nothing and reports false. A payment landing on an order that can no longer
// be confirmed (cancelled) still records the payment.
func (o *Order) MarkPaid(now time.Time) (bool, error) {
	if o.PaymentStatus == PaymentStatusPaid {
		return false, nil
	}
	if err := CanTransitionPayment(o.PaymentStatus, PaymentStatusPaid); err != nil {
		return false, err
	}
	o.StatusHistory = append(o.StatusHistory, StatusChange{
		Field: "paymentStatus", From: string(o.PaymentStatus), To: string(PaymentStatusPaid), Actor: ActorPayment, At: now,
	})
	o.PaymentStatus = PaymentStatusPaid
	o.UpdatedAt = now
	if CanTransition(o.Status, OrderStatusConfirmed, ActorPayment) == nil {
		_ = o.Transition(OrderStatusConfirmed, ActorPayment, "", now)
	}
	return true, nil
}

// MarkPaymentFailed moves a pending payment to failed. Fulfillment status is
// left alone.
func (o *Order) MarkPaymentFailed(now time.Time) error {
	if err := CanTransitionPayment(o.PaymentStatus, PaymentStatusFailed); err != nil {
		return err
	}
	o.StatusHistory = append(o.StatusHistory, StatusChange{
		Field: "paymentStatus", From: string(o.PaymentStatus), To: string(PaymentStatusFailed), Actor: ActorPayment, At: now,
	})
	o.PaymentStatus = PaymentStatusFailed
	o.UpdatedAt = now
	return nil
}
