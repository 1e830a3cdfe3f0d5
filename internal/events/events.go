package events

import (
	"context"
	"time"

	"github.com/Priyanka-Kadel/Cookbook-backend/internal/domain"
)

const (
	TypeOrderCreated          = "order.created"
	TypeOrderStatusChanged    = "order.status_changed"
	TypeOrderPaymentConfirmed = "order.payment_confirmed"
)

// OrderEvent is the payload published for every order lifecycle change.
type OrderEvent struct {
	Type          string               `json:"type"`
	OrderID       string               `json:"order_id"`
	OrderNumber   string               `json:"order_number"`
	UserID        string               `json:"user_id"`
	Status        domain.OrderStatus   `json:"status"`
	PaymentStatus domain.PaymentStatus `json:"payment_status"`
	PreviousState domain.OrderStatus   `json:"previous_status,omitempty"`
	TotalAmount   float64              `json:"total_amount"`
	TransactionID string               `json:"transaction_id,omitempty"`
	OccurredAt    time.Time            `json:"occurred_at"`
}

// NewOrderEvent snapshots order for an event of type typ.
func NewOrderEvent(typ string, order *domain.Order, previous domain.OrderStatus) OrderEvent {
	return OrderEvent{
		Type:          typ,
		OrderID:       order.ID,
		OrderNumber:   order.OrderNumber,
		UserID:        order.UserID,
		Status:        order.Status,
		PaymentStatus: order.PaymentStatus,
		PreviousState: previous,
		TotalAmount:   order.TotalAmount,
		TransactionID: order.TransactionID,
		OccurredAt:    order.UpdatedAt,
	}
}

type Publisher interface {
	Publish(ctx context.Context, event OrderEvent) error
	Close() error
}

// NopPublisher drops every event. It is used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, OrderEvent) error { return nil }
func (NopPublisher) Close() error                              { return nil }
