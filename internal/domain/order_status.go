package domain

import (
	"sort"
	"strings"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusPreparing,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

func (s OrderStatus) String() string {
	return string(s)
}

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

func (s PaymentStatus) String() string {
	return string(s)
}

// Actor is whoever drives a status change.
type Actor string

const (
	ActorCustomer Actor = "customer"
	ActorAdmin    Actor = "admin"
	ActorPayment  Actor = "payment"
)

type transitionKey struct {
	From OrderStatus
	To   OrderStatus
}

// orderTransitions is the authoritative fulfillment state machine.
var orderTransitions = map[transitionKey][]Actor{
	{OrderStatusPending, OrderStatusConfirmed}:   {ActorPayment},
	{OrderStatusPending, OrderStatusCancelled}:   {ActorCustomer, ActorAdmin},
	{OrderStatusConfirmed, OrderStatusCancelled}: {ActorCustomer, ActorAdmin},
	{OrderStatusConfirmed, OrderStatusPreparing}: {ActorAdmin},
	{OrderStatusPreparing, OrderStatusShipped}:   {ActorAdmin},
	{OrderStatusShipped, OrderStatusDelivered}:   {ActorAdmin},
}

// CanTransition reports whether actor may move an order from one status to
// another. The returned error matches ErrIllegalTransition and ErrInvalidState.
func CanTransition(from, to OrderStatus, actor Actor) error {
	for _, a := range orderTransitions[transitionKey{from, to}] {
		if a == actor {
			return nil
		}
	}
	return KindErrorf(ErrIllegalTransition, "illegal transition of order status: %s -> %s is not allowed for %s; valid next statuses from %s: %s",
		from, to, actor, from, describeNext(from))
}

// NextStatuses lists every status reachable from s in one step, by any actor.
func NextStatuses(s OrderStatus) []OrderStatus {
	var next []OrderStatus
	for k := range orderTransitions {
		if k.From == s {
			next = append(next, k.To)
		}
	}
	sort.Slice(next, func(i, j int) bool { return next[i] < next[j] })
	return next
}

func describeNext(s OrderStatus) string {
	next := NextStatuses(s)
	if len(next) == 0 {
		return "none (terminal state)"
	}
	parts := make([]string, len(next))
	for i, n := range next {
		parts[i] = string(n)
	}
	return strings.Join(parts, ", ")
}

// CanTransitionPayment enforces pending -> paid | failed. Paid and failed are
// terminal.
func CanTransitionPayment(from, to PaymentStatus) error {
	if from == PaymentStatusPending && (to == PaymentStatusPaid || to == PaymentStatusFailed) {
		return nil
	}
	return KindErrorf(ErrIllegalTransition, "illegal transition of payment status: %s -> %s", from, to)
}
