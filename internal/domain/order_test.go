package domain

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cartWithItems(now time.Time) *Cart {
	c := NewCart("u1", now)
	c.UpsertRecipe("r1", 4, 22, now)
	c.UpsertRecipe("r2", 3, 10, now)
	return c
}

func TestNewOrderFromCart_Snapshot(t *testing.T) {
	now := time.Now()
	cart := cartWithItems(now)

	o, err := NewOrderFromCart(cart, ShippingAddress{City: "Kathmandu"}, PaymentMethodEsewa, "tx-1", now)
	require.NoError(t, err)

	assert.Equal(t, cart.TotalAmount, o.TotalAmount)
	require.Len(t, o.Items, len(cart.Items))
	for i, it := range o.Items {
		assert.Equal(t, cart.Items[i].RecipeID, it.RecipeID)
		assert.InDelta(t, it.TotalPrice, it.UnitPrice*float64(it.Servings), 1e-9)
	}
	assert.Equal(t, "u1", o.UserID)
	assert.Equal(t, OrderStatusPending, o.Status)
	assert.Equal(t, PaymentStatusPending, o.PaymentStatus)
	assert.Equal(t, "tx-1", o.TransactionID)
	assert.NotEmpty(t, o.OrderNumber)

	// later cart changes do not leak into the order
	cart.UpsertRecipe("r1", 10, 55, now)
	assert.Equal(t, 22.0, o.Items[0].TotalPrice)
}

func TestNewOrderFromCart_Empty(t *testing.T) {
	_, err := NewOrderFromCart(NewCart("u1", time.Now()), ShippingAddress{}, PaymentMethodEsewa, "tx", time.Now())
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.ErrorIs(t, err, ErrInvalidState)

	_, err = NewOrderFromCart(nil, ShippingAddress{}, PaymentMethodEsewa, "tx", time.Now())
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestNewDirectOrder(t *testing.T) {
	o, err := NewDirectOrder("u1", "r1", 4, 22, ShippingAddress{}, PaymentMethodEsewa, "tx", time.Now())
	require.NoError(t, err)
	require.Len(t, o.Items, 1)
	assert.Equal(t, 5.5, o.Items[0].UnitPrice)
	assert.Equal(t, 22.0, o.TotalAmount)

	_, err = NewDirectOrder("u1", "r1", 0, 22, ShippingAddress{}, PaymentMethodEsewa, "tx", time.Now())
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestNewOrderNumber_Format(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	re := regexp.MustCompile(`^ORD-1700000000123-[0-9A-Z]{9}$`)
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		n := NewOrderNumber(now)
		assert.Regexp(t, re, n)
		seen[n] = true
	}
	assert.Greater(t, len(seen), 95)
}

func newPendingOrder(t *testing.T) *Order {
	t.Helper()
	o, err := NewDirectOrder("u1", "r1", 2, 11, ShippingAddress{}, PaymentMethodEsewa, "tx", time.Now())
	require.NoError(t, err)
	return o
}

func TestCancel_FromPendingAndConfirmed(t *testing.T) {
	o := newPendingOrder(t)
	require.NoError(t, o.Transition(OrderStatusCancelled, ActorCustomer, "u1", time.Now()))
	assert.Equal(t, OrderStatusCancelled, o.Status)

	o = newPendingOrder(t)
	_, err := o.MarkPaid(time.Now())
	require.NoError(t, err)
	require.Equal(t, OrderStatusConfirmed, o.Status)
	require.NoError(t, o.Transition(OrderStatusCancelled, ActorAdmin, "admin", time.Now()))
	assert.Equal(t, OrderStatusCancelled, o.Status)
}

func TestCancel_RejectedFromLaterStatuses(t *testing.T) {
	for _, s := range []OrderStatus{OrderStatusPreparing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled} {
		o := newPendingOrder(t)
		o.Status = s
		err := o.Transition(OrderStatusCancelled, ActorCustomer, "u1", time.Now())
		assert.ErrorIs(t, err, ErrInvalidState, "from %s", s)
		assert.Equal(t, s, o.Status)
	}
}

func TestAdminProgression_NoSkipping(t *testing.T) {
	o := newPendingOrder(t)
	err := o.Transition(OrderStatusDelivered, ActorAdmin, "admin", time.Now())
	assert.ErrorIs(t, err, ErrIllegalTransition)

	err = o.Transition(OrderStatusConfirmed, ActorAdmin, "admin", time.Now())
	assert.ErrorIs(t, err, ErrIllegalTransition, "confirmation is driven by payment only")

	_, err = o.MarkPaid(time.Now())
	require.NoError(t, err)
	assert.ErrorIs(t, o.Transition(OrderStatusShipped, ActorAdmin, "admin", time.Now()), ErrInvalidState)

	for _, next := range []OrderStatus{OrderStatusPreparing, OrderStatusShipped, OrderStatusDelivered} {
		require.NoError(t, o.Transition(next, ActorAdmin, "admin", time.Now()))
	}
	assert.True(t, o.Status.IsTerminal())
	assert.Empty(t, NextStatuses(o.Status))
}

func TestAdminProgression_CustomerCannotAdvance(t *testing.T) {
	o := newPendingOrder(t)
	_, err := o.MarkPaid(time.Now())
	require.NoError(t, err)
	assert.ErrorIs(t, o.Transition(OrderStatusPreparing, ActorCustomer, "u1", time.Now()), ErrInvalidState)
}

func TestMarkPaid_Idempotent(t *testing.T) {
	o := newPendingOrder(t)
	changed, err := o.MarkPaid(time.Now())
	require.NoError(t, err)
	assert.True(t, changed)
	snapshot := *o
	snapshot.StatusHistory = append([]StatusChange(nil), o.StatusHistory...)

	changed, err = o.MarkPaid(time.Now())
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, snapshot, *o)
	assert.Equal(t, PaymentStatusPaid, o.PaymentStatus)
	assert.Equal(t, OrderStatusConfirmed, o.Status)
}

func TestMarkPaid_CancelledOrderKeepsStatus(t *testing.T) {
	o := newPendingOrder(t)
	require.NoError(t, o.Transition(OrderStatusCancelled, ActorCustomer, "u1", time.Now()))

	changed, err := o.MarkPaid(time.Now())
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, PaymentStatusPaid, o.PaymentStatus)
	assert.Equal(t, OrderStatusCancelled, o.Status)
}

func TestMarkPaymentFailed_Terminal(t *testing.T) {
	o := newPendingOrder(t)
	require.NoError(t, o.MarkPaymentFailed(time.Now()))
	assert.Equal(t, PaymentStatusFailed, o.PaymentStatus)
	assert.Equal(t, OrderStatusPending, o.Status)

	_, err := o.MarkPaid(time.Now())
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.ErrorIs(t, o.MarkPaymentFailed(time.Now()), ErrInvalidState)
}

func TestStatusHistory_Recorded(t *testing.T) {
	o := newPendingOrder(t)
	_, err := o.MarkPaid(time.Now())
	require.NoError(t, err)
	require.NoError(t, o.Transition(OrderStatusPreparing, ActorAdmin, "admin-1", time.Now()))

	require.Len(t, o.StatusHistory, 3)
	assert.Equal(t, "paymentStatus", o.StatusHistory[0].Field)
	assert.Equal(t, "status", o.StatusHistory[1].Field)
	assert.Equal(t, "confirmed", o.StatusHistory[1].To)
	assert.Equal(t, "admin-1", o.StatusHistory[2].By)
}

func TestIdentity_CanAccess(t *testing.T) {
	o := newPendingOrder(t)
	assert.True(t, Identity{UserID: "u1", Role: RoleCustomer}.CanAccess(o))
	assert.False(t, Identity{UserID: "u2", Role: RoleCustomer}.CanAccess(o))
	assert.True(t, Identity{UserID: "u2", Role: RoleAdmin}.CanAccess(o))
	assert.False(t, Identity{}.CanAccess(o))
}
