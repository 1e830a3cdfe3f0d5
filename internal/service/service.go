package service

import (
	"context"
	"errors"

	"github.com/Priyanka-Kadel/Cookbook-backend/internal/domain"
	"github.com/Priyanka-Kadel/Cookbook-backend/internal/events"
	"github.com/Priyanka-Kadel/Cookbook-backend/internal/repository"
	"github.com/rs/zerolog"
)

const maxStatusRetries = 3

// updateOrder applies fn and persists the status fields with a
// compare-and-set. When another writer got there first the order is re-read
// and fn is applied again to the fresh copy.
func updateOrder(ctx context.Context, repo repository.OrderRepository, order *domain.Order,
	fn func(o *domain.Order) (bool, error)) (*domain.Order, bool, error) {
	for attempt := 1; ; attempt++ {
		prevStatus, prevPayment := order.Status, order.PaymentStatus

		changed, err := fn(order)
		if err != nil || !changed {
			return order, false, err
		}

		err = repo.UpdateOrderStatus(ctx, order, prevStatus, prevPayment)
		if err == nil {
			return order, true, nil
		}
		if !errors.Is(err, repository.ErrStatusConflict) || attempt == maxStatusRetries {
			return nil, false, err
		}

		zerolog.Ctx(ctx).Debug().Str("order_id", order.ID).Int("attempt", attempt).Msg("order status conflict, retrying")
		if order, err = repo.GetOrderByID(ctx, order.ID); err != nil {
			return nil, false, err
		}
	}
}

// publish is best effort: a failed publication is logged and the caller
// carries on.
func publish(ctx context.Context, pub events.Publisher, typ string, order *domain.Order, previous domain.OrderStatus) {
	if err := pub.Publish(ctx, events.NewOrderEvent(typ, order, previous)); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).
			Str("event_type", typ).
			Str("order_id", order.ID).
			Msg("failed to publish order event")
	}
}
