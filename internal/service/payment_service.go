package service

import (
	"context"
	"errors"
	"time"

	"github.com/Priyanka-Kadel/Cookbook-backend/internal/domain"
	"github.com/Priyanka-Kadel/Cookbook-backend/internal/events"
	"github.com/Priyanka-Kadel/Cookbook-backend/internal/kv"
	"github.com/Priyanka-Kadel/Cookbook-backend/internal/payment"
	"github.com/Priyanka-Kadel/Cookbook-backend/internal/repository"
	"github.com/rs/zerolog"
)

var ErrAmountMismatch = domain.KindError(domain.ErrInvalidInput, "paid amount does not match the order total")

// ConfirmationParser turns a provider callback payload into a verified
// confirmation, or fails.
type ConfirmationParser interface {
	ParseConfirmation(data string) (*payment.Confirmation, error)
}

type Outcome string

const (
	OutcomeConfirmed    Outcome = "confirmed"
	OutcomeAlreadyPaid  Outcome = "already_paid"
	OutcomeUnknownOrder Outcome = "unknown_order"
	OutcomeInProgress   Outcome = "in_progress"
)

type PaymentService struct {
	orders    repository.OrderRepository
	gateway   ConfirmationParser
	locker    kv.Locker
	publisher events.Publisher
	lockTTL   time.Duration
	now       func() time.Time
}

func NewPaymentService(orders repository.OrderRepository, gateway ConfirmationParser, locker kv.Locker,
	publisher events.Publisher) *PaymentService {
	return &PaymentService{
		orders:    orders,
		gateway:   gateway,
		locker:    locker,
		publisher: publisher,
		lockTTL:   30 * time.Second,
		now:       time.Now,
	}
}

// ConfirmPayment applies a provider callback. Any parse, signature or amount
// failure returns an error before the order is touched. Replays of an applied
// confirmation report OutcomeAlreadyPaid.
func (s *PaymentService) ConfirmPayment(ctx context.Context, data string) (Outcome, error) {
	logger := zerolog.Ctx(ctx)

	conf, err := s.gateway.ParseConfirmation(data)
	if err != nil {
		logger.Warn().Err(err).Msg("rejected payment confirmation")
		return "", err
	}
	txLog := logger.With().Str("transaction_id", conf.TransactionUUID).Logger()

	release, err := s.locker.Acquire(ctx, "payment:confirm:"+conf.TransactionUUID, s.lockTTL)
	switch {
	case errors.Is(err, kv.ErrLocked):
		txLog.Info().Msg("payment confirmation already in progress")
		return OutcomeInProgress, nil
	case err != nil:
		// the status update is a compare-and-set, so carry on unlocked
		txLog.Warn().Err(err).Msg("failed to acquire payment lock")
	default:
		defer func() {
			if err := release(context.WithoutCancel(ctx)); err != nil {
				txLog.Warn().Err(err).Msg("failed to release payment lock")
			}
		}()
	}

	order, err := s.orders.GetOrderByTransactionID(ctx, conf.TransactionUUID)
	if errors.Is(err, repository.ErrOrderNotFound) {
		txLog.Info().Msg("payment confirmation for unknown transaction ignored")
		return OutcomeUnknownOrder, nil
	}
	if err != nil {
		return "", err
	}

	if !payment.AmountMatches(conf.TotalAmount, order.TotalAmount) {
		txLog.Warn().
			Str("order_id", order.ID).
			Str("reported", conf.TotalAmount.String()).
			Float64("expected", order.TotalAmount).
			Msg("payment amount mismatch")
		return "", ErrAmountMismatch
	}

	previous := order.Status
	order, changed, err := updateOrder(ctx, s.orders, order, func(o *domain.Order) (bool, error) {
		previous = o.Status
		return o.MarkPaid(s.now())
	})
	if err != nil {
		return "", err
	}
	if !changed {
		return OutcomeAlreadyPaid, nil
	}

	txLog.Info().
		Str("order_id", order.ID).
		Str("status", string(order.Status)).
		Str("transaction_code", conf.TransactionCode).
		Msg("payment confirmed")
	publish(ctx, s.publisher, events.TypeOrderPaymentConfirmed, order, previous)
	return OutcomeConfirmed, nil
}
