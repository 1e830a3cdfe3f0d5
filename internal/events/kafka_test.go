package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Priyanka-Kadel/Cookbook-backend/internal/domain"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockWriter struct {
	mu       sync.Mutex
	messages []kafka.Message
	err      error
	closed   bool
}

func (m *mockWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.messages = append(m.messages, msgs...)
	return nil
}

func (m *mockWriter) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func testOrder() *domain.Order {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return &domain.Order{
		ID:            "order1",
		OrderNumber:   "ORD-1-ABCDEFGHI",
		UserID:        "user1",
		Status:        domain.OrderStatusConfirmed,
		PaymentStatus: domain.PaymentStatusPaid,
		TotalAmount:   22,
		TransactionID: "tx-1",
		UpdatedAt:     now,
	}
}

func TestKafkaPublisher_Publish(t *testing.T) {
	w := &mockWriter{}
	p := &KafkaPublisher{writer: w}

	event := NewOrderEvent(TypeOrderPaymentConfirmed, testOrder(), domain.OrderStatusPending)
	require.NoError(t, p.Publish(context.Background(), event))

	require.Len(t, w.messages, 1)
	msg := w.messages[0]
	assert.Equal(t, "order1", string(msg.Key))
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "event_type", msg.Headers[0].Key)
	assert.Equal(t, TypeOrderPaymentConfirmed, string(msg.Headers[0].Value))

	var got OrderEvent
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.Equal(t, domain.OrderStatusPending, got.PreviousState)
	assert.Equal(t, domain.OrderStatusConfirmed, got.Status)
	assert.Equal(t, 22.0, got.TotalAmount)
	assert.Equal(t, testOrder().UpdatedAt, got.OccurredAt)
}

func TestKafkaPublisher_WriteError(t *testing.T) {
	w := &mockWriter{err: errors.New("broker down")}
	p := &KafkaPublisher{writer: w}

	err := p.Publish(context.Background(), NewOrderEvent(TypeOrderCreated, testOrder(), ""))

	assert.ErrorContains(t, err, "broker down")
}

func TestKafkaPublisher_Close(t *testing.T) {
	w := &mockWriter{}
	p := &KafkaPublisher{writer: w}

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	assert.NoError(t, p.Publish(context.Background(), OrderEvent{}))
	assert.NoError(t, p.Close())
}

func TestNewKafkaPublisher_SameOrderSamePartition(t *testing.T) {
	p := NewKafkaPublisher("order-events", "localhost:9092")
	w, ok := p.writer.(*kafka.Writer)
	require.True(t, ok)

	partitions := []int{0, 1, 2, 3, 4, 5}
	for _, id := range []string{"order1", "order2", "64f0c2a1b2c3d4e5f6a7b8c9"} {
		msg := kafka.Message{Key: []byte(id)}
		first := w.Balancer.Balance(msg, partitions...)
		for range 5 {
			assert.Equal(t, first, w.Balancer.Balance(msg, partitions...), "key %s", id)
		}
	}
}
