package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Priyanka-Kadel/Cookbook-backend/internal/domain"
	"github.com/Priyanka-Kadel/Cookbook-backend/internal/events"
	"github.com/Priyanka-Kadel/Cookbook-backend/internal/kv"
	"github.com/Priyanka-Kadel/Cookbook-backend/internal/payment"
	"github.com/Priyanka-Kadel/Cookbook-backend/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type mockRecipeRepository struct {
	m       sync.RWMutex
	recipes map[string]*domain.Recipe
	err     error
}

func newMockRecipeRepository(recipes ...*domain.Recipe) *mockRecipeRepository {
	m := &mockRecipeRepository{recipes: map[string]*domain.Recipe{}}
	for _, r := range recipes {
		m.recipes[r.ID] = r
	}
	return m
}

func (m *mockRecipeRepository) CreateRecipe(_ context.Context, r *domain.Recipe) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	if r.ID == "" {
		r.ID = primitive.NewObjectID().Hex()
	}
	m.recipes[r.ID] = r
	return nil
}

func (m *mockRecipeRepository) GetRecipe(_ context.Context, id string) (*domain.Recipe, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	r, ok := m.recipes[id]
	if !ok {
		return nil, repository.ErrRecipeNotFound
	}
	return r, nil
}

func (m *mockRecipeRepository) DeleteRecipe(_ context.Context, id string) error {
	m.m.Lock()
	defer m.m.Unlock()
	if _, ok := m.recipes[id]; !ok {
		return repository.ErrRecipeNotFound
	}
	delete(m.recipes, id)
	return nil
}

type mockCartRepository struct {
	m       sync.RWMutex
	carts   map[string]*domain.Cart // by user
	err     error
	saveErr error
	gets    int
	creates int
	block   chan struct{} // GetActiveCart waits here when set
	entered chan struct{}
}

func newMockCartRepository() *mockCartRepository {
	return &mockCartRepository{carts: map[string]*domain.Cart{}}
}

func (m *mockCartRepository) GetActiveCart(ctx context.Context, userID string) (*domain.Cart, error) {
	if m.block != nil {
		select {
		case m.entered <- struct{}{}:
		default:
		}
		<-m.block
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
	m.m.Lock()
	defer m.m.Unlock()
	m.gets++
	if m.err != nil {
		return nil, m.err
	}
	c, ok := m.carts[userID]
	if !ok {
		return nil, repository.ErrCartNotFound
	}
	return cloneCart(c), nil
}

func (m *mockCartRepository) CreateCart(_ context.Context, c *domain.Cart) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.creates++
	if m.err != nil {
		return m.err
	}
	if _, ok := m.carts[c.UserID]; ok {
		return repository.ErrActiveCartExists
	}
	m.carts[c.UserID] = cloneCart(c)
	return nil
}

func (m *mockCartRepository) SaveCart(_ context.Context, c *domain.Cart) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.carts[c.UserID] = cloneCart(c)
	return nil
}

func (m *mockCartRepository) stored(userID string) *domain.Cart {
	m.m.RLock()
	defer m.m.RUnlock()
	return m.carts[userID]
}

type mockOrderRepository struct {
	m         sync.RWMutex
	orders    map[string]*domain.Order
	numbers   map[string]bool
	err       error
	conflicts int // UpdateOrderStatus calls to fail with ErrStatusConflict
	dupes     int // CreateOrder calls to fail with ErrDuplicateOrderNumber
	updates   int
}

func newMockOrderRepository() *mockOrderRepository {
	return &mockOrderRepository{orders: map[string]*domain.Order{}, numbers: map[string]bool{}}
}

func copyOrder(o *domain.Order) *domain.Order {
	out := *o
	out.Items = append([]domain.OrderItem{}, o.Items...)
	out.StatusHistory = append([]domain.StatusChange{}, o.StatusHistory...)
	return &out
}

func (m *mockOrderRepository) CreateOrder(_ context.Context, o *domain.Order) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	if m.dupes > 0 || m.numbers[o.OrderNumber] {
		if m.dupes > 0 {
			m.dupes--
		}
		return repository.ErrDuplicateOrderNumber
	}
	m.numbers[o.OrderNumber] = true
	m.orders[o.ID] = copyOrder(o)
	return nil
}

func (m *mockOrderRepository) GetOrderByID(_ context.Context, id string) (*domain.Order, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	o, ok := m.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	return copyOrder(o), nil
}

func (m *mockOrderRepository) GetOrderByTransactionID(_ context.Context, txID string) (*domain.Order, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, o := range m.orders {
		if o.TransactionID == txID {
			return copyOrder(o), nil
		}
	}
	return nil, repository.ErrOrderNotFound
}

func (m *mockOrderRepository) list(keep func(*domain.Order) bool) []*domain.Order {
	m.m.RLock()
	defer m.m.RUnlock()
	out := []*domain.Order{}
	for _, o := range m.orders {
		if keep(o) {
			out = append(out, copyOrder(o))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (m *mockOrderRepository) ListOrdersByUserID(_ context.Context, userID string) ([]*domain.Order, error) {
	return m.list(func(o *domain.Order) bool { return o.UserID == userID }), nil
}

func (m *mockOrderRepository) ListOrders(context.Context) ([]*domain.Order, error) {
	return m.list(func(*domain.Order) bool { return true }), nil
}

func (m *mockOrderRepository) UpdateOrderStatus(_ context.Context, o *domain.Order,
	prevStatus domain.OrderStatus, prevPayment domain.PaymentStatus) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	stored, ok := m.orders[o.ID]
	if !ok {
		return repository.ErrOrderNotFound
	}
	if m.conflicts > 0 {
		m.conflicts--
		return repository.ErrStatusConflict
	}
	if stored.Status != prevStatus || stored.PaymentStatus != prevPayment {
		return repository.ErrStatusConflict
	}
	m.updates++
	m.orders[o.ID] = copyOrder(o)
	return nil
}

func (m *mockOrderRepository) stored(id string) *domain.Order {
	m.m.RLock()
	defer m.m.RUnlock()
	return m.orders[id]
}

type mockGateway struct {
	conf *payment.Confirmation
	err  error
}

func (m *mockGateway) Initiate(amount float64, txID string) *payment.Form {
	return &payment.Form{TotalAmount: payment.FormatAmount(amount), TransactionUUID: txID}
}

func (m *mockGateway) ParseConfirmation(string) (*payment.Confirmation, error) {
	if m.err != nil {
		return nil, m.err
	}
	c := *m.conf
	return &c, nil
}

type mockLocker struct {
	m        sync.Mutex
	held     map[string]bool
	err      error
	released int
}

func newMockLocker() *mockLocker {
	return &mockLocker{held: map[string]bool{}}
}

func (m *mockLocker) Acquire(_ context.Context, key string, _ time.Duration) (func(context.Context) error, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if m.held[key] {
		return nil, kv.ErrLocked
	}
	m.held[key] = true
	return func(context.Context) error {
		m.m.Lock()
		defer m.m.Unlock()
		delete(m.held, key)
		m.released++
		return nil
	}, nil
}

type mockPublisher struct {
	m      sync.Mutex
	events []events.OrderEvent
	err    error
}

func (m *mockPublisher) Publish(_ context.Context, e events.OrderEvent) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, e)
	return nil
}

func (m *mockPublisher) Close() error { return nil }

func (m *mockPublisher) types() []string {
	m.m.Lock()
	defer m.m.Unlock()
	out := make([]string, len(m.events))
	for i, e := range m.events {
		out[i] = e.Type
	}
	return out
}

// testRecipe costs 11 for 2 servings.
func testRecipe(id string) *domain.Recipe {
	return &domain.Recipe{
		ID:       id,
		Title:    "Momo",
		Servings: 2,
		Ingredients: []domain.Ingredient{
			{Name: "flour", Quantity: 2, Unit: domain.UnitCup, Price: 3},
			{Name: "filling", Quantity: 1, Unit: domain.UnitGram, Price: 5},
		},
		TotalPrice: 11,
		IsActive:   true,
	}
}
