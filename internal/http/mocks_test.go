package http

import (
	"context"
	"sync"
	"time"

	"github.com/Priyanka-Kadel/Cookbook-backend/internal/auth"
	"github.com/Priyanka-Kadel/Cookbook-backend/internal/domain"
	"github.com/Priyanka-Kadel/Cookbook-backend/internal/service"
	"github.com/rs/zerolog"
)

type mockSessions struct {
	m        sync.Mutex
	versions map[string]int64
	err      error
}

func (m *mockSessions) Version(_ context.Context, userID string) (int64, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	return m.versions[userID], nil
}

func (m *mockSessions) Bump(_ context.Context, userID string) (int64, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	if m.versions == nil {
		m.versions = map[string]int64{}
	}
	m.versions[userID]++
	return m.versions[userID], nil
}

type mockRecipes struct {
	recipe  *domain.Recipe
	quote   *service.Quote
	err     error
	created *domain.Recipe
}

func (m *mockRecipes) Create(_ context.Context, createdBy string, r *domain.Recipe) (*domain.Recipe, error) {
	if m.err != nil {
		return nil, m.err
	}
	r.ID = "new-recipe"
	r.CreatedBy = createdBy
	m.created = r
	return r, nil
}

func (m *mockRecipes) Get(context.Context, string) (*domain.Recipe, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.recipe, nil
}

func (m *mockRecipes) Delete(context.Context, string) error { return m.err }

func (m *mockRecipes) Quote(_ context.Context, id string, servings int) (*service.Quote, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.quote != nil {
		return m.quote, nil
	}
	return &service.Quote{RecipeID: id, Servings: servings, TotalPrice: 5.5 * float64(servings)}, nil
}

type mockCarts struct {
	cart   *domain.Cart
	err    error
	calls  []string
	userID string
}

func (m *mockCarts) record(call, userID string) (*domain.Cart, error) {
	m.calls = append(m.calls, call)
	m.userID = userID
	if m.err != nil {
		return nil, m.err
	}
	return m.cart, nil
}

func (m *mockCarts) GetOrCreateActiveCart(_ context.Context, userID string) (*domain.Cart, error) {
	return m.record("get", userID)
}

func (m *mockCarts) AddItem(_ context.Context, userID, _ string, _ int) (*domain.Cart, error) {
	return m.record("add", userID)
}

func (m *mockCarts) UpdateItem(_ context.Context, userID, _ string, _ int) (*domain.Cart, error) {
	return m.record("update", userID)
}

func (m *mockCarts) RemoveItem(_ context.Context, userID, _ string) (*domain.Cart, error) {
	return m.record("remove", userID)
}

func (m *mockCarts) Clear(_ context.Context, userID string) (*domain.Cart, error) {
	return m.record("clear", userID)
}

type mockOrders struct {
	order  *domain.Order
	orders []*domain.Order
	err    error
	to     domain.OrderStatus
}

func (m *mockOrders) ListMyOrders(context.Context, domain.Identity) ([]*domain.Order, error) {
	return m.orders, m.err
}

func (m *mockOrders) ListAllOrders(_ context.Context, who domain.Identity) ([]*domain.Order, error) {
	return m.orders, m.err
}

func (m *mockOrders) GetOrder(context.Context, domain.Identity, string) (*domain.Order, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.order, nil
}

func (m *mockOrders) CancelOrder(context.Context, domain.Identity, string) (*domain.Order, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.order, nil
}

func (m *mockOrders) AdvanceStatus(_ context.Context, _ domain.Identity, _ string, to domain.OrderStatus) (*domain.Order, error) {
	m.to = to
	if m.err != nil {
		return nil, m.err
	}
	return m.order, nil
}

type mockCheckout struct {
	checkout *service.Checkout
	err      error
	direct   service.DirectOrderInput
	addr     domain.ShippingAddress
}

func (m *mockCheckout) CreateDirectOrder(_ context.Context, _ string, in service.DirectOrderInput) (*service.Checkout, error) {
	m.direct = in
	if m.err != nil {
		return nil, m.err
	}
	return m.checkout, nil
}

func (m *mockCheckout) CreateOrderFromCart(_ context.Context, _ string, addr domain.ShippingAddress) (*service.Checkout, error) {
	m.addr = addr
	if m.err != nil {
		return nil, m.err
	}
	return m.checkout, nil
}

type mockPayments struct {
	outcome service.Outcome
	err     error
	data    string
}

func (m *mockPayments) ConfirmPayment(_ context.Context, data string) (service.Outcome, error) {
	m.data = data
	return m.outcome, m.err
}

type testServer struct {
	deps     RouterDeps
	issuer   *auth.Issuer
	sessions *mockSessions
	recipes  *mockRecipes
	carts    *mockCarts
	orders   *mockOrders
	checkout *mockCheckout
	payments *mockPayments
}

func newTestServer() *testServer {
	ts := &testServer{
		issuer:   auth.NewIssuer("test-secret", time.Hour),
		sessions: &mockSessions{versions: map[string]int64{}},
		recipes:  &mockRecipes{},
		carts:    &mockCarts{},
		orders:   &mockOrders{},
		checkout: &mockCheckout{},
		payments: &mockPayments{outcome: service.OutcomeConfirmed},
	}
	ts.deps = RouterDeps{
		Logger:             zerolog.Nop(),
		Tokens:             ts.issuer,
		Sessions:           ts.sessions,
		Recipes:            ts.recipes,
		Carts:              ts.carts,
		Orders:             ts.orders,
		Checkout:           ts.checkout,
		Payments:           ts.payments,
		CallbackRPS:        100,
		CallbackBurst:      100,
		ClientSuccessURL:   "http://client/success",
		ClientFailureURL:   "http://client/failure",
		RequestTimeout:     5 * time.Second,
		MaxRequestBodySize: 1 << 20,
	}
	return ts
}
