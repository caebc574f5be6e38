package usecase

import (
	"context"
	"math/big"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ghostlabs/asap-onramp/src/logger"
	"github.com/ghostlabs/asap-onramp/src/onramp/domain"
)

// in-memory stand-ins for the repository, the chain oracle and the
// backend gateway, with call counters so tests can assert how many
// network-shaped calls a flow produced

type fakeOrderRepo struct {
	mu     sync.Mutex
	orders map[uint]domain.Order
	nextID uint
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[uint]domain.Order)}
}

func (r *fakeOrderRepo) SaveOrder(_ context.Context, o *domain.Order) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	saved := *o
	saved.ID = r.nextID
	r.orders[saved.ID] = saved
	out := saved
	return &out, nil
}

func (r *fakeOrderRepo) GetOrderByID(_ context.Context, id uint) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, nil
	}
	out := o
	return &out, nil
}

func (r *fakeOrderRepo) GetOrdersByStatuses(_ context.Context, statuses ...domain.OrderStatus) ([]domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Order
	for _, o := range r.orders {
		for _, s := range statuses {
			if o.Status == s {
				out = append(out, o)
				break
			}
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) UpdateStatus(_ context.Context, id uint, status domain.OrderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return domain.ErrOrderNotFound
	}
	o.Status = status
	r.orders[id] = o
	return nil
}

type fakeOracle struct {
	mu      sync.Mutex
	balance *big.Int
	err     error
	calls   int
}

func (f *fakeOracle) GetBalance(context.Context) (*big.Int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return new(big.Int).Set(f.balance), nil
}

func (f *fakeOracle) setBalance(units int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.balance = big.NewInt(units)
	f.err = nil
}

func (f *fakeOracle) setErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *fakeOracle) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeGateway struct {
	mu             sync.Mutex
	validateCalls  int
	createCalls    int
	getCalls       int
	verifyCalls    int
	lastValidated  string
	lastPayload    domain.CreateOrderPayload
	validateErr    error
	createErr      error
	getErr         error
	check          domain.RecipientCheck
	upstream       domain.UpstreamOrder
	upstreamStatus string
}

func (f *fakeGateway) ValidateZora(_ context.Context, username string) (*domain.RecipientCheck, error) {
	return f.validate(username)
}

func (f *fakeGateway) ValidateFarcaster(_ context.Context, username string) (*domain.RecipientCheck, error) {
	return f.validate(username)
}

func (f *fakeGateway) validate(username string) (*domain.RecipientCheck, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.validateCalls++
	f.lastValidated = username
	if f.validateErr != nil {
		return nil, f.validateErr
	}
	out := f.check
	return &out, nil
}

func (f *fakeGateway) CreateOrder(_ context.Context, p domain.CreateOrderPayload) (*domain.UpstreamOrder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	f.lastPayload = p
	if f.createErr != nil {
		return nil, f.createErr
	}
	out := f.upstream
	return &out, nil
}

func (f *fakeGateway) GetOrder(_ context.Context, _ string) (*domain.UpstreamOrder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls++
	if f.getErr != nil {
		return nil, f.getErr
	}
	return &domain.UpstreamOrder{Status: f.upstreamStatus}, nil
}

func (f *fakeGateway) VerifyPayment(_ context.Context, _ string) (*domain.UpstreamOrder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.verifyCalls++
	return &domain.UpstreamOrder{Status: f.upstreamStatus}, nil
}

func (f *fakeGateway) counts() (validate, create, get int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.validateCalls, f.createCalls, f.getCalls
}

type fakeJobLock struct {
	mu         sync.Mutex
	acquireErr error
	acquired   int
	released   int
}

func (f *fakeJobLock) Acquire(context.Context, uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.acquireErr != nil {
		return f.acquireErr
	}
	f.acquired++
	return nil
}

func (f *fakeJobLock) Release(context.Context, uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.released++
	return nil
}

func testVariant() domain.Variant {
	return domain.Variant{
		NGNPerUSDC: decimal.NewFromInt(1600),
		AmountUnit: domain.UnitUSDC,
		FeeMode:    domain.FeeModePercent,
		FeePercent: decimal.RequireFromString("0.10"),
		MinAmount:  decimal.RequireFromString("0.5"),
		MaxAmount:  decimal.NewFromInt(5),
	}
}

func newTestService(repo *fakeOrderRepo, gw *fakeGateway, oracle *fakeOracle, debounce time.Duration) *Service {
	return NewService(
		repo, gw, oracle, testVariant(),
		15*time.Minute, debounce,
		logger.New("test"),
	)
}
