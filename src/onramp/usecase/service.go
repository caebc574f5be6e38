package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/ghostlabs/asap-onramp/src/logger"
	"github.com/ghostlabs/asap-onramp/src/onramp/domain"
)

var _ domain.OnrampUsecase = (*Service)(nil)

type Service struct {
	orderRepo     domain.OrderRepository
	gateway       domain.BackendGateway
	oracle        domain.LiquidityOracle
	variant       domain.Variant
	paymentWindow time.Duration
	liquidity     liquidityCache
	debounce      *debouncer
	logger        *logger.Logger
}

func NewService(
	orderRepo domain.OrderRepository,
	gateway domain.BackendGateway,
	oracle domain.LiquidityOracle,
	variant domain.Variant,
	paymentWindow time.Duration,
	validateDebounce time.Duration,
	logg *logger.Logger,
) *Service {
	return &Service{
		orderRepo:     orderRepo,
		gateway:       gateway,
		oracle:        oracle,
		variant:       variant,
		paymentWindow: paymentWindow,
		debounce:      newDebouncer(validateDebounce),
		logger:        logg,
	}
}

// CreateOrder runs one submission attempt: form validation, a forced
// fresh liquidity fetch, the sufficiency gate, fee computation and a
// single upstream create request. The periodic refresh is never trusted
// for the final gating decision; the fetch here is awaited before the
// order request goes out.
func (s *Service) CreateOrder(ctx context.Context, req domain.OrderRequest) (*domain.Order, error) {
	if err := req.Validate(s.variant); err != nil {
		return nil, err
	}

	if err := s.RefreshLiquidity(ctx); err != nil {
		// verdict degrades to unknown; only an explicit insufficient blocks
		s.logger.Warnf("pre-submission liquidity check unavailable: %v", err)
	}
	if s.LiquidityVerdict(req.Amount) == domain.VerdictInsufficient {
		return nil, domain.ErrInsufficientLiquidity
	}

	q := s.variant.Quote(req.Amount)
	upstream, err := s.gateway.CreateOrder(ctx, domain.CreateOrderPayload{
		ServiceType:   req.ServiceType,
		Username:      req.Username,
		WalletAddress: req.WalletAddress,
		Email:         req.Email,
		AmountUSDC:    q.AmountUSDC,
		FeeUSDC:       q.FeeUSDC,
		AmountNGN:     q.AmountNGN,
		FeeNGN:        q.FeeNGN,
		TotalNGN:      q.TotalNGN,
	})
	if err != nil {
		s.logger.Errorf("CreateOrder upstream err: %v", err)
		return nil, err
	}

	expiresAt := upstream.ExpiresAt
	if expiresAt.IsZero() {
		expiresAt = time.Now().Add(s.paymentWindow)
	}

	va := upstream.VirtualAccount
	order := &domain.Order{
		Status:         domain.StatusFromUpstream(upstream.Status),
		ServiceType:    req.ServiceType,
		Recipient:      req.Recipient(),
		Email:          req.Email,
		AmountUSDC:     q.AmountUSDC,
		FeeUSDC:        q.FeeUSDC,
		AmountNGN:      q.AmountNGN,
		FeeNGN:         q.FeeNGN,
		TotalNGN:       q.TotalNGN,
		UpstreamID:     upstream.OrderID,
		OrderHash:      upstream.OrderHash,
		VirtualAccount: &va,
		ExpiresAt:      expiresAt,
	}
	if upstream.Status == "" {
		order.Status = domain.OrderPending
	}

	saved, err := s.orderRepo.SaveOrder(ctx, order)
	if err != nil {
		return nil, err
	}
	s.logger.Infof("order %d created, upstream id %s", saved.ID, saved.UpstreamID)
	return saved, nil
}

// GetOrder returns the stored order, refreshed from the backend when it is
// not yet terminal. A failed refresh is transient: the stored state is
// served and the next sweep retries.
func (s *Service) GetOrder(ctx context.Context, id uint) (*domain.Order, error) {
	order, err := s.orderRepo.GetOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrOrderNotFound
	}
	if order.Status.Terminal() {
		return order, nil
	}

	upstream, err := s.gateway.GetOrder(ctx, order.UpstreamID)
	if err != nil {
		s.logger.Warnf("order %d status refresh failed: %v", order.ID, err)
		return order, nil
	}
	return s.applyUpstreamStatus(ctx, order, upstream.Status)
}

// VerifyPayment proxies the manual verification call and applies the
// returned status.
func (s *Service) VerifyPayment(ctx context.Context, id uint) (*domain.Order, error) {
	order, err := s.orderRepo.GetOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrOrderNotFound
	}

	upstream, err := s.gateway.VerifyPayment(ctx, order.UpstreamID)
	if err != nil {
		return nil, err
	}
	return s.applyUpstreamStatus(ctx, order, upstream.Status)
}

func (s *Service) applyUpstreamStatus(ctx context.Context, order *domain.Order, upstreamStatus string) (*domain.Order, error) {
	status := domain.StatusFromUpstream(upstreamStatus)
	if status == order.Status {
		return order, nil
	}
	if err := s.orderRepo.UpdateStatus(ctx, order.ID, status); err != nil {
		return nil, err
	}
	order.Status = status
	s.logger.Infof("order %d moved to %s", order.ID, status)
	return order, nil
}

// ValidateRecipient checks a recipient identifier for the given service.
// Calls are debounced per key: a newer call for the same key supersedes a
// pending one, which returns ErrSuperseded without reaching the backend.
func (s *Service) ValidateRecipient(ctx context.Context, key string, service domain.ServiceType, value string) (*domain.RecipientCheck, error) {
	if value == "" {
		return &domain.RecipientCheck{}, nil
	}

	if !s.debounce.wait(ctx, key) {
		return nil, domain.ErrSuperseded
	}

	switch service {
	case domain.ServiceZora:
		return s.checkUpstream(ctx, value, s.gateway.ValidateZora)
	case domain.ServiceFarcaster:
		return s.checkUpstream(ctx, value, s.gateway.ValidateFarcaster)
	case domain.ServiceBaseApp, domain.ServiceWallet:
		// wallet addresses are checked syntactically, no upstream call
		valid := strings.HasPrefix(value, "0x") && len(value) == 42
		return &domain.RecipientCheck{IsValid: valid}, nil
	default:
		return nil, domain.ErrUnknownService
	}
}

func (s *Service) checkUpstream(ctx context.Context, value string, fn func(context.Context, string) (*domain.RecipientCheck, error)) (*domain.RecipientCheck, error) {
	check, err := fn(ctx, value)
	if err != nil {
		// a failed validation call reads as invalid, not as a fault
		s.logger.Warnf("recipient validation failed: %v", err)
		return &domain.RecipientCheck{IsValid: false}, nil
	}
	return check, nil
}
