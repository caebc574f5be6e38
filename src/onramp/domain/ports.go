package domain

import (
	"context"
	"math/big"

	"github.com/shopspring/decimal"
)

type OnrampUsecase interface {
	CreateOrder(ctx context.Context, req OrderRequest) (*Order, error)
	GetOrder(ctx context.Context, id uint) (*Order, error)
	VerifyPayment(ctx context.Context, id uint) (*Order, error)
	ValidateRecipient(ctx context.Context, key string, service ServiceType, username string) (*RecipientCheck, error)
	LiquidityVerdict(amount decimal.Decimal) Verdict
	RefreshLiquidity(ctx context.Context) error
	PollOpenOrders(ctx context.Context) error
}

type OrderRepository interface {
	SaveOrder(ctx context.Context, o *Order) (*Order, error)
	GetOrderByID(ctx context.Context, id uint) (*Order, error)
	GetOrdersByStatuses(ctx context.Context, statuses ...OrderStatus) ([]Order, error)
	UpdateStatus(ctx context.Context, id uint, status OrderStatus) error
}

// LiquidityOracle reads the admin liquidity balance from the chain, in
// micro-USDC. A missing contract address surfaces as an error here, not
// as a default address.
type LiquidityOracle interface {
	GetBalance(ctx context.Context) (*big.Int, error)
}

// BackendGateway is the external order-management API.
type BackendGateway interface {
	ValidateZora(ctx context.Context, username string) (*RecipientCheck, error)
	ValidateFarcaster(ctx context.Context, username string) (*RecipientCheck, error)
	CreateOrder(ctx context.Context, p CreateOrderPayload) (*UpstreamOrder, error)
	GetOrder(ctx context.Context, upstreamID string) (*UpstreamOrder, error)
	VerifyPayment(ctx context.Context, upstreamID string) (*UpstreamOrder, error)
}

// CreateOrderPayload is the wire payload for order creation, amounts in
// both denominations the way the backend expects them.
type CreateOrderPayload struct {
	ServiceType   ServiceType
	Username      string
	WalletAddress string
	Email         string
	AmountUSDC    decimal.Decimal
	FeeUSDC       decimal.Decimal
	AmountNGN     decimal.Decimal
	FeeNGN        decimal.Decimal
	TotalNGN      decimal.Decimal
}
