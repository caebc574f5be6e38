package domain

import (
	"math/big"
	"strings"
	"time"

	"github.com/ghostlabs/asap-onramp/src/units"
	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderPending    OrderStatus = "PENDING"
	OrderProcessing OrderStatus = "PROCESSING"
	OrderCompleted  OrderStatus = "COMPLETED"
	OrderFailed     OrderStatus = "FAILED"
)

// Terminal reports whether the status can never change again; terminal
// orders are excluded from the poll sweep.
func (s OrderStatus) Terminal() bool {
	return s == OrderCompleted || s == OrderFailed
}

// StatusFromUpstream maps a backend-reported status onto the local cycle.
// The backend owns the authoritative value; anything unrecognized is
// treated as still processing.
func StatusFromUpstream(s string) OrderStatus {
	switch strings.ToUpper(s) {
	case "COMPLETED", "CONFIRMED":
		return OrderCompleted
	case "FAILED", "EXPIRED":
		return OrderFailed
	case "PENDING":
		return OrderPending
	default:
		return OrderProcessing
	}
}

type ServiceType string

const (
	ServiceZora      ServiceType = "zora"
	ServiceFarcaster ServiceType = "farcaster"
	ServiceBaseApp   ServiceType = "baseapp"
	ServiceWallet    ServiceType = "wallet"
)

// UsesUsername reports whether the recipient is a handle validated against
// the backend, as opposed to a raw wallet address.
func (s ServiceType) UsesUsername() bool {
	return s == ServiceZora || s == ServiceFarcaster
}

func (s ServiceType) Known() bool {
	switch s {
	case ServiceZora, ServiceFarcaster, ServiceBaseApp, ServiceWallet:
		return true
	}
	return false
}

// Verdict is the tri-state result of the liquidity sufficiency gate.
type Verdict int

const (
	VerdictUnknown Verdict = iota
	VerdictSufficient
	VerdictInsufficient
)

func (v Verdict) String() string {
	switch v {
	case VerdictSufficient:
		return "sufficient"
	case VerdictInsufficient:
		return "insufficient"
	default:
		return "unknown"
	}
}

// VirtualAccount is the bank-account payment target issued per order.
type VirtualAccount struct {
	AccountNumber string          `json:"account_number"`
	BankName      string          `json:"bank_name"`
	AccountName   string          `json:"account_name,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
}

type Order struct {
	ID             uint            `json:"id"`
	Status         OrderStatus     `json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	ServiceType    ServiceType     `json:"service_type"`
	Recipient      string          `json:"recipient"`
	Email          string          `json:"email"`
	AmountUSDC     decimal.Decimal `json:"amount_usdc"`
	FeeUSDC        decimal.Decimal `json:"fee_usdc"`
	AmountNGN      decimal.Decimal `json:"amount_ngn"`
	FeeNGN         decimal.Decimal `json:"fee_ngn"`
	TotalNGN       decimal.Decimal `json:"total_ngn"`
	UpstreamID     string          `json:"upstream_id"`
	OrderHash      string          `json:"order_hash"`
	VirtualAccount *VirtualAccount `json:"virtual_account,omitempty"`
	ExpiresAt      time.Time       `json:"expires_at"`
}

// OrderRequest is a single submission attempt, built transiently per
// attempt and sent at most once.
type OrderRequest struct {
	ServiceType   ServiceType
	Username      string
	WalletAddress string
	Email         string
	Amount        decimal.Decimal // denominated in the variant's amount unit
}

// Recipient returns whichever identifier applies to the selected service.
func (r OrderRequest) Recipient() string {
	if r.ServiceType.UsesUsername() {
		return r.Username
	}
	return r.WalletAddress
}

// Validate applies the pre-flight form checks: a populated recipient for
// the selected service, an amount inside the variant range and a
// syntactically plausible email.
func (r OrderRequest) Validate(v Variant) error {
	if !r.ServiceType.Known() {
		return ErrUnknownService
	}
	if r.Recipient() == "" {
		return ErrMissingRecipient
	}
	if !r.ServiceType.UsesUsername() && !strings.HasPrefix(r.WalletAddress, "0x") {
		return ErrMissingRecipient
	}
	if !v.AmountInRange(r.Amount) {
		return ErrAmountOutOfRange
	}
	if !strings.Contains(r.Email, "@") {
		return ErrInvalidEmail
	}
	return nil
}

// RecipientCheck is the result of a username/address validation.
type RecipientCheck struct {
	IsValid bool   `json:"isValid"`
	Address string `json:"address,omitempty"`
}

// UpstreamOrder is the order descriptor as reported by the backend.
type UpstreamOrder struct {
	OrderID        string
	OrderHash      string
	Status         string
	VirtualAccount VirtualAccount
	USDCAmount     string
	ExpiresAt      time.Time
	ExpiresIn      string
}

// Quote carries the computed amounts for one submission: base and fee in
// both denominations plus the NGN total the user must transfer.
type Quote struct {
	AmountUSDC decimal.Decimal
	FeeUSDC    decimal.Decimal
	AmountNGN  decimal.Decimal
	FeeNGN     decimal.Decimal
	TotalNGN   decimal.Decimal
}

// Variant selects the deployment flavor: which unit the amount field is
// denominated in, the fee policy and the accepted range. The two historic
// deployments (0.5-5 USDC with a 10% fee, 200-1600 NGN with a flat fee)
// are both expressible here without duplicated flow logic.
type Variant struct {
	NGNPerUSDC decimal.Decimal
	AmountUnit string // UnitUSDC or UnitNGN
	FeeMode    string // FeeModePercent or FeeModeFlat
	FeePercent decimal.Decimal
	FeeFlat    decimal.Decimal // NGN
	MinAmount  decimal.Decimal
	MaxAmount  decimal.Decimal
}

const (
	UnitUSDC = "USDC"
	UnitNGN  = "NGN"

	FeeModePercent = "percent"
	FeeModeFlat    = "flat"
)

func (v Variant) AmountInRange(a decimal.Decimal) bool {
	return a.GreaterThanOrEqual(v.MinAmount) && a.LessThanOrEqual(v.MaxAmount)
}

// Quote computes fee and totals for the requested amount. The NGN figures
// are display/settlement values and may carry decimal tails; the on-chain
// comparison never uses them (see RequiredUnits).
func (v Variant) Quote(amount decimal.Decimal) Quote {
	var q Quote
	if v.AmountUnit == UnitNGN {
		q.AmountNGN = amount
		if !v.NGNPerUSDC.IsZero() {
			q.AmountUSDC = amount.Div(v.NGNPerUSDC)
		}
	} else {
		q.AmountUSDC = amount
		q.AmountNGN = units.TokenToFiat(amount, v.NGNPerUSDC)
	}

	if v.FeeMode == FeeModeFlat {
		q.FeeNGN = v.FeeFlat
		if !v.NGNPerUSDC.IsZero() {
			q.FeeUSDC = v.FeeFlat.Div(v.NGNPerUSDC)
		}
	} else {
		q.FeeUSDC = q.AmountUSDC.Mul(v.FeePercent)
		q.FeeNGN = units.TokenToFiat(q.FeeUSDC, v.NGNPerUSDC)
	}

	q.TotalNGN = q.AmountNGN.Add(q.FeeNGN)
	return q
}

// RequiredUnits converts the requested amount into micro-USDC for the
// sufficiency gate. This is the bit-exact path: integer units derived
// from digit strings, comparable to the contract balance without
// floating-point tolerance.
func (v Variant) RequiredUnits(amount decimal.Decimal) *big.Int {
	if v.AmountUnit == UnitNGN {
		return units.FiatToTokenUnits(amount, v.NGNPerUSDC)
	}
	return units.ToUnits(amount.String(), units.USDCDecimals)
}
