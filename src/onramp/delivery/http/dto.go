package http

import (
	"time"

	"github.com/ghostlabs/asap-onramp/src/onramp/domain"
	"github.com/shopspring/decimal"
)

// CreateOrderRequestBody is the payload to create a new onramp order
// swagger:model CreateOrderRequestBody
type CreateOrderRequestBody struct {
	ServiceType   string `json:"service_type" example:"zora"`
	Username      string `json:"username,omitempty" example:"ghost"`
	WalletAddress string `json:"wallet_address,omitempty" example:"0xabc..."`
	Email         string `json:"email" example:"ghost@example.com"`
	Amount        string `json:"amount" example:"2.5"` // decimal string in the configured unit
}

func (b CreateOrderRequestBody) ToOrderRequest() (domain.OrderRequest, error) {
	amount, err := decimal.NewFromString(b.Amount)
	if err != nil {
		return domain.OrderRequest{}, err
	}
	return domain.OrderRequest{
		ServiceType:   domain.ServiceType(b.ServiceType),
		Username:      b.Username,
		WalletAddress: b.WalletAddress,
		Email:         b.Email,
		Amount:        amount,
	}, nil
}

// VirtualAccountPayload is the bank transfer target for one order
// swagger:model VirtualAccountPayload
type VirtualAccountPayload struct {
	AccountNumber string          `json:"account_number"`
	BankName      string          `json:"bank_name"`
	AccountName   string          `json:"account_name,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
}

// OrderResponse is the gateway's view of one order
// swagger:model OrderResponse
type OrderResponse struct {
	ID             uint                   `json:"id"`
	Status         string                 `json:"status"`
	ServiceType    string                 `json:"service_type"`
	Recipient      string                 `json:"recipient"`
	Email          string                 `json:"email"`
	AmountUSDC     decimal.Decimal        `json:"amount_usdc"`
	FeeUSDC        decimal.Decimal        `json:"fee_usdc"`
	AmountNGN      decimal.Decimal        `json:"amount_ngn"`
	FeeNGN         decimal.Decimal        `json:"fee_ngn"`
	TotalNGN       decimal.Decimal        `json:"total_ngn"`
	UpstreamID     string                 `json:"upstream_id"`
	OrderHash      string                 `json:"order_hash,omitempty"`
	VirtualAccount *VirtualAccountPayload `json:"virtual_account,omitempty"`
	ExpiresAt      time.Time              `json:"expires_at"`
	ExpiresIn      int64                  `json:"expires_in"` // advisory countdown, seconds
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
}

func fromOrderDomain(order *domain.Order) OrderResponse {
	resp := OrderResponse{
		ID:          order.ID,
		Status:      string(order.Status),
		ServiceType: string(order.ServiceType),
		Recipient:   order.Recipient,
		Email:       order.Email,
		AmountUSDC:  order.AmountUSDC,
		FeeUSDC:     order.FeeUSDC,
		AmountNGN:   order.AmountNGN,
		FeeNGN:      order.FeeNGN,
		TotalNGN:    order.TotalNGN,
		UpstreamID:  order.UpstreamID,
		OrderHash:   order.OrderHash,
		ExpiresAt:   order.ExpiresAt,
		CreatedAt:   order.CreatedAt,
		UpdatedAt:   order.UpdatedAt,
	}
	if order.VirtualAccount != nil {
		resp.VirtualAccount = &VirtualAccountPayload{
			AccountNumber: order.VirtualAccount.AccountNumber,
			BankName:      order.VirtualAccount.BankName,
			AccountName:   order.VirtualAccount.AccountName,
			Amount:        order.VirtualAccount.Amount,
		}
	}
	// countdown is display-only; expiry itself is decided by the backend status
	if !order.Status.Terminal() && !order.ExpiresAt.IsZero() {
		if remaining := time.Until(order.ExpiresAt); remaining > 0 {
			resp.ExpiresIn = int64(remaining.Seconds())
		}
	}
	return resp
}

// ValidateResponse reports a recipient check
// swagger:model ValidateResponse
type ValidateResponse struct {
	IsValid bool   `json:"isValid"`
	Address string `json:"address,omitempty"`
}
