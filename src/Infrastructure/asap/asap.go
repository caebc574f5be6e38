// Package asap implements a strongly-typed HTTP client for the onramp
// backend REST API.
//
// Coverage:
// - Zora / Farcaster handle validation
// - Order creation
// - Order status lookup
// - Manual payment verification
//
// Notes:
// - Order endpoints follow a {success, order} envelope; success != true is
//   surfaced as an error, never as a half-parsed order
// - All failures are plain errors for the caller to convert into local
//   state; this client performs no retries
package asap

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/ghostlabs/asap-onramp/src/onramp/domain"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// Default HTTP timeouts tuned for server-side usage
var DefaultHTTPClient = &http.Client{Timeout: 30 * time.Second}

type Client struct {
	BaseURL   *url.URL
	HTTP      *http.Client
	UserAgent string
	Logger    zerolog.Logger
}

// NewClient constructs a new API client for the given backend base URL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("base url is required")
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}

	c := &Client{
		BaseURL:   u,
		HTTP:      DefaultHTTPClient,
		UserAgent: "asap-onramp/1.0",
		Logger:    log.Logger,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Option functional options
type Option func(*Client)

func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.HTTP = h } }
func WithUserAgent(ua string) Option       { return func(c *Client) { c.UserAgent = ua } }
func WithLogger(l zerolog.Logger) Option   { return func(c *Client) { c.Logger = l } }

// validateResponse mirrors the validate endpoints' body.
type validateResponse struct {
	IsValid bool   `json:"isValid"`
	Address string `json:"address,omitempty"`
}

// orderEnvelope wraps every order endpoint response.
type orderEnvelope struct {
	Success bool      `json:"success"`
	Order   orderBody `json:"order"`
}

type orderBody struct {
	OrderID        string             `json:"orderId"`
	OrderHash      string             `json:"orderHash"`
	Status         string             `json:"status"`
	VirtualAccount virtualAccountBody `json:"virtualAccount"`
	USDCAmount     string             `json:"usdcAmount"`
	ExpiresAt      string             `json:"expiresAt"`
	ExpiresIn      string             `json:"expiresIn"`
}

type virtualAccountBody struct {
	AccountNumber string          `json:"accountNumber"`
	BankName      string          `json:"bankName"`
	AccountName   string          `json:"accountName,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
}

// createOrderBody is the order-creation payload, amounts in both
// denominations the way the backend expects them.
type createOrderBody struct {
	ServiceType   string          `json:"serviceType"`
	AmountUSDC    decimal.Decimal `json:"amountUSDC"`
	FeeUSDC       decimal.Decimal `json:"feeUSDC"`
	AmountNGN     decimal.Decimal `json:"amountNGN"`
	FeeNGN        decimal.Decimal `json:"feeNGN"`
	TotalNGN      decimal.Decimal `json:"totalNGN"`
	Email         string          `json:"email"`
	Username      string          `json:"username,omitempty"`
	WalletAddress string          `json:"walletAddress,omitempty"`
}

// ValidateZora checks a Zora handle and may return the resolved address.
func (c *Client) ValidateZora(ctx context.Context, username string) (*domain.RecipientCheck, error) {
	var out validateResponse
	p := path.Join("/api/zora/validate", url.PathEscape(username))
	if err := c.do(ctx, http.MethodGet, p, nil, &out); err != nil {
		return nil, err
	}
	return &domain.RecipientCheck{IsValid: out.IsValid, Address: out.Address}, nil
}

// ValidateFarcaster checks a Farcaster handle.
func (c *Client) ValidateFarcaster(ctx context.Context, username string) (*domain.RecipientCheck, error) {
	var out validateResponse
	p := path.Join("/api/farcaster/validate", url.PathEscape(username))
	if err := c.do(ctx, http.MethodGet, p, nil, &out); err != nil {
		return nil, err
	}
	return &domain.RecipientCheck{IsValid: out.IsValid}, nil
}

// CreateOrder submits one order-creation request. No retry on failure.
func (c *Client) CreateOrder(ctx context.Context, p domain.CreateOrderPayload) (*domain.UpstreamOrder, error) {
	body := createOrderBody{
		ServiceType: string(p.ServiceType),
		AmountUSDC:  p.AmountUSDC,
		FeeUSDC:     p.FeeUSDC,
		AmountNGN:   p.AmountNGN,
		FeeNGN:      p.FeeNGN,
		TotalNGN:    p.TotalNGN,
		Email:       p.Email,
	}
	if p.ServiceType.UsesUsername() {
		body.Username = p.Username
	} else {
		body.WalletAddress = p.WalletAddress
	}

	var env orderEnvelope
	if err := c.do(ctx, http.MethodPost, "/api/orders/create", body, &env); err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, domain.ErrUpstreamRejected
	}
	return toUpstreamOrder(env.Order), nil
}

// GetOrder polls the backend for the current order status.
func (c *Client) GetOrder(ctx context.Context, upstreamID string) (*domain.UpstreamOrder, error) {
	return c.orderCall(ctx, http.MethodGet, path.Join("/api/orders", url.PathEscape(upstreamID)))
}

// VerifyPayment asks the backend to verify the payment immediately.
func (c *Client) VerifyPayment(ctx context.Context, upstreamID string) (*domain.UpstreamOrder, error) {
	return c.orderCall(ctx, http.MethodPost, path.Join("/api/orders", url.PathEscape(upstreamID), "verify-payment"))
}

func (c *Client) orderCall(ctx context.Context, method, p string) (*domain.UpstreamOrder, error) {
	var env orderEnvelope
	if err := c.do(ctx, method, p, nil, &env); err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, fmt.Errorf("backend reported failure for %s", p)
	}
	return toUpstreamOrder(env.Order), nil
}

func toUpstreamOrder(o orderBody) *domain.UpstreamOrder {
	// expiry is informational; a malformed timestamp degrades to zero time
	expiresAt, _ := time.Parse(time.RFC3339, o.ExpiresAt)
	return &domain.UpstreamOrder{
		OrderID:   o.OrderID,
		OrderHash: o.OrderHash,
		Status:    o.Status,
		VirtualAccount: domain.VirtualAccount{
			AccountNumber: o.VirtualAccount.AccountNumber,
			BankName:      o.VirtualAccount.BankName,
			AccountName:   o.VirtualAccount.AccountName,
			Amount:        o.VirtualAccount.Amount,
		},
		USDCAmount: o.USDCAmount,
		ExpiresAt:  expiresAt,
		ExpiresIn:  o.ExpiresIn,
	}
}

func (c *Client) do(ctx context.Context, method, p string, body, out any) error {
	u := *c.BaseURL
	u.Path = path.Join(u.Path, p)

	var r io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		r = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), r)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	start := time.Now()
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("http do: %w", err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}

	c.Logger.Info().
		Str("method", method).
		Str("url", u.String()).
		Int("status", resp.StatusCode).
		Str("duration", time.Since(start).String()).
		Bytes("response", truncate(b, 2048)).
		Msg("backend response")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("http error %d: %s", resp.StatusCode, string(truncate(b, 512)))
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}

func truncate(b []byte, max int) []byte {
	if len(b) > max {
		return b[:max]
	}
	return b
}
