package domain

import "errors"

// Errors
var (
	ErrUnknownService        = errors.New("unknown service type")
	ErrMissingRecipient      = errors.New("recipient is required for the selected service")
	ErrAmountOutOfRange      = errors.New("amount outside the accepted range")
	ErrInvalidEmail          = errors.New("invalid email address")
	ErrInsufficientLiquidity = errors.New("insufficient on-chain liquidity, contact support")
	ErrOrderNotFound         = errors.New("order not found")
	ErrUpstreamRejected      = errors.New("order creation rejected by backend")
	ErrSuperseded            = errors.New("validation superseded by newer input")
)
