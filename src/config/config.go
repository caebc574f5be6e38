package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	ListenAddr  string
	Env         string
	DatabaseURL string
	Backend     BackendConfig
	Chain       ChainConfig
	Pricing     PricingConfig
	Polling     PollingConfig
}

// BackendConfig points at the external order-management API.
type BackendConfig struct {
	BaseURL string
}

// ChainConfig configures the on-chain liquidity read. ContractAddress has
// no safe default: when absent, balance fetches fail with a configuration
// error and the sufficiency verdict stays unknown.
type ChainConfig struct {
	RPCURL          string
	ContractAddress string
}

// PricingConfig selects the deployment variant: which unit the amount
// field is denominated in, the fee policy, and the accepted range.
// One config struct instead of parallel per-variant code paths.
type PricingConfig struct {
	NGNPerUSDC decimal.Decimal // fiat units per token, fixed for the session
	AmountUnit string          // "USDC" or "NGN"
	FeeMode    string          // "percent" or "flat"
	FeePercent decimal.Decimal
	FeeFlat    decimal.Decimal // NGN
	MinAmount  decimal.Decimal
	MaxAmount  decimal.Decimal
}

type PollingConfig struct {
	OrderPollInterval      time.Duration
	BalanceRefreshInterval time.Duration
	PaymentWindow          time.Duration
	ValidateDebounce       time.Duration
}

// LoadFromEnv reads configuration from environment variables with fallback
// defaults. It also loads `.env` if present (for local development).
func LoadFromEnv() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file loaded, relying on environment variables")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("[FATAL] DATABASE_URL is required")
	}

	unit := getEnv("AMOUNT_UNIT", "USDC")
	minDefault, maxDefault := "0.5", "5"
	if unit == "NGN" {
		minDefault, maxDefault = "200", "1600"
	}

	return &Config{
		ListenAddr:  getEnv("LISTEN_ADDR", ":8080"),
		Env:         getEnv("ENV", "dev"),
		DatabaseURL: databaseURL,
		Backend: BackendConfig{
			BaseURL: getEnv("BACKEND_URL", "https://zora-onramp-backend.onrender.com"),
		},
		Chain: ChainConfig{
			RPCURL:          getEnv("RPC_URL", "https://mainnet.base.org"),
			ContractAddress: os.Getenv("CONTRACT_ADDRESS"),
		},
		Pricing: PricingConfig{
			NGNPerUSDC: getDecimal("NGN_TO_USD_RATE", "1600"),
			AmountUnit: unit,
			FeeMode:    getEnv("FEE_MODE", "percent"),
			FeePercent: getDecimal("FEE_PERCENT", "0.10"),
			FeeFlat:    getDecimal("FEE_FLAT", "0"),
			MinAmount:  getDecimal("MIN_AMOUNT", minDefault),
			MaxAmount:  getDecimal("MAX_AMOUNT", maxDefault),
		},
		Polling: PollingConfig{
			OrderPollInterval:      getDuration("ORDER_POLL_INTERVAL", "5s"),
			BalanceRefreshInterval: getDuration("BALANCE_REFRESH_INTERVAL", "30s"),
			PaymentWindow:          getDuration("PAYMENT_WINDOW", "15m"),
			ValidateDebounce:       getDuration("VALIDATE_DEBOUNCE", "500ms"),
		},
	}
}

// helper to get env with default fallback
func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func getDuration(key, fallback string) time.Duration {
	d, err := time.ParseDuration(getEnv(key, fallback))
	if err != nil {
		log.Fatalf("[FATAL] Invalid %s duration: %v", key, err)
	}
	return d
}

func getDecimal(key, fallback string) decimal.Decimal {
	d, err := decimal.NewFromString(getEnv(key, fallback))
	if err != nil {
		log.Fatalf("[FATAL] Invalid %s decimal: %v", key, err)
	}
	return d
}
