package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestLoadFromEnv_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/onramp_test")

	cfg := LoadFromEnv()

	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, "https://zora-onramp-backend.onrender.com", cfg.Backend.BaseURL)
	assert.Equal(t, "https://mainnet.base.org", cfg.Chain.RPCURL)
	assert.Empty(t, cfg.Chain.ContractAddress)

	assert.Equal(t, "USDC", cfg.Pricing.AmountUnit)
	assert.Equal(t, "percent", cfg.Pricing.FeeMode)
	assert.True(t, cfg.Pricing.NGNPerUSDC.Equal(decimal.NewFromInt(1600)))
	assert.True(t, cfg.Pricing.FeePercent.Equal(decimal.RequireFromString("0.10")))
	assert.True(t, cfg.Pricing.MinAmount.Equal(decimal.RequireFromString("0.5")))
	assert.True(t, cfg.Pricing.MaxAmount.Equal(decimal.NewFromInt(5)))

	assert.Equal(t, 5*time.Second, cfg.Polling.OrderPollInterval)
	assert.Equal(t, 30*time.Second, cfg.Polling.BalanceRefreshInterval)
	assert.Equal(t, 15*time.Minute, cfg.Polling.PaymentWindow)
	assert.Equal(t, 500*time.Millisecond, cfg.Polling.ValidateDebounce)
}

func TestLoadFromEnv_NGNVariant(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/onramp_test")
	t.Setenv("AMOUNT_UNIT", "NGN")
	t.Setenv("FEE_MODE", "flat")
	t.Setenv("FEE_FLAT", "100")

	cfg := LoadFromEnv()

	assert.Equal(t, "NGN", cfg.Pricing.AmountUnit)
	assert.Equal(t, "flat", cfg.Pricing.FeeMode)
	assert.True(t, cfg.Pricing.FeeFlat.Equal(decimal.NewFromInt(100)))

	// the range defaults track the amount unit
	assert.True(t, cfg.Pricing.MinAmount.Equal(decimal.NewFromInt(200)))
	assert.True(t, cfg.Pricing.MaxAmount.Equal(decimal.NewFromInt(1600)))
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/onramp_test")
	t.Setenv("LISTEN_ADDR", ":9090")
	t.Setenv("ENV", "production")
	t.Setenv("NGN_TO_USD_RATE", "1550")
	t.Setenv("ORDER_POLL_INTERVAL", "10s")
	t.Setenv("CONTRACT_ADDRESS", "0x52908400098527886E0F7030069857D2E4169EE7")

	cfg := LoadFromEnv()

	assert.Equal(t, ":9090", cfg.ListenAddr)
	assert.Equal(t, "production", cfg.Env)
	assert.True(t, cfg.Pricing.NGNPerUSDC.Equal(decimal.NewFromInt(1550)))
	assert.Equal(t, 10*time.Second, cfg.Polling.OrderPollInterval)
	assert.Equal(t, "0x52908400098527886E0F7030069857D2E4169EE7", cfg.Chain.ContractAddress)
}
