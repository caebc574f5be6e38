package usecase

import (
	"context"
	"math/big"
	"sync"

	"github.com/ghostlabs/asap-onramp/src/onramp/domain"
	"github.com/shopspring/decimal"
)

// liquidityCache holds the most recently fetched contract balance in
// micro-USDC. nil means unknown: nothing fetched yet, or the last fetch
// failed. A failed fetch always clears the cache so the gate never runs
// on a value known to be stale.
type liquidityCache struct {
	mu      sync.RWMutex
	balance *big.Int
}

func (c *liquidityCache) set(b *big.Int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.balance = new(big.Int).Set(b)
}

func (c *liquidityCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.balance = nil
}

func (c *liquidityCache) get() *big.Int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.balance == nil {
		return nil
	}
	return new(big.Int).Set(c.balance)
}

// RefreshLiquidity fetches the contract balance and replaces the cache.
// Any failure, including a missing contract address, clears the cache to
// unknown.
func (s *Service) RefreshLiquidity(ctx context.Context) error {
	balance, err := s.oracle.GetBalance(ctx)
	if err != nil {
		s.liquidity.clear()
		s.logger.Errorf("liquidity refresh failed: %v", err)
		return err
	}
	s.liquidity.set(balance)
	s.logger.Debugf("liquidity refreshed: %s units", balance.String())
	return nil
}

// LiquidityVerdict classifies the requested amount against the cached
// balance: unknown when no balance is cached, otherwise an integer
// comparison of required vs available micro-USDC.
func (s *Service) LiquidityVerdict(amount decimal.Decimal) domain.Verdict {
	available := s.liquidity.get()
	if available == nil {
		return domain.VerdictUnknown
	}
	required := s.variant.RequiredUnits(amount)
	if required.Cmp(available) <= 0 {
		return domain.VerdictSufficient
	}
	return domain.VerdictInsufficient
}
