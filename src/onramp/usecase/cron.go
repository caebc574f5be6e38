package usecase

import (
	"context"
	"fmt"

	"github.com/ghostlabs/asap-onramp/src/config"
	joblock_adapter "github.com/ghostlabs/asap-onramp/src/onramp/adapter/joblock"
	"github.com/ghostlabs/asap-onramp/src/onramp/domain"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

var (
	OpenOrdersSweepID   = uuid.MustParse("8f6cfa50-41de-4f31-9ab1-2d94c70d11a0")
	LiquidityRefreshID  = uuid.MustParse("8f6cfa50-41de-4f31-9ab1-2d94c70d11a1")
)

// NewCronService registers the two repeating jobs: the open-order status
// sweep and the liquidity refresh. Both run under a job lock so restarts
// or multiple instances never poll the same work twice. Stopping the cron
// runner releases every repeating task with it.
func NewCronService(c *cron.Cron, s domain.OnrampUsecase, ja joblock_adapter.JobLockAdapter, polling config.PollingConfig) {
	c.AddFunc(fmt.Sprintf("@every %s", polling.OrderPollInterval), func() {
		handleOpenOrdersSweep(context.Background(), s, ja)
	})
	c.AddFunc(fmt.Sprintf("@every %s", polling.BalanceRefreshInterval), func() {
		handleLiquidityRefresh(context.Background(), s, ja)
	})
}

func handleOpenOrdersSweep(ctx context.Context, s domain.OnrampUsecase, ja joblock_adapter.JobLockAdapter) {
	if err := ja.Acquire(ctx, OpenOrdersSweepID); err != nil {
		return
	}
	defer ja.Release(ctx, OpenOrdersSweepID)

	s.PollOpenOrders(ctx)
}

func handleLiquidityRefresh(ctx context.Context, s domain.OnrampUsecase, ja joblock_adapter.JobLockAdapter) {
	if err := ja.Acquire(ctx, LiquidityRefreshID); err != nil {
		return
	}
	defer ja.Release(ctx, LiquidityRefreshID)

	s.RefreshLiquidity(ctx)
}

// PollOpenOrders polls the backend for every order still in flight and
// applies the reported status. Terminal orders are not in the scan set, so
// polling for an order stops for good the moment it completes or fails.
// Poll errors are transient: the row is left untouched for the next sweep.
func (s *Service) PollOpenOrders(ctx context.Context) error {
	orders, err := s.orderRepo.GetOrdersByStatuses(ctx, domain.OrderPending, domain.OrderProcessing)
	if err != nil {
		return err
	}

	for _, o := range orders {
		order := o
		upstream, err := s.gateway.GetOrder(ctx, order.UpstreamID)
		if err != nil {
			s.logger.Warnf("order %d poll failed: %v", order.ID, err)
			continue
		}
		if _, err := s.applyUpstreamStatus(ctx, &order, upstream.Status); err != nil {
			s.logger.Errorf("order %d status update failed: %v", order.ID, err)
		}
	}
	return nil
}
