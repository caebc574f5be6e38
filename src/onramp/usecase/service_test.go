package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghostlabs/asap-onramp/src/onramp/domain"
)

func zoraRequest(amount string) domain.OrderRequest {
	return domain.OrderRequest{
		ServiceType: domain.ServiceZora,
		Username:    "ghost",
		Email:       "ghost@example.com",
		Amount:      decimal.RequireFromString(amount),
	}
}

func TestCreateOrder_InsufficientLiquidityBlocksSubmission(t *testing.T) {
	oracle := &fakeOracle{}
	oracle.setBalance(1_000_000)
	gw := &fakeGateway{}
	svc := newTestService(newFakeOrderRepo(), gw, oracle, time.Millisecond)

	_, err := svc.CreateOrder(context.Background(), zoraRequest("1.000001"))
	require.ErrorIs(t, err, domain.ErrInsufficientLiquidity)

	_, creates, _ := gw.counts()
	assert.Zero(t, creates, "blocked order must never reach the backend")
}

func TestCreateOrder_FetchesFreshBalanceBeforeSubmitting(t *testing.T) {
	oracle := &fakeOracle{}
	oracle.setBalance(10_000_000)
	gw := &fakeGateway{}
	svc := newTestService(newFakeOrderRepo(), gw, oracle, time.Millisecond)
	require.NoError(t, svc.RefreshLiquidity(context.Background()))

	// liquidity drained after the last periodic refresh
	oracle.setBalance(100)

	_, err := svc.CreateOrder(context.Background(), zoraRequest("1"))
	require.ErrorIs(t, err, domain.ErrInsufficientLiquidity)
	assert.Equal(t, 2, oracle.callCount())

	_, creates, _ := gw.counts()
	assert.Zero(t, creates)
}

func TestCreateOrder_Success(t *testing.T) {
	oracle := &fakeOracle{}
	oracle.setBalance(1_000_000)
	repo := newFakeOrderRepo()
	gw := &fakeGateway{
		upstream: domain.UpstreamOrder{
			OrderID:   "ord_42",
			OrderHash: "0xhash",
			Status:    "PENDING",
			VirtualAccount: domain.VirtualAccount{
				AccountNumber: "0123456789",
				BankName:      "Test Bank",
				Amount:        decimal.NewFromInt(1760),
			},
		},
	}
	svc := newTestService(repo, gw, oracle, time.Millisecond)

	// an amount that needs exactly the available balance
	order, err := svc.CreateOrder(context.Background(), zoraRequest("1"))
	require.NoError(t, err)

	assert.Equal(t, domain.OrderPending, order.Status)
	assert.Equal(t, "ord_42", order.UpstreamID)
	assert.Equal(t, "ghost", order.Recipient)
	require.NotNil(t, order.VirtualAccount)
	assert.Equal(t, "0123456789", order.VirtualAccount.AccountNumber)

	assert.True(t, order.AmountUSDC.Equal(decimal.NewFromInt(1)))
	assert.True(t, order.FeeUSDC.Equal(decimal.RequireFromString("0.1")))
	assert.True(t, order.AmountNGN.Equal(decimal.NewFromInt(1600)))
	assert.True(t, order.FeeNGN.Equal(decimal.NewFromInt(160)))
	assert.True(t, order.TotalNGN.Equal(decimal.NewFromInt(1760)))

	// totals travel upstream with the create call
	assert.True(t, gw.lastPayload.TotalNGN.Equal(decimal.NewFromInt(1760)))

	stored, err := repo.GetOrderByID(context.Background(), order.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, domain.OrderPending, stored.Status)
}

func TestCreateOrder_UnknownVerdictProceeds(t *testing.T) {
	oracle := &fakeOracle{}
	oracle.setErr(errors.New("rpc unreachable"))
	gw := &fakeGateway{upstream: domain.UpstreamOrder{OrderID: "ord_1", Status: "PENDING"}}
	svc := newTestService(newFakeOrderRepo(), gw, oracle, time.Millisecond)

	// only an explicit insufficient blocks; an unreadable balance does not
	order, err := svc.CreateOrder(context.Background(), zoraRequest("1"))
	require.NoError(t, err)
	assert.Equal(t, "ord_1", order.UpstreamID)
}

func TestCreateOrder_ValidationShortCircuits(t *testing.T) {
	oracle := &fakeOracle{}
	oracle.setBalance(10_000_000)
	gw := &fakeGateway{}
	svc := newTestService(newFakeOrderRepo(), gw, oracle, time.Millisecond)

	_, err := svc.CreateOrder(context.Background(), zoraRequest("12"))
	require.ErrorIs(t, err, domain.ErrAmountOutOfRange)

	assert.Zero(t, oracle.callCount())
	_, creates, _ := gw.counts()
	assert.Zero(t, creates)
}

func TestCreateOrder_UpstreamErrorNotPersisted(t *testing.T) {
	oracle := &fakeOracle{}
	oracle.setBalance(10_000_000)
	repo := newFakeOrderRepo()
	gw := &fakeGateway{createErr: domain.ErrUpstreamRejected}
	svc := newTestService(repo, gw, oracle, time.Millisecond)

	_, err := svc.CreateOrder(context.Background(), zoraRequest("1"))
	require.ErrorIs(t, err, domain.ErrUpstreamRejected)

	orders, err := repo.GetOrdersByStatuses(context.Background(),
		domain.OrderPending, domain.OrderProcessing, domain.OrderCompleted, domain.OrderFailed)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestCreateOrder_ExpiryFallback(t *testing.T) {
	oracle := &fakeOracle{}
	oracle.setBalance(10_000_000)
	gw := &fakeGateway{upstream: domain.UpstreamOrder{OrderID: "ord_1", Status: "PENDING"}}
	svc := newTestService(newFakeOrderRepo(), gw, oracle, time.Millisecond)

	order, err := svc.CreateOrder(context.Background(), zoraRequest("1"))
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), order.ExpiresAt, 5*time.Second)
}

func TestGetOrder_TerminalServedFromStore(t *testing.T) {
	repo := newFakeOrderRepo()
	gw := &fakeGateway{upstreamStatus: "PENDING"}
	svc := newTestService(repo, gw, &fakeOracle{}, time.Millisecond)

	saved, err := repo.SaveOrder(context.Background(), &domain.Order{
		Status: domain.OrderCompleted, UpstreamID: "ord_1",
	})
	require.NoError(t, err)

	order, err := svc.GetOrder(context.Background(), saved.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderCompleted, order.Status)

	_, _, gets := gw.counts()
	assert.Zero(t, gets, "terminal orders are never re-polled")
}

func TestGetOrder_RefreshesOpenOrder(t *testing.T) {
	repo := newFakeOrderRepo()
	gw := &fakeGateway{upstreamStatus: "CONFIRMED"}
	svc := newTestService(repo, gw, &fakeOracle{}, time.Millisecond)

	saved, err := repo.SaveOrder(context.Background(), &domain.Order{
		Status: domain.OrderPending, UpstreamID: "ord_1",
	})
	require.NoError(t, err)

	order, err := svc.GetOrder(context.Background(), saved.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderCompleted, order.Status)

	stored, _ := repo.GetOrderByID(context.Background(), saved.ID)
	assert.Equal(t, domain.OrderCompleted, stored.Status)
}

func TestGetOrder_RefreshFailureServesStored(t *testing.T) {
	repo := newFakeOrderRepo()
	gw := &fakeGateway{getErr: errors.New("backend down")}
	svc := newTestService(repo, gw, &fakeOracle{}, time.Millisecond)

	saved, err := repo.SaveOrder(context.Background(), &domain.Order{
		Status: domain.OrderProcessing, UpstreamID: "ord_1",
	})
	require.NoError(t, err)

	order, err := svc.GetOrder(context.Background(), saved.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderProcessing, order.Status)
}

func TestGetOrder_NotFound(t *testing.T) {
	svc := newTestService(newFakeOrderRepo(), &fakeGateway{}, &fakeOracle{}, time.Millisecond)

	_, err := svc.GetOrder(context.Background(), 999)
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestVerifyPayment_AppliesReportedStatus(t *testing.T) {
	repo := newFakeOrderRepo()
	gw := &fakeGateway{upstreamStatus: "COMPLETED"}
	svc := newTestService(repo, gw, &fakeOracle{}, time.Millisecond)

	saved, err := repo.SaveOrder(context.Background(), &domain.Order{
		Status: domain.OrderPending, UpstreamID: "ord_1",
	})
	require.NoError(t, err)

	order, err := svc.VerifyPayment(context.Background(), saved.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderCompleted, order.Status)
}

func TestValidateRecipient_EmptyValueSkipsEverything(t *testing.T) {
	gw := &fakeGateway{}
	svc := newTestService(newFakeOrderRepo(), gw, &fakeOracle{}, time.Millisecond)

	check, err := svc.ValidateRecipient(context.Background(), "c1:zora", domain.ServiceZora, "")
	require.NoError(t, err)
	assert.False(t, check.IsValid)

	validates, _, _ := gw.counts()
	assert.Zero(t, validates)
}

func TestValidateRecipient_WalletSyntacticOnly(t *testing.T) {
	gw := &fakeGateway{}
	svc := newTestService(newFakeOrderRepo(), gw, &fakeOracle{}, time.Millisecond)

	check, err := svc.ValidateRecipient(context.Background(), "c1:wallet", domain.ServiceWallet,
		"0x52908400098527886E0F7030069857D2E4169EE7")
	require.NoError(t, err)
	assert.True(t, check.IsValid)

	check, err = svc.ValidateRecipient(context.Background(), "c1:wallet", domain.ServiceWallet, "0xshort")
	require.NoError(t, err)
	assert.False(t, check.IsValid)

	validates, _, _ := gw.counts()
	assert.Zero(t, validates, "address checks never call the backend")
}

func TestValidateRecipient_UpstreamErrorReadsInvalid(t *testing.T) {
	gw := &fakeGateway{validateErr: errors.New("backend down")}
	svc := newTestService(newFakeOrderRepo(), gw, &fakeOracle{}, time.Millisecond)

	check, err := svc.ValidateRecipient(context.Background(), "c1:zora", domain.ServiceZora, "ghost")
	require.NoError(t, err)
	assert.False(t, check.IsValid)
}

func TestValidateRecipient_UnknownService(t *testing.T) {
	svc := newTestService(newFakeOrderRepo(), &fakeGateway{}, &fakeOracle{}, time.Millisecond)

	_, err := svc.ValidateRecipient(context.Background(), "c1:x", domain.ServiceType("paypal"), "ghost")
	assert.ErrorIs(t, err, domain.ErrUnknownService)
}
