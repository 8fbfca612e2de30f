package services_test

import (
	"testing"

	"qrdine_backend/internal/models"
	"qrdine_backend/internal/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBalanceServiceFixture() (services.BalanceService, *fakeBalanceRepo, *fakeNotifier) {
	balances := newFakeBalanceRepo()
	notifier := &fakeNotifier{}
	svc := services.NewBalanceService(balances, &fakeTxRunner{}, notifier, services.BalanceConfig{
		MinAcceptBalance:  decimal.NewFromInt(500),
		LowBalanceWarning: decimal.NewFromInt(50),
		OrderFee:          decimal.NewFromInt(5),
	})
	return svc, balances, notifier
}

// =============================================================================
// LEDGER CREDITS
// =============================================================================

func TestRecharge_AppendsCreditAndUpdatesBalance(t *testing.T) {
	svc, balances, notifier := newBalanceServiceFixture()

	tx, err := svc.Recharge(1, services.RechargeRequest{
		Amount:      decimal.NewFromInt(200),
		Description: "card top-up",
	}, 10)
	require.NoError(t, err)

	assert.Equal(t, models.TransactionRecharge, tx.TransactionType)
	require.NotNil(t, tx.CreatedBy)
	assert.Equal(t, int64(10), *tx.CreatedBy)

	balance, _ := balances.GetBalance(1)
	assert.True(t, balance.Equal(decimal.NewFromInt(200)))
	assert.Contains(t, notifier.eventNames(), "balance_changed")
}

func TestAdminCredit_HasNoUpperBound(t *testing.T) {
	svc, balances, _ := newBalanceServiceFixture()

	_, err := svc.AdminCredit(1, services.AdminCreditRequest{
		Amount: decimal.RequireFromString("1000000.00"),
	}, 99)
	require.NoError(t, err)

	balance, _ := balances.GetBalance(1)
	assert.True(t, balance.Equal(decimal.NewFromInt(1000000)))

	credits := balances.transactionsOfType(models.TransactionAdminCredit)
	require.Len(t, credits, 1)
	require.NotNil(t, credits[0].CreatedBy)
	assert.Equal(t, int64(99), *credits[0].CreatedBy)
}

func TestCredits_RejectNonPositiveAmounts(t *testing.T) {
	svc, balances, _ := newBalanceServiceFixture()

	_, err := svc.Recharge(1, services.RechargeRequest{Amount: decimal.Zero}, 10)
	assert.ErrorIs(t, err, services.ErrValidation)

	_, err = svc.AdminCredit(1, services.AdminCreditRequest{Amount: decimal.NewFromInt(-5)}, 99)
	assert.ErrorIs(t, err, services.ErrValidation)

	assert.Empty(t, balances.transactionsOfType(models.TransactionRecharge))
	assert.Empty(t, balances.transactionsOfType(models.TransactionAdminCredit))
}

// =============================================================================
// STATUS FLAGS
// =============================================================================

func TestGetStatus_GateAndWarningFlags(t *testing.T) {
	svc, balances, _ := newBalanceServiceFixture()

	cases := []struct {
		name       string
		balance    int64
		lowWarning bool
		canAccept  bool
	}{
		{"fresh tenant", 0, true, false},
		{"below warning", 49, true, false},
		{"above warning, below gate", 200, false, false},
		{"exactly at gate", 500, false, true},
		{"comfortably funded", 2000, false, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			balances.setBalance(1, decimal.NewFromInt(tc.balance))
			status, err := svc.GetStatus(1)
			require.NoError(t, err)
			assert.Equal(t, tc.lowWarning, status.IsLowBalance)
			assert.Equal(t, tc.canAccept, status.CanAcceptOrders)
		})
	}
}

func TestCanAcceptOrders_UnknownRestaurant(t *testing.T) {
	svc, _, _ := newBalanceServiceFixture()

	_, err := svc.CanAcceptOrders(404)
	assert.ErrorIs(t, err, services.ErrRestaurantNotFound)
}

// =============================================================================
// LEDGER LISTING
// =============================================================================

func TestListTransactions_NewestFirstAndCapped(t *testing.T) {
	svc, _, _ := newBalanceServiceFixture()

	for i := 0; i < 60; i++ {
		_, err := svc.Recharge(1, services.RechargeRequest{Amount: decimal.NewFromInt(1)}, 10)
		require.NoError(t, err)
	}

	txs, err := svc.ListTransactions(1, 0)
	require.NoError(t, err)
	assert.Len(t, txs, services.DefaultTransactionLimit, "zero limit falls back to the cap")

	txs, err = svc.ListTransactions(1, 10)
	require.NoError(t, err)
	require.Len(t, txs, 10)
	assert.Greater(t, txs[0].ID, txs[9].ID, "newest first")

	txs, err = svc.ListTransactions(1, 500)
	require.NoError(t, err)
	assert.Len(t, txs, services.DefaultTransactionLimit, "oversized limit is clamped")
}
