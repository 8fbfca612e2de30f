package services_test

import (
	"sync"
	"testing"

	"qrdine_backend/internal/models"
	"qrdine_backend/internal/services"
	"qrdine_backend/internal/session"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// TEST SETUP
// =============================================================================

type orderServiceFixture struct {
	service     services.OrderService
	orders      *fakeOrderRepo
	menu        *fakeMenuRepo
	balances    *fakeBalanceRepo
	restaurants *fakeRestaurantRepo
	notifier    *fakeNotifier
}

func defaultBalanceConfig() services.BalanceConfig {
	return services.BalanceConfig{
		MinAcceptBalance:  decimal.NewFromInt(500),
		LowBalanceWarning: decimal.NewFromInt(50),
		OrderFee:          decimal.NewFromInt(5),
	}
}

func newOrderServiceFixture(cfg services.BalanceConfig) *orderServiceFixture {
	f := &orderServiceFixture{
		orders:   newFakeOrderRepo(),
		menu:     newFakeMenuRepo(),
		balances: newFakeBalanceRepo(),
		notifier: &fakeNotifier{},
	}
	f.restaurants = newFakeRestaurantRepo(
		models.Restaurant{ID: 1, OwnerID: 10, Name: "Demo Bistro", Slug: "demo-bistro", Currency: "USD", IsActive: true},
		models.Restaurant{ID: 2, OwnerID: 11, Name: "Closed Corner", Slug: "closed-corner", Currency: "USD", IsActive: false},
	)
	tables := newFakeTableRepo(
		models.RestaurantTable{ID: 7, RestaurantID: 1, Name: "Table 7", QRToken: "tok-7"},
		models.RestaurantTable{ID: 9, RestaurantID: 2, Name: "Table 9", QRToken: "tok-9"},
	)
	f.menu.addItem(101, 1, "Margherita", "12.50", true)
	f.menu.addItem(102, 1, "Lemonade", "3.25", true)
	f.menu.addItem(103, 1, "Off Menu Special", "20.00", false)

	f.service = services.NewOrderService(
		f.orders, f.menu, f.balances, f.restaurants, tables,
		&fakeTxRunner{}, f.notifier, cfg,
	)
	return f
}

func orderRequest(items ...services.CreateOrderItemRequest) services.CreateOrderRequest {
	return services.CreateOrderRequest{Items: items}
}

// =============================================================================
// ORDER CREATION AND THE ACCEPTANCE GATE
// =============================================================================

func TestCreateOrder_ComputesTotalFromServerPrices(t *testing.T) {
	f := newOrderServiceFixture(defaultBalanceConfig())
	f.balances.setBalance(1, decimal.NewFromInt(600))

	order, err := f.service.CreateOrder(1, orderRequest(
		services.CreateOrderItemRequest{MenuItemID: 101, Quantity: 2}, // 25.00
		services.CreateOrderItemRequest{MenuItemID: 102, Quantity: 1}, // 3.25
	))
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("28.25")),
		"total should come from the live menu prices, got %s", order.TotalAmount)
	require.Len(t, order.OrderItems, 2)
	assert.Equal(t, "Margherita", order.OrderItems[0].Name)
	assert.True(t, order.OrderItems[0].Price.Equal(decimal.RequireFromString("12.50")))
}

func TestCreateOrder_DeductsPerOrderFee(t *testing.T) {
	f := newOrderServiceFixture(defaultBalanceConfig())
	f.balances.setBalance(1, decimal.NewFromInt(600))

	_, err := f.service.CreateOrder(1, orderRequest(
		services.CreateOrderItemRequest{MenuItemID: 101, Quantity: 1},
	))
	require.NoError(t, err)

	balance, _ := f.balances.GetBalance(1)
	assert.True(t, balance.Equal(decimal.NewFromInt(595)), "fee should be debited, got %s", balance)

	deductions := f.balances.transactionsOfType(models.TransactionOrderDeduction)
	require.Len(t, deductions, 1)
	assert.True(t, deductions[0].Amount.Equal(decimal.NewFromInt(-5)))
	assert.Nil(t, deductions[0].CreatedBy, "order deductions are system-initiated")
}

func TestCreateOrder_RejectedWhenBalanceBelowThreshold(t *testing.T) {
	f := newOrderServiceFixture(defaultBalanceConfig())
	f.balances.setBalance(1, decimal.NewFromInt(499))

	_, err := f.service.CreateOrder(1, orderRequest(
		services.CreateOrderItemRequest{MenuItemID: 101, Quantity: 1},
	))
	require.Error(t, err)
	assert.ErrorIs(t, err, services.ErrOrderRejected)

	var rejected *services.OrderRejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, services.RejectLowBalance, rejected.Reason)

	// Nothing persisted, nothing debited.
	_, total, _ := f.orders.GetOrders(models.OrderFilters{})
	assert.Zero(t, total)
	balance, _ := f.balances.GetBalance(1)
	assert.True(t, balance.Equal(decimal.NewFromInt(499)))
}

func TestCreateOrder_BalanceExactlyAtThresholdIsAccepted(t *testing.T) {
	f := newOrderServiceFixture(defaultBalanceConfig())
	f.balances.setBalance(1, decimal.NewFromInt(500))

	_, err := f.service.CreateOrder(1, orderRequest(
		services.CreateOrderItemRequest{MenuItemID: 101, Quantity: 1},
	))
	assert.NoError(t, err, "gate comparison is >=, not >")
}

func TestCreateOrder_RejectedWhenRestaurantInactive(t *testing.T) {
	f := newOrderServiceFixture(defaultBalanceConfig())
	f.balances.setBalance(2, decimal.NewFromInt(10000))

	_, err := f.service.CreateOrder(2, orderRequest(
		services.CreateOrderItemRequest{MenuItemID: 101, Quantity: 1},
	))
	require.Error(t, err)

	var rejected *services.OrderRejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, services.RejectInactive, rejected.Reason, "deactivation overrides any balance")
}

func TestCreateOrder_UnavailableItemRejected(t *testing.T) {
	f := newOrderServiceFixture(defaultBalanceConfig())
	f.balances.setBalance(1, decimal.NewFromInt(600))

	_, err := f.service.CreateOrder(1, orderRequest(
		services.CreateOrderItemRequest{MenuItemID: 103, Quantity: 1},
	))
	assert.ErrorIs(t, err, services.ErrMenuItemNotFound)
}

func TestCreateOrder_EmptyAndInvalidInput(t *testing.T) {
	f := newOrderServiceFixture(defaultBalanceConfig())
	f.balances.setBalance(1, decimal.NewFromInt(600))

	_, err := f.service.CreateOrder(1, orderRequest())
	assert.ErrorIs(t, err, services.ErrValidation, "empty order")

	_, err = f.service.CreateOrder(1, orderRequest(
		services.CreateOrderItemRequest{MenuItemID: 101, Quantity: 0},
	))
	assert.ErrorIs(t, err, services.ErrValidation, "zero quantity")
}

func TestCreateOrder_TableMustBelongToRestaurant(t *testing.T) {
	f := newOrderServiceFixture(defaultBalanceConfig())
	f.balances.setBalance(1, decimal.NewFromInt(600))

	foreignTable := int64(9) // belongs to restaurant 2
	req := orderRequest(services.CreateOrderItemRequest{MenuItemID: 101, Quantity: 1})
	req.TableID = &foreignTable

	_, err := f.service.CreateOrder(1, req)
	assert.ErrorIs(t, err, services.ErrUnknownTable)
}

func TestCreateOrder_ZeroFeeSkipsDeduction(t *testing.T) {
	cfg := defaultBalanceConfig()
	cfg.OrderFee = decimal.Zero
	f := newOrderServiceFixture(cfg)
	f.balances.setBalance(1, decimal.NewFromInt(600))

	_, err := f.service.CreateOrder(1, orderRequest(
		services.CreateOrderItemRequest{MenuItemID: 101, Quantity: 1},
	))
	require.NoError(t, err)
	assert.Empty(t, f.balances.transactionsOfType(models.TransactionOrderDeduction))
}

// Two concurrent orders against a balance that supports exactly one: the gate
// check and the fee deduction share one serialized transaction, so only one
// may pass.
func TestCreateOrder_ConcurrentOrdersCannotBothPassTheGate(t *testing.T) {
	cfg := services.BalanceConfig{
		MinAcceptBalance:  decimal.NewFromInt(500),
		LowBalanceWarning: decimal.NewFromInt(50),
		OrderFee:          decimal.NewFromInt(5),
	}
	f := newOrderServiceFixture(cfg)
	// 503: first order passes and leaves 498, which is below the threshold.
	f.balances.setBalance(1, decimal.NewFromInt(503))

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = f.service.CreateOrder(1, orderRequest(
				services.CreateOrderItemRequest{MenuItemID: 102, Quantity: 1},
			))
		}(i)
	}
	wg.Wait()

	succeeded, rejected := 0, 0
	for _, err := range results {
		switch {
		case err == nil:
			succeeded++
		case assert.ErrorIs(t, err, services.ErrOrderRejected):
			rejected++
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, rejected)

	balance, _ := f.balances.GetBalance(1)
	assert.True(t, balance.Equal(decimal.NewFromInt(498)), "exactly one fee debited, got %s", balance)
}

// =============================================================================
// STATUS TRANSITIONS
// =============================================================================

func TestUpdateStatus_KitchenFlow(t *testing.T) {
	f := newOrderServiceFixture(defaultBalanceConfig())
	f.balances.setBalance(1, decimal.NewFromInt(600))
	order, err := f.service.CreateOrder(1, orderRequest(
		services.CreateOrderItemRequest{MenuItemID: 101, Quantity: 1},
	))
	require.NoError(t, err)

	for _, next := range []string{"preparing", "ready", "served"} {
		order, err = f.service.UpdateStatus(order.ID, 1, services.UpdateOrderStatusRequest{Status: next})
		require.NoError(t, err, "transition to %s", next)
		assert.Equal(t, models.OrderStatus(next), order.Status)
	}
}

func TestUpdateStatus_TerminalStatesAdmitNothing(t *testing.T) {
	f := newOrderServiceFixture(defaultBalanceConfig())
	f.orders.seedOrder(models.Order{ID: 50, RestaurantID: 1, Status: models.OrderStatusServed})
	f.orders.seedOrder(models.Order{ID: 51, RestaurantID: 1, Status: models.OrderStatusCancelled})

	_, err := f.service.UpdateStatus(50, 1, services.UpdateOrderStatusRequest{Status: "cancelled"})
	assert.ErrorIs(t, err, services.ErrInvalidTransition, "served is terminal")

	_, err = f.service.UpdateStatus(51, 1, services.UpdateOrderStatusRequest{Status: "pending"})
	assert.ErrorIs(t, err, services.ErrInvalidTransition, "cancelled orders cannot be revived")
}

func TestUpdateStatus_UnknownStatusAndWrongTenant(t *testing.T) {
	f := newOrderServiceFixture(defaultBalanceConfig())
	f.orders.seedOrder(models.Order{ID: 60, RestaurantID: 1, Status: models.OrderStatusPending})

	_, err := f.service.UpdateStatus(60, 1, services.UpdateOrderStatusRequest{Status: "shipped"})
	assert.ErrorIs(t, err, services.ErrValidation)

	// A different restaurant gets the same answer as a nonexistent order.
	_, err = f.service.UpdateStatus(60, 2, services.UpdateOrderStatusRequest{Status: "preparing"})
	assert.ErrorIs(t, err, services.ErrOrderNotFound)
}

// =============================================================================
// SESSION-SCOPED LOOKUP AND CANCEL
// =============================================================================

func TestCustomerCancel_PendingOrderInSession(t *testing.T) {
	f := newOrderServiceFixture(defaultBalanceConfig())
	f.orders.seedOrder(
		models.Order{ID: 70, RestaurantID: 1, Status: models.OrderStatusPending, TotalAmount: decimal.NewFromInt(30)},
		models.OrderItem{ID: 1, OrderID: 70, Name: "Margherita", Price: decimal.RequireFromString("12.50"), Quantity: 2},
	)

	order, err := f.service.CustomerCancel(70, session.NewOrderSet(70))
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, order.Status)
	// The cancelled bill comes back intact for the manual refund.
	require.Len(t, order.OrderItems, 1)
	assert.Equal(t, "Margherita", order.OrderItems[0].Name)
}

func TestCustomerCancel_OrderOutsideSessionLooksNonexistent(t *testing.T) {
	f := newOrderServiceFixture(defaultBalanceConfig())
	f.orders.seedOrder(models.Order{ID: 71, RestaurantID: 1, Status: models.OrderStatusPending})

	_, err := f.service.CustomerCancel(71, session.NewOrderSet(999))
	assert.ErrorIs(t, err, services.ErrOrderNotFound)

	_, err = f.service.CustomerCancel(71, nil)
	assert.ErrorIs(t, err, services.ErrOrderNotFound)
}

func TestCustomerCancel_TooLateOnceKitchenStarted(t *testing.T) {
	f := newOrderServiceFixture(defaultBalanceConfig())
	f.orders.seedOrder(models.Order{ID: 72, RestaurantID: 1, Status: models.OrderStatusPreparing})

	_, err := f.service.CustomerCancel(72, session.NewOrderSet(72))
	assert.ErrorIs(t, err, services.ErrInvalidTransition)
}

func TestGetSessionOrders(t *testing.T) {
	f := newOrderServiceFixture(defaultBalanceConfig())
	f.orders.seedOrder(models.Order{ID: 80, RestaurantID: 1, Status: models.OrderStatusPending})
	f.orders.seedOrder(models.Order{ID: 81, RestaurantID: 2, Status: models.OrderStatusServed})

	orders, err := f.service.GetSessionOrders(session.NewOrderSet(80, 81, 9999))
	require.NoError(t, err)
	assert.Len(t, orders, 2, "unknown ids are skipped, not errors")

	orders, err = f.service.GetSessionOrders(session.NewOrderSet())
	require.NoError(t, err)
	assert.Empty(t, orders)

	orders, err = f.service.GetSessionOrders(nil)
	require.NoError(t, err)
	assert.Empty(t, orders)
}
