package services_test

import (
	"sync"
	"time"

	"qrdine_backend/internal/models"
	"qrdine_backend/internal/repositories"

	"github.com/shopspring/decimal"
)

// The fakes below stand in for the Postgres-backed repositories. They are
// deliberately simple in-memory maps; transactional atomicity is modeled by
// fakeTxRunner, which serializes WithinTx bodies with a mutex the same way
// the row lock on restaurant_balances serializes the real gate check.

// --- fakeTxRunner ---

type fakeTxRunner struct {
	mu sync.Mutex
}

// The fakes never touch the executor, so a nil SQLExecutor is fine.
func (r *fakeTxRunner) WithinTx(fn func(ex repositories.SQLExecutor) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return fn(nil)
}

// --- fakeNotifier ---

type notifierEvent struct {
	Event        string
	RestaurantID int64
	OrderID      int64
}

type fakeNotifier struct {
	mu     sync.Mutex
	events []notifierEvent
}

func (n *fakeNotifier) OrderChanged(restaurantID, orderID int64, event string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, notifierEvent{Event: event, RestaurantID: restaurantID, OrderID: orderID})
}

func (n *fakeNotifier) BalanceChanged(restaurantID int64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, notifierEvent{Event: "balance_changed", RestaurantID: restaurantID})
}

func (n *fakeNotifier) eventNames() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	names := make([]string, len(n.events))
	for i, e := range n.events {
		names[i] = e.Event
	}
	return names
}

// --- fakeBalanceRepo ---

type fakeBalanceRepo struct {
	mu       sync.Mutex
	balances map[int64]decimal.Decimal
	ledger   []models.BalanceTransaction
	nextID   int64
}

func newFakeBalanceRepo() *fakeBalanceRepo {
	return &fakeBalanceRepo{balances: make(map[int64]decimal.Decimal)}
}

func (r *fakeBalanceRepo) setBalance(restaurantID int64, balance decimal.Decimal) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.balances[restaurantID] = balance
}

func (r *fakeBalanceRepo) AppendTransaction(_ repositories.SQLExecutor, tx *models.BalanceTransaction) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	tx.ID = r.nextID
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now()
	}
	r.ledger = append(r.ledger, *tx)
	r.balances[tx.RestaurantID] = r.balances[tx.RestaurantID].Add(tx.Amount)
	return tx.ID, nil
}

func (r *fakeBalanceRepo) GetBalance(restaurantID int64) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.balances[restaurantID], nil
}

func (r *fakeBalanceRepo) GetBalanceForUpdate(_ repositories.SQLExecutor, restaurantID int64) (decimal.Decimal, error) {
	return r.GetBalance(restaurantID)
}

func (r *fakeBalanceRepo) ListTransactions(restaurantID int64, limit int) ([]models.BalanceTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.BalanceTransaction{}
	for i := len(r.ledger) - 1; i >= 0 && len(out) < limit; i-- {
		if r.ledger[i].RestaurantID == restaurantID {
			out = append(out, r.ledger[i])
		}
	}
	return out, nil
}

func (r *fakeBalanceRepo) CanAcceptOrders(restaurantID int64, minBalance decimal.Decimal) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	balance, ok := r.balances[restaurantID]
	if !ok {
		return false, repositories.ErrNotFound
	}
	return balance.GreaterThanOrEqual(minBalance), nil
}

func (r *fakeBalanceRepo) transactionsOfType(txType models.TransactionType) []models.BalanceTransaction {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.BalanceTransaction{}
	for _, tx := range r.ledger {
		if tx.TransactionType == txType {
			out = append(out, tx)
		}
	}
	return out
}

// --- fakeRestaurantRepo ---

type fakeRestaurantRepo struct {
	mu          sync.Mutex
	restaurants map[int64]models.Restaurant
	nextID      int64
}

func newFakeRestaurantRepo(restaurants ...models.Restaurant) *fakeRestaurantRepo {
	r := &fakeRestaurantRepo{restaurants: make(map[int64]models.Restaurant)}
	for _, rest := range restaurants {
		r.restaurants[rest.ID] = rest
		if rest.ID > r.nextID {
			r.nextID = rest.ID
		}
	}
	return r
}

func (r *fakeRestaurantRepo) CreateRestaurant(_ repositories.SQLExecutor, restaurant *models.Restaurant) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.restaurants {
		if existing.Slug == restaurant.Slug || existing.OwnerID == restaurant.OwnerID {
			return 0, repositories.ErrDuplicateKey
		}
	}
	r.nextID++
	restaurant.ID = r.nextID
	r.restaurants[restaurant.ID] = *restaurant
	return restaurant.ID, nil
}

func (r *fakeRestaurantRepo) GetRestaurantByID(id int64) (*models.Restaurant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rest, ok := r.restaurants[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &rest, nil
}

func (r *fakeRestaurantRepo) GetRestaurantByOwner(ownerID int64) (*models.Restaurant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rest := range r.restaurants {
		if rest.OwnerID == ownerID {
			copy := rest
			return &copy, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeRestaurantRepo) GetRestaurantBySlug(slug string, activeOnly bool) (*models.Restaurant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rest := range r.restaurants {
		if rest.Slug == slug && (!activeOnly || rest.IsActive) {
			copy := rest
			return &copy, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeRestaurantRepo) GetRestaurants(page, pageSize int) ([]models.Restaurant, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Restaurant{}
	for _, rest := range r.restaurants {
		out = append(out, rest)
	}
	return out, len(out), nil
}

func (r *fakeRestaurantRepo) UpdateRestaurant(_ repositories.SQLExecutor, restaurant *models.Restaurant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.restaurants[restaurant.ID]; !ok {
		return repositories.ErrNotFound
	}
	r.restaurants[restaurant.ID] = *restaurant
	return nil
}

func (r *fakeRestaurantRepo) SetActive(_ repositories.SQLExecutor, id int64, isActive bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rest, ok := r.restaurants[id]
	if !ok {
		return repositories.ErrNotFound
	}
	rest.IsActive = isActive
	r.restaurants[id] = rest
	return nil
}

func (r *fakeRestaurantRepo) CountRestaurants() (int, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	active := 0
	for _, rest := range r.restaurants {
		if rest.IsActive {
			active++
		}
	}
	return len(r.restaurants), active, nil
}

// --- fakeMenuRepo ---

type fakeMenuItem struct {
	restaurantID int64
	name         string
	price        decimal.Decimal
	available    bool
}

type fakeMenuRepo struct {
	items map[int64]fakeMenuItem
}

func newFakeMenuRepo() *fakeMenuRepo {
	return &fakeMenuRepo{items: make(map[int64]fakeMenuItem)}
}

func (r *fakeMenuRepo) addItem(id, restaurantID int64, name, price string, available bool) {
	r.items[id] = fakeMenuItem{
		restaurantID: restaurantID,
		name:         name,
		price:        decimal.RequireFromString(price),
		available:    available,
	}
}

func (r *fakeMenuRepo) GetItemForOrder(itemID, restaurantID int64) (string, decimal.Decimal, error) {
	item, ok := r.items[itemID]
	if !ok || item.restaurantID != restaurantID || !item.available {
		return "", decimal.Zero, repositories.ErrNotFound
	}
	return item.name, item.price, nil
}

func (r *fakeMenuRepo) CreateCategory(repositories.SQLExecutor, *models.MenuCategory) (int64, error) {
	return 0, nil
}
func (r *fakeMenuRepo) GetCategoryByID(int64) (*models.MenuCategory, error) {
	return nil, repositories.ErrNotFound
}
func (r *fakeMenuRepo) GetCategories(int64, bool) ([]models.MenuCategory, error) {
	return []models.MenuCategory{}, nil
}
func (r *fakeMenuRepo) UpdateCategory(repositories.SQLExecutor, *models.MenuCategory) error {
	return nil
}
func (r *fakeMenuRepo) DeleteCategory(repositories.SQLExecutor, int64) error { return nil }
func (r *fakeMenuRepo) CreateItem(repositories.SQLExecutor, *models.MenuItem) (int64, error) {
	return 0, nil
}
func (r *fakeMenuRepo) GetItemByID(int64) (*models.MenuItem, error) {
	return nil, repositories.ErrNotFound
}
func (r *fakeMenuRepo) GetItems(int64, *int64, bool) ([]models.MenuItem, error) {
	return []models.MenuItem{}, nil
}
func (r *fakeMenuRepo) UpdateItem(repositories.SQLExecutor, *models.MenuItem) error { return nil }
func (r *fakeMenuRepo) DeleteItem(repositories.SQLExecutor, int64) error            { return nil }

// --- fakeTableRepo ---

type fakeTableRepo struct {
	tables map[int64]models.RestaurantTable
}

func newFakeTableRepo(tables ...models.RestaurantTable) *fakeTableRepo {
	r := &fakeTableRepo{tables: make(map[int64]models.RestaurantTable)}
	for _, table := range tables {
		r.tables[table.ID] = table
	}
	return r
}

func (r *fakeTableRepo) CreateTable(_ repositories.SQLExecutor, table *models.RestaurantTable) (int64, error) {
	table.ID = int64(len(r.tables) + 1)
	r.tables[table.ID] = *table
	return table.ID, nil
}

func (r *fakeTableRepo) GetTableByID(id int64) (*models.RestaurantTable, error) {
	table, ok := r.tables[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &table, nil
}

func (r *fakeTableRepo) GetTables(restaurantID int64) ([]models.RestaurantTable, error) {
	out := []models.RestaurantTable{}
	for _, table := range r.tables {
		if table.RestaurantID == restaurantID {
			out = append(out, table)
		}
	}
	return out, nil
}

func (r *fakeTableRepo) UpdateTable(repositories.SQLExecutor, *models.RestaurantTable) error {
	return nil
}
func (r *fakeTableRepo) DeleteTable(repositories.SQLExecutor, int64, int64) error { return nil }

// --- fakeOrderRepo ---

type fakeOrderRepo struct {
	mu     sync.Mutex
	orders map[int64]models.Order
	items  map[int64][]models.OrderItem
	nextID int64
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{
		orders: make(map[int64]models.Order),
		items:  make(map[int64][]models.OrderItem),
	}
}

func (r *fakeOrderRepo) seedOrder(order models.Order, items ...models.OrderItem) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[order.ID] = order
	r.items[order.ID] = items
	if order.ID > r.nextID {
		r.nextID = order.ID
	}
}

func (r *fakeOrderRepo) CreateOrder(_ repositories.SQLExecutor, order *models.Order) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	order.ID = r.nextID
	r.orders[order.ID] = *order
	return order.ID, nil
}

func (r *fakeOrderRepo) GetOrderByID(orderID int64) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[orderID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &order, nil
}

func (r *fakeOrderRepo) GetOrdersByIDs(orderIDs []int64) ([]models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Order{}
	for _, id := range orderIDs {
		if order, ok := r.orders[id]; ok {
			out = append(out, order)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) GetOrders(filters models.OrderFilters) ([]models.Order, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Order{}
	for _, order := range r.orders {
		if filters.RestaurantID != nil && order.RestaurantID != *filters.RestaurantID {
			continue
		}
		if filters.Status != nil && string(order.Status) != *filters.Status {
			continue
		}
		out = append(out, order)
	}
	return out, len(out), nil
}

func (r *fakeOrderRepo) UpdateOrderStatus(_ repositories.SQLExecutor, orderID int64, newStatus models.OrderStatus, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[orderID]
	if !ok {
		return repositories.ErrNotFound
	}
	order.Status = newStatus
	order.UpdatedAt = updatedAt
	r.orders[orderID] = order
	return nil
}

func (r *fakeOrderRepo) CancelIfPending(_ repositories.SQLExecutor, orderID int64, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[orderID]
	if !ok || order.Status != models.OrderStatusPending {
		return repositories.ErrNotFound
	}
	order.Status = models.OrderStatusCancelled
	order.UpdatedAt = updatedAt
	r.orders[orderID] = order
	return nil
}

func (r *fakeOrderRepo) CreateOrderItem(_ repositories.SQLExecutor, item *models.OrderItem) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item.ID = int64(len(r.items[item.OrderID]) + 1)
	r.items[item.OrderID] = append(r.items[item.OrderID], *item)
	return item.ID, nil
}

func (r *fakeOrderRepo) GetOrderItemsByOrderID(orderID int64) ([]models.OrderItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.OrderItem{}, r.items[orderID]...), nil
}

// --- fakeSubscriptionRepo ---

type fakeSubscriptionRepo struct {
	subs   map[int64]models.Subscription
	nextID int64
}

func newFakeSubscriptionRepo() *fakeSubscriptionRepo {
	return &fakeSubscriptionRepo{subs: make(map[int64]models.Subscription)}
}

func (r *fakeSubscriptionRepo) CreateSubscription(_ repositories.SQLExecutor, sub *models.Subscription) (int64, error) {
	r.nextID++
	sub.ID = r.nextID
	r.subs[sub.ID] = *sub
	return sub.ID, nil
}

func (r *fakeSubscriptionRepo) GetSubscriptionByRestaurant(restaurantID int64) (*models.Subscription, error) {
	for _, sub := range r.subs {
		if sub.RestaurantID == restaurantID {
			copy := sub
			return &copy, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeSubscriptionRepo) GetSubscriptions(page, pageSize int) ([]models.Subscription, int, error) {
	out := []models.Subscription{}
	for _, sub := range r.subs {
		out = append(out, sub)
	}
	return out, len(out), nil
}

func (r *fakeSubscriptionRepo) UpdateStatus(_ repositories.SQLExecutor, id int64, status models.SubscriptionStatus) error {
	sub, ok := r.subs[id]
	if !ok {
		return repositories.ErrNotFound
	}
	sub.Status = status
	r.subs[id] = sub
	return nil
}
