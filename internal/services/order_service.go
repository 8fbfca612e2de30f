package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"qrdine_backend/internal/models"
	"qrdine_backend/internal/realtime"
	"qrdine_backend/internal/repositories"
	"qrdine_backend/internal/session"

	"github.com/shopspring/decimal"
)

var (
	ErrOrderNotFound    = errors.New("order not found")
	ErrMenuItemNotFound = errors.New("menu item not found or not available")
	ErrUnknownTable     = errors.New("table does not belong to this restaurant")
)

// --- Data Transfer Objects (DTOs) ---

// CreateOrderItemRequest is one requested line item. Only the menu item id and
// quantity come from the client; name and price are resolved server-side so a
// tampered client cannot set its own prices.
type CreateOrderItemRequest struct {
	MenuItemID int64 `json:"menu_item_id" binding:"required"`
	Quantity   int   `json:"quantity" binding:"required,gt=0"`
}

// CreateOrderRequest is the anonymous customer's checkout payload.
type CreateOrderRequest struct {
	TableID       *int64                   `json:"table_id"`
	CustomerName  string                   `json:"customer_name"`
	CustomerPhone string                   `json:"customer_phone"`
	Notes         string                   `json:"notes"`
	Items         []CreateOrderItemRequest `json:"items" binding:"required,dive"`
}

// UpdateOrderStatusRequest is used for updating the status of an order.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// --- OrderService Interface ---
type OrderService interface {
	// CreateOrder runs the acceptance gate and creates the order with its
	// line items and the per-order fee deduction in one transaction.
	CreateOrder(restaurantID int64, req CreateOrderRequest) (*models.Order, error)
	GetOrders(filters models.OrderFilters) ([]models.Order, int, error)
	// GetOrderForRestaurant fetches one order with items, scoped to a tenant.
	GetOrderForRestaurant(orderID, restaurantID int64) (*models.Order, error)
	// GetSessionOrders resolves the session tracker's id set to full orders.
	GetSessionOrders(sess *session.OrderSet) ([]models.Order, error)
	// UpdateStatus is the staff/admin transition path.
	UpdateStatus(orderID, restaurantID int64, req UpdateOrderStatusRequest) (*models.Order, error)
	// CustomerCancel is the session-scoped self-service abort. It succeeds
	// only for pending orders the session created, and returns the cancelled
	// order with its items (the bill staff uses for a manual refund).
	CustomerCancel(orderID int64, sess *session.OrderSet) (*models.Order, error)
}

// --- orderService Implementation ---
type orderService struct {
	orderRepo      repositories.OrderRepository
	menuRepo       repositories.MenuRepository
	balanceRepo    repositories.BalanceRepository
	restaurantRepo repositories.RestaurantRepository
	tableRepo      repositories.TableRepository
	txRunner       repositories.TxRunner
	notifier       realtime.Notifier
	cfg            BalanceConfig
}

// NewOrderService creates a new instance of OrderService.
func NewOrderService(
	or repositories.OrderRepository,
	mr repositories.MenuRepository,
	br repositories.BalanceRepository,
	rr repositories.RestaurantRepository,
	tr repositories.TableRepository,
	runner repositories.TxRunner,
	notifier realtime.Notifier,
	cfg BalanceConfig,
) OrderService {
	return &orderService{
		orderRepo:      or,
		menuRepo:       mr,
		balanceRepo:    br,
		restaurantRepo: rr,
		tableRepo:      tr,
		txRunner:       runner,
		notifier:       notifier,
		cfg:            cfg,
	}
}

// --- Method Implementations ---

func (s *orderService) CreateOrder(restaurantID int64, req CreateOrderRequest) (*models.Order, error) {
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: order must have at least one item", ErrValidation)
	}

	restaurant, err := s.restaurantRepo.GetRestaurantByID(restaurantID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrRestaurantNotFound
		}
		return nil, fmt.Errorf("failed to fetch restaurant %d: %w", restaurantID, err)
	}
	if !restaurant.IsActive {
		return nil, &OrderRejectedError{Reason: RejectInactive}
	}

	if req.TableID != nil {
		table, tableErr := s.tableRepo.GetTableByID(*req.TableID)
		if tableErr != nil {
			if errors.Is(tableErr, repositories.ErrNotFound) {
				return nil, fmt.Errorf("%w: table %d", ErrUnknownTable, *req.TableID)
			}
			return nil, fmt.Errorf("failed to fetch table %d: %w", *req.TableID, tableErr)
		}
		if table.RestaurantID != restaurantID {
			return nil, fmt.Errorf("%w: table %d", ErrUnknownTable, *req.TableID)
		}
	}

	// Resolve prices server-side; the request carries only ids and quantities.
	totalAmount := decimal.Zero
	orderItems := make([]models.OrderItem, 0, len(req.Items))
	for _, itemReq := range req.Items {
		if itemReq.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity for item ID %d must be positive", ErrValidation, itemReq.MenuItemID)
		}
		name, price, repoErr := s.menuRepo.GetItemForOrder(itemReq.MenuItemID, restaurantID)
		if repoErr != nil {
			if errors.Is(repoErr, repositories.ErrNotFound) {
				return nil, fmt.Errorf("%w: item ID %d", ErrMenuItemNotFound, itemReq.MenuItemID)
			}
			return nil, fmt.Errorf("failed to fetch menu item %d: %w", itemReq.MenuItemID, repoErr)
		}
		totalAmount = totalAmount.Add(price.Mul(decimal.NewFromInt(int64(itemReq.Quantity))))
		menuItemID := itemReq.MenuItemID
		orderItems = append(orderItems, models.OrderItem{
			MenuItemID: &menuItemID,
			Name:       name,
			Price:      price,
			Quantity:   itemReq.Quantity,
		})
	}

	now := time.Now()
	order := &models.Order{
		RestaurantID:  restaurantID,
		TableID:       req.TableID,
		CustomerName:  nullable(req.CustomerName),
		CustomerPhone: nullable(req.CustomerPhone),
		Notes:         nullable(req.Notes),
		TotalAmount:   totalAmount,
		Status:        models.OrderStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	// Gate check and order creation share one transaction: the balance row is
	// locked before the threshold comparison, so two concurrent orders against
	// a balance that supports exactly one cannot both pass.
	err = s.txRunner.WithinTx(func(ex repositories.SQLExecutor) error {
		balance, txErr := s.balanceRepo.GetBalanceForUpdate(ex, restaurantID)
		if txErr != nil {
			return txErr
		}
		if balance.LessThan(s.cfg.MinAcceptBalance) {
			return &OrderRejectedError{Reason: RejectLowBalance}
		}

		if _, txErr = s.orderRepo.CreateOrder(ex, order); txErr != nil {
			return fmt.Errorf("failed to create order record: %w", txErr)
		}
		for i := range orderItems {
			orderItems[i].OrderID = order.ID
			if _, txErr = s.orderRepo.CreateOrderItem(ex, &orderItems[i]); txErr != nil {
				return fmt.Errorf("failed to create order item (menu_item_id: %d): %w", *orderItems[i].MenuItemID, txErr)
			}
		}

		if s.cfg.OrderFee.IsPositive() {
			description := fmt.Sprintf("Order #%d fee", order.ID)
			deduction := &models.BalanceTransaction{
				RestaurantID:    restaurantID,
				Amount:          s.cfg.OrderFee.Neg(),
				TransactionType: models.TransactionOrderDeduction,
				Description:     &description,
				// system-initiated: no created_by
			}
			if _, txErr = s.balanceRepo.AppendTransaction(ex, deduction); txErr != nil {
				return fmt.Errorf("failed to record order deduction: %w", txErr)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	order.OrderItems = orderItems
	s.notifier.OrderChanged(restaurantID, order.ID, realtime.EventOrderCreated)
	if s.cfg.OrderFee.IsPositive() {
		s.notifier.BalanceChanged(restaurantID)
	}
	return order, nil
}

func (s *orderService) GetOrders(filters models.OrderFilters) ([]models.Order, int, error) {
	orders, totalCount, err := s.orderRepo.GetOrders(filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get orders: %w", err)
	}
	return orders, totalCount, nil
}

func (s *orderService) GetOrderForRestaurant(orderID, restaurantID int64) (*models.Order, error) {
	order, err := s.fetchOrderWithItems(orderID)
	if err != nil {
		return nil, err
	}
	if order.RestaurantID != restaurantID {
		// Deliberately the same answer as "does not exist".
		return nil, ErrOrderNotFound
	}
	return order, nil
}

func (s *orderService) GetSessionOrders(sess *session.OrderSet) ([]models.Order, error) {
	if sess == nil || sess.Len() == 0 {
		return []models.Order{}, nil
	}
	orders, err := s.orderRepo.GetOrdersByIDs(sess.IDs())
	if err != nil {
		return nil, fmt.Errorf("failed to resolve session orders: %w", err)
	}
	for i := range orders {
		items, itemsErr := s.orderRepo.GetOrderItemsByOrderID(orders[i].ID)
		if itemsErr != nil {
			return nil, fmt.Errorf("failed to fetch items for order %d: %w", orders[i].ID, itemsErr)
		}
		orders[i].OrderItems = items
	}
	return orders, nil
}

func (s *orderService) UpdateStatus(orderID, restaurantID int64, req UpdateOrderStatusRequest) (*models.Order, error) {
	if !models.IsValidOrderStatus(req.Status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, req.Status)
	}
	newStatus := models.OrderStatus(req.Status)

	current, err := s.GetOrderForRestaurant(orderID, restaurantID)
	if err != nil {
		return nil, err
	}
	if !current.Status.CanTransitionTo(newStatus) {
		return nil, fmt.Errorf("%w: order %d is already %s", ErrInvalidTransition, orderID, current.Status)
	}

	err = s.txRunner.WithinTx(func(ex repositories.SQLExecutor) error {
		return s.orderRepo.UpdateOrderStatus(ex, orderID, newStatus, time.Now())
	})
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	s.notifier.OrderChanged(restaurantID, orderID, realtime.EventOrderUpdated)
	return s.fetchOrderWithItems(orderID)
}

func (s *orderService) CustomerCancel(orderID int64, sess *session.OrderSet) (*models.Order, error) {
	// Membership in the session's tracker substitutes for authentication.
	// An id outside the set gets the same answer as a nonexistent order.
	if sess == nil || !sess.Contains(orderID) {
		return nil, ErrOrderNotFound
	}

	err := s.txRunner.WithinTx(func(ex repositories.SQLExecutor) error {
		return s.orderRepo.CancelIfPending(ex, orderID, time.Now())
	})
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			// CAS failed: either the order is gone or staff already advanced
			// it past pending.
			current, fetchErr := s.orderRepo.GetOrderByID(orderID)
			if fetchErr != nil {
				return nil, ErrOrderNotFound
			}
			return nil, fmt.Errorf("%w: order %d is %s", ErrInvalidTransition, orderID, current.Status)
		}
		return nil, fmt.Errorf("failed to cancel order: %w", err)
	}

	order, err := s.fetchOrderWithItems(orderID)
	if err != nil {
		return nil, err
	}
	s.notifier.OrderChanged(order.RestaurantID, orderID, realtime.EventOrderUpdated)
	return order, nil
}

func (s *orderService) fetchOrderWithItems(orderID int64) (*models.Order, error) {
	order, err := s.orderRepo.GetOrderByID(orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order by ID: %w", err)
	}
	items, err := s.orderRepo.GetOrderItemsByOrderID(orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order items for order %d: %w", orderID, err)
	}
	order.OrderItems = items
	return order, nil
}

// nullable trims s and returns nil for the empty string, matching how the
// customer checkout treats its optional fields.
func nullable(s string) *string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
