package services

import (
	"errors"
	"fmt"
	"time"

	"qrdine_backend/internal/models"
	"qrdine_backend/internal/realtime"
	"qrdine_backend/internal/repositories"
)

var ErrSubscriptionNotFound = errors.New("subscription not found")

// PlatformOverview is the admin dashboard's headline counters.
type PlatformOverview struct {
	TotalRestaurants  int `json:"total_restaurants"`
	ActiveRestaurants int `json:"active_restaurants"`
	TotalOrders       int `json:"total_orders"`
	OrdersToday       int `json:"orders_today"`
	PendingOrders     int `json:"pending_orders"`
}

// UpdateSubscriptionRequest changes a subscription's plan status.
type UpdateSubscriptionRequest struct {
	Status string `json:"status" binding:"required"`
}

// --- AdminService Interface ---

// AdminService covers the platform operator's cross-tenant surface. Tenant
// activation and subscription changes live here; ledger credits go through
// BalanceService.AdminCredit.
type AdminService interface {
	ListRestaurants(page, pageSize int) ([]models.Restaurant, int, error)
	SetRestaurantActive(restaurantID int64, isActive bool) (*models.Restaurant, error)
	ListSubscriptions(page, pageSize int) ([]models.Subscription, int, error)
	UpdateSubscriptionStatus(subscriptionID int64, req UpdateSubscriptionRequest) error
	GetOverview() (*PlatformOverview, error)
}

type adminService struct {
	restaurantRepo   repositories.RestaurantRepository
	subscriptionRepo repositories.SubscriptionRepository
	orderRepo        repositories.OrderRepository
	txRunner         repositories.TxRunner
	notifier         realtime.Notifier
}

// NewAdminService creates a new instance of AdminService.
func NewAdminService(
	rr repositories.RestaurantRepository,
	sr repositories.SubscriptionRepository,
	or repositories.OrderRepository,
	runner repositories.TxRunner,
	notifier realtime.Notifier,
) AdminService {
	return &adminService{
		restaurantRepo:   rr,
		subscriptionRepo: sr,
		orderRepo:        or,
		txRunner:         runner,
		notifier:         notifier,
	}
}

func (s *adminService) ListRestaurants(page, pageSize int) ([]models.Restaurant, int, error) {
	page, pageSize = normalizePagination(page, pageSize)
	restaurants, totalCount, err := s.restaurantRepo.GetRestaurants(page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list restaurants: %w", err)
	}
	return restaurants, totalCount, nil
}

func (s *adminService) SetRestaurantActive(restaurantID int64, isActive bool) (*models.Restaurant, error) {
	err := s.txRunner.WithinTx(func(ex repositories.SQLExecutor) error {
		return s.restaurantRepo.SetActive(ex, restaurantID, isActive)
	})
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrRestaurantNotFound
		}
		return nil, fmt.Errorf("failed to set is_active for restaurant %d: %w", restaurantID, err)
	}

	// Deactivation flips the acceptance gate, so dashboards get a cue.
	s.notifier.BalanceChanged(restaurantID)
	return s.restaurantRepo.GetRestaurantByID(restaurantID)
}

func (s *adminService) ListSubscriptions(page, pageSize int) ([]models.Subscription, int, error) {
	page, pageSize = normalizePagination(page, pageSize)
	subs, totalCount, err := s.subscriptionRepo.GetSubscriptions(page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	return subs, totalCount, nil
}

func (s *adminService) UpdateSubscriptionStatus(subscriptionID int64, req UpdateSubscriptionRequest) error {
	if !models.IsValidSubscriptionStatus(req.Status) {
		return fmt.Errorf("%w: unknown subscription status %q", ErrValidation, req.Status)
	}
	err := s.txRunner.WithinTx(func(ex repositories.SQLExecutor) error {
		return s.subscriptionRepo.UpdateStatus(ex, subscriptionID, models.SubscriptionStatus(req.Status))
	})
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrSubscriptionNotFound
		}
		return fmt.Errorf("failed to update subscription %d: %w", subscriptionID, err)
	}
	return nil
}

func (s *adminService) GetOverview() (*PlatformOverview, error) {
	total, active, err := s.restaurantRepo.CountRestaurants()
	if err != nil {
		return nil, fmt.Errorf("failed to count restaurants: %w", err)
	}

	// Order counters reuse the list query's COUNT(*) OVER() total; only the
	// counts are kept.
	_, totalOrders, err := s.orderRepo.GetOrders(models.OrderFilters{Page: 1, PageSize: 1})
	if err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}
	today := time.Now().Format("2006-01-02")
	_, ordersToday, err := s.orderRepo.GetOrders(models.OrderFilters{Date: &today, Page: 1, PageSize: 1})
	if err != nil {
		return nil, fmt.Errorf("failed to count today's orders: %w", err)
	}
	pending := string(models.OrderStatusPending)
	_, pendingOrders, err := s.orderRepo.GetOrders(models.OrderFilters{Status: &pending, Page: 1, PageSize: 1})
	if err != nil {
		return nil, fmt.Errorf("failed to count pending orders: %w", err)
	}

	return &PlatformOverview{
		TotalRestaurants:  total,
		ActiveRestaurants: active,
		TotalOrders:       totalOrders,
		OrdersToday:       ordersToday,
		PendingOrders:     pendingOrders,
	}, nil
}

// normalizePagination clamps page/page_size to sane defaults.
func normalizePagination(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}
