package services

import (
	"errors"
	"fmt"
	"time"

	"qrdine_backend/internal/models"
	"qrdine_backend/internal/repositories"
	"qrdine_backend/pkg/utils"
)

var (
	ErrOwnerHasRestaurant = errors.New("owner already has a restaurant")
	ErrSlugTaken          = errors.New("restaurant slug already taken")
)

// TrialPeriod is how long a fresh tenant's trial subscription runs.
const TrialPeriod = 14 * 24 * time.Hour

// --- Data Transfer Objects (DTOs) ---

// OnboardRestaurantRequest creates the owner's tenant.
type OnboardRestaurantRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Address     string `json:"address"`
	Phone       string `json:"phone"`
	Currency    string `json:"currency"`
}

// UpdateRestaurantRequest updates the owner-editable profile fields. The slug
// stays fixed after onboarding because printed QR codes embed it.
type UpdateRestaurantRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Address     string `json:"address"`
	Phone       string `json:"phone"`
	LogoURL     string `json:"logo_url"`
	Currency    string `json:"currency"`
}

// MenuCategoryView is one public menu section with its items.
type MenuCategoryView struct {
	models.MenuCategory
	Items []models.MenuItem `json:"items"`
}

// PublicMenu is everything the anonymous menu page needs in one response:
// the restaurant profile, its sections, and whether checkout is open.
type PublicMenu struct {
	Restaurant      *models.Restaurant `json:"restaurant"`
	Categories      []MenuCategoryView `json:"categories"`
	CanAcceptOrders bool               `json:"can_accept_orders"`
}

// --- RestaurantService Interface ---
type RestaurantService interface {
	// Onboard creates the owner's restaurant together with a trial
	// subscription. One restaurant per owner.
	Onboard(ownerID int64, req OnboardRestaurantRequest) (*models.Restaurant, error)
	GetOwnRestaurant(ownerID int64) (*models.Restaurant, error)
	UpdateOwnRestaurant(ownerID int64, req UpdateRestaurantRequest) (*models.Restaurant, error)
	GetSubscription(restaurantID int64) (*models.Subscription, error)
	// GetPublicMenu serves the anonymous menu page by slug. Inactive
	// restaurants are indistinguishable from missing ones.
	GetPublicMenu(slug string) (*PublicMenu, error)
	// ResolveSlug maps a public slug to the active restaurant behind it.
	ResolveSlug(slug string) (*models.Restaurant, error)
}

type restaurantService struct {
	restaurantRepo   repositories.RestaurantRepository
	subscriptionRepo repositories.SubscriptionRepository
	menuRepo         repositories.MenuRepository
	balanceService   BalanceService
	txRunner         repositories.TxRunner
}

// NewRestaurantService creates a new instance of RestaurantService.
func NewRestaurantService(
	rr repositories.RestaurantRepository,
	sr repositories.SubscriptionRepository,
	mr repositories.MenuRepository,
	bs BalanceService,
	runner repositories.TxRunner,
) RestaurantService {
	return &restaurantService{
		restaurantRepo:   rr,
		subscriptionRepo: sr,
		menuRepo:         mr,
		balanceService:   bs,
		txRunner:         runner,
	}
}

// --- Method Implementations ---

func (s *restaurantService) Onboard(ownerID int64, req OnboardRestaurantRequest) (*models.Restaurant, error) {
	if _, err := s.restaurantRepo.GetRestaurantByOwner(ownerID); err == nil {
		return nil, ErrOwnerHasRestaurant
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing restaurant for owner %d: %w", ownerID, err)
	}

	slug := utils.Slugify(req.Name)
	if slug == "" {
		return nil, fmt.Errorf("%w: restaurant name yields an empty slug", ErrValidation)
	}
	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}

	restaurant := &models.Restaurant{
		OwnerID:     ownerID,
		Name:        req.Name,
		Slug:        slug,
		Description: utils.NewNullString(req.Description),
		Address:     utils.NewNullString(req.Address),
		Phone:       utils.NewNullString(req.Phone),
		Currency:    currency,
		IsActive:    true,
	}

	trialEndsAt := time.Now().Add(TrialPeriod)
	err := s.txRunner.WithinTx(func(ex repositories.SQLExecutor) error {
		if _, txErr := s.restaurantRepo.CreateRestaurant(ex, restaurant); txErr != nil {
			return txErr
		}
		sub := &models.Subscription{
			RestaurantID: restaurant.ID,
			Status:       models.SubscriptionTrial,
			TrialEndsAt:  &trialEndsAt,
		}
		if _, txErr := s.subscriptionRepo.CreateSubscription(ex, sub); txErr != nil {
			return fmt.Errorf("failed to create trial subscription: %w", txErr)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			// Two unique constraints can fire here; the owner check above
			// already handled owner_id, so this is effectively the slug.
			return nil, fmt.Errorf("%w: %q", ErrSlugTaken, slug)
		}
		return nil, fmt.Errorf("failed to onboard restaurant: %w", err)
	}
	return restaurant, nil
}

func (s *restaurantService) GetOwnRestaurant(ownerID int64) (*models.Restaurant, error) {
	restaurant, err := s.restaurantRepo.GetRestaurantByOwner(ownerID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrRestaurantNotFound
		}
		return nil, fmt.Errorf("failed to get restaurant for owner %d: %w", ownerID, err)
	}
	return restaurant, nil
}

func (s *restaurantService) UpdateOwnRestaurant(ownerID int64, req UpdateRestaurantRequest) (*models.Restaurant, error) {
	restaurant, err := s.GetOwnRestaurant(ownerID)
	if err != nil {
		return nil, err
	}

	restaurant.Name = req.Name
	restaurant.Description = utils.NewNullString(req.Description)
	restaurant.Address = utils.NewNullString(req.Address)
	restaurant.Phone = utils.NewNullString(req.Phone)
	restaurant.LogoURL = utils.NewNullString(req.LogoURL)
	if req.Currency != "" {
		restaurant.Currency = req.Currency
	}

	err = s.txRunner.WithinTx(func(ex repositories.SQLExecutor) error {
		return s.restaurantRepo.UpdateRestaurant(ex, restaurant)
	})
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrRestaurantNotFound
		}
		return nil, fmt.Errorf("failed to update restaurant %d: %w", restaurant.ID, err)
	}
	return restaurant, nil
}

func (s *restaurantService) GetSubscription(restaurantID int64) (*models.Subscription, error) {
	sub, err := s.subscriptionRepo.GetSubscriptionByRestaurant(restaurantID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrRestaurantNotFound
		}
		return nil, fmt.Errorf("failed to get subscription for restaurant %d: %w", restaurantID, err)
	}
	return sub, nil
}

func (s *restaurantService) GetPublicMenu(slug string) (*PublicMenu, error) {
	restaurant, err := s.ResolveSlug(slug)
	if err != nil {
		return nil, err
	}

	categories, err := s.menuRepo.GetCategories(restaurant.ID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to get menu categories: %w", err)
	}
	items, err := s.menuRepo.GetItems(restaurant.ID, nil, true)
	if err != nil {
		return nil, fmt.Errorf("failed to get menu items: %w", err)
	}

	itemsByCategory := make(map[int64][]models.MenuItem)
	uncategorized := []models.MenuItem{}
	for _, item := range items {
		if item.CategoryID == nil {
			uncategorized = append(uncategorized, item)
			continue
		}
		itemsByCategory[*item.CategoryID] = append(itemsByCategory[*item.CategoryID], item)
	}

	views := make([]MenuCategoryView, 0, len(categories)+1)
	for _, category := range categories {
		views = append(views, MenuCategoryView{
			MenuCategory: category,
			Items:        itemsByCategory[category.ID],
		})
	}
	if len(uncategorized) > 0 {
		views = append(views, MenuCategoryView{
			MenuCategory: models.MenuCategory{RestaurantID: restaurant.ID, Name: "Other"},
			Items:        uncategorized,
		})
	}

	canAccept, err := s.balanceService.CanAcceptOrders(restaurant.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check acceptance for restaurant %d: %w", restaurant.ID, err)
	}

	return &PublicMenu{
		Restaurant:      restaurant,
		Categories:      views,
		CanAcceptOrders: canAccept,
	}, nil
}

func (s *restaurantService) ResolveSlug(slug string) (*models.Restaurant, error) {
	restaurant, err := s.restaurantRepo.GetRestaurantBySlug(slug, true)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrRestaurantNotFound
		}
		return nil, fmt.Errorf("failed to resolve restaurant slug %q: %w", slug, err)
	}
	return restaurant, nil
}
