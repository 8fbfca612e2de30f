package services

import (
	"errors"
	"fmt"

	"qrdine_backend/internal/models"
	"qrdine_backend/internal/repositories"
	"qrdine_backend/pkg/utils"

	"github.com/shopspring/decimal"
)

var (
	ErrCategoryNotFound = errors.New("menu category not found")
	ErrItemNotFound     = errors.New("menu item not found")
)

// --- Data Transfer Objects (DTOs) ---

// CreateMenuCategoryRequest is used for creating a menu category.
type CreateMenuCategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	SortOrder   int    `json:"sort_order"`
	IsActive    *bool  `json:"is_active"`
}

// CreateMenuItemRequest is used for creating a menu item.
type CreateMenuItemRequest struct {
	CategoryID  *int64          `json:"category_id"`
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	ImageURL    string          `json:"image_url"`
	IsAvailable *bool           `json:"is_available"`
	IsPopular   bool            `json:"is_popular"`
	SortOrder   int             `json:"sort_order"`
}

// --- MenuService Interface ---

// MenuService owns the owner-side menu management. All operations are scoped
// to the caller's restaurant; cross-tenant ids come back as not found.
type MenuService interface {
	CreateCategory(restaurantID int64, req CreateMenuCategoryRequest) (*models.MenuCategory, error)
	GetCategories(restaurantID int64) ([]models.MenuCategory, error)
	UpdateCategory(restaurantID, categoryID int64, req CreateMenuCategoryRequest) (*models.MenuCategory, error)
	DeleteCategory(restaurantID, categoryID int64) error

	CreateItem(restaurantID int64, req CreateMenuItemRequest) (*models.MenuItem, error)
	GetItems(restaurantID int64, categoryID *int64) ([]models.MenuItem, error)
	UpdateItem(restaurantID, itemID int64, req CreateMenuItemRequest) (*models.MenuItem, error)
	DeleteItem(restaurantID, itemID int64) error
}

type menuService struct {
	menuRepo repositories.MenuRepository
	txRunner repositories.TxRunner
}

// NewMenuService creates a new instance of MenuService.
func NewMenuService(mr repositories.MenuRepository, runner repositories.TxRunner) MenuService {
	return &menuService{menuRepo: mr, txRunner: runner}
}

// --- Category Methods ---

func (s *menuService) CreateCategory(restaurantID int64, req CreateMenuCategoryRequest) (*models.MenuCategory, error) {
	category := &models.MenuCategory{
		RestaurantID: restaurantID,
		Name:         req.Name,
		Description:  utils.NewNullString(req.Description),
		SortOrder:    req.SortOrder,
		IsActive:     true,
	}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}

	err := s.txRunner.WithinTx(func(ex repositories.SQLExecutor) error {
		_, txErr := s.menuRepo.CreateCategory(ex, category)
		return txErr
	})
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: category %q already exists", ErrValidation, req.Name)
		}
		return nil, fmt.Errorf("failed to create menu category: %w", err)
	}
	return category, nil
}

func (s *menuService) GetCategories(restaurantID int64) ([]models.MenuCategory, error) {
	categories, err := s.menuRepo.GetCategories(restaurantID, false)
	if err != nil {
		return nil, fmt.Errorf("failed to get menu categories: %w", err)
	}
	return categories, nil
}

func (s *menuService) UpdateCategory(restaurantID, categoryID int64, req CreateMenuCategoryRequest) (*models.MenuCategory, error) {
	category := &models.MenuCategory{
		ID:           categoryID,
		RestaurantID: restaurantID,
		Name:         req.Name,
		Description:  utils.NewNullString(req.Description),
		SortOrder:    req.SortOrder,
		IsActive:     true,
	}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}

	err := s.txRunner.WithinTx(func(ex repositories.SQLExecutor) error {
		return s.menuRepo.UpdateCategory(ex, category)
	})
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to update menu category %d: %w", categoryID, err)
	}
	return s.menuRepo.GetCategoryByID(categoryID)
}

func (s *menuService) DeleteCategory(restaurantID, categoryID int64) error {
	if err := s.assertCategoryOwnership(restaurantID, categoryID); err != nil {
		return err
	}
	err := s.txRunner.WithinTx(func(ex repositories.SQLExecutor) error {
		return s.menuRepo.DeleteCategory(ex, categoryID)
	})
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrCategoryNotFound
		}
		return fmt.Errorf("failed to delete menu category %d: %w", categoryID, err)
	}
	return nil
}

// --- Item Methods ---

func (s *menuService) CreateItem(restaurantID int64, req CreateMenuItemRequest) (*models.MenuItem, error) {
	if req.Price.IsNegative() {
		return nil, fmt.Errorf("%w: price must not be negative", ErrValidation)
	}
	if req.CategoryID != nil {
		if err := s.assertCategoryOwnership(restaurantID, *req.CategoryID); err != nil {
			return nil, err
		}
	}

	item := &models.MenuItem{
		RestaurantID: restaurantID,
		CategoryID:   req.CategoryID,
		Name:         req.Name,
		Description:  utils.NewNullString(req.Description),
		Price:        req.Price,
		ImageURL:     utils.NewNullString(req.ImageURL),
		IsAvailable:  true,
		IsPopular:    req.IsPopular,
		SortOrder:    req.SortOrder,
	}
	if req.IsAvailable != nil {
		item.IsAvailable = *req.IsAvailable
	}

	err := s.txRunner.WithinTx(func(ex repositories.SQLExecutor) error {
		_, txErr := s.menuRepo.CreateItem(ex, item)
		return txErr
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create menu item: %w", err)
	}
	return item, nil
}

func (s *menuService) GetItems(restaurantID int64, categoryID *int64) ([]models.MenuItem, error) {
	items, err := s.menuRepo.GetItems(restaurantID, categoryID, false)
	if err != nil {
		return nil, fmt.Errorf("failed to get menu items: %w", err)
	}
	return items, nil
}

func (s *menuService) UpdateItem(restaurantID, itemID int64, req CreateMenuItemRequest) (*models.MenuItem, error) {
	if req.Price.IsNegative() {
		return nil, fmt.Errorf("%w: price must not be negative", ErrValidation)
	}
	if req.CategoryID != nil {
		if err := s.assertCategoryOwnership(restaurantID, *req.CategoryID); err != nil {
			return nil, err
		}
	}

	item := &models.MenuItem{
		ID:           itemID,
		RestaurantID: restaurantID,
		CategoryID:   req.CategoryID,
		Name:         req.Name,
		Description:  utils.NewNullString(req.Description),
		Price:        req.Price,
		ImageURL:     utils.NewNullString(req.ImageURL),
		IsAvailable:  true,
		IsPopular:    req.IsPopular,
		SortOrder:    req.SortOrder,
	}
	if req.IsAvailable != nil {
		item.IsAvailable = *req.IsAvailable
	}

	err := s.txRunner.WithinTx(func(ex repositories.SQLExecutor) error {
		return s.menuRepo.UpdateItem(ex, item)
	})
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to update menu item %d: %w", itemID, err)
	}
	return item, nil
}

func (s *menuService) DeleteItem(restaurantID, itemID int64) error {
	item, err := s.menuRepo.GetItemByID(itemID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrItemNotFound
		}
		return fmt.Errorf("failed to get menu item %d: %w", itemID, err)
	}
	if item.RestaurantID != restaurantID {
		return ErrItemNotFound
	}

	err = s.txRunner.WithinTx(func(ex repositories.SQLExecutor) error {
		return s.menuRepo.DeleteItem(ex, itemID)
	})
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrItemNotFound
		}
		return fmt.Errorf("failed to delete menu item %d: %w", itemID, err)
	}
	return nil
}

func (s *menuService) assertCategoryOwnership(restaurantID, categoryID int64) error {
	category, err := s.menuRepo.GetCategoryByID(categoryID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrCategoryNotFound
		}
		return fmt.Errorf("failed to get menu category %d: %w", categoryID, err)
	}
	if category.RestaurantID != restaurantID {
		return ErrCategoryNotFound
	}
	return nil
}
