package handlers

import (
	"net/http"
	"strconv"

	"qrdine_backend/internal/models"
	"qrdine_backend/internal/services"
	"qrdine_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// MenuHandler serves the owner's menu management surface.
type MenuHandler struct {
	menuService       services.MenuService
	restaurantService services.RestaurantService
}

// NewMenuHandler creates a new MenuHandler.
func NewMenuHandler(ms services.MenuService, rs services.RestaurantService) *MenuHandler {
	return &MenuHandler{menuService: ms, restaurantService: rs}
}

func (h *MenuHandler) ownRestaurant(c *gin.Context) (*models.Restaurant, bool) {
	userID, ok := currentUserID(c)
	if !ok {
		return nil, false
	}
	restaurant, err := h.restaurantService.GetOwnRestaurant(userID)
	if err != nil {
		respondServiceError(c, err, "ownRestaurant: Error from restaurantService.GetOwnRestaurant")
		return nil, false
	}
	return restaurant, true
}

// --- Category Handlers ---

func (h *MenuHandler) CreateCategory(c *gin.Context) {
	restaurant, ok := h.ownRestaurant(c)
	if !ok {
		return
	}
	var req services.CreateMenuCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}
	category, err := h.menuService.CreateCategory(restaurant.ID, req)
	if err != nil {
		respondServiceError(c, err, "CreateCategory: Error from menuService.CreateCategory")
		return
	}
	c.JSON(http.StatusCreated, category)
}

func (h *MenuHandler) GetCategories(c *gin.Context) {
	restaurant, ok := h.ownRestaurant(c)
	if !ok {
		return
	}
	categories, err := h.menuService.GetCategories(restaurant.ID)
	if err != nil {
		respondServiceError(c, err, "GetCategories: Error from menuService.GetCategories")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": categories})
}

func (h *MenuHandler) UpdateCategory(c *gin.Context) {
	restaurant, ok := h.ownRestaurant(c)
	if !ok {
		return
	}
	categoryID, ok := paramInt64(c, "id")
	if !ok {
		return
	}
	var req services.CreateMenuCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}
	category, err := h.menuService.UpdateCategory(restaurant.ID, categoryID, req)
	if err != nil {
		respondServiceError(c, err, "UpdateCategory: Error from menuService.UpdateCategory")
		return
	}
	c.JSON(http.StatusOK, category)
}

func (h *MenuHandler) DeleteCategory(c *gin.Context) {
	restaurant, ok := h.ownRestaurant(c)
	if !ok {
		return
	}
	categoryID, ok := paramInt64(c, "id")
	if !ok {
		return
	}
	if err := h.menuService.DeleteCategory(restaurant.ID, categoryID); err != nil {
		respondServiceError(c, err, "DeleteCategory: Error from menuService.DeleteCategory")
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Item Handlers ---

func (h *MenuHandler) CreateItem(c *gin.Context) {
	restaurant, ok := h.ownRestaurant(c)
	if !ok {
		return
	}
	var req services.CreateMenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}
	item, err := h.menuService.CreateItem(restaurant.ID, req)
	if err != nil {
		respondServiceError(c, err, "CreateItem: Error from menuService.CreateItem")
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *MenuHandler) GetItems(c *gin.Context) {
	restaurant, ok := h.ownRestaurant(c)
	if !ok {
		return
	}
	var categoryID *int64
	if categoryIDStr := c.Query("category_id"); categoryIDStr != "" {
		parsed, err := strconv.ParseInt(categoryIDStr, 10, 64)
		if err != nil {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid category_id format.", err.Error()))
			return
		}
		categoryID = &parsed
	}
	items, err := h.menuService.GetItems(restaurant.ID, categoryID)
	if err != nil {
		respondServiceError(c, err, "GetItems: Error from menuService.GetItems")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items})
}

func (h *MenuHandler) UpdateItem(c *gin.Context) {
	restaurant, ok := h.ownRestaurant(c)
	if !ok {
		return
	}
	itemID, ok := paramInt64(c, "id")
	if !ok {
		return
	}
	var req services.CreateMenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}
	item, err := h.menuService.UpdateItem(restaurant.ID, itemID, req)
	if err != nil {
		respondServiceError(c, err, "UpdateItem: Error from menuService.UpdateItem")
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *MenuHandler) DeleteItem(c *gin.Context) {
	restaurant, ok := h.ownRestaurant(c)
	if !ok {
		return
	}
	itemID, ok := paramInt64(c, "id")
	if !ok {
		return
	}
	if err := h.menuService.DeleteItem(restaurant.ID, itemID); err != nil {
		respondServiceError(c, err, "DeleteItem: Error from menuService.DeleteItem")
		return
	}
	c.Status(http.StatusNoContent)
}
