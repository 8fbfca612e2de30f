package handlers

import (
	"net/http"
	"strconv"

	"qrdine_backend/internal/models"
	"qrdine_backend/internal/services"
	"qrdine_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// AdminHandler serves the platform operator's cross-tenant surface.
type AdminHandler struct {
	adminService   services.AdminService
	balanceService services.BalanceService
	orderService   services.OrderService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(
	as services.AdminService,
	bs services.BalanceService,
	os services.OrderService,
) *AdminHandler {
	return &AdminHandler{
		adminService:   as,
		balanceService: bs,
		orderService:   os,
	}
}

// ListRestaurants handles the paginated cross-tenant restaurant listing.
func (h *AdminHandler) ListRestaurants(c *gin.Context) {
	page, pageSize := pagination(c)
	restaurants, totalCount, err := h.adminService.ListRestaurants(page, pageSize)
	if err != nil {
		respondServiceError(c, err, "ListRestaurants: Error from adminService.ListRestaurants")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":      restaurants,
		"total":     totalCount,
		"page":      page,
		"page_size": pageSize,
	})
}

// SetRestaurantActive toggles a tenant's is_active flag.
func (h *AdminHandler) SetRestaurantActive(c *gin.Context) {
	restaurantID, ok := paramInt64(c, "id")
	if !ok {
		return
	}
	var req struct {
		IsActive *bool `json:"is_active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	restaurant, err := h.adminService.SetRestaurantActive(restaurantID, *req.IsActive)
	if err != nil {
		respondServiceError(c, err, "SetRestaurantActive: Error from adminService.SetRestaurantActive")
		return
	}
	c.JSON(http.StatusOK, restaurant)
}

// CreditRestaurant appends an admin credit to any tenant's ledger.
func (h *AdminHandler) CreditRestaurant(c *gin.Context) {
	restaurantID, ok := paramInt64(c, "id")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req services.AdminCreditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	tx, err := h.balanceService.AdminCredit(restaurantID, req, userID)
	if err != nil {
		respondServiceError(c, err, "CreditRestaurant: Error from balanceService.AdminCredit")
		return
	}
	c.JSON(http.StatusCreated, tx)
}

// ListOrders handles the cross-tenant order listing with filters.
func (h *AdminHandler) ListOrders(c *gin.Context) {
	var filters models.OrderFilters
	if restaurantIDStr := c.Query("restaurant_id"); restaurantIDStr != "" {
		restaurantID, err := strconv.ParseInt(restaurantIDStr, 10, 64)
		if err != nil {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid restaurant_id format.", err.Error()))
			return
		}
		filters.RestaurantID = &restaurantID
	}
	if status := c.Query("status"); status != "" {
		if !models.IsValidOrderStatus(status) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid status filter.", "unknown status: "+status))
			return
		}
		filters.Status = &status
	}
	if date := c.Query("date"); date != "" {
		filters.Date = &date
	}
	filters.Page, filters.PageSize = pagination(c)

	orders, totalCount, err := h.orderService.GetOrders(filters)
	if err != nil {
		respondServiceError(c, err, "ListOrders: Error from orderService.GetOrders")
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}
	c.JSON(http.StatusOK, gin.H{
		"data":      orders,
		"total":     totalCount,
		"page":      filters.Page,
		"page_size": filters.PageSize,
	})
}

// ListSubscriptions handles the cross-tenant subscription listing.
func (h *AdminHandler) ListSubscriptions(c *gin.Context) {
	page, pageSize := pagination(c)
	subs, totalCount, err := h.adminService.ListSubscriptions(page, pageSize)
	if err != nil {
		respondServiceError(c, err, "ListSubscriptions: Error from adminService.ListSubscriptions")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":      subs,
		"total":     totalCount,
		"page":      page,
		"page_size": pageSize,
	})
}

// UpdateSubscription changes a subscription's plan status.
func (h *AdminHandler) UpdateSubscription(c *gin.Context) {
	subscriptionID, ok := paramInt64(c, "id")
	if !ok {
		return
	}
	var req services.UpdateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}
	if err := h.adminService.UpdateSubscriptionStatus(subscriptionID, req); err != nil {
		respondServiceError(c, err, "UpdateSubscription: Error from adminService.UpdateSubscriptionStatus")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Subscription updated"})
}

// GetOverview returns the platform dashboard counters.
func (h *AdminHandler) GetOverview(c *gin.Context) {
	overview, err := h.adminService.GetOverview()
	if err != nil {
		respondServiceError(c, err, "GetOverview: Error from adminService.GetOverview")
		return
	}
	c.JSON(http.StatusOK, overview)
}
