package handlers

import (
	"net/http"
	"strconv"

	"qrdine_backend/internal/models"
	"qrdine_backend/internal/services"
	"qrdine_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// OrderHandler serves the owner's order dashboard. Every route resolves the
// caller's restaurant first; all queries are scoped to it.
type OrderHandler struct {
	orderService      services.OrderService
	restaurantService services.RestaurantService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(os services.OrderService, rs services.RestaurantService) *OrderHandler {
	return &OrderHandler{orderService: os, restaurantService: rs}
}

// ownRestaurant resolves the authenticated owner's restaurant or responds.
func (h *OrderHandler) ownRestaurant(c *gin.Context) (*models.Restaurant, bool) {
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

// GetOrders handles fetching the restaurant's orders with filters.
func (h *OrderHandler) GetOrders(c *gin.Context) {
	restaurant, ok := h.ownRestaurant(c)
	if !ok {
		return
	}

	var filters models.OrderFilters
	filters.RestaurantID = &restaurant.ID

	if tableIDStr := c.Query("table_id"); tableIDStr != "" {
		tableID, err := strconv.ParseInt(tableIDStr, 10, 64)
		if err != nil {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid table_id format.", err.Error()))
			return
		}
		filters.TableID = &tableID
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
		respondServiceError(c, err, "GetOrders: Error from orderService.GetOrders")
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

// GetOrder handles fetching a single order with its items.
func (h *OrderHandler) GetOrder(c *gin.Context) {
	restaurant, ok := h.ownRestaurant(c)
	if !ok {
		return
	}
	orderID, ok := paramInt64(c, "id")
	if !ok {
		return
	}

	order, err := h.orderService.GetOrderForRestaurant(orderID, restaurant.ID)
	if err != nil {
		respondServiceError(c, err, "GetOrder: Error from orderService.GetOrderForRestaurant")
		return
	}
	c.JSON(http.StatusOK, order)
}

// UpdateOrderStatus handles kitchen-flow transitions.
func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	restaurant, ok := h.ownRestaurant(c)
	if !ok {
		return
	}
	orderID, ok := paramInt64(c, "id")
	if !ok {
		return
	}

	var req services.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	order, err := h.orderService.UpdateStatus(orderID, restaurant.ID, req)
	if err != nil {
		respondServiceError(c, err, "UpdateOrderStatus: Error from orderService.UpdateStatus")
		return
	}
	c.JSON(http.StatusOK, order)
}
