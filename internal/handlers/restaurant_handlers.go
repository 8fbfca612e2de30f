package handlers

import (
	"net/http"
	"strconv"

	"qrdine_backend/internal/services"
	"qrdine_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// RestaurantHandler serves the owner's restaurant profile, subscription and
// ledger surface.
type RestaurantHandler struct {
	restaurantService services.RestaurantService
	balanceService    services.BalanceService
}

// NewRestaurantHandler creates a new RestaurantHandler.
func NewRestaurantHandler(rs services.RestaurantService, bs services.BalanceService) *RestaurantHandler {
	return &RestaurantHandler{restaurantService: rs, balanceService: bs}
}

// Onboard creates the owner's restaurant with its trial subscription.
func (h *RestaurantHandler) Onboard(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req services.OnboardRestaurantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	restaurant, err := h.restaurantService.Onboard(userID, req)
	if err != nil {
		respondServiceError(c, err, "Onboard: Error from restaurantService.Onboard")
		return
	}
	c.JSON(http.StatusCreated, restaurant)
}

// GetMine returns the owner's restaurant.
func (h *RestaurantHandler) GetMine(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	restaurant, err := h.restaurantService.GetOwnRestaurant(userID)
	if err != nil {
		respondServiceError(c, err, "GetMine: Error from restaurantService.GetOwnRestaurant")
		return
	}
	c.JSON(http.StatusOK, restaurant)
}

// UpdateMine updates the owner-editable profile fields.
func (h *RestaurantHandler) UpdateMine(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req services.UpdateRestaurantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	restaurant, err := h.restaurantService.UpdateOwnRestaurant(userID, req)
	if err != nil {
		respondServiceError(c, err, "UpdateMine: Error from restaurantService.UpdateOwnRestaurant")
		return
	}
	c.JSON(http.StatusOK, restaurant)
}

// GetSubscription returns the owner's subscription record.
func (h *RestaurantHandler) GetSubscription(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	restaurant, err := h.restaurantService.GetOwnRestaurant(userID)
	if err != nil {
		respondServiceError(c, err, "GetSubscription: Error from restaurantService.GetOwnRestaurant")
		return
	}
	sub, err := h.restaurantService.GetSubscription(restaurant.ID)
	if err != nil {
		respondServiceError(c, err, "GetSubscription: Error from restaurantService.GetSubscription")
		return
	}
	c.JSON(http.StatusOK, sub)
}

// GetBalance returns the owner's ledger status (balance plus gate flags).
func (h *RestaurantHandler) GetBalance(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	restaurant, err := h.restaurantService.GetOwnRestaurant(userID)
	if err != nil {
		respondServiceError(c, err, "GetBalance: Error from restaurantService.GetOwnRestaurant")
		return
	}
	status, err := h.balanceService.GetStatus(restaurant.ID)
	if err != nil {
		respondServiceError(c, err, "GetBalance: Error from balanceService.GetStatus")
		return
	}
	c.JSON(http.StatusOK, status)
}

// GetTransactions returns the owner's ledger history, newest first.
func (h *RestaurantHandler) GetTransactions(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	restaurant, err := h.restaurantService.GetOwnRestaurant(userID)
	if err != nil {
		respondServiceError(c, err, "GetTransactions: Error from restaurantService.GetOwnRestaurant")
		return
	}

	limit := 0
	if limitStr := c.Query("limit"); limitStr != "" {
		parsed, parseErr := strconv.Atoi(limitStr)
		if parseErr != nil || parsed < 1 {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid limit format.", "limit must be a positive integer"))
			return
		}
		limit = parsed
	}

	txs, err := h.balanceService.ListTransactions(restaurant.ID, limit)
	if err != nil {
		respondServiceError(c, err, "GetTransactions: Error from balanceService.ListTransactions")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": txs})
}

// Recharge appends a self-service credit to the owner's ledger.
func (h *RestaurantHandler) Recharge(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	restaurant, err := h.restaurantService.GetOwnRestaurant(userID)
	if err != nil {
		respondServiceError(c, err, "Recharge: Error from restaurantService.GetOwnRestaurant")
		return
	}

	var req services.RechargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	tx, err := h.balanceService.Recharge(restaurant.ID, req, userID)
	if err != nil {
		respondServiceError(c, err, "Recharge: Error from balanceService.Recharge")
		return
	}
	c.JSON(http.StatusCreated, tx)
}
