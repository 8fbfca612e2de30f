package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"qrdine_backend/internal/services"
	"qrdine_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// paramInt64 parses a path parameter as int64, responding 400 on failure.
func paramInt64(c *gin.Context, name string) (int64, bool) {
	value, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || value <= 0 {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid "+name+" format.", "must be a positive integer"))
		return 0, false
	}
	return value, true
}

// currentUserID pulls the authenticated user id set by AuthMiddleware.
func currentUserID(c *gin.Context) (int64, bool) {
	raw, exists := c.Get("userID")
	if !exists {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "User not authenticated.", "missing user id in context"))
		return 0, false
	}
	userID, ok := raw.(int64)
	if !ok {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Invalid user id in context.", ""))
		return 0, false
	}
	return userID, true
}

// pagination reads page/page_size query params with defaults.
func pagination(c *gin.Context) (page, pageSize int) {
	page = 1
	pageSize = 20
	if pageStr := c.Query("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			page = p
		}
	}
	if sizeStr := c.Query("page_size"); sizeStr != "" {
		if s, err := strconv.Atoi(sizeStr); err == nil && s > 0 {
			pageSize = s
		}
	}
	return page, pageSize
}

// respondServiceError maps the service sentinels every handler shares onto
// HTTP responses. Handlers with additional, more specific errors check those
// first and fall back to this.
func respondServiceError(c *gin.Context, err error, logContext string) {
	utils.LogError(err, logContext)
	switch {
	case errors.Is(err, services.ErrValidation),
		errors.Is(err, services.ErrUnknownTable):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Input validation failed.", err.Error()))
	case errors.Is(err, services.ErrOrderRejected):
		// Deliberately coarse: customers are not told whether the cause is
		// the tenant's balance or deactivation.
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Restaurant is not accepting orders right now.", ""))
	case errors.Is(err, services.ErrInvalidTransition):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Order status can no longer change.", err.Error()))
	case errors.Is(err, services.ErrRestaurantNotFound),
		errors.Is(err, services.ErrOrderNotFound),
		errors.Is(err, services.ErrMenuItemNotFound),
		errors.Is(err, services.ErrCategoryNotFound),
		errors.Is(err, services.ErrItemNotFound),
		errors.Is(err, services.ErrTableNotFound),
		errors.Is(err, services.ErrSubscriptionNotFound),
		errors.Is(err, services.ErrUserNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Resource not found.", err.Error()))
	case errors.Is(err, services.ErrOwnerHasRestaurant),
		errors.Is(err, services.ErrSlugTaken),
		errors.Is(err, services.ErrUsernameExists),
		errors.Is(err, services.ErrEmailExists):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, err.Error(), ""))
	case errors.Is(err, services.ErrInvalidCredentials):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Invalid username or password.", ""))
	default:
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Internal server error.", ""))
	}
}
