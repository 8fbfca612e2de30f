package handlers

import (
	"net/http"

	"qrdine_backend/internal/models"
	"qrdine_backend/internal/services"
	"qrdine_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// TableHandler serves the owner's table and QR token management.
type TableHandler struct {
	tableService      services.TableService
	restaurantService services.RestaurantService
}

// NewTableHandler creates a new TableHandler.
func NewTableHandler(ts services.TableService, rs services.RestaurantService) *TableHandler {
	return &TableHandler{tableService: ts, restaurantService: rs}
}

func (h *TableHandler) ownRestaurant(c *gin.Context) (*models.Restaurant, bool) {
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

func (h *TableHandler) CreateTable(c *gin.Context) {
	restaurant, ok := h.ownRestaurant(c)
	if !ok {
		return
	}
	var req services.TableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}
	table, err := h.tableService.CreateTable(restaurant.ID, req)
	if err != nil {
		respondServiceError(c, err, "CreateTable: Error from tableService.CreateTable")
		return
	}
	c.JSON(http.StatusCreated, table)
}

func (h *TableHandler) GetTables(c *gin.Context) {
	restaurant, ok := h.ownRestaurant(c)
	if !ok {
		return
	}
	tables, err := h.tableService.GetTables(restaurant.ID)
	if err != nil {
		respondServiceError(c, err, "GetTables: Error from tableService.GetTables")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": tables})
}

func (h *TableHandler) RenameTable(c *gin.Context) {
	restaurant, ok := h.ownRestaurant(c)
	if !ok {
		return
	}
	tableID, ok := paramInt64(c, "id")
	if !ok {
		return
	}
	var req services.TableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}
	table, err := h.tableService.RenameTable(restaurant.ID, tableID, req)
	if err != nil {
		respondServiceError(c, err, "RenameTable: Error from tableService.RenameTable")
		return
	}
	c.JSON(http.StatusOK, table)
}

func (h *TableHandler) DeleteTable(c *gin.Context) {
	restaurant, ok := h.ownRestaurant(c)
	if !ok {
		return
	}
	tableID, ok := paramInt64(c, "id")
	if !ok {
		return
	}
	if err := h.tableService.DeleteTable(restaurant.ID, tableID); err != nil {
		respondServiceError(c, err, "DeleteTable: Error from tableService.DeleteTable")
		return
	}
	c.Status(http.StatusNoContent)
}
