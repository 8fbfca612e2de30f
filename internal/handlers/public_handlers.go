package handlers

import (
	"net/http"

	"qrdine_backend/internal/models"
	"qrdine_backend/internal/services"
	"qrdine_backend/internal/session"
	"qrdine_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// sessionCookieMaxAge keeps the order tracker alive for 30 days; long enough
// for any dine-in visit, short enough that stale ids eventually fall off.
const sessionCookieMaxAge = 30 * 24 * 60 * 60

// PublicHandler serves the anonymous customer surface: the menu page,
// the acceptance check, checkout, and the session-scoped order tracker.
type PublicHandler struct {
	restaurantService services.RestaurantService
	orderService      services.OrderService
	balanceService    services.BalanceService
}

// NewPublicHandler creates a new PublicHandler.
func NewPublicHandler(
	rs services.RestaurantService,
	os services.OrderService,
	bs services.BalanceService,
) *PublicHandler {
	return &PublicHandler{
		restaurantService: rs,
		orderService:      os,
		balanceService:    bs,
	}
}

// readOrderSet decodes the session tracker cookie; a missing or corrupt
// cookie degrades to an empty set.
func readOrderSet(c *gin.Context) *session.OrderSet {
	value, err := c.Cookie(session.CookieName)
	if err != nil {
		return session.NewOrderSet()
	}
	return session.Decode(value)
}

// writeOrderSet persists the tracker back to the client.
func writeOrderSet(c *gin.Context, set *session.OrderSet) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(session.CookieName, set.Encode(), sessionCookieMaxAge, "/", "", false, true)
}

// GetMenu serves the public menu page payload by restaurant slug.
func (h *PublicHandler) GetMenu(c *gin.Context) {
	menu, err := h.restaurantService.GetPublicMenu(c.Param("slug"))
	if err != nil {
		respondServiceError(c, err, "GetMenu: Error from restaurantService.GetPublicMenu")
		return
	}
	c.JSON(http.StatusOK, menu)
}

// CanAcceptOrders exposes only the boolean gate; balance values never leave
// the owner/admin surface.
func (h *PublicHandler) CanAcceptOrders(c *gin.Context) {
	restaurant, err := h.restaurantService.ResolveSlug(c.Param("slug"))
	if err != nil {
		respondServiceError(c, err, "CanAcceptOrders: Error from restaurantService.ResolveSlug")
		return
	}
	canAccept, err := h.balanceService.CanAcceptOrders(restaurant.ID)
	if err != nil {
		respondServiceError(c, err, "CanAcceptOrders: Error from balanceService.CanAcceptOrders")
		return
	}
	c.JSON(http.StatusOK, gin.H{"can_accept_orders": canAccept})
}

// CreateOrder is the anonymous checkout. On success the new order id is added
// to the session tracker cookie.
func (h *PublicHandler) CreateOrder(c *gin.Context) {
	restaurant, err := h.restaurantService.ResolveSlug(c.Param("slug"))
	if err != nil {
		respondServiceError(c, err, "CreateOrder: Error from restaurantService.ResolveSlug")
		return
	}

	var req services.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	order, err := h.orderService.CreateOrder(restaurant.ID, req)
	if err != nil {
		respondServiceError(c, err, "CreateOrder: Error from orderService.CreateOrder")
		return
	}

	set := readOrderSet(c)
	set.Add(order.ID)
	writeOrderSet(c, set)

	c.JSON(http.StatusCreated, order)
}

// LookupOrders returns every order the session tracker knows about.
func (h *PublicHandler) LookupOrders(c *gin.Context) {
	orders, err := h.orderService.GetSessionOrders(readOrderSet(c))
	if err != nil {
		respondServiceError(c, err, "LookupOrders: Error from orderService.GetSessionOrders")
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}
	c.JSON(http.StatusOK, gin.H{"data": orders})
}

// CancelOrder is the customer's self-service abort: only orders the session
// created, and only while they are still pending.
func (h *PublicHandler) CancelOrder(c *gin.Context) {
	orderID, ok := paramInt64(c, "id")
	if !ok {
		return
	}
	order, err := h.orderService.CustomerCancel(orderID, readOrderSet(c))
	if err != nil {
		respondServiceError(c, err, "CancelOrder: Error from orderService.CustomerCancel")
		return
	}
	c.JSON(http.StatusOK, order)
}
