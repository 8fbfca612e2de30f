package router

import (
	"qrdine_backend/internal/handlers"
	"qrdine_backend/internal/middleware"
	"qrdine_backend/internal/models"

	"github.com/gin-gonic/gin"
)

// SetupAuthRoutes sets up the authentication routes.
func SetupAuthRoutes(apiGroup *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	authRoutes := apiGroup.Group("/auth")
	{
		authRoutes.POST("/register", authHandler.RegisterUser)
		authRoutes.POST("/login", authHandler.LoginUser)
		authRoutes.POST("/refresh-token", authHandler.RefreshToken)

		authRequiredRoutes := authRoutes.Group("")
		authRequiredRoutes.Use(middleware.AuthMiddleware())
		{
			authRequiredRoutes.POST("/logout", authHandler.LogoutUser)
			authRequiredRoutes.GET("/me", authHandler.GetCurrentUser)
		}
	}
}

// SetupPublicRoutes sets up the anonymous customer routes. No authentication:
// the session tracker cookie scopes the lookup and cancel paths.
func SetupPublicRoutes(apiGroup *gin.RouterGroup, publicHandler *handlers.PublicHandler) {
	publicRoutes := apiGroup.Group("/public")
	{
		publicRoutes.GET("/:slug/menu", publicHandler.GetMenu)
		publicRoutes.GET("/:slug/can-accept", publicHandler.CanAcceptOrders)
		publicRoutes.POST("/:slug/orders", publicHandler.CreateOrder)
	}

	// Session-scoped order tracking lives outside the slug tree because the
	// cookie may span orders from several restaurants.
	apiGroup.GET("/orders/lookup", publicHandler.LookupOrders)
	apiGroup.POST("/orders/:id/cancel", publicHandler.CancelOrder)
}

// SetupOwnerOrderRoutes sets up the owner's order dashboard routes.
func SetupOwnerOrderRoutes(authenticatedGroup *gin.RouterGroup, orderHandler *handlers.OrderHandler) {
	orderRoutes := authenticatedGroup.Group("/orders")
	orderRoutes.Use(middleware.RoleAuthMiddleware(models.RoleOwner, models.RoleAdmin))
	{
		orderRoutes.GET("", orderHandler.GetOrders)
		orderRoutes.GET("/:id", orderHandler.GetOrder)
		orderRoutes.PATCH("/:id/status", orderHandler.UpdateOrderStatus)
	}
}

// SetupRestaurantRoutes sets up the owner's restaurant profile and ledger routes.
func SetupRestaurantRoutes(authenticatedGroup *gin.RouterGroup, restaurantHandler *handlers.RestaurantHandler) {
	restaurantRoutes := authenticatedGroup.Group("/restaurants")
	restaurantRoutes.Use(middleware.RoleAuthMiddleware(models.RoleOwner, models.RoleAdmin))
	{
		restaurantRoutes.POST("", restaurantHandler.Onboard)
		restaurantRoutes.GET("/me", restaurantHandler.GetMine)
		restaurantRoutes.PUT("/me", restaurantHandler.UpdateMine)
		restaurantRoutes.GET("/me/subscription", restaurantHandler.GetSubscription)
	}

	balanceRoutes := authenticatedGroup.Group("/balance")
	balanceRoutes.Use(middleware.RoleAuthMiddleware(models.RoleOwner, models.RoleAdmin))
	{
		balanceRoutes.GET("", restaurantHandler.GetBalance)
		balanceRoutes.GET("/transactions", restaurantHandler.GetTransactions)
		balanceRoutes.POST("/recharge", restaurantHandler.Recharge)
	}
}

// SetupMenuRoutes sets up the owner's menu management routes.
func SetupMenuRoutes(authenticatedGroup *gin.RouterGroup, menuHandler *handlers.MenuHandler) {
	categoryRoutes := authenticatedGroup.Group("/menu-categories")
	categoryRoutes.Use(middleware.RoleAuthMiddleware(models.RoleOwner, models.RoleAdmin))
	{
		categoryRoutes.POST("", menuHandler.CreateCategory)
		categoryRoutes.GET("", menuHandler.GetCategories)
		categoryRoutes.PUT("/:id", menuHandler.UpdateCategory)
		categoryRoutes.DELETE("/:id", menuHandler.DeleteCategory)
	}

	itemRoutes := authenticatedGroup.Group("/menu-items")
	itemRoutes.Use(middleware.RoleAuthMiddleware(models.RoleOwner, models.RoleAdmin))
	{
		itemRoutes.POST("", menuHandler.CreateItem)
		itemRoutes.GET("", menuHandler.GetItems)
		itemRoutes.PUT("/:id", menuHandler.UpdateItem)
		itemRoutes.DELETE("/:id", menuHandler.DeleteItem)
	}
}

// SetupTableRoutes sets up the owner's table management routes.
func SetupTableRoutes(authenticatedGroup *gin.RouterGroup, tableHandler *handlers.TableHandler) {
	tableRoutes := authenticatedGroup.Group("/tables")
	tableRoutes.Use(middleware.RoleAuthMiddleware(models.RoleOwner, models.RoleAdmin))
	{
		tableRoutes.POST("", tableHandler.CreateTable)
		tableRoutes.GET("", tableHandler.GetTables)
		tableRoutes.PUT("/:id", tableHandler.RenameTable)
		tableRoutes.DELETE("/:id", tableHandler.DeleteTable)
	}
}

// SetupAdminRoutes sets up the platform operator routes.
func SetupAdminRoutes(authenticatedGroup *gin.RouterGroup, adminHandler *handlers.AdminHandler) {
	adminRoutes := authenticatedGroup.Group("/admin")
	adminRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
	{
		adminRoutes.GET("/restaurants", adminHandler.ListRestaurants)
		adminRoutes.PATCH("/restaurants/:id/active", adminHandler.SetRestaurantActive)
		adminRoutes.POST("/restaurants/:id/credit", adminHandler.CreditRestaurant)
		adminRoutes.GET("/orders", adminHandler.ListOrders)
		adminRoutes.GET("/subscriptions", adminHandler.ListSubscriptions)
		adminRoutes.PATCH("/subscriptions/:id", adminHandler.UpdateSubscription)
		adminRoutes.GET("/overview", adminHandler.GetOverview)
	}
}
