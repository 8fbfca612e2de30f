package router

import (
	"database/sql"

	"qrdine_backend/internal/handlers"
	"qrdine_backend/internal/middleware"
	"qrdine_backend/internal/realtime"
	"qrdine_backend/internal/repositories"
	"qrdine_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// Setup initializes the routing for the application.
func Setup(engine *gin.Engine, db *sql.DB, balanceCfg services.BalanceConfig) {
	// Initialize Repositories
	authRepo := repositories.NewAuthRepository(db)
	restaurantRepo := repositories.NewRestaurantRepository(db)
	subscriptionRepo := repositories.NewSubscriptionRepository(db)
	balanceRepo := repositories.NewBalanceRepository(db)
	menuRepo := repositories.NewMenuRepository(db)
	tableRepo := repositories.NewTableRepository(db)
	orderRepo := repositories.NewOrderRepository(db)
	txRunner := repositories.NewTxRunner(db)

	notifier := realtime.NewLogNotifier()

	// Initialize Services
	authService := services.NewAuthService(authRepo, txRunner)
	balanceService := services.NewBalanceService(balanceRepo, txRunner, notifier, balanceCfg)
	restaurantService := services.NewRestaurantService(restaurantRepo, subscriptionRepo, menuRepo, balanceService, txRunner)
	menuService := services.NewMenuService(menuRepo, txRunner)
	tableService := services.NewTableService(tableRepo, txRunner)
	orderService := services.NewOrderService(orderRepo, menuRepo, balanceRepo, restaurantRepo, tableRepo, txRunner, notifier, balanceCfg)
	adminService := services.NewAdminService(restaurantRepo, subscriptionRepo, orderRepo, txRunner, notifier)

	// Initialize Handlers
	authHandler := handlers.NewAuthHandler(authService)
	publicHandler := handlers.NewPublicHandler(restaurantService, orderService, balanceService)
	orderHandler := handlers.NewOrderHandler(orderService, restaurantService)
	restaurantHandler := handlers.NewRestaurantHandler(restaurantService, balanceService)
	menuHandler := handlers.NewMenuHandler(menuService, restaurantService)
	tableHandler := handlers.NewTableHandler(tableService, restaurantService)
	adminHandler := handlers.NewAdminHandler(adminService, balanceService, orderService)

	apiV1 := engine.Group("/api/v1")

	// Anonymous customer surface (no auth; session cookie only)
	SetupPublicRoutes(apiV1, publicHandler)

	// Auth routes (register/login public, me/logout authenticated inside)
	SetupAuthRoutes(apiV1, authHandler)

	// Authenticated surface
	authenticated := apiV1.Group("")
	authenticated.Use(middleware.AuthMiddleware())
	{
		SetupOwnerOrderRoutes(authenticated, orderHandler)
		SetupRestaurantRoutes(authenticated, restaurantHandler)
		SetupMenuRoutes(authenticated, menuHandler)
		SetupTableRoutes(authenticated, tableHandler)
		SetupAdminRoutes(authenticated, adminHandler)
	}
}
