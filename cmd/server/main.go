package main

import (
	"log"
	"net/http"
	"os"
	"strings"

	"qrdine_backend/internal/database"
	"qrdine_backend/internal/router"
	"qrdine_backend/internal/services"
	"qrdine_backend/pkg/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// envDecimal reads a decimal environment variable, falling back on parse
// failure so a typo in deployment config cannot zero out a gate threshold.
func envDecimal(key, fallback string) decimal.Decimal {
	value := utils.Getenv(key, fallback)
	parsed, err := decimal.NewFromString(value)
	if err != nil {
		utils.LogError(err, "Invalid decimal in env var "+key+", using default "+fallback)
		parsed = decimal.RequireFromString(fallback)
	}
	return parsed
}

func main() {
	// Initialize Logger
	utils.InitLogger()

	// Load database configuration from environment variables
	dbHost := utils.Getenv("DB_HOST", "localhost")
	dbPort := utils.Getenv("DB_PORT", "5432")
	dbUser := utils.Getenv("DB_USER", "qrdine_user")
	dbPassword := utils.Getenv("DB_PASSWORD", "qrdine_password")
	dbName := utils.Getenv("DB_NAME", "qrdine_db")
	dbSSLMode := utils.Getenv("DB_SSLMODE", "disable")
	dbSchemaPath := utils.Getenv("DB_SCHEMA_PATH", "")

	// Initialize Database
	database.InitDB(dbHost, dbPort, dbUser, dbPassword, dbName, dbSSLMode, dbSchemaPath)
	utils.LogInfo("Database initialized", map[string]interface{}{"configured_from_env": true})

	// Ledger gate thresholds
	balanceCfg := services.BalanceConfig{
		MinAcceptBalance:  envDecimal("MIN_ACCEPT_BALANCE", "500"),
		LowBalanceWarning: envDecimal("LOW_BALANCE_WARNING", "50"),
		OrderFee:          envDecimal("ORDER_FEE", "5"),
	}

	engine := gin.Default()

	// Add GinLogger middleware for request logging
	engine.Use(utils.GinLogger())

	// CORS configuration
	corsAllowedOriginsEnv := os.Getenv("CORS_ALLOWED_ORIGINS")
	var allowedOrigins []string
	if corsAllowedOriginsEnv != "" {
		allowedOrigins = strings.Split(corsAllowedOriginsEnv, ",")
	} else {
		allowedOrigins = []string{"http://localhost:3000", "http://localhost:5173"}
	}

	config := cors.DefaultConfig()
	config.AllowOrigins = allowedOrigins
	config.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	config.AllowCredentials = true
	engine.Use(cors.New(config))

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Setup all application routes
	router.Setup(engine, database.GetDB(), balanceCfg)

	// Server port configuration
	port := utils.Getenv("PORT", "8080")
	utils.LogInfo("Server starting", map[string]interface{}{"port": port, "configured_from_env": true})

	if err := engine.Run(":" + port); err != nil {
		utils.LogError(err, "Failed to start server")
		log.Fatalf("Failed to start server: %v", err)
	}
}
