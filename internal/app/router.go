package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"hail/internal/handler"
	"hail/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	RideHandler    *handler.RideHandler
	WalletHandler  *handler.WalletHandler
	PricingHandler *handler.PricingHandler
	UserHandler    *handler.UserHandler
	RedisClient    *redis.Client
	NewRelicApp    *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware())

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	router.Use(middleware.IdempotencyMiddleware(deps.RedisClient))

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		// User routes.
		users := v1.Group("/users")
		{
			users.POST("/register", deps.UserHandler.Register)
			users.GET("/:id", deps.UserHandler.Get)
		}

		// Ride lifecycle routes.
		rides := v1.Group("/rides")
		{
			rides.POST("", deps.RideHandler.CreateRide)
			rides.GET("", deps.RideHandler.GetAll)
			rides.GET("/:id", deps.RideHandler.GetRide)
			rides.POST("/:id/accept", deps.RideHandler.AcceptRide)
			rides.POST("/:id/start", deps.RideHandler.StartRide)
			rides.POST("/:id/complete", deps.RideHandler.CompleteRide)
			rides.POST("/:id/cancel", deps.RideHandler.CancelRide)
			rides.POST("/:id/rate", deps.RideHandler.RateRide)
			rides.GET("/:id/bill", deps.RideHandler.GetBill)
		}

		// Ride history per party.
		v1.GET("/customers/:customerID/rides", deps.RideHandler.GetCustomerRides)
		v1.GET("/drivers/:driverID/rides", deps.RideHandler.GetDriverRides)

		// Wallet routes.
		wallet := v1.Group("/wallet")
		{
			wallet.GET("/:userID/balance", deps.WalletHandler.GetBalance)
			wallet.GET("/:userID/transactions", deps.WalletHandler.GetTransactions)
			wallet.POST("/:userID/recharge", deps.WalletHandler.Recharge)
			wallet.POST("/:userID/withdraw", deps.WalletHandler.Withdraw)
		}

		// Rate card routes.
		pricing := v1.Group("/pricing")
		{
			pricing.GET("", deps.PricingHandler.GetAll)
			pricing.GET("/:vehicleType", deps.PricingHandler.GetByVehicleType)
			pricing.PUT("/:vehicleType", deps.PricingHandler.Upsert)
		}
	}

	return router
}
