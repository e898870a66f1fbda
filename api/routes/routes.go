package routes

import (
	"github.com/anunciosmz/marketplace-backend/internal/config"
	"github.com/anunciosmz/marketplace-backend/internal/handlers"
	"github.com/anunciosmz/marketplace-backend/internal/middleware"
	"github.com/anunciosmz/marketplace-backend/pkg/jwt"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// HandlerDependencies collects the handlers the router wires up
type HandlerDependencies struct {
	AdHandler      *handlers.AdHandler
	PaymentHandler *handlers.PaymentHandler
	BoostHandler   *handlers.BoostHandler
}

// SetupRouter sets up the router
func SetupRouter(cfg *config.Config, rdb *redis.Client, deps HandlerDependencies) *gin.Engine {
	router := gin.Default()

	router.Use(middleware.CORSMiddleware(cfg))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware())

	// Public routes
	public := router.Group("/api/v1")
	{
		public.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{"status": "ok"})
		})

		public.GET("/plans", deps.PaymentHandler.GetPlans)

		// Ad routes. Listing is public; ownership checks belong to the
		// external auth provider in front of this API.
		ads := public.Group("/ads")
		{
			ads.GET("", deps.AdHandler.GetAds)
			ads.GET("/featured", deps.AdHandler.GetFeaturedAds)
			ads.GET("/count", deps.AdHandler.GetAdCount)
			ads.GET("/user/:userId", deps.AdHandler.GetAdsByUser)
			ads.GET("/:id", deps.AdHandler.GetAdByID)
			ads.POST("", deps.AdHandler.CreateAd)
			ads.DELETE("/:id", deps.AdHandler.DeleteAd)
		}

		// Boost flow. Claim submission is rate limited when redis is up.
		boostGroup := public.Group("/boost")
		{
			sessions := boostGroup.Group("/sessions")
			sessions.POST("", deps.BoostHandler.StartSession)
			sessions.POST("/:id/plan", deps.BoostHandler.SelectPlan)
			sessions.GET("/:id/instructions", deps.BoostHandler.GetInstructions)
			sessions.POST("/:id/proceed", deps.BoostHandler.Proceed)
			sessions.POST("/:id/back", deps.BoostHandler.Back)
			sessions.GET("/:id/result", deps.BoostHandler.GetResult)
			sessions.DELETE("/:id", deps.BoostHandler.CloseSession)

			if rdb != nil && cfg.Redis.Enabled {
				limited := middleware.SubmitRateLimitMiddleware(rdb, cfg.Redis)
				sessions.POST("/:id/submit", limited, deps.BoostHandler.Submit)
				boostGroup.POST("/payments", limited, deps.PaymentHandler.SubmitPayment)
			} else {
				sessions.POST("/:id/submit", deps.BoostHandler.Submit)
				boostGroup.POST("/payments", deps.PaymentHandler.SubmitPayment)
			}
		}
	}

	// Admin routes: the manual review queue and the activation repair path
	tokens := jwt.NewTokenService(cfg.JWT.Secret, cfg.JWT.ExpiresIn)
	admin := router.Group("/api/v1/admin")
	admin.Use(middleware.JWTAuthMiddleware(tokens))
	{
		payments := admin.Group("/payments")
		{
			payments.GET("/pending", deps.PaymentHandler.GetPendingPayments)
			payments.GET("/:id", deps.PaymentHandler.GetPaymentByID)
			payments.POST("/:id/review", deps.PaymentHandler.ReviewPayment)
			payments.POST("/:id/activate", deps.PaymentHandler.RetryActivation)
		}
	}

	return router
}
