package router

import (
	"github.com/soaringcoupons/internal/config"
	adminhandlers "github.com/soaringcoupons/internal/http/handlers/admin"
	publichandlers "github.com/soaringcoupons/internal/http/handlers/public"
	"github.com/soaringcoupons/internal/logger"
	"github.com/soaringcoupons/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter builds the gin engine with all routes wired
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)

	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	api := r.Group("/api")
	{
		// shop front
		api.GET("/coupon-types", publicHandler.ListCouponTypes)
		api.GET("/coupon-types/:id", publicHandler.GetCouponType)
		api.POST("/orders", publicHandler.CreateOrder)
		api.GET("/orders/:id", publicHandler.GetOrder)

		// gateway round-trip; the asynchronous callback accepts both verbs
		api.GET("/orders/:id/accept", publicHandler.AcceptReturn)
		api.GET("/orders/:id/cancel", publicHandler.CancelReturn)
		api.POST("/payments/webtopay/callback", publicHandler.PaymentCallback)
		api.GET("/payments/webtopay/callback", publicHandler.PaymentCallback)

		admin := api.Group("/admin")
		{
			admin.POST("/login", adminHandler.Login)

			authorized := admin.Use(JWTAuthMiddleware(cfg.JWT.SecretKey, c.AdminRepo))
			{
				authorized.GET("/orders", adminHandler.ListOrders)
				authorized.GET("/orders/:id", adminHandler.GetOrder)
				authorized.POST("/orders/:id/cancel", adminHandler.CancelOrder)

				authorized.GET("/coupons", adminHandler.ListCoupons)
				authorized.GET("/coupons/:id", adminHandler.GetCoupon)
				authorized.POST("/coupons/spawn", adminHandler.SpawnCoupons)
				authorized.POST("/coupons/:id/use", adminHandler.UseCoupon)
				authorized.GET("/expirations", adminHandler.ListExpirations)
			}
		}
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
