package http

import (
	"github.com/gin-gonic/gin"
	"github.com/menucompare/backend/config"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler, log *zap.Logger) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware(log))
	router.Use(RequestIDMiddleware())
	router.Use(LoggerMiddleware(log))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	router.GET("/health", handler.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(RateLimitMiddleware(cfg.RateLimit.PerIP))
	{
		compare := v1.Group("/compare")
		{
			compare.GET("", handler.CompareByURL)
			compare.POST("", handler.CompareCatalogs)
			compare.GET("/:platform/:vendorCode", handler.CompareVendor)
		}

		vendors := v1.Group("/vendors")
		{
			vendors.GET("", handler.VendorOverview)
			vendors.GET("/:platform/:vendorCode", handler.VendorDetails)
			vendors.GET("/:platform/:vendorCode/paired", handler.VendorPaired)
		}
	}

	return router
}
