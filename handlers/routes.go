// Package handlers provides HTTP request handlers for the link shortener service.
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// RegisterRoutes sets up all the routes for the link shortener service and
// applies the shared middleware stack.
func RegisterRoutes(r *gin.Engine, handler URLHandlerInterface, logger *zap.Logger) {
	r.Use(CORSMiddleware())
	r.Use(RequestIDMiddleware())
	r.Use(LoggingMiddleware(logger))
	r.Use(MetricsMiddleware())

	// API routes
	v1 := r.Group("/api/v1")
	{
		v1.POST("/shorten", handler.CreateShortURL)
		v1.POST("/reverse", handler.ReverseLookup)
		v1.GET("/qrcode/:code", handler.QRCode)
	}

	// Operational endpoints
	r.GET("/health", handler.HealthCheck)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Redirection route (not under /api/v1 as it's user-facing)
	r.GET("/:code", handler.RedirectURL)
}
