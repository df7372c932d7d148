package api_gateway

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lats-procurement-ledger/internal/api_gateway/handler"
	"github.com/lats-procurement-ledger/internal/api_gateway/middleware"
)

// setupRouter configures API routes and middleware for the application
func setupRouter(
	logger *slog.Logger,
	r *gin.Engine,
	orderHandler *handler.OrderHandler,
	paymentHandler *handler.PaymentHandler,
	shippingHandler *handler.ShippingHandler,
	registryHandler *handler.RegistryHandler,
) {
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CorrelationID())

	// API v1 endpoints
	v1 := r.Group("/api/v1")
	{
		// Purchase order lifecycle, payment and shipping operations
		orders := v1.Group("/purchase-orders")
		{
			orders.POST("", orderHandler.Create)
			orders.GET("/:id", orderHandler.GetByID)
			orders.POST("/:id/payments", paymentHandler.Submit)
			orders.GET("/:id/payments", paymentHandler.GetByOrderID)
			orders.PUT("/:id/shipping", shippingHandler.Save)
			orders.GET("/:id/shipping", shippingHandler.Get)
		}

		// Payment ledger lookups
		payments := v1.Group("/payments")
		{
			payments.GET("", paymentHandler.ListByTimeRange)
			payments.GET("/:id", paymentHandler.GetByID)
		}

		// Shipment status transitions
		shipments := v1.Group("/shipments")
		{
			shipments.PATCH("/:id/status", shippingHandler.UpdateStatus)
		}

		// Reference data for the payment and shipping forms
		v1.GET("/payment-methods", registryHandler.ListMethods)
		v1.GET("/payment-accounts", registryHandler.ListAccounts)
		v1.GET("/shipping-agents", registryHandler.ListAgents)
	}

	// Health check endpoint for monitoring
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})
}
