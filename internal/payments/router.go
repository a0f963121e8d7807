package payments

import (
	"cinebook/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupPaymentRoutes configures payment and settlement routes
func SetupPaymentRoutes(rg *gin.RouterGroup, controller *Controller) {
	payments := rg.Group("/payments")
	{
		// Webhook authenticates by signature, not by JWT
		payments.POST("/webhook", controller.HandleWebhook) // POST /api/v1/payments/webhook

		authed := payments.Group("")
		authed.Use(middleware.JWTAuth())
		{
			authed.POST("/checkout", controller.CreateCheckout) // POST /api/v1/payments/checkout
			authed.POST("/verify", controller.VerifyPayment)    // POST /api/v1/payments/verify
		}
	}

	receipts := rg.Group("/reservations")
	receipts.Use(middleware.JWTAuth())
	{
		receipts.GET("/:id/receipt", controller.GetReceipt) // GET /api/v1/reservations/:id/receipt
	}
}
