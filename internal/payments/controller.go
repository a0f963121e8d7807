package payments

import (
	"errors"
	"io"
	"net/http"

	"cinebook/internal/shared/utils/response"
	"cinebook/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// CreateCheckout handles POST /api/v1/payments/checkout
func (c *Controller) CreateCheckout(ctx *gin.Context) {
	userID, err := currentUserID(ctx)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Authentication required", nil, nil)
		return
	}

	var req CreateCheckoutRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request format", nil, err.Error())
		return
	}

	session, err := c.service.CreateCheckout(ctx.Request.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrReservationNotFound):
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Reservation not found", nil, nil)
		case errors.Is(err, ErrNotOwner):
			response.RespondJSON(ctx, "error", http.StatusForbidden, "Access denied", nil, nil)
		case errors.Is(err, ErrReservationNotPayable):
			response.RespondJSON(ctx, "error", http.StatusConflict, "Reservation is not awaiting payment", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to create checkout session", nil, err.Error())
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Checkout session created", session, nil)
}

// VerifyPayment handles POST /api/v1/payments/verify
func (c *Controller) VerifyPayment(ctx *gin.Context) {
	userID, err := currentUserID(ctx)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Authentication required", nil, nil)
		return
	}

	var req VerifyPaymentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request format", nil, err.Error())
		return
	}

	result, err := c.service.VerifyPayment(ctx.Request.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrReservationNotFound):
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Reservation not found", nil, nil)
		case errors.Is(err, ErrNotOwner):
			response.RespondJSON(ctx, "error", http.StatusForbidden, "Access denied", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to verify payment", nil, err.Error())
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Payment verified", result, nil)
}

// HandleWebhook handles POST /api/v1/payments/webhook
//
// The provider signs the raw body, so it must be read before any JSON
// binding touches it. Responses here talk to the provider, not a browser:
// 2xx acknowledges, anything else triggers a retry.
func (c *Controller) HandleWebhook(ctx *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(ctx.Request.Body, 1<<16))
	if err != nil {
		ctx.String(http.StatusBadRequest, "could not read body")
		return
	}

	signature := ctx.GetHeader("Stripe-Signature")
	if err := c.service.HandleWebhook(ctx.Request.Context(), payload, signature); err != nil {
		if errors.Is(err, ErrBadSignature) {
			logger.GetDefault().LogWebhookRejected(ctx.Request.Context(), "bad signature", ctx.ClientIP())
			ctx.String(http.StatusBadRequest, "invalid signature")
			return
		}
		// Transient failure; let the provider retry.
		ctx.String(http.StatusInternalServerError, "settlement failed")
		return
	}

	ctx.Status(http.StatusOK)
}

// GetReceipt handles GET /api/v1/reservations/:id/receipt
func (c *Controller) GetReceipt(ctx *gin.Context) {
	userID, err := currentUserID(ctx)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Authentication required", nil, nil)
		return
	}

	reservationID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid reservation ID", nil, nil)
		return
	}

	isAdmin := ctx.GetString("user_role") == "ADMIN"
	receipt, err := c.service.GetReceipt(ctx.Request.Context(), reservationID, userID, isAdmin)
	if err != nil {
		switch {
		case errors.Is(err, ErrReservationNotFound):
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Reservation not found", nil, nil)
		case errors.Is(err, ErrReceiptNotFound):
			response.RespondJSON(ctx, "error", http.StatusNotFound, "No receipt issued for this reservation", nil, nil)
		case errors.Is(err, ErrNotOwner):
			response.RespondJSON(ctx, "error", http.StatusForbidden, "Access denied", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to fetch receipt", nil, err.Error())
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Receipt retrieved successfully", receipt, nil)
}

func currentUserID(ctx *gin.Context) (uuid.UUID, error) {
	raw, exists := ctx.Get("user_id")
	if !exists {
		return uuid.Nil, errors.New("user not authenticated")
	}
	userID, ok := raw.(string)
	if !ok {
		return uuid.Nil, errors.New("invalid user id in context")
	}
	return uuid.Parse(userID)
}
