package reservations

import (
	"errors"
	"net/http"

	"cinebook/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// CreateReservation handles POST /api/v1/reservations
func (c *Controller) CreateReservation(ctx *gin.Context) {
	userID, err := currentUserID(ctx)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Authentication required", nil, nil)
		return
	}

	var req CreateReservationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request format", nil, err.Error())
		return
	}

	reservation, err := c.service.CreateReservation(ctx.Request.Context(), userID, req)
	if err != nil {
		if conflict, ok := IsSeatConflict(err); ok {
			response.RespondJSON(ctx, "error", http.StatusConflict, "Some seats are already taken", nil, gin.H{
				"conflicting_seats": conflict.Labels,
			})
			return
		}
		switch {
		case errors.Is(err, ErrShowNotFound):
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Show not found", nil, nil)
		case errors.Is(err, ErrShowNotBookable):
			response.RespondJSON(ctx, "error", http.StatusConflict, "Show is not open for reservations", nil, nil)
		case errors.Is(err, ErrInvalidSeats), errors.Is(err, ErrPricingIncomplete):
			response.RespondJSON(ctx, "error", http.StatusBadRequest, err.Error(), nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to create reservation", nil, err.Error())
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Reservation created successfully", reservation, nil)
}

// GetReservation handles GET /api/v1/reservations/:id
func (c *Controller) GetReservation(ctx *gin.Context) {
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
	reservation, err := c.service.GetReservation(ctx.Request.Context(), reservationID, userID, isAdmin)
	if err != nil {
		switch {
		case errors.Is(err, ErrReservationNotFound):
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Reservation not found", nil, nil)
		case errors.Is(err, ErrNotOwner):
			response.RespondJSON(ctx, "error", http.StatusForbidden, "Access denied", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to fetch reservation", nil, err.Error())
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Reservation retrieved successfully", reservation, nil)
}

// GetUserReservations handles GET /api/v1/users/reservations
func (c *Controller) GetUserReservations(ctx *gin.Context) {
	userID, err := currentUserID(ctx)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Authentication required", nil, nil)
		return
	}

	var query ReservationListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}

	reservations, err := c.service.GetUserReservations(ctx.Request.Context(), userID, query)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to fetch reservations", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Reservations retrieved successfully", reservations, nil)
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
