package venues

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

// CreateAuditorium handles POST /api/v1/admin/auditoriums
func (c *Controller) CreateAuditorium(ctx *gin.Context) {
	var req CreateAuditoriumRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	auditorium, err := c.service.CreateAuditorium(ctx.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrDuplicateSeatLabel) {
			response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid seat layout", nil, err.Error())
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to create auditorium", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Auditorium created successfully", auditorium, nil)
}

// GetAllAuditoriums handles GET /api/v1/auditoriums
func (c *Controller) GetAllAuditoriums(ctx *gin.Context) {
	var query AuditoriumListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}

	result, err := c.service.GetAllAuditoriums(ctx.Request.Context(), query)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to get auditoriums", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Auditoriums retrieved successfully", result, nil)
}

// GetAuditoriumLayout handles GET /api/v1/auditoriums/:id/layout
func (c *Controller) GetAuditoriumLayout(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid auditorium ID", nil, nil)
		return
	}

	layout, err := c.service.GetAuditoriumLayout(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrAuditoriumNotFound) {
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Auditorium not found", nil, nil)
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to get auditorium layout", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Auditorium layout retrieved successfully", layout, nil)
}

// DeleteAuditorium handles DELETE /api/v1/admin/auditoriums/:id
func (c *Controller) DeleteAuditorium(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid auditorium ID", nil, nil)
		return
	}

	if err := c.service.DeleteAuditorium(ctx.Request.Context(), id); err != nil {
		if errors.Is(err, ErrAuditoriumNotFound) {
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Auditorium not found", nil, nil)
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to delete auditorium", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Auditorium deleted successfully", nil, nil)
}
