package shows

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

// CreateMovie handles POST /api/v1/admin/movies
func (c *Controller) CreateMovie(ctx *gin.Context) {
	var req CreateMovieRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	movie, err := c.service.CreateMovie(ctx.Request.Context(), req)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to create movie", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Movie created successfully", movie, nil)
}

// GetAllMovies handles GET /api/v1/movies
func (c *Controller) GetAllMovies(ctx *gin.Context) {
	var query MovieListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}

	movies, err := c.service.GetAllMovies(ctx.Request.Context(), query)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to get movies", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Movies retrieved successfully", movies, nil)
}

// GetMovie handles GET /api/v1/movies/:id
func (c *Controller) GetMovie(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid movie ID", nil, nil)
		return
	}

	movie, err := c.service.GetMovie(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrMovieNotFound) {
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Movie not found", nil, nil)
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to get movie", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Movie retrieved successfully", movie, nil)
}

// CreateShow handles POST /api/v1/admin/shows
func (c *Controller) CreateShow(ctx *gin.Context) {
	var req CreateShowRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	show, err := c.service.CreateShow(ctx.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrMovieNotFound), errors.Is(err, ErrAuditoriumMissing):
			response.RespondJSON(ctx, "error", http.StatusNotFound, err.Error(), nil, nil)
		case errors.Is(err, ErrShowOverlap):
			response.RespondJSON(ctx, "error", http.StatusConflict, "Show overlaps an existing show", nil, err.Error())
		case errors.Is(err, ErrShowInPast), errors.Is(err, ErrDuplicatePriceTag):
			response.RespondJSON(ctx, "error", http.StatusBadRequest, err.Error(), nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to create show", nil, err.Error())
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Show created successfully", show, nil)
}

// GetShowsByDate handles GET /api/v1/shows
func (c *Controller) GetShowsByDate(ctx *gin.Context) {
	var query ShowListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}

	shows, err := c.service.GetShowsByDate(ctx.Request.Context(), query)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to get shows", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Shows retrieved successfully", gin.H{
		"shows": shows,
		"count": len(shows),
	}, nil)
}

// GetShow handles GET /api/v1/shows/:id
func (c *Controller) GetShow(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid show ID", nil, nil)
		return
	}

	show, err := c.service.GetShow(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrShowNotFound) {
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Show not found", nil, nil)
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to get show", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Show retrieved successfully", show, nil)
}

// GetSeatMap handles GET /api/v1/shows/:id/seat-map
func (c *Controller) GetSeatMap(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid show ID", nil, nil)
		return
	}

	seatMap, err := c.service.GetSeatMap(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrShowNotFound) {
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Show not found", nil, nil)
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to get seat map", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Seat map retrieved successfully", seatMap, nil)
}

// CancelShow handles POST /api/v1/admin/shows/:id/cancel
func (c *Controller) CancelShow(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid show ID", nil, nil)
		return
	}

	if err := c.service.CancelShow(ctx.Request.Context(), id); err != nil {
		if errors.Is(err, ErrShowNotFound) {
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Show not found", nil, nil)
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to cancel show", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Show cancelled successfully", nil, nil)
}

// UpdateShowPrices handles PUT /api/v1/admin/shows/:id/prices
func (c *Controller) UpdateShowPrices(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid show ID", nil, nil)
		return
	}

	var req UpdateShowPricesRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	show, err := c.service.UpdateShowPrices(ctx.Request.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrShowNotFound):
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Show not found", nil, nil)
		case errors.Is(err, ErrDuplicatePriceTag):
			response.RespondJSON(ctx, "error", http.StatusBadRequest, err.Error(), nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to update show prices", nil, err.Error())
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Show prices updated successfully", show, nil)
}
