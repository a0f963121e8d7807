package shows

import (
	"cinebook/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupShowRoutes configures movie and show routes
func SetupShowRoutes(rg *gin.RouterGroup, controller *Controller) {
	// Public routes - anyone can browse the catalog
	movies := rg.Group("/movies")
	{
		movies.GET("", controller.GetAllMovies) // GET /api/v1/movies
		movies.GET("/:id", controller.GetMovie) // GET /api/v1/movies/:id
	}

	shows := rg.Group("/shows")
	{
		shows.GET("", controller.GetShowsByDate)        // GET /api/v1/shows?date=2026-08-29
		shows.GET("/:id", controller.GetShow)           // GET /api/v1/shows/:id
		shows.GET("/:id/seat-map", controller.GetSeatMap) // GET /api/v1/shows/:id/seat-map
	}

	// Admin routes - catalog management
	adminMovies := rg.Group("/admin/movies")
	adminMovies.Use(middleware.JWTAuth(), middleware.RequireAdmin())
	{
		adminMovies.POST("", controller.CreateMovie) // POST /api/v1/admin/movies
	}

	adminShows := rg.Group("/admin/shows")
	adminShows.Use(middleware.JWTAuth(), middleware.RequireAdmin())
	{
		adminShows.POST("", controller.CreateShow)                 // POST /api/v1/admin/shows
		adminShows.POST("/:id/cancel", controller.CancelShow)      // POST /api/v1/admin/shows/:id/cancel
		adminShows.PUT("/:id/prices", controller.UpdateShowPrices) // PUT /api/v1/admin/shows/:id/prices
	}
}
