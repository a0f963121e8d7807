package venues

import (
	"cinebook/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupVenueRoutes configures auditorium routes
func SetupVenueRoutes(rg *gin.RouterGroup, controller *Controller) {
	// Public routes - anyone can browse auditoriums and layouts
	auditoriums := rg.Group("/auditoriums")
	{
		auditoriums.GET("", controller.GetAllAuditoriums)          // GET /api/v1/auditoriums
		auditoriums.GET("/:id/layout", controller.GetAuditoriumLayout) // GET /api/v1/auditoriums/:id/layout
	}

	// Admin routes - auditorium management
	admin := rg.Group("/admin/auditoriums")
	admin.Use(middleware.JWTAuth(), middleware.RequireAdmin())
	{
		admin.POST("", controller.CreateAuditorium)       // POST /api/v1/admin/auditoriums
		admin.DELETE("/:id", controller.DeleteAuditorium) // DELETE /api/v1/admin/auditoriums/:id
	}
}
