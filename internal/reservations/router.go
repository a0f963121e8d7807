package reservations

import (
	"cinebook/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupReservationRoutes configures reservation routes
func SetupReservationRoutes(rg *gin.RouterGroup, controller *Controller) {
	reservations := rg.Group("/reservations")
	reservations.Use(middleware.JWTAuth())
	{
		reservations.POST("", controller.CreateReservation) // POST /api/v1/reservations
		reservations.GET("/:id", controller.GetReservation) // GET /api/v1/reservations/:id
	}

	users := rg.Group("/users")
	users.Use(middleware.JWTAuth())
	{
		users.GET("/reservations", controller.GetUserReservations) // GET /api/v1/users/reservations
	}
}
