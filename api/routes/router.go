// api/routes/router.go
package routes

import (
	"net/http"
	"time"

	"cinebook/internal/notifications"
	"cinebook/internal/payments"
	"cinebook/internal/reservations"
	"cinebook/internal/shared/config"
	"cinebook/internal/shared/database"
	"cinebook/internal/shows"
	"cinebook/internal/users"
	"cinebook/internal/venues"
	"cinebook/pkg/cache"

	"github.com/gin-gonic/gin"
)

// Router holds all route dependencies
type Router struct {
	config       *config.Config
	db           *database.DB
	cacheService cache.Service

	// Set before SetupRoutes when the Kafka side is up; settlement emails
	// are skipped otherwise.
	notificationService notifications.NotificationService

	// Cross-feature services, kept for dependency injection
	venueService       venues.Service
	showService        shows.Service
	reservationService reservations.Service
}

// NewRouter creates a new router instance
func NewRouter(cfg *config.Config, db *database.DB, cacheService cache.Service) *Router {
	return &Router{
		config:       cfg,
		db:           db,
		cacheService: cacheService,
	}
}

// SetNotificationService wires the Kafka-backed notification pipeline
func (r *Router) SetNotificationService(ns notifications.NotificationService) {
	r.notificationService = ns
}

// ReservationService exposes the reservation service for background jobs
func (r *Router) ReservationService() reservations.Service {
	return r.reservationService
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.setupHealthRoutes(engine)

	api := engine.Group(r.config.GetAPIBasePath())
	{
		// Venue routes first: shows and reservations depend on the venue
		// service for seat lookups
		r.setupVenueRoutes(api)
		r.setupShowRoutes(api)
		r.setupReservationRoutes(api)
		r.setupPaymentRoutes(api)
	}
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "cinebook-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "cinebook-backend",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "operational",
			"api_version": r.config.APIVersion,
			"timestamp":   time.Now(),
		})
	})
}

// setupVenueRoutes configures auditorium management routes
func (r *Router) setupVenueRoutes(rg *gin.RouterGroup) {
	venueRepo := venues.NewRepository(r.db.GetPostgreSQL())
	venueService := venues.NewService(venueRepo)
	venueService.SetCacheService(r.cacheService)

	r.venueService = venueService

	venueController := venues.NewController(venueService)
	venues.SetupVenueRoutes(rg, venueController)
}

// setupShowRoutes configures movie and show routes
func (r *Router) setupShowRoutes(rg *gin.RouterGroup) {
	showRepo := shows.NewRepository(r.db.GetPostgreSQL())
	showService := shows.NewService(showRepo)
	showService.SetCacheService(r.cacheService)
	showService.SetVenueService(r.venueService)

	r.showService = showService

	showController := shows.NewController(showService)
	shows.SetupShowRoutes(rg, showController)
}

// setupReservationRoutes configures the reservation ledger routes
func (r *Router) setupReservationRoutes(rg *gin.RouterGroup) {
	reservationRepo := reservations.NewRepository(r.db.GetPostgreSQL())
	reservationService := reservations.NewService(
		reservationRepo,
		r.config.Reservation.HoldDuration,
		r.config.Reservation.MaxSeatsPerReservation,
	)
	reservationService.SetCacheService(r.cacheService)

	// The seat map needs live occupancy without shows importing the
	// reservation package directly
	r.showService.SetReservationReader(reservationService)

	r.reservationService = reservationService

	reservationController := reservations.NewController(reservationService)
	reservations.SetupReservationRoutes(rg, reservationController)
}

// setupPaymentRoutes configures checkout, webhook and receipt routes
func (r *Router) setupPaymentRoutes(rg *gin.RouterGroup) {
	paymentRepo := payments.NewRepository(r.db.GetPostgreSQL())
	gateway := payments.NewStripeGateway(r.config)
	paymentService := payments.NewService(paymentRepo, gateway)
	paymentService.SetCacheService(r.cacheService)

	if r.notificationService != nil {
		userRepo := users.NewRepository(r.db.GetPostgreSQL())
		notifier := notifications.NewSettlementNotifier(r.notificationService, userRepo, r.showService)
		paymentService.SetNotifier(notifier)
	}

	paymentController := payments.NewController(paymentService)
	payments.SetupPaymentRoutes(rg, paymentController)
}
