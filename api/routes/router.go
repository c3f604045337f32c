// api/routes/router.go
package routes

import (
	"net/http"
	"time"

	"github.com/kkkhs/study-room-booking/internal/analytics"
	"github.com/kkkhs/study-room-booking/internal/auth"
	"github.com/kkkhs/study-room-booking/internal/blacklist"
	"github.com/kkkhs/study-room-booking/internal/bookings"
	"github.com/kkkhs/study-room-booking/internal/catalog"
	"github.com/kkkhs/study-room-booking/internal/notifications"
	"github.com/kkkhs/study-room-booking/internal/occupancy"
	"github.com/kkkhs/study-room-booking/internal/shared/config"
	"github.com/kkkhs/study-room-booking/internal/shared/database"
	"github.com/kkkhs/study-room-booking/internal/users"
	"github.com/kkkhs/study-room-booking/pkg/cache"

	"github.com/gin-gonic/gin"
)

// Router holds all route dependencies
type Router struct {
	config    *config.Config
	db        *database.DB
	ledger    *bookings.SeatLedger
	publisher notifications.Publisher

	// BookingService is exposed so main can rebuild the ledger and start sweeps
	BookingService bookings.Service
	SweepProcessor *bookings.JobProcessor
}

// NewRouter creates a new router instance
func NewRouter(cfg *config.Config, db *database.DB, publisher notifications.Publisher) *Router {
	return &Router{
		config:    cfg,
		db:        db,
		ledger:    bookings.NewSeatLedger(),
		publisher: publisher,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.setupHealthRoutes(engine)

	cacheService := cache.NewService(r.db.GetRedisClient())

	// Shared domain services
	catalogService := catalog.NewService(catalog.NewRepository(r.db.GetPostgreSQL()), cacheService)
	occupancyService := occupancy.NewService(occupancy.NewRepository(r.db.GetPostgreSQL()))
	blacklistService := blacklist.NewService(blacklist.NewRepository(r.db.GetPostgreSQL()))

	bookingRepo := bookings.NewRepository(r.db.GetPostgreSQL())
	r.BookingService = bookings.NewService(
		bookingRepo,
		r.ledger,
		catalogService,
		occupancyService,
		blacklistService,
		r.publisher,
		cacheService,
		r.config.Booking,
	)
	r.SweepProcessor = bookings.NewJobProcessor(r.BookingService, &bookings.JobConfig{
		SweepInterval: r.config.Booking.SweepInterval,
	})

	api := engine.Group(r.config.GetAPIBasePath())
	{
		// Auth
		authController := auth.NewController(auth.NewService(auth.NewRepository(r.db.GetPostgreSQL()), r.config))
		auth.NewRouter(authController, r.config).SetupRoutes(api)

		// Catalog
		catalog.NewRouter(catalog.NewController(catalogService), r.config).SetupRoutes(api)

		// Classroom occupancy
		occupancy.NewRouter(occupancy.NewController(occupancyService), r.config).SetupRoutes(api)

		// Reservations (core)
		bookings.NewRouter(bookings.NewController(r.BookingService), r.config).SetupRoutes(api)

		// Blacklist administration
		blacklist.NewRouter(blacklist.NewController(blacklistService), r.config).SetupRoutes(api)

		// User administration
		userController := users.NewController(users.NewService(users.NewRepository(r.db.GetPostgreSQL())))
		users.NewRouter(userController, r.config).SetupRoutes(api)

		// Admin statistics
		statsController := analytics.NewController(analytics.NewService(analytics.NewRepository(r.db.GetPostgreSQL()), cacheService))
		analytics.NewRouter(statsController, r.config).SetupRoutes(api)
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
				"service":   "study-room-booking",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "study-room-booking",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		status := gin.H{
			"status":      "operational",
			"api_version": r.config.APIVersion,
			"timestamp":   time.Now(),
		}
		if r.SweepProcessor != nil {
			status["sweep_jobs"] = r.SweepProcessor.GetJobStatus()
		}
		c.JSON(http.StatusOK, status)
	})
}
