package bookings

import (
	"github.com/kkkhs/study-room-booking/internal/shared/config"
	"github.com/kkkhs/study-room-booking/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// Router handles reservation routes
type Router struct {
	controller *Controller
	config     *config.Config
}

func NewRouter(controller *Controller, cfg *config.Config) *Router {
	return &Router{
		controller: controller,
		config:     cfg,
	}
}

func (r *Router) SetupRoutes(rg *gin.RouterGroup) {
	// Seat availability projections are public reads
	rg.GET("/classrooms/:id/seat-map", r.controller.GetSeatMap)
	rg.GET("/seats/:id/reservations", r.controller.ListBySeatAndDate)

	bookings := rg.Group("/bookings")
	bookings.Use(middleware.JWTAuthWithConfig(r.config))
	{
		bookings.POST("", r.controller.CreateBooking)
		bookings.GET("/mine", r.controller.ListMine)
		bookings.POST("/:id/check-in", r.controller.CheckIn)
		bookings.POST("/:id/check-out", r.controller.CheckOut)
		bookings.DELETE("/:id", r.controller.Cancel)

		admin := bookings.Group("")
		admin.Use(middleware.RequireAdmin())
		{
			admin.GET("", r.controller.ListAll)
		}
	}
}
