package catalog

import (
	"github.com/kkkhs/study-room-booking/internal/shared/config"
	"github.com/kkkhs/study-room-booking/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// Router handles catalog routes for buildings, classrooms and seats
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

// SetupRoutes registers catalog routes. Reads are public, writes are admin only.
func (r *Router) SetupRoutes(rg *gin.RouterGroup) {
	buildings := rg.Group("/buildings")
	{
		buildings.GET("", r.controller.GetBuildings)
		buildings.GET("/:id", r.controller.GetBuilding)
		buildings.GET("/:id/classrooms", r.controller.GetClassroomsByBuilding)

		admin := buildings.Group("")
		admin.Use(middleware.JWTAuthWithConfig(r.config), middleware.RequireAdmin())
		{
			admin.POST("", r.controller.CreateBuilding)
			admin.PUT("/:id", r.controller.UpdateBuilding)
			admin.DELETE("/:id", r.controller.DeleteBuilding)
		}
	}

	classrooms := rg.Group("/classrooms")
	{
		classrooms.GET("/:id", r.controller.GetClassroom)
		classrooms.GET("/:id/seats", r.controller.GetSeatsByClassroom)

		admin := classrooms.Group("")
		admin.Use(middleware.JWTAuthWithConfig(r.config), middleware.RequireAdmin())
		{
			admin.POST("", r.controller.CreateClassroom)
			admin.PUT("/:id", r.controller.UpdateClassroom)
			admin.DELETE("/:id", r.controller.DeleteClassroom)
		}
	}

	seats := rg.Group("/seats")
	seats.Use(middleware.JWTAuthWithConfig(r.config), middleware.RequireAdmin())
	{
		seats.PUT("/:id", r.controller.UpdateSeat)
	}
}
