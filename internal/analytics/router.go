package analytics

import (
	"github.com/kkkhs/study-room-booking/internal/shared/config"
	"github.com/kkkhs/study-room-booking/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

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
	admin := rg.Group("/admin/statistics")
	admin.Use(middleware.JWTAuthWithConfig(r.config), middleware.RequireAdmin())
	{
		admin.GET("", r.controller.GetStatistics)
	}
}
