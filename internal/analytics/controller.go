package analytics

import (
	"net/http"

	"github.com/kkkhs/study-room-booking/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

func (c *Controller) GetStatistics(ctx *gin.Context) {
	stats, err := c.service.GetStatistics(ctx.Request.Context())
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to compute statistics", nil, nil)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Statistics retrieved successfully", stats, nil)
}
