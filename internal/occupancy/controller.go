package occupancy

import (
	"errors"
	"net/http"
	"time"

	"github.com/kkkhs/study-room-booking/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

func (c *Controller) Create(ctx *gin.Context) {
	adminID, exists := ctx.Get("user_id")
	if !exists {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	var req CreateOccupancyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	occupancy, err := c.service.Create(ctx.Request.Context(), adminID.(string), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidWindow), errors.Is(err, ErrInvalidType):
			response.RespondJSON(ctx, "error", http.StatusBadRequest, err.Error(), nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to create occupancy", nil, nil)
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Occupancy created successfully", occupancy, nil)
}

func (c *Controller) ListByClassroom(ctx *gin.Context) {
	from, to, err := parseRange(ctx.Query("from"), ctx.Query("to"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid time range", nil, err.Error())
		return
	}

	occupancies, err := c.service.ListByClassroom(ctx.Request.Context(), ctx.Param("id"), from, to)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Failed to fetch occupancies", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Occupancies retrieved successfully", occupancies, nil)
}

func (c *Controller) Cancel(ctx *gin.Context) {
	err := c.service.Cancel(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Occupancy not found", nil, nil)
		case errors.Is(err, ErrAlreadyEnded):
			response.RespondJSON(ctx, "error", http.StatusConflict, "Occupancy already cancelled", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to cancel occupancy", nil, nil)
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Occupancy cancelled successfully", nil, nil)
}

// parseRange defaults to the next 7 days when the query omits bounds
func parseRange(fromStr, toStr string) (time.Time, time.Time, error) {
	now := time.Now()
	from := now
	to := now.AddDate(0, 0, 7)

	var err error
	if fromStr != "" {
		from, err = time.Parse(time.RFC3339, fromStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	if toStr != "" {
		to, err = time.Parse(time.RFC3339, toStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	return from, to, nil
}
