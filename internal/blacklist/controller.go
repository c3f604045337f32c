package blacklist

import (
	"errors"
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

func (c *Controller) Add(ctx *gin.Context) {
	adminID, exists := ctx.Get("user_id")
	if !exists {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	var req AddEntryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	entry, err := c.service.Add(ctx.Request.Context(), adminID.(string), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrAlreadyBlacklisted):
			response.RespondJSON(ctx, "error", http.StatusConflict, "User is already blacklisted", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to blacklist user", nil, nil)
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "User blacklisted successfully", entry, nil)
}

func (c *Controller) Remove(ctx *gin.Context) {
	err := c.service.Remove(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrEntryNotFound):
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Blacklist entry not found", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to remove blacklist entry", nil, nil)
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "User removed from blacklist", nil, nil)
}

func (c *Controller) List(ctx *gin.Context) {
	entries, err := c.service.List(ctx.Request.Context())
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to list blacklist", nil, nil)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Blacklist retrieved successfully", entries, nil)
}
