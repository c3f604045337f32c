package users

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/kkkhs/study-room-booking/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

func (c *Controller) List(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	result, err := c.service.List(ctx.Request.Context(), ListFilters{
		Role:   ctx.Query("role"),
		Status: ctx.Query("status"),
		Search: ctx.Query("search"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to fetch users", nil, nil)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Users retrieved successfully", result, nil)
}

func (c *Controller) Get(ctx *gin.Context) {
	user, err := c.service.GetByID(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrUserNotFound):
			response.RespondJSON(ctx, "error", http.StatusNotFound, "User not found", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusBadRequest, "Failed to fetch user", nil, err.Error())
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "User retrieved successfully", user, nil)
}

type setStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=ACTIVE DISABLED"`
}

func (c *Controller) SetStatus(ctx *gin.Context) {
	var req setStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	err := c.service.SetStatus(ctx.Request.Context(), ctx.Param("id"), Status(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, ErrUserNotFound):
			response.RespondJSON(ctx, "error", http.StatusNotFound, "User not found", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to update user status", nil, nil)
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "User status updated successfully", nil, nil)
}
