package bookings

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/kkkhs/study-room-booking/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type Controller struct {
	service   Service
	validator *validator.Validate
}

func NewController(service Service) *Controller {
	return &Controller{
		service:   service,
		validator: validator.New(),
	}
}

func (c *Controller) CreateBooking(ctx *gin.Context) {
	userID, exists := ctx.Get("user_id")
	if !exists {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	var req CreateBookingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	if err := c.validator.Struct(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	reservation, err := c.service.CreateBooking(ctx.Request.Context(), userID.(string), req)
	if err != nil {
		c.respondBookingError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Reservation created successfully", reservation, nil)
}

func (c *Controller) CheckIn(ctx *gin.Context) {
	userID, exists := ctx.Get("user_id")
	if !exists {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	reservation, err := c.service.CheckIn(ctx.Request.Context(), ctx.Param("id"), userID.(string))
	if err != nil {
		c.respondTransitionError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Checked in successfully", reservation, nil)
}

func (c *Controller) CheckOut(ctx *gin.Context) {
	userID, exists := ctx.Get("user_id")
	if !exists {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	reservation, err := c.service.CheckOut(ctx.Request.Context(), ctx.Param("id"), userID.(string))
	if err != nil {
		c.respondTransitionError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Checked out successfully", reservation, nil)
}

func (c *Controller) Cancel(ctx *gin.Context) {
	userID, exists := ctx.Get("user_id")
	if !exists {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	if err := c.service.Cancel(ctx.Request.Context(), ctx.Param("id"), userID.(string)); err != nil {
		c.respondTransitionError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Reservation cancelled successfully", nil, nil)
}

func (c *Controller) ListMine(ctx *gin.Context) {
	userID, exists := ctx.Get("user_id")
	if !exists {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	result, err := c.service.ListMine(ctx.Request.Context(), userID.(string), parseListFilters(ctx))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to fetch reservations", nil, nil)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Reservations retrieved successfully", result, nil)
}

func (c *Controller) ListAll(ctx *gin.Context) {
	result, err := c.service.ListAll(ctx.Request.Context(), parseListFilters(ctx))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to fetch reservations", nil, nil)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Reservations retrieved successfully", result, nil)
}

func (c *Controller) ListBySeatAndDate(ctx *gin.Context) {
	date := time.Now()
	if dateStr := ctx.Query("date"); dateStr != "" {
		parsed, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD", nil, nil)
			return
		}
		date = parsed
	}

	reservations, err := c.service.ListBySeatAndDate(ctx.Request.Context(), ctx.Param("id"), date)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Failed to fetch reservations", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Reservations retrieved successfully", reservations, nil)
}

func (c *Controller) GetSeatMap(ctx *gin.Context) {
	start, err := time.Parse(time.RFC3339, ctx.Query("start"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid start time, expected RFC3339", nil, nil)
		return
	}
	end, err := time.Parse(time.RFC3339, ctx.Query("end"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid end time, expected RFC3339", nil, nil)
		return
	}

	seatMap, err := c.service.GetSeatMap(ctx.Request.Context(), ctx.Param("id"), TimeWindow{Start: start, End: end})
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidWindow):
			response.RespondJSON(ctx, "error", http.StatusBadRequest, "End time must be after start time", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusBadRequest, "Failed to build seat map", nil, err.Error())
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Seat map retrieved successfully", seatMap, nil)
}

func (c *Controller) respondBookingError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrBlacklisted):
		response.RespondJSON(ctx, "error", http.StatusForbidden, "You are blacklisted from booking", nil, nil)
	case errors.Is(err, ErrNotFound):
		response.RespondJSON(ctx, "error", http.StatusNotFound, "Seat not found", nil, nil)
	case errors.Is(err, ErrSeatUnavailable):
		response.RespondJSON(ctx, "error", http.StatusConflict, "Seat is not available for booking", nil, nil)
	case errors.Is(err, ErrClassroomClosed):
		response.RespondJSON(ctx, "error", http.StatusConflict, "Classroom is closed", nil, nil)
	case errors.Is(err, ErrInvalidWindow):
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid reservation time window", nil, nil)
	case errors.Is(err, ErrDailyLimit):
		response.RespondJSON(ctx, "error", http.StatusConflict, "You already have a reservation for this day", nil, nil)
	case errors.Is(err, ErrUserTimeConflict):
		response.RespondJSON(ctx, "error", http.StatusConflict, "You already have a reservation in this time window", nil, nil)
	case errors.Is(err, ErrClassroomOccupied):
		response.RespondJSON(ctx, "error", http.StatusConflict, "Classroom is occupied during this time window", nil, nil)
	case errors.Is(err, ErrConflict):
		response.RespondJSON(ctx, "error", http.StatusConflict, "Seat already reserved for an overlapping time window", nil, nil)
	default:
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to create reservation", nil, nil)
	}
}

func (c *Controller) respondTransitionError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.RespondJSON(ctx, "error", http.StatusNotFound, "Reservation not found", nil, nil)
	case errors.Is(err, ErrForbidden):
		response.RespondJSON(ctx, "error", http.StatusForbidden, "Reservation belongs to another user", nil, nil)
	case errors.Is(err, ErrTooEarly):
		response.RespondJSON(ctx, "error", http.StatusConflict, "Too early to check in", nil, nil)
	case errors.Is(err, ErrCheckInWindowClosed):
		response.RespondJSON(ctx, "error", http.StatusConflict, "Check-in window already closed", nil, nil)
	case errors.Is(err, ErrInvalidTransition):
		response.RespondJSON(ctx, "error", http.StatusConflict, "Reservation is not in a valid state for this action", nil, nil)
	default:
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to update reservation", nil, nil)
	}
}

func parseListFilters(ctx *gin.Context) ListFilters {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	return ListFilters{
		Status: ctx.Query("status"),
		Page:   page,
		Limit:  limit,
	}
}
