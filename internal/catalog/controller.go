package catalog

import (
	"errors"
	"net/http"

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

func (c *Controller) CreateBuilding(ctx *gin.Context) {
	var req CreateBuildingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	building, err := c.service.CreateBuilding(ctx.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrNameTaken):
			response.RespondJSON(ctx, "error", http.StatusConflict, "Building name already in use", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to create building", nil, nil)
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Building created successfully", building, nil)
}

func (c *Controller) GetBuildings(ctx *gin.Context) {
	buildings, err := c.service.GetBuildings(ctx.Request.Context())
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to fetch buildings", nil, nil)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Buildings retrieved successfully", buildings, nil)
}

func (c *Controller) GetBuilding(ctx *gin.Context) {
	building, err := c.service.GetBuildingByID(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Building not found", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusBadRequest, "Failed to fetch building", nil, err.Error())
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Building retrieved successfully", building, nil)
}

func (c *Controller) UpdateBuilding(ctx *gin.Context) {
	var req UpdateBuildingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	building, err := c.service.UpdateBuilding(ctx.Request.Context(), ctx.Param("id"), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Building not found", nil, nil)
		case errors.Is(err, ErrNameTaken):
			response.RespondJSON(ctx, "error", http.StatusConflict, "Building name already in use", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to update building", nil, nil)
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Building updated successfully", building, nil)
}

func (c *Controller) DeleteBuilding(ctx *gin.Context) {
	err := c.service.DeleteBuilding(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Building not found", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to delete building", nil, nil)
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Building deleted successfully", nil, nil)
}

func (c *Controller) CreateClassroom(ctx *gin.Context) {
	var req CreateClassroomRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	classroom, err := c.service.CreateClassroom(ctx.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Building not found", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to create classroom", nil, nil)
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Classroom created successfully", classroom, nil)
}

func (c *Controller) GetClassroom(ctx *gin.Context) {
	classroom, err := c.service.GetClassroomByID(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Classroom not found", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusBadRequest, "Failed to fetch classroom", nil, err.Error())
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Classroom retrieved successfully", classroom, nil)
}

func (c *Controller) GetClassroomsByBuilding(ctx *gin.Context) {
	classrooms, err := c.service.GetClassroomsByBuilding(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Failed to fetch classrooms", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Classrooms retrieved successfully", classrooms, nil)
}

func (c *Controller) UpdateClassroom(ctx *gin.Context) {
	var req UpdateClassroomRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	classroom, err := c.service.UpdateClassroom(ctx.Request.Context(), ctx.Param("id"), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Classroom not found", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to update classroom", nil, nil)
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Classroom updated successfully", classroom, nil)
}

func (c *Controller) DeleteClassroom(ctx *gin.Context) {
	err := c.service.DeleteClassroom(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Classroom not found", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to delete classroom", nil, nil)
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Classroom deleted successfully", nil, nil)
}

func (c *Controller) GetSeatsByClassroom(ctx *gin.Context) {
	seats, err := c.service.GetSeatsByClassroom(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Failed to fetch seats", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Seats retrieved successfully", seats, nil)
}

func (c *Controller) UpdateSeat(ctx *gin.Context) {
	var req UpdateSeatRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	seat, err := c.service.UpdateSeat(ctx.Request.Context(), ctx.Param("id"), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Seat not found", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to update seat", nil, nil)
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Seat updated successfully", seat, nil)
}
