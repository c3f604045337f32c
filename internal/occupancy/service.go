package occupancy

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrNotFound      = errors.New("occupancy not found")
	ErrInvalidWindow = errors.New("end time must be after start time")
	ErrInvalidType   = errors.New("invalid occupancy type")
	ErrAlreadyEnded  = errors.New("occupancy already cancelled or ended")
)

type CreateOccupancyRequest struct {
	ClassroomID string    `json:"classroom_id" binding:"required,uuid"`
	Title       string    `json:"title" binding:"required,min=1,max=200"`
	Type        string    `json:"type" binding:"required"`
	StartTime   time.Time `json:"start_time" binding:"required"`
	EndTime     time.Time `json:"end_time" binding:"required"`
}

type Service interface {
	Create(ctx context.Context, createdBy string, req CreateOccupancyRequest) (*ClassroomOccupancy, error)
	ListByClassroom(ctx context.Context, classroomID string, from, to time.Time) ([]ClassroomOccupancy, error)
	Cancel(ctx context.Context, id string) error

	// IsClassroomBlocked is consulted by the reservation flow before a seat hold
	IsClassroomBlocked(ctx context.Context, classroomID uuid.UUID, start, end time.Time) (bool, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, createdBy string, req CreateOccupancyRequest) (*ClassroomOccupancy, error) {
	classroomID, err := uuid.Parse(req.ClassroomID)
	if err != nil {
		return nil, fmt.Errorf("invalid classroom ID: %w", err)
	}

	if !req.EndTime.After(req.StartTime) {
		return nil, ErrInvalidWindow
	}
	if !IsValidType(req.Type) {
		return nil, ErrInvalidType
	}

	adminID, err := uuid.Parse(createdBy)
	if err != nil {
		return nil, fmt.Errorf("invalid admin ID: %w", err)
	}

	occupancy := &ClassroomOccupancy{
		ID:          uuid.New(),
		ClassroomID: classroomID,
		Title:       req.Title,
		Type:        OccupancyType(req.Type),
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Status:      StatusScheduled,
		CreatedBy:   adminID,
	}

	if err := s.repo.Create(ctx, occupancy); err != nil {
		return nil, fmt.Errorf("failed to create occupancy: %w", err)
	}
	return occupancy, nil
}

func (s *service) ListByClassroom(ctx context.Context, classroomID string, from, to time.Time) ([]ClassroomOccupancy, error) {
	id, err := uuid.Parse(classroomID)
	if err != nil {
		return nil, fmt.Errorf("invalid classroom ID: %w", err)
	}
	return s.repo.ListByClassroom(ctx, id, from, to)
}

func (s *service) Cancel(ctx context.Context, id string) error {
	occupancyID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid occupancy ID: %w", err)
	}

	if _, err := s.repo.GetByID(ctx, occupancyID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get occupancy: %w", err)
	}

	affected, err := s.repo.Cancel(ctx, occupancyID)
	if err != nil {
		return fmt.Errorf("failed to cancel occupancy: %w", err)
	}
	if affected == 0 {
		return ErrAlreadyEnded
	}
	return nil
}

func (s *service) IsClassroomBlocked(ctx context.Context, classroomID uuid.UUID, start, end time.Time) (bool, error) {
	return s.repo.HasOverlap(ctx, classroomID, start, end)
}
