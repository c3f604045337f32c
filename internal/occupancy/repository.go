package occupancy

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, occupancy *ClassroomOccupancy) error
	GetByID(ctx context.Context, id uuid.UUID) (*ClassroomOccupancy, error)
	ListByClassroom(ctx context.Context, classroomID uuid.UUID, from, to time.Time) ([]ClassroomOccupancy, error)
	HasOverlap(ctx context.Context, classroomID uuid.UUID, start, end time.Time) (bool, error)
	Cancel(ctx context.Context, id uuid.UUID) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, occupancy *ClassroomOccupancy) error {
	return r.db.WithContext(ctx).Create(occupancy).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*ClassroomOccupancy, error) {
	var occupancy ClassroomOccupancy
	if err := r.db.WithContext(ctx).First(&occupancy, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &occupancy, nil
}

func (r *repository) ListByClassroom(ctx context.Context, classroomID uuid.UUID, from, to time.Time) ([]ClassroomOccupancy, error) {
	var occupancies []ClassroomOccupancy
	err := r.db.WithContext(ctx).
		Where("classroom_id = ? AND status = ? AND start_time < ? AND end_time > ?",
			classroomID, StatusScheduled, to, from).
		Order("start_time ASC").
		Find(&occupancies).Error
	if err != nil {
		return nil, err
	}
	return occupancies, nil
}

// HasOverlap reports whether any scheduled occupancy intersects the half-open window [start, end)
func (r *repository) HasOverlap(ctx context.Context, classroomID uuid.UUID, start, end time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&ClassroomOccupancy{}).
		Where("classroom_id = ? AND status = ? AND start_time < ? AND end_time > ?",
			classroomID, StatusScheduled, end, start).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Cancel marks a scheduled occupancy cancelled, returning affected rows
func (r *repository) Cancel(ctx context.Context, id uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Model(&ClassroomOccupancy{}).
		Where("id = ? AND status = ?", id, StatusScheduled).
		Update("status", StatusCancelled)
	return result.RowsAffected, result.Error
}
