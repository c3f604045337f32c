package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	// Buildings
	CreateBuilding(ctx context.Context, building *Building) error
	GetBuildingByID(ctx context.Context, id uuid.UUID) (*Building, error)
	GetBuildingByName(ctx context.Context, name string) (*Building, error)
	GetBuildings(ctx context.Context) ([]Building, error)
	UpdateBuilding(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
	DeleteBuilding(ctx context.Context, id uuid.UUID) error

	// Classrooms
	CreateClassroom(ctx context.Context, classroom *Classroom) error
	GetClassroomByID(ctx context.Context, id uuid.UUID) (*Classroom, error)
	GetClassroomsByBuilding(ctx context.Context, buildingID uuid.UUID) ([]Classroom, error)
	UpdateClassroom(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
	DeleteClassroom(ctx context.Context, id uuid.UUID) error

	// Seats
	CreateSeats(ctx context.Context, seats []Seat) error
	GetSeatByID(ctx context.Context, id uuid.UUID) (*Seat, error)
	GetSeatsByClassroom(ctx context.Context, classroomID uuid.UUID) ([]Seat, error)
	CountSeatsByClassroom(ctx context.Context, classroomID uuid.UUID) (int64, error)
	UpdateSeat(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
	DeleteSeatsByClassroom(ctx context.Context, classroomID uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateBuilding(ctx context.Context, building *Building) error {
	return r.db.WithContext(ctx).Create(building).Error
}

func (r *repository) GetBuildingByID(ctx context.Context, id uuid.UUID) (*Building, error) {
	var building Building
	if err := r.db.WithContext(ctx).First(&building, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &building, nil
}

func (r *repository) GetBuildingByName(ctx context.Context, name string) (*Building, error) {
	var building Building
	if err := r.db.WithContext(ctx).First(&building, "name = ?", name).Error; err != nil {
		return nil, err
	}
	return &building, nil
}

func (r *repository) GetBuildings(ctx context.Context) ([]Building, error) {
	var buildings []Building
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&buildings).Error; err != nil {
		return nil, err
	}
	return buildings, nil
}

func (r *repository) UpdateBuilding(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&Building{}).Where("id = ?", id).Updates(updates).Error
}

func (r *repository) DeleteBuilding(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&Building{}, "id = ?", id).Error
}

func (r *repository) CreateClassroom(ctx context.Context, classroom *Classroom) error {
	return r.db.WithContext(ctx).Create(classroom).Error
}

func (r *repository) GetClassroomByID(ctx context.Context, id uuid.UUID) (*Classroom, error) {
	var classroom Classroom
	if err := r.db.WithContext(ctx).Preload("Building").First(&classroom, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &classroom, nil
}

func (r *repository) GetClassroomsByBuilding(ctx context.Context, buildingID uuid.UUID) ([]Classroom, error) {
	var classrooms []Classroom
	if err := r.db.WithContext(ctx).
		Where("building_id = ?", buildingID).
		Order("floor ASC, name ASC").
		Find(&classrooms).Error; err != nil {
		return nil, err
	}
	return classrooms, nil
}

func (r *repository) UpdateClassroom(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&Classroom{}).Where("id = ?", id).Updates(updates).Error
}

func (r *repository) DeleteClassroom(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&Classroom{}, "id = ?", id).Error
}

func (r *repository) CreateSeats(ctx context.Context, seats []Seat) error {
	if len(seats) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(seats, 100).Error
}

func (r *repository) GetSeatByID(ctx context.Context, id uuid.UUID) (*Seat, error) {
	var seat Seat
	if err := r.db.WithContext(ctx).First(&seat, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &seat, nil
}

func (r *repository) GetSeatsByClassroom(ctx context.Context, classroomID uuid.UUID) ([]Seat, error) {
	var seats []Seat
	if err := r.db.WithContext(ctx).
		Where("classroom_id = ?", classroomID).
		Order("row ASC, col ASC").
		Find(&seats).Error; err != nil {
		return nil, err
	}
	return seats, nil
}

func (r *repository) CountSeatsByClassroom(ctx context.Context, classroomID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Seat{}).Where("classroom_id = ?", classroomID).Count(&count).Error
	return count, err
}

func (r *repository) UpdateSeat(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&Seat{}).Where("id = ?", id).Updates(updates).Error
}

func (r *repository) DeleteSeatsByClassroom(ctx context.Context, classroomID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&Seat{}, "classroom_id = ?", classroomID).Error
}
