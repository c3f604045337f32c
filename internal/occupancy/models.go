package occupancy

import (
	"time"

	"github.com/google/uuid"
)

// OccupancyType classifies who holds the classroom for the window
type OccupancyType string

const (
	TypeCourse      OccupancyType = "COURSE"
	TypeMeeting     OccupancyType = "MEETING"
	TypeEvent       OccupancyType = "EVENT"
	TypeMaintenance OccupancyType = "MAINTENANCE"
)

type OccupancyStatus string

const (
	StatusScheduled OccupancyStatus = "SCHEDULED"
	StatusCancelled OccupancyStatus = "CANCELLED"
)

// ClassroomOccupancy blocks an entire classroom for a time window.
// Seat reservations must not overlap an active occupancy.
type ClassroomOccupancy struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ClassroomID uuid.UUID       `gorm:"type:uuid;not null;index" json:"classroom_id"`
	Title       string          `gorm:"not null" json:"title"`
	Type        OccupancyType   `gorm:"type:varchar(20);not null" json:"type"`
	StartTime   time.Time       `gorm:"not null;index" json:"start_time"`
	EndTime     time.Time       `gorm:"not null" json:"end_time"`
	Status      OccupancyStatus `gorm:"type:varchar(20);not null;default:'SCHEDULED'" json:"status"`
	CreatedBy   uuid.UUID       `gorm:"type:uuid" json:"created_by"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (ClassroomOccupancy) TableName() string {
	return "classroom_occupancies"
}

func IsValidType(t string) bool {
	switch OccupancyType(t) {
	case TypeCourse, TypeMeeting, TypeEvent, TypeMaintenance:
		return true
	}
	return false
}
