package catalog

import (
	"time"

	"github.com/google/uuid"
)

type ClassroomStatus string

const (
	ClassroomOpen   ClassroomStatus = "OPEN"
	ClassroomClosed ClassroomStatus = "CLOSED"
)

type SeatStatus string

const (
	SeatAvailable SeatStatus = "AVAILABLE"
	SeatDisabled  SeatStatus = "DISABLED"
)

type Building struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;not null" json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Classroom struct {
	ID         uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BuildingID uuid.UUID       `gorm:"type:uuid;not null;index" json:"building_id"`
	Name       string          `gorm:"not null" json:"name"`
	Floor      int             `json:"floor"`
	Rows       int             `gorm:"not null;default:10" json:"rows"`
	SeatsPerRow int            `gorm:"not null;default:10" json:"seats_per_row"`
	Status     ClassroomStatus `gorm:"type:varchar(20);not null;default:'OPEN'" json:"status"`
	OpenTime   string          `gorm:"default:'08:00'" json:"open_time"`
	CloseTime  string          `gorm:"default:'22:00'" json:"close_time"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`

	Building *Building `gorm:"foreignKey:BuildingID" json:"building,omitempty"`
}

type Seat struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ClassroomID uuid.UUID  `gorm:"type:uuid;not null;index:idx_seats_classroom_number,unique" json:"classroom_id"`
	SeatNumber  string     `gorm:"not null;index:idx_seats_classroom_number,unique" json:"seat_number"`
	Row         int        `gorm:"not null" json:"row"`
	Column      int        `gorm:"not null;column:col" json:"column"`
	HasOutlet   bool       `gorm:"default:false" json:"has_outlet"`
	Status      SeatStatus `gorm:"type:varchar(20);not null;default:'AVAILABLE'" json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (Classroom) TableName() string {
	return "classrooms"
}

func (Seat) TableName() string {
	return "seats"
}

// IsReservable reports whether the seat can currently accept reservations.
func (s *Seat) IsReservable() bool {
	return s.Status == SeatAvailable
}

func (c *Classroom) IsOpen() bool {
	return c.Status == ClassroomOpen
}
