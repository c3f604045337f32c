package bookings

import (
	"time"

	"github.com/google/uuid"
)

// Reservation holds one seat for one half-open time window. The window is
// immutable after creation; only Status, CheckInTime and CheckOutTime change.
type Reservation struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	SeatID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"seat_id"`
	ClassroomID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"classroom_id"`
	StartTime    time.Time  `gorm:"not null" json:"start_time"`
	EndTime      time.Time  `gorm:"not null" json:"end_time"`
	Status       Status     `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	CheckInTime  *time.Time `json:"check_in_time,omitempty"`
	CheckOutTime *time.Time `json:"check_out_time,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (Reservation) TableName() string {
	return "reservations"
}

// Window returns the reserved interval as a value type.
func (r *Reservation) Window() TimeWindow {
	return TimeWindow{Start: r.StartTime, End: r.EndTime}
}
