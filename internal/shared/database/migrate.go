package database

import (
	"github.com/kkkhs/study-room-booking/internal/blacklist"
	"github.com/kkkhs/study-room-booking/internal/bookings"
	"github.com/kkkhs/study-room-booking/internal/catalog"
	"github.com/kkkhs/study-room-booking/internal/occupancy"
	"github.com/kkkhs/study-room-booking/internal/users"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&users.User{},
		&catalog.Building{},
		&catalog.Classroom{},
		&catalog.Seat{},
		&occupancy.ClassroomOccupancy{},
		&bookings.Reservation{},
		&blacklist.Entry{},
	)
}
