package analytics

import (
	"context"
	"time"

	"github.com/kkkhs/study-room-booking/internal/bookings"
	"github.com/kkkhs/study-room-booking/internal/users"

	"gorm.io/gorm"
)

type Repository interface {
	GetStatistics(ctx context.Context, now time.Time) (*Statistics, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetStatistics(ctx context.Context, now time.Time) (*Statistics, error) {
	var stats Statistics

	if err := r.db.WithContext(ctx).Model(&users.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return nil, err
	}

	if err := r.db.WithContext(ctx).Model(&bookings.Reservation{}).Count(&stats.TotalBookings).Error; err != nil {
		return nil, err
	}

	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if err := r.db.WithContext(ctx).Model(&bookings.Reservation{}).
		Where("created_at >= ? AND created_at < ?", dayStart, dayStart.AddDate(0, 0, 1)).
		Count(&stats.TodayBookings).Error; err != nil {
		return nil, err
	}

	if err := r.db.WithContext(ctx).Model(&bookings.Reservation{}).
		Where("status = ?", bookings.StatusActive).
		Count(&stats.ActiveBookings).Error; err != nil {
		return nil, err
	}

	return &stats, nil
}
