package bookings

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, reservation *Reservation) error
	GetByID(ctx context.Context, id uuid.UUID) (*Reservation, error)

	// Transition applies a status-guarded update. It touches the row only
	// when the current status is in `from`, returning the affected row
	// count so callers can detect a lost race.
	Transition(ctx context.Context, id uuid.UUID, from []Status, to Status, updates map[string]interface{}) (int64, error)

	ListLive(ctx context.Context) ([]Reservation, error)
	ListPendingExpired(ctx context.Context, deadline time.Time) ([]Reservation, error)
	ListActiveEnded(ctx context.Context, now time.Time) ([]Reservation, error)

	ListByUser(ctx context.Context, userID uuid.UUID, filters ListFilters) (*PaginatedReservations, error)
	ListAll(ctx context.Context, filters ListFilters) (*PaginatedReservations, error)
	ListBySeatAndRange(ctx context.Context, seatID uuid.UUID, from, to time.Time) ([]Reservation, error)
	ListLiveByClassroomAndRange(ctx context.Context, classroomID uuid.UUID, from, to time.Time) ([]Reservation, error)

	CountLiveForUserOnDay(ctx context.Context, userID uuid.UUID, dayStart, dayEnd time.Time) (int64, error)
	HasLiveUserOverlap(ctx context.Context, userID uuid.UUID, w TimeWindow) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, reservation *Reservation) error {
	return r.db.WithContext(ctx).Create(reservation).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Reservation, error) {
	var reservation Reservation
	err := r.db.WithContext(ctx).First(&reservation, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &reservation, nil
}

// Transition is the single writer for reservation state. The status guard
// in the WHERE clause serializes racing transitions on one row: whichever
// update commits first wins and the loser sees zero affected rows.
func (r *repository) Transition(ctx context.Context, id uuid.UUID, from []Status, to Status, updates map[string]interface{}) (int64, error) {
	if updates == nil {
		updates = make(map[string]interface{})
	}
	updates["status"] = to

	result := r.db.WithContext(ctx).Model(&Reservation{}).
		Where("id = ? AND status IN ?", id, from).
		Updates(updates)
	return result.RowsAffected, result.Error
}

func (r *repository) ListLive(ctx context.Context) ([]Reservation, error) {
	var reservations []Reservation
	err := r.db.WithContext(ctx).
		Where("status IN ?", LiveStatuses).
		Find(&reservations).Error
	return reservations, err
}

// ListPendingExpired fetches PENDING reservations whose grace deadline
// passed: start_time < deadline, where deadline = now - grace.
func (r *repository) ListPendingExpired(ctx context.Context, deadline time.Time) ([]Reservation, error) {
	var reservations []Reservation
	err := r.db.WithContext(ctx).
		Where("status = ? AND start_time < ?", StatusPending, deadline).
		Find(&reservations).Error
	return reservations, err
}

func (r *repository) ListActiveEnded(ctx context.Context, now time.Time) ([]Reservation, error) {
	var reservations []Reservation
	err := r.db.WithContext(ctx).
		Where("status = ? AND end_time <= ?", StatusActive, now).
		Find(&reservations).Error
	return reservations, err
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID, filters ListFilters) (*PaginatedReservations, error) {
	query := r.db.WithContext(ctx).Model(&Reservation{}).Where("user_id = ?", userID)
	return paginate(query, filters)
}

func (r *repository) ListAll(ctx context.Context, filters ListFilters) (*PaginatedReservations, error) {
	query := r.db.WithContext(ctx).Model(&Reservation{})
	return paginate(query, filters)
}

func (r *repository) ListBySeatAndRange(ctx context.Context, seatID uuid.UUID, from, to time.Time) ([]Reservation, error) {
	var reservations []Reservation
	err := r.db.WithContext(ctx).
		Where("seat_id = ? AND start_time < ? AND end_time > ?", seatID, to, from).
		Order("start_time ASC").
		Find(&reservations).Error
	return reservations, err
}

func (r *repository) ListLiveByClassroomAndRange(ctx context.Context, classroomID uuid.UUID, from, to time.Time) ([]Reservation, error) {
	var reservations []Reservation
	err := r.db.WithContext(ctx).
		Where("classroom_id = ? AND status IN ? AND start_time < ? AND end_time > ?",
			classroomID, LiveStatuses, to, from).
		Order("start_time ASC").
		Find(&reservations).Error
	return reservations, err
}

func (r *repository) CountLiveForUserOnDay(ctx context.Context, userID uuid.UUID, dayStart, dayEnd time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Reservation{}).
		Where("user_id = ? AND status IN ? AND start_time >= ? AND start_time < ?",
			userID, LiveStatuses, dayStart, dayEnd).
		Count(&count).Error
	return count, err
}

func (r *repository) HasLiveUserOverlap(ctx context.Context, userID uuid.UUID, w TimeWindow) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Reservation{}).
		Where("user_id = ? AND status IN ? AND start_time < ? AND end_time > ?",
			userID, LiveStatuses, w.End, w.Start).
		Count(&count).Error
	return count > 0, err
}

func paginate(query *gorm.DB, filters ListFilters) (*PaginatedReservations, error) {
	if filters.Page <= 0 {
		filters.Page = 1
	}
	if filters.Limit <= 0 {
		filters.Limit = 20
	}
	if filters.Limit > 100 {
		filters.Limit = 100
	}

	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var reservations []Reservation
	offset := (filters.Page - 1) * filters.Limit
	err := query.Order("created_at DESC").Offset(offset).Limit(filters.Limit).Find(&reservations).Error
	if err != nil {
		return nil, err
	}

	return &PaginatedReservations{
		Reservations: reservations,
		Total:        total,
		Page:         filters.Page,
		Limit:        filters.Limit,
	}, nil
}
