package blacklist

import (
	"context"

	"github.com/kkkhs/study-room-booking/internal/users"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Add(ctx context.Context, entry *Entry) error
	Remove(ctx context.Context, entryID uuid.UUID) (int64, error)
	Exists(ctx context.Context, userID uuid.UUID) (bool, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*Entry, error)
	List(ctx context.Context) ([]Entry, error)
	IncrementViolation(ctx context.Context, userID uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Add(ctx context.Context, entry *Entry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repository) Remove(ctx context.Context, entryID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&Entry{}, "id = ?", entryID)
	return result.RowsAffected, result.Error
}

func (r *repository) Exists(ctx context.Context, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Entry{}).Where("user_id = ?", userID).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) GetByUserID(ctx context.Context, userID uuid.UUID) (*Entry, error) {
	var entry Entry
	if err := r.db.WithContext(ctx).First(&entry, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *repository) List(ctx context.Context) ([]Entry, error) {
	var entries []Entry
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// IncrementViolation bumps the persistent per-user violation counter
func (r *repository) IncrementViolation(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&users.User{}).
		Where("id = ?", userID).
		Update("violation_count", gorm.Expr("violation_count + 1")).Error
}
