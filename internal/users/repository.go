package users

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrUserNotFound = errors.New("user not found")

type ListFilters struct {
	Role   string
	Status string
	Search string
	Page   int
	Limit  int
}

type PaginatedUsers struct {
	Users []User `json:"users"`
	Total int64  `json:"total"`
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
}

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	List(ctx context.Context, filters ListFilters) (*PaginatedUsers, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	var user User
	err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *repository) List(ctx context.Context, filters ListFilters) (*PaginatedUsers, error) {
	if filters.Page <= 0 {
		filters.Page = 1
	}
	if filters.Limit <= 0 {
		filters.Limit = 20
	}
	if filters.Limit > 100 {
		filters.Limit = 100
	}

	query := r.db.WithContext(ctx).Model(&User{})
	if filters.Role != "" {
		query = query.Where("role = ?", filters.Role)
	}
	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}
	if filters.Search != "" {
		like := "%" + filters.Search + "%"
		query = query.Where("username ILIKE ? OR real_name ILIKE ? OR student_id ILIKE ?", like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var userList []User
	offset := (filters.Page - 1) * filters.Limit
	err := query.Order("created_at DESC").Offset(offset).Limit(filters.Limit).Find(&userList).Error
	if err != nil {
		return nil, err
	}

	return &PaginatedUsers{
		Users: userList,
		Total: total,
		Page:  filters.Page,
		Limit: filters.Limit,
	}, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) (int64, error) {
	result := r.db.WithContext(ctx).Model(&User{}).
		Where("id = ?", id).
		Update("status", status)
	return result.RowsAffected, result.Error
}
