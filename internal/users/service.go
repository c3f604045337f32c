package users

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Service interface {
	GetByID(ctx context.Context, id string) (*User, error)
	List(ctx context.Context, filters ListFilters) (*PaginatedUsers, error)
	SetStatus(ctx context.Context, id string, status Status) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetByID(ctx context.Context, id string) (*User, error) {
	userID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID: %w", err)
	}
	return s.repo.GetByID(ctx, userID)
}

func (s *service) List(ctx context.Context, filters ListFilters) (*PaginatedUsers, error) {
	return s.repo.List(ctx, filters)
}

func (s *service) SetStatus(ctx context.Context, id string, status Status) error {
	userID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid user ID: %w", err)
	}

	affected, err := s.repo.UpdateStatus(ctx, userID, status)
	if err != nil {
		return fmt.Errorf("failed to update user status: %w", err)
	}
	if affected == 0 {
		return ErrUserNotFound
	}
	return nil
}
