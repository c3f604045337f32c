package blacklist

import (
	"context"
	"errors"
	"fmt"

	"github.com/kkkhs/study-room-booking/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrAlreadyBlacklisted = errors.New("user already blacklisted")
	ErrEntryNotFound      = errors.New("blacklist entry not found")
)

// Gate answers whether a user may create reservations and records violations.
type Gate interface {
	CanBook(ctx context.Context, userID uuid.UUID) (bool, error)
	RecordViolation(ctx context.Context, userID uuid.UUID) error
}

type Service interface {
	Gate
	Add(ctx context.Context, adminID string, req AddEntryRequest) (*Entry, error)
	Remove(ctx context.Context, entryID string) error
	List(ctx context.Context) ([]Entry, error)
}

type service struct {
	repo   Repository
	logger *logger.Logger
}

func NewService(repo Repository) Service {
	return &service{
		repo:   repo,
		logger: logger.GetDefault(),
	}
}

// CanBook returns false only for an explicit blacklist entry. A high
// violation count alone does not block booking.
func (s *service) CanBook(ctx context.Context, userID uuid.UUID) (bool, error) {
	blocked, err := s.repo.Exists(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("failed to check blacklist: %w", err)
	}
	if blocked {
		s.logger.LogBlacklistHit(ctx, userID.String())
	}
	return !blocked, nil
}

func (s *service) RecordViolation(ctx context.Context, userID uuid.UUID) error {
	if err := s.repo.IncrementViolation(ctx, userID); err != nil {
		return fmt.Errorf("failed to record violation: %w", err)
	}
	return nil
}

func (s *service) Add(ctx context.Context, adminID string, req AddEntryRequest) (*Entry, error) {
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID: %w", err)
	}
	createdBy, err := uuid.Parse(adminID)
	if err != nil {
		return nil, fmt.Errorf("invalid admin ID: %w", err)
	}

	exists, err := s.repo.Exists(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check blacklist: %w", err)
	}
	if exists {
		return nil, ErrAlreadyBlacklisted
	}

	entry := &Entry{
		ID:        uuid.New(),
		UserID:    userID,
		Reason:    req.Reason,
		CreatedBy: createdBy,
	}

	if err := s.repo.Add(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to add blacklist entry: %w", err)
	}
	return entry, nil
}

// Remove deletes a blacklist entry by entry id, not user id.
func (s *service) Remove(ctx context.Context, entryID string) error {
	id, err := uuid.Parse(entryID)
	if err != nil {
		return fmt.Errorf("invalid entry ID: %w", err)
	}

	affected, err := s.repo.Remove(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to remove blacklist entry: %w", err)
	}
	if affected == 0 {
		return ErrEntryNotFound
	}
	return nil
}

func (s *service) List(ctx context.Context) ([]Entry, error) {
	entries, err := s.repo.List(ctx)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to list blacklist: %w", err)
	}
	return entries, nil
}
