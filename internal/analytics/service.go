package analytics

import (
	"context"
	"time"

	"github.com/kkkhs/study-room-booking/internal/shared/constants"
	"github.com/kkkhs/study-room-booking/pkg/cache"
)

type Service interface {
	GetStatistics(ctx context.Context) (*Statistics, error)
}

type service struct {
	repo  Repository
	cache cache.Service
}

func NewService(repo Repository, cacheService cache.Service) Service {
	return &service{
		repo:  repo,
		cache: cacheService,
	}
}

func (s *service) GetStatistics(ctx context.Context) (*Statistics, error) {
	var stats Statistics
	err := s.cache.GetOrSet(ctx, constants.CACHE_KEY_STATISTICS, constants.TTL_STATISTICS, func() (interface{}, error) {
		return s.repo.GetStatistics(ctx, time.Now())
	}, &stats)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
