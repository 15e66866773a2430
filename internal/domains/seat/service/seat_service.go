package service

import (
	"context"
	"errors"
	"time"

	"studyhall-backend/internal/domains/seat/model"
	"studyhall-backend/internal/domains/seat/repository"
	"studyhall-backend/internal/shared"
	"studyhall-backend/pkg/cache"
	"studyhall-backend/pkg/logger"
)

const (
	seatStatsCacheKey = "seats:stats"
	seatStatsCacheTTL = time.Minute
)

type seatService struct {
	repo  repository.Repository
	cache cache.Cache
}

func NewService(repo repository.Repository, c cache.Cache) Service {
	return &seatService{repo: repo, cache: c}
}

func (s *seatService) GetByID(ctx context.Context, seatID string) (*model.Seat, error) {
	seat, err := s.repo.GetByID(ctx, seatID)
	if err != nil {
		if errors.Is(err, model.ErrSeatNotFound) {
			return nil, model.NewSeatError(model.ErrCodeSeatNotFound, "seat not found", err)
		}
		return nil, err
	}
	return seat, nil
}

func (s *seatService) List(ctx context.Context, filter model.ListSeatsFilter) ([]model.Seat, error) {
	return s.repo.List(ctx, filter)
}

func (s *seatService) ListAvailable(ctx context.Context, category shared.StudentCategory) ([]model.Seat, error) {
	return s.repo.ListAvailable(ctx, category)
}

// Stats is served from cache when fresh; occupancy moves slowly enough that
// a one-minute window is acceptable for the dashboard.
func (s *seatService) Stats(ctx context.Context) (*model.SeatStats, error) {
	if s.cache != nil {
		var cached model.SeatStats
		if hit, err := s.cache.Get(ctx, seatStatsCacheKey, &cached); err == nil && hit {
			return &cached, nil
		}
	}

	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, seatStatsCacheKey, stats, seatStatsCacheTTL); err != nil {
			logger.Warn("failed to cache seat stats", map[string]interface{}{"error": err.Error()})
		}
	}
	return stats, nil
}
