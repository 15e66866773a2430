package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"studyhall-backend/internal/domains/pricing/model"
	"studyhall-backend/internal/domains/pricing/repository"
	"studyhall-backend/internal/shared"
	"studyhall-backend/pkg/cache"
	"studyhall-backend/pkg/logger"
)

const (
	pricingCacheKey = "pricing:active"
	pricingCacheTTL = 10 * time.Minute
)

type pricingService struct {
	repo      repository.Repository
	cache     cache.Cache
	auditSink shared.AuditSink
}

func NewService(repo repository.Repository, c cache.Cache, auditSink shared.AuditSink) Service {
	return &pricingService{repo: repo, cache: c, auditSink: auditSink}
}

func (s *pricingService) CreatePricing(ctx context.Context, actor shared.Actor, req model.CreatePricingRequest) (*model.Pricing, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewPricingError(model.ErrCodeInvalidPrice, err.Error(), err)
	}

	p := &model.Pricing{
		ID:              uuid.New(),
		StudentCategory: req.StudentCategory,
		TimePlan:        req.TimePlan,
		Price:           req.Price,
		UpdatedBy:       &actor.ID,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		if errors.Is(err, model.ErrDuplicateKey) {
			return nil, model.NewPricingError(model.ErrCodeDuplicateKey, "pricing already exists for this category and plan", err)
		}
		return nil, model.NewPricingError(model.ErrCodePricingNotFound, "failed to create pricing", err)
	}

	s.invalidateCache(ctx)
	s.auditSink.Record(ctx, shared.AuditEntry{
		Action:     shared.ActionPricingChanged,
		Actor:      actor,
		TargetType: shared.TargetPricing,
		TargetID:   p.ID,
		NewValues: map[string]interface{}{
			"student_category": p.StudentCategory,
			"time_plan":        p.TimePlan,
			"price":            p.Price.String(),
		},
	})
	return p, nil
}

func (s *pricingService) UpdatePrice(ctx context.Context, actor shared.Actor, id uuid.UUID, req model.UpdatePriceRequest) (*model.Pricing, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewPricingError(model.ErrCodeInvalidPrice, err.Error(), err)
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrPricingNotFound) {
			return nil, model.NewPricingError(model.ErrCodePricingNotFound, "pricing not found", err)
		}
		return nil, err
	}

	oldPrice := existing.Price
	if err := s.repo.UpdatePrice(ctx, id, req.Price, actor.ID); err != nil {
		return nil, fmt.Errorf("failed to update price: %w", err)
	}
	existing.Price = req.Price
	existing.UpdatedBy = &actor.ID

	s.invalidateCache(ctx)
	s.auditSink.Record(ctx, shared.AuditEntry{
		Action:     shared.ActionPricingChanged,
		Actor:      actor,
		TargetType: shared.TargetPricing,
		TargetID:   id,
		OldValues:  map[string]interface{}{"price": oldPrice.String()},
		NewValues:  map[string]interface{}{"price": req.Price.String()},
	})
	return existing, nil
}

func (s *pricingService) Deactivate(ctx context.Context, actor shared.Actor, id uuid.UUID) (*model.Pricing, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrPricingNotFound) {
			return nil, model.NewPricingError(model.ErrCodePricingNotFound, "pricing not found", err)
		}
		return nil, err
	}
	if !existing.IsActive {
		return existing, nil
	}

	if err := s.repo.Deactivate(ctx, id); err != nil {
		return nil, fmt.Errorf("failed to deactivate pricing: %w", err)
	}
	existing.IsActive = false

	s.invalidateCache(ctx)
	s.auditSink.Record(ctx, shared.AuditEntry{
		Action:     shared.ActionPricingChanged,
		Actor:      actor,
		TargetType: shared.TargetPricing,
		TargetID:   id,
		OldValues:  map[string]interface{}{"is_active": true},
		NewValues:  map[string]interface{}{"is_active": false},
	})
	return existing, nil
}

func (s *pricingService) LookupFee(ctx context.Context, category shared.StudentCategory, plan shared.TimePlan) (*model.Pricing, error) {
	if !category.IsValid() || !plan.IsValid() {
		return nil, model.NewPricingError(model.ErrCodePricingNotFound, "invalid category or time plan", model.ErrPricingNotFound)
	}

	p, err := s.repo.FindActive(ctx, category, plan)
	if err != nil {
		if errors.Is(err, model.ErrPricingNotFound) {
			return nil, model.NewPricingError(model.ErrCodePricingNotFound,
				fmt.Sprintf("no active pricing for %s/%s", category, plan), err)
		}
		return nil, err
	}
	return p, nil
}

func (s *pricingService) ListActive(ctx context.Context) ([]model.Pricing, error) {
	var cached []model.Pricing
	if s.cache != nil {
		if hit, err := s.cache.Get(ctx, pricingCacheKey, &cached); err == nil && hit {
			return cached, nil
		}
	}

	list, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, pricingCacheKey, list, pricingCacheTTL); err != nil {
			logger.Warn("failed to cache pricing list", map[string]interface{}{"error": err.Error()})
		}
	}
	return list, nil
}

func (s *pricingService) invalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, pricingCacheKey); err != nil {
		logger.Warn("failed to invalidate pricing cache", map[string]interface{}{"error": err.Error()})
	}
}
