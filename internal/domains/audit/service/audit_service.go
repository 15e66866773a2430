package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"studyhall-backend/internal/domains/audit/model"
	"studyhall-backend/internal/domains/audit/repository"
	"studyhall-backend/internal/shared"
	"studyhall-backend/pkg/logger"
)

type auditService struct {
	repo repository.Repository
}

func NewService(repo repository.Repository) Service {
	return &auditService{repo: repo}
}

// Record writes one trail entry. Failures are logged and swallowed; the
// trail must never fail the operation that triggered it.
func (s *auditService) Record(ctx context.Context, entry shared.AuditEntry) {
	log := &model.AuditLog{
		ID:         uuid.New(),
		Action:     entry.Action,
		ActorID:    entry.Actor.ID,
		ActorName:  entry.Actor.Name,
		ActorRole:  entry.Actor.Role,
		TargetType: entry.TargetType,
		TargetID:   entry.TargetID,
		OldValues:  entry.OldValues,
		NewValues:  entry.NewValues,
		Reason:     entry.Reason,
		IPAddress:  entry.IPAddress,
	}
	if err := s.repo.Insert(ctx, log); err != nil {
		logger.Error("failed to record audit entry", err)
	}
}

func (s *auditService) List(ctx context.Context, viewer shared.Actor, filter model.ListAuditFilter) ([]model.AuditLog, error) {
	filter.HideAdminEntries = viewer.Role == shared.RoleDirector
	if filter.Limit <= 0 || filter.Limit > 200 {
		filter.Limit = 50
	}
	return s.repo.List(ctx, filter)
}

func (s *auditService) GetByID(ctx context.Context, viewer shared.Actor, id uuid.UUID) (*model.AuditLog, error) {
	entry, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrEntryNotFound) {
			return nil, model.NewAuditError(model.ErrCodeEntryNotFound, "audit entry not found", err)
		}
		return nil, err
	}
	if viewer.Role == shared.RoleDirector && entry.ActorRole == shared.RoleAdmin {
		return nil, model.NewAuditError(model.ErrCodeEntryHidden, "audit entry is not visible to this role", model.ErrEntryHidden)
	}
	return entry, nil
}

func (s *auditService) ListByTarget(ctx context.Context, viewer shared.Actor, targetType string, targetID uuid.UUID) ([]model.AuditLog, error) {
	hideAdmin := viewer.Role == shared.RoleDirector
	return s.repo.ListByTarget(ctx, targetType, targetID, hideAdmin)
}

func (s *auditService) Stats(ctx context.Context) (*model.AuditStats, error) {
	return s.repo.Stats(ctx)
}
