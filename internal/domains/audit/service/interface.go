package service

import (
	"context"

	"github.com/google/uuid"

	"studyhall-backend/internal/domains/audit/model"
	"studyhall-backend/internal/shared"
)

// Service is both the write-side sink handed to the other domains and the
// read-side query API for the trail screens.
type Service interface {
	shared.AuditSink

	List(ctx context.Context, viewer shared.Actor, filter model.ListAuditFilter) ([]model.AuditLog, error)
	GetByID(ctx context.Context, viewer shared.Actor, id uuid.UUID) (*model.AuditLog, error)
	ListByTarget(ctx context.Context, viewer shared.Actor, targetType string, targetID uuid.UUID) ([]model.AuditLog, error)
	Stats(ctx context.Context) (*model.AuditStats, error)
}
