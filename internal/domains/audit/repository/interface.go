package repository

import (
	"context"

	"github.com/google/uuid"

	"studyhall-backend/internal/domains/audit/model"
)

type Repository interface {
	Insert(ctx context.Context, entry *model.AuditLog) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.AuditLog, error)
	List(ctx context.Context, filter model.ListAuditFilter) ([]model.AuditLog, error)
	ListByTarget(ctx context.Context, targetType string, targetID uuid.UUID, hideAdmin bool) ([]model.AuditLog, error)
	Stats(ctx context.Context) (*model.AuditStats, error)
}
