package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"studyhall-backend/internal/domains/pricing/model"
	"studyhall-backend/internal/shared"
)

type Repository interface {
	Create(ctx context.Context, p *model.Pricing) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Pricing, error)
	// FindActive returns the single active entry for the combination, or
	// model.ErrPricingNotFound.
	FindActive(ctx context.Context, category shared.StudentCategory, plan shared.TimePlan) (*model.Pricing, error)
	ListActive(ctx context.Context) ([]model.Pricing, error)
	UpdatePrice(ctx context.Context, id uuid.UUID, price decimal.Decimal, updatedBy uuid.UUID) error
	Deactivate(ctx context.Context, id uuid.UUID) error
}
