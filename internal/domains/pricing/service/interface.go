package service

import (
	"context"

	"github.com/google/uuid"

	"studyhall-backend/internal/domains/pricing/model"
	"studyhall-backend/internal/shared"
)

type Service interface {
	CreatePricing(ctx context.Context, actor shared.Actor, req model.CreatePricingRequest) (*model.Pricing, error)
	UpdatePrice(ctx context.Context, actor shared.Actor, id uuid.UUID, req model.UpdatePriceRequest) (*model.Pricing, error)
	// Deactivate retires a combination. Rows are never deleted; an inactive
	// row stops matching FindActive and drops out of the active list.
	Deactivate(ctx context.Context, actor shared.Actor, id uuid.UUID) (*model.Pricing, error)
	// LookupFee resolves the fee for a (category, plan) combination. Used by
	// the student lifecycle and by the public pricing lookup endpoint.
	LookupFee(ctx context.Context, category shared.StudentCategory, plan shared.TimePlan) (*model.Pricing, error)
	ListActive(ctx context.Context) ([]model.Pricing, error)
}
