package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"studyhall-backend/internal/shared"
)

// Pricing maps (student category, time plan) to a fee amount. One active
// entry per combination; entries are deactivated, never deleted.
type Pricing struct {
	ID              uuid.UUID              `json:"id"`
	StudentCategory shared.StudentCategory `json:"student_category"`
	TimePlan        shared.TimePlan        `json:"time_plan"`
	Price           decimal.Decimal        `json:"price"`
	IsActive        bool                   `json:"is_active"`
	UpdatedBy       *uuid.UUID             `json:"updated_by,omitempty"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
}

type CreatePricingRequest struct {
	StudentCategory shared.StudentCategory `json:"student_category"`
	TimePlan        shared.TimePlan        `json:"time_plan"`
	Price           decimal.Decimal        `json:"price"`
}

func (r CreatePricingRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.StudentCategory,
			validation.Required.Error("student category is required"),
			validation.In(shared.CategoryRegular, shared.CategoryPremium),
		),
		validation.Field(&r.TimePlan,
			validation.Required.Error("time plan is required"),
			validation.In(shared.TimePlan6Hr, shared.TimePlan12Hr, shared.TimePlan24Hr),
		),
		validation.Field(&r.Price,
			validation.By(priceNonNegative),
		),
	)
}

type UpdatePriceRequest struct {
	Price decimal.Decimal `json:"price"`
}

func (r UpdatePriceRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Price,
			validation.Required.Error("valid price is required"),
			validation.By(priceNonNegative),
		),
	)
}

func priceNonNegative(value interface{}) error {
	price, ok := value.(decimal.Decimal)
	if !ok || price.IsNegative() {
		return ErrInvalidPrice
	}
	return nil
}
