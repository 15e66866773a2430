package model

import (
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"studyhall-backend/internal/shared"
)

var mobilePattern = regexp.MustCompile(`^\d{10}$`)

type LifecycleStatus string

const (
	StatusActive  LifecycleStatus = "active"
	StatusExpired LifecycleStatus = "expired"
	StatusDeleted LifecycleStatus = "deleted"
)

// Student is a hall member. SeatID is a denormalized copy of the occupied
// seat; the seat row carries the back-reference. The fee ledger fields
// (TotalFee, AmountPaid, AmountDue, FeeStatus) always satisfy
// DeriveFeeLedger; nothing writes them independently.
type Student struct {
	ID       uuid.UUID              `json:"id"`
	Name     string                 `json:"name"`
	Mobile   string                 `json:"mobile"`
	Photo    string                 `json:"photo,omitempty"`
	Category shared.StudentCategory `json:"category"`
	TimePlan shared.TimePlan        `json:"time_plan"`
	SeatID   string                 `json:"seat_id,omitempty"`

	JoinDate   time.Time `json:"join_date"`
	ExpiryDate time.Time `json:"expiry_date"`

	TotalFee   decimal.Decimal `json:"total_fee"`
	AmountPaid decimal.Decimal `json:"amount_paid"`
	AmountDue  decimal.Decimal `json:"amount_due"`
	FeeStatus  FeeStatus       `json:"fee_status"`

	Status       LifecycleStatus `json:"status"`
	IsDeleted    bool            `json:"is_deleted"`
	DeletedAt    *time.Time      `json:"deleted_at,omitempty"`
	DeletedBy    *uuid.UUID      `json:"deleted_by,omitempty"`
	DeleteReason string          `json:"delete_reason,omitempty"`
	RestoredAt   *time.Time      `json:"restored_at,omitempty"`
	RestoredBy   *uuid.UUID      `json:"restored_by,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateStudentRequest struct {
	Name     string                 `json:"name" form:"name"`
	Mobile   string                 `json:"mobile" form:"mobile"`
	Category shared.StudentCategory `json:"category" form:"category"`
	TimePlan shared.TimePlan        `json:"time_plan" form:"time_plan"`
	SeatID   string                 `json:"seat_id" form:"seat_id"`
	JoinDate *time.Time             `json:"join_date,omitempty" form:"join_date"`
	Photo    string                 `json:"-" form:"-"`
}

func (r CreateStudentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required.Error("name is required")),
		validation.Field(&r.Mobile,
			validation.Required.Error("mobile is required"),
			validation.Match(mobilePattern).Error("mobile must be exactly 10 digits"),
		),
		validation.Field(&r.Category,
			validation.Required.Error("category is required"),
			validation.In(shared.CategoryRegular, shared.CategoryPremium),
		),
		validation.Field(&r.TimePlan,
			validation.Required.Error("time plan is required"),
			validation.In(shared.TimePlan6Hr, shared.TimePlan12Hr, shared.TimePlan24Hr),
		),
		validation.Field(&r.SeatID, validation.Required.Error("seat id is required")),
	)
}

type UpdateStudentRequest struct {
	Name     *string                 `json:"name,omitempty" form:"name"`
	Mobile   *string                 `json:"mobile,omitempty" form:"mobile"`
	Category *shared.StudentCategory `json:"category,omitempty" form:"category"`
	TimePlan *shared.TimePlan        `json:"time_plan,omitempty" form:"time_plan"`
	SeatID   *string                 `json:"seat_id,omitempty" form:"seat_id"`
	Photo    *string                 `json:"-" form:"-"`
}

func (r UpdateStudentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.NilOrNotEmpty.Error("name cannot be empty")),
		validation.Field(&r.Mobile, validation.By(func(value interface{}) error {
			m, _ := value.(*string)
			if m == nil {
				return nil
			}
			return validation.Validate(*m, validation.Match(mobilePattern).Error("mobile must be exactly 10 digits"))
		})),
		validation.Field(&r.Category, validation.By(func(value interface{}) error {
			cat, _ := value.(*shared.StudentCategory)
			if cat == nil {
				return nil
			}
			return validation.Validate(*cat, validation.In(shared.CategoryRegular, shared.CategoryPremium))
		})),
		validation.Field(&r.TimePlan, validation.By(func(value interface{}) error {
			plan, _ := value.(*shared.TimePlan)
			if plan == nil {
				return nil
			}
			return validation.Validate(*plan, validation.In(shared.TimePlan6Hr, shared.TimePlan12Hr, shared.TimePlan24Hr))
		})),
		validation.Field(&r.SeatID, validation.NilOrNotEmpty.Error("seat id cannot be empty")),
	)
}

type DeleteStudentRequest struct {
	Reason string `json:"reason"`
}

type RestoreStudentRequest struct {
	SeatID string `json:"seat_id"`
}

func (r RestoreStudentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.SeatID, validation.Required.Error("seat id is required")),
	)
}

type ListStudentsFilter struct {
	Status         *LifecycleStatus
	Category       *shared.StudentCategory
	FeeStatus      *FeeStatus
	Search         string
	IncludeDeleted bool
	Limit          int
	Offset         int
}

type StudentStats struct {
	Total   int `json:"total"`
	Active  int `json:"active"`
	Expired int `json:"expired"`
	Deleted int `json:"deleted"`

	ActiveRegular int `json:"active_regular"`
	ActivePremium int `json:"active_premium"`
}
