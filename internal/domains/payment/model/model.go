package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"studyhall-backend/internal/shared"
)

type PaymentMode string

const (
	ModeCash         PaymentMode = "cash"
	ModeUPI          PaymentMode = "upi"
	ModeCard         PaymentMode = "card"
	ModeBankTransfer PaymentMode = "bank_transfer"
)

func (m PaymentMode) IsValid() bool {
	switch m {
	case ModeCash, ModeUPI, ModeCard, ModeBankTransfer:
		return true
	}
	return false
}

// Payment is one collected fee installment. Payments are never hard-deleted;
// a mistake is undone by reversing, which flips IsReversed exactly once and
// subtracts the amount back out of the student's ledger.
type Payment struct {
	ID            uuid.UUID       `json:"id"`
	StudentID     uuid.UUID       `json:"student_id"`
	Amount        decimal.Decimal `json:"amount"`
	Mode          PaymentMode     `json:"mode"`
	ReceiptNumber string          `json:"receipt_number"`
	ReceiptImage  string          `json:"receipt_image"`
	Notes         string          `json:"notes,omitempty"`

	CollectedBy     uuid.UUID `json:"collected_by"`
	CollectedByName string    `json:"collected_by_name"`
	CollectionDate  time.Time `json:"collection_date"`

	IsReversed    bool       `json:"is_reversed"`
	ReversedAt    *time.Time `json:"reversed_at,omitempty"`
	ReversedBy    *uuid.UUID `json:"reversed_by,omitempty"`
	ReverseReason string     `json:"reverse_reason,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

type AddPaymentRequest struct {
	StudentID     uuid.UUID       `json:"student_id" form:"student_id"`
	Amount        decimal.Decimal `json:"amount" form:"amount"`
	Mode          PaymentMode     `json:"mode" form:"mode"`
	ReceiptNumber string          `json:"receipt_number" form:"receipt_number"`
	Notes         string          `json:"notes" form:"notes"`
	// ReceiptImage is the stored URL, set by the handler after upload.
	// A payment without a receipt image is rejected.
	ReceiptImage string `json:"-" form:"-"`
}

func (r AddPaymentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.StudentID, validation.Required.Error("student id is required")),
		validation.Field(&r.Amount, validation.By(amountPositive)),
		validation.Field(&r.Mode,
			validation.Required.Error("payment mode is required"),
			validation.In(ModeCash, ModeUPI, ModeCard, ModeBankTransfer),
		),
		validation.Field(&r.ReceiptNumber, validation.Required.Error("receipt number is required")),
		validation.Field(&r.ReceiptImage, validation.Required.Error("receipt image is required")),
	)
}

func amountPositive(value interface{}) error {
	amount, ok := value.(decimal.Decimal)
	if !ok || !amount.IsPositive() {
		return ErrInvalidAmount
	}
	return nil
}

type ReversePaymentRequest struct {
	Reason string `json:"reason"`
}

func (r ReversePaymentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Reason, validation.Required.Error("reversal reason is required")),
	)
}

type ListPaymentsFilter struct {
	StudentID   *uuid.UUID
	CollectedBy *uuid.UUID
	From        *time.Time
	To          *time.Time
	Limit       int
	Offset      int
}

type CollectorTotal struct {
	CollectedBy     uuid.UUID       `json:"collected_by"`
	CollectedByName string          `json:"collected_by_name"`
	Total           decimal.Decimal `json:"total"`
	Count           int             `json:"count"`
}

type CategoryTotal struct {
	Category shared.StudentCategory `json:"category"`
	Total    decimal.Decimal        `json:"total"`
	Count    int                    `json:"count"`
}

// CollectionStats aggregates non-reversed payments only.
type CollectionStats struct {
	TotalCollected decimal.Decimal  `json:"total_collected"`
	TotalCount     int              `json:"total_count"`
	TodayCollected decimal.Decimal  `json:"today_collected"`
	TodayCount     int              `json:"today_count"`
	ByCollector    []CollectorTotal `json:"by_collector"`
	ByCategory     []CategoryTotal  `json:"by_category"`
}

// StudentPayments is the by-student listing with the running non-reversed
// total.
type StudentPayments struct {
	Payments  []Payment       `json:"payments"`
	TotalPaid decimal.Decimal `json:"total_paid"`
}
