package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"studyhall-backend/internal/domains/payment/model"
)

type Repository interface {
	Create(ctx context.Context, p *model.Payment) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Payment, error)
	List(ctx context.Context, filter model.ListPaymentsFilter) ([]model.Payment, error)
	ListByStudent(ctx context.Context, studentID uuid.UUID) ([]model.Payment, error)

	// NonReversedTotal sums the student's live payments.
	NonReversedTotal(ctx context.Context, studentID uuid.UUID) (decimal.Decimal, error)

	// MarkReversed flips the reversal flag exactly once; a second call
	// returns model.ErrAlreadyReversed.
	MarkReversed(ctx context.Context, id, reversedBy uuid.UUID, reason string) error

	Stats(ctx context.Context, from, to *time.Time) (*model.CollectionStats, error)
}
