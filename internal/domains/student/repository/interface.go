package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"studyhall-backend/internal/domains/student/model"
)

type Repository interface {
	Create(ctx context.Context, s *model.Student) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Student, error)
	// Update persists every mutable column of the row.
	Update(ctx context.Context, s *model.Student) error
	List(ctx context.Context, filter model.ListStudentsFilter) ([]model.Student, error)
	Stats(ctx context.Context) (*model.StudentStats, error)

	// UpdateFeeLedger writes the four ledger fields in one statement. Used
	// by the payment recorder and the fee repair pass.
	UpdateFeeLedger(ctx context.Context, id uuid.UUID, paid, due decimal.Decimal, status model.FeeStatus) error

	// ListExpiredActive returns active students whose expiry date is before
	// the cutoff.
	ListExpiredActive(ctx context.Context, cutoff time.Time) ([]model.Student, error)

	// MarkExpired flips one active student to expired.
	MarkExpired(ctx context.Context, id uuid.UUID) error

	// ListNonDeleted feeds the fee repair pass.
	ListNonDeleted(ctx context.Context) ([]model.Student, error)
}
