package service

import (
	"context"

	"github.com/google/uuid"

	"studyhall-backend/internal/domains/student/model"
	"studyhall-backend/internal/shared"
)

type Service interface {
	Create(ctx context.Context, actor shared.Actor, req model.CreateStudentRequest) (*model.Student, error)
	Update(ctx context.Context, actor shared.Actor, id uuid.UUID, req model.UpdateStudentRequest) (*model.Student, error)
	Delete(ctx context.Context, actor shared.Actor, id uuid.UUID, reason string) (*model.Student, error)
	Restore(ctx context.Context, actor shared.Actor, id uuid.UUID, req model.RestoreStudentRequest) (*model.Student, error)

	GetByID(ctx context.Context, viewer shared.Actor, id uuid.UUID) (*model.Student, error)
	List(ctx context.Context, viewer shared.Actor, filter model.ListStudentsFilter) ([]model.Student, error)
	Stats(ctx context.Context) (*model.StudentStats, error)

	// RepairFeeStatuses re-derives every non-deleted student's ledger and
	// persists only rows whose derived values changed. Returns how many
	// rows were fixed.
	RepairFeeStatuses(ctx context.Context) (int, error)

	// SweepExpiredMemberships marks active students past their expiry date
	// as expired and frees their seats. Returns how many were swept.
	SweepExpiredMemberships(ctx context.Context) (int, error)
}
