package repository

import (
	"context"

	"github.com/google/uuid"

	"studyhall-backend/internal/domains/seat/model"
	"studyhall-backend/internal/shared"
)

// Repository owns the seats table. Occupy and Release are the only two
// writers of occupancy state anywhere in the codebase; every other caller
// goes through them so status, back-reference and timestamp always move
// together.
type Repository interface {
	GetByID(ctx context.Context, seatID string) (*model.Seat, error)
	List(ctx context.Context, filter model.ListSeatsFilter) ([]model.Seat, error)
	ListAvailable(ctx context.Context, category shared.StudentCategory) ([]model.Seat, error)
	Stats(ctx context.Context) (*model.SeatStats, error)

	// Occupy marks an available seat as occupied by the student. Returns
	// model.ErrSeatOccupied if the seat is taken, model.ErrSeatNotFound if
	// it does not exist.
	Occupy(ctx context.Context, seatID string, studentID uuid.UUID) error

	// Release frees a seat regardless of who holds it. Releasing an already
	// vacant seat is a no-op.
	Release(ctx context.Context, seatID string) error
}
