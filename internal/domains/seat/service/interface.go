package service

import (
	"context"

	"studyhall-backend/internal/domains/seat/model"
	"studyhall-backend/internal/shared"
)

type Service interface {
	GetByID(ctx context.Context, seatID string) (*model.Seat, error)
	List(ctx context.Context, filter model.ListSeatsFilter) ([]model.Seat, error)
	ListAvailable(ctx context.Context, category shared.StudentCategory) ([]model.Seat, error)
	Stats(ctx context.Context) (*model.SeatStats, error)
}
