package model

import (
	"time"

	"github.com/google/uuid"

	"studyhall-backend/internal/shared"
)

type SeatStatus string

const (
	StatusAvailable SeatStatus = "available"
	StatusOccupied  SeatStatus = "occupied"
)

// Seat is one fixed seat in the hall. Seats are created once at setup and
// only ever toggle occupancy; the category never changes.
//
// Invariant: Status == occupied exactly when OccupiedBy is non-nil, and the
// referenced student's seat field points back here. Both sides are mutated
// only through Repository.Occupy and Repository.Release.
type Seat struct {
	SeatID         string                 `json:"seat_id"`
	SeatCategory   shared.StudentCategory `json:"seat_category"`
	SeatNumber     int                    `json:"seat_number"`
	Status         SeatStatus             `json:"status"`
	OccupiedBy     *uuid.UUID             `json:"occupied_by,omitempty"`
	LastOccupiedAt *time.Time             `json:"last_occupied_at,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
}

type ListSeatsFilter struct {
	Category *shared.StudentCategory
	Status   *SeatStatus
}

type CategoryStats struct {
	Total     int `json:"total"`
	Occupied  int `json:"occupied"`
	Available int `json:"available"`
}

type SeatStats struct {
	Total     int           `json:"total"`
	Occupied  int           `json:"occupied"`
	Available int           `json:"available"`
	Regular   CategoryStats `json:"regular"`
	Premium   CategoryStats `json:"premium"`
}
