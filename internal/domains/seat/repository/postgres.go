package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"studyhall-backend/internal/domains/seat/model"
	"studyhall-backend/internal/shared"
)

const seatColumns = `seat_id, seat_category, seat_number, status, occupied_by, last_occupied_at, created_at, updated_at`

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

func scanSeat(row pgx.Row) (*model.Seat, error) {
	var s model.Seat
	err := row.Scan(&s.SeatID, &s.SeatCategory, &s.SeatNumber, &s.Status,
		&s.OccupiedBy, &s.LastOccupiedAt, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, seatID string) (*model.Seat, error) {
	query := `SELECT ` + seatColumns + ` FROM seats WHERE seat_id = $1`

	seat, err := scanSeat(r.pool.QueryRow(ctx, query, strings.ToUpper(seatID)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrSeatNotFound
		}
		return nil, fmt.Errorf("failed to get seat: %w", err)
	}
	return seat, nil
}

func (r *postgresRepository) List(ctx context.Context, filter model.ListSeatsFilter) ([]model.Seat, error) {
	query := `SELECT ` + seatColumns + ` FROM seats WHERE 1=1`
	args := []interface{}{}
	argPos := 1

	if filter.Category != nil {
		query += fmt.Sprintf(" AND seat_category = $%d", argPos)
		args = append(args, *filter.Category)
		argPos++
	}
	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argPos)
		args = append(args, *filter.Status)
		argPos++
	}
	query += " ORDER BY seat_category, seat_number"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list seats: %w", err)
	}
	defer rows.Close()

	return collectSeats(rows)
}

func (r *postgresRepository) ListAvailable(ctx context.Context, category shared.StudentCategory) ([]model.Seat, error) {
	query := `SELECT ` + seatColumns + ` FROM seats
	WHERE status = 'available' AND seat_category = $1
	ORDER BY seat_number`

	rows, err := r.pool.Query(ctx, query, category)
	if err != nil {
		return nil, fmt.Errorf("failed to list available seats: %w", err)
	}
	defer rows.Close()

	return collectSeats(rows)
}

func collectSeats(rows pgx.Rows) ([]model.Seat, error) {
	var seats []model.Seat
	for rows.Next() {
		var s model.Seat
		if err := rows.Scan(&s.SeatID, &s.SeatCategory, &s.SeatNumber, &s.Status,
			&s.OccupiedBy, &s.LastOccupiedAt, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan seat: %w", err)
		}
		seats = append(seats, s)
	}
	return seats, rows.Err()
}

func (r *postgresRepository) Stats(ctx context.Context) (*model.SeatStats, error) {
	query := `SELECT seat_category,
		COUNT(*),
		COUNT(*) FILTER (WHERE status = 'occupied')
	FROM seats GROUP BY seat_category`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate seat stats: %w", err)
	}
	defer rows.Close()

	stats := &model.SeatStats{}
	for rows.Next() {
		var category shared.StudentCategory
		var total, occupied int
		if err := rows.Scan(&category, &total, &occupied); err != nil {
			return nil, fmt.Errorf("failed to scan seat stats: %w", err)
		}
		cs := model.CategoryStats{Total: total, Occupied: occupied, Available: total - occupied}
		switch category {
		case shared.CategoryRegular:
			stats.Regular = cs
		case shared.CategoryPremium:
			stats.Premium = cs
		}
		stats.Total += total
		stats.Occupied += occupied
	}
	stats.Available = stats.Total - stats.Occupied
	return stats, rows.Err()
}

func (r *postgresRepository) Occupy(ctx context.Context, seatID string, studentID uuid.UUID) error {
	query := `UPDATE seats
	SET status = 'occupied', occupied_by = $2, last_occupied_at = NOW(), updated_at = NOW()
	WHERE seat_id = $1 AND status = 'available'`

	result, err := r.pool.Exec(ctx, query, strings.ToUpper(seatID), studentID)
	if err != nil {
		return fmt.Errorf("failed to occupy seat: %w", err)
	}
	if result.RowsAffected() == 0 {
		// Distinguish a missing seat from a taken one.
		if _, err := r.GetByID(ctx, seatID); err != nil {
			return err
		}
		return model.ErrSeatOccupied
	}
	return nil
}

func (r *postgresRepository) Release(ctx context.Context, seatID string) error {
	query := `UPDATE seats
	SET status = 'available', occupied_by = NULL, last_occupied_at = NOW(), updated_at = NOW()
	WHERE seat_id = $1`

	result, err := r.pool.Exec(ctx, query, strings.ToUpper(seatID))
	if err != nil {
		return fmt.Errorf("failed to release seat: %w", err)
	}
	if result.RowsAffected() == 0 {
		return model.ErrSeatNotFound
	}
	return nil
}
