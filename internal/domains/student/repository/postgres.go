package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"studyhall-backend/internal/domains/student/model"
)

const studentColumns = `id, name, mobile, photo, category, time_plan, seat_id,
	join_date, expiry_date, total_fee, amount_paid, amount_due, fee_status,
	status, is_deleted, deleted_at, deleted_by, delete_reason, restored_at, restored_by,
	created_at, updated_at`

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

func scanStudent(row pgx.Row) (*model.Student, error) {
	var s model.Student
	err := row.Scan(
		&s.ID, &s.Name, &s.Mobile, &s.Photo, &s.Category, &s.TimePlan, &s.SeatID,
		&s.JoinDate, &s.ExpiryDate, &s.TotalFee, &s.AmountPaid, &s.AmountDue, &s.FeeStatus,
		&s.Status, &s.IsDeleted, &s.DeletedAt, &s.DeletedBy, &s.DeleteReason, &s.RestoredAt, &s.RestoredBy,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *postgresRepository) Create(ctx context.Context, s *model.Student) error {
	query := `INSERT INTO students
	(id, name, mobile, photo, category, time_plan, seat_id, join_date, expiry_date,
	 total_fee, amount_paid, amount_due, fee_status, status)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	RETURNING created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		s.ID, s.Name, s.Mobile, s.Photo, s.Category, s.TimePlan, s.SeatID,
		s.JoinDate, s.ExpiryDate, s.TotalFee, s.AmountPaid, s.AmountDue, s.FeeStatus, s.Status,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create student: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE id = $1`

	s, err := scanStudent(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	return s, nil
}

func (r *postgresRepository) Update(ctx context.Context, s *model.Student) error {
	query := `UPDATE students SET
		name = $2, mobile = $3, photo = $4, category = $5, time_plan = $6, seat_id = $7,
		join_date = $8, expiry_date = $9, total_fee = $10, amount_paid = $11,
		amount_due = $12, fee_status = $13, status = $14, is_deleted = $15,
		deleted_at = $16, deleted_by = $17, delete_reason = $18,
		restored_at = $19, restored_by = $20, updated_at = NOW()
	WHERE id = $1`

	result, err := r.pool.Exec(ctx, query,
		s.ID, s.Name, s.Mobile, s.Photo, s.Category, s.TimePlan, s.SeatID,
		s.JoinDate, s.ExpiryDate, s.TotalFee, s.AmountPaid, s.AmountDue, s.FeeStatus,
		s.Status, s.IsDeleted, s.DeletedAt, s.DeletedBy, s.DeleteReason,
		s.RestoredAt, s.RestoredBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update student: %w", err)
	}
	if result.RowsAffected() == 0 {
		return model.ErrStudentNotFound
	}
	return nil
}

func (r *postgresRepository) List(ctx context.Context, filter model.ListStudentsFilter) ([]model.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE 1=1`
	args := []interface{}{}
	argPos := 1

	if !filter.IncludeDeleted {
		query += " AND NOT is_deleted"
	}
	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argPos)
		args = append(args, *filter.Status)
		argPos++
	}
	if filter.Category != nil {
		query += fmt.Sprintf(" AND category = $%d", argPos)
		args = append(args, *filter.Category)
		argPos++
	}
	if filter.FeeStatus != nil {
		query += fmt.Sprintf(" AND fee_status = $%d", argPos)
		args = append(args, *filter.FeeStatus)
		argPos++
	}
	if filter.Search != "" {
		query += fmt.Sprintf(" AND (name ILIKE $%d OR mobile LIKE $%d)", argPos, argPos)
		args = append(args, "%"+filter.Search+"%")
		argPos++
	}

	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argPos)
		args = append(args, filter.Limit)
		argPos++
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argPos)
		args = append(args, filter.Offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	defer rows.Close()

	return collectStudents(rows)
}

func collectStudents(rows pgx.Rows) ([]model.Student, error) {
	var students []model.Student
	for rows.Next() {
		var s model.Student
		if err := rows.Scan(
			&s.ID, &s.Name, &s.Mobile, &s.Photo, &s.Category, &s.TimePlan, &s.SeatID,
			&s.JoinDate, &s.ExpiryDate, &s.TotalFee, &s.AmountPaid, &s.AmountDue, &s.FeeStatus,
			&s.Status, &s.IsDeleted, &s.DeletedAt, &s.DeletedBy, &s.DeleteReason, &s.RestoredAt, &s.RestoredBy,
			&s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan student: %w", err)
		}
		students = append(students, s)
	}
	return students, rows.Err()
}

func (r *postgresRepository) Stats(ctx context.Context) (*model.StudentStats, error) {
	query := `SELECT
		COUNT(*),
		COUNT(*) FILTER (WHERE status = 'active'),
		COUNT(*) FILTER (WHERE status = 'expired'),
		COUNT(*) FILTER (WHERE status = 'deleted'),
		COUNT(*) FILTER (WHERE status = 'active' AND category = 'regular'),
		COUNT(*) FILTER (WHERE status = 'active' AND category = 'premium')
	FROM students`

	var stats model.StudentStats
	err := r.pool.QueryRow(ctx, query).Scan(
		&stats.Total, &stats.Active, &stats.Expired, &stats.Deleted,
		&stats.ActiveRegular, &stats.ActivePremium,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate student stats: %w", err)
	}
	return &stats, nil
}

func (r *postgresRepository) UpdateFeeLedger(ctx context.Context, id uuid.UUID, paid, due decimal.Decimal, status model.FeeStatus) error {
	query := `UPDATE students
	SET amount_paid = $2, amount_due = $3, fee_status = $4, updated_at = NOW()
	WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id, paid, due, status)
	if err != nil {
		return fmt.Errorf("failed to update fee ledger: %w", err)
	}
	if result.RowsAffected() == 0 {
		return model.ErrStudentNotFound
	}
	return nil
}

func (r *postgresRepository) ListExpiredActive(ctx context.Context, cutoff time.Time) ([]model.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students
	WHERE status = 'active' AND NOT is_deleted AND expiry_date < $1`

	rows, err := r.pool.Query(ctx, query, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to list expired students: %w", err)
	}
	defer rows.Close()

	return collectStudents(rows)
}

func (r *postgresRepository) MarkExpired(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE students SET status = 'expired', updated_at = NOW()
	WHERE id = $1 AND status = 'active'`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to mark student expired: %w", err)
	}
	if result.RowsAffected() == 0 {
		return model.ErrStudentNotFound
	}
	return nil
}

func (r *postgresRepository) ListNonDeleted(ctx context.Context) ([]model.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE NOT is_deleted`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list students for repair: %w", err)
	}
	defer rows.Close()

	return collectStudents(rows)
}
