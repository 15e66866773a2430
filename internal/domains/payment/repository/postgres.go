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

	"studyhall-backend/internal/domains/payment/model"
)

const paymentColumns = `id, student_id, amount, mode, receipt_number, receipt_image, notes,
	collected_by, collected_by_name, collection_date,
	is_reversed, reversed_at, reversed_by, reverse_reason, created_at`

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) Create(ctx context.Context, p *model.Payment) error {
	query := `INSERT INTO payments
	(id, student_id, amount, mode, receipt_number, receipt_image, notes,
	 collected_by, collected_by_name, collection_date)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	RETURNING created_at`

	err := r.pool.QueryRow(ctx, query,
		p.ID, p.StudentID, p.Amount, p.Mode, p.ReceiptNumber, p.ReceiptImage, p.Notes,
		p.CollectedBy, p.CollectedByName, p.CollectionDate,
	).Scan(&p.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`

	var p model.Payment
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.StudentID, &p.Amount, &p.Mode, &p.ReceiptNumber, &p.ReceiptImage, &p.Notes,
		&p.CollectedBy, &p.CollectedByName, &p.CollectionDate,
		&p.IsReversed, &p.ReversedAt, &p.ReversedBy, &p.ReverseReason, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	return &p, nil
}

func (r *postgresRepository) List(ctx context.Context, filter model.ListPaymentsFilter) ([]model.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE 1=1`
	args := []interface{}{}
	argPos := 1

	if filter.StudentID != nil {
		query += fmt.Sprintf(" AND student_id = $%d", argPos)
		args = append(args, *filter.StudentID)
		argPos++
	}
	if filter.CollectedBy != nil {
		query += fmt.Sprintf(" AND collected_by = $%d", argPos)
		args = append(args, *filter.CollectedBy)
		argPos++
	}
	if filter.From != nil {
		query += fmt.Sprintf(" AND collection_date >= $%d", argPos)
		args = append(args, *filter.From)
		argPos++
	}
	if filter.To != nil {
		query += fmt.Sprintf(" AND collection_date <= $%d", argPos)
		args = append(args, *filter.To)
		argPos++
	}

	query += " ORDER BY collection_date DESC"
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
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	return collectPayments(rows)
}

func (r *postgresRepository) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]model.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments
	WHERE student_id = $1 ORDER BY collection_date DESC`

	rows, err := r.pool.Query(ctx, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list student payments: %w", err)
	}
	defer rows.Close()

	return collectPayments(rows)
}

func collectPayments(rows pgx.Rows) ([]model.Payment, error) {
	var payments []model.Payment
	for rows.Next() {
		var p model.Payment
		if err := rows.Scan(
			&p.ID, &p.StudentID, &p.Amount, &p.Mode, &p.ReceiptNumber, &p.ReceiptImage, &p.Notes,
			&p.CollectedBy, &p.CollectedByName, &p.CollectionDate,
			&p.IsReversed, &p.ReversedAt, &p.ReversedBy, &p.ReverseReason, &p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func (r *postgresRepository) NonReversedTotal(ctx context.Context, studentID uuid.UUID) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(amount), 0) FROM payments
	WHERE student_id = $1 AND NOT is_reversed`

	var total decimal.Decimal
	if err := r.pool.QueryRow(ctx, query, studentID).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum payments: %w", err)
	}
	return total, nil
}

func (r *postgresRepository) MarkReversed(ctx context.Context, id, reversedBy uuid.UUID, reason string) error {
	query := `UPDATE payments
	SET is_reversed = TRUE, reversed_at = NOW(), reversed_by = $2, reverse_reason = $3
	WHERE id = $1 AND NOT is_reversed`

	result, err := r.pool.Exec(ctx, query, id, reversedBy, reason)
	if err != nil {
		return fmt.Errorf("failed to reverse payment: %w", err)
	}
	if result.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return model.ErrAlreadyReversed
	}
	return nil
}

func (r *postgresRepository) Stats(ctx context.Context, from, to *time.Time) (*model.CollectionStats, error) {
	where := ` WHERE NOT p.is_reversed`
	args := []interface{}{}
	argPos := 1

	if from != nil {
		where += fmt.Sprintf(" AND p.collection_date >= $%d", argPos)
		args = append(args, *from)
		argPos++
	}
	if to != nil {
		where += fmt.Sprintf(" AND p.collection_date <= $%d", argPos)
		args = append(args, *to)
		argPos++
	}

	stats := &model.CollectionStats{
		TotalCollected: decimal.Zero,
		TodayCollected: decimal.Zero,
	}

	totalsQuery := `SELECT COALESCE(SUM(p.amount), 0), COUNT(*),
		COALESCE(SUM(p.amount) FILTER (WHERE p.collection_date >= CURRENT_DATE), 0),
		COUNT(*) FILTER (WHERE p.collection_date >= CURRENT_DATE)
	FROM payments p` + where
	err := r.pool.QueryRow(ctx, totalsQuery, args...).Scan(
		&stats.TotalCollected, &stats.TotalCount, &stats.TodayCollected, &stats.TodayCount,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate payment totals: %w", err)
	}

	collectorQuery := `SELECT p.collected_by, p.collected_by_name, COALESCE(SUM(p.amount), 0), COUNT(*)
	FROM payments p` + where + `
	GROUP BY p.collected_by, p.collected_by_name ORDER BY SUM(p.amount) DESC`
	rows, err := r.pool.Query(ctx, collectorQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate collector totals: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var ct model.CollectorTotal
		if err := rows.Scan(&ct.CollectedBy, &ct.CollectedByName, &ct.Total, &ct.Count); err != nil {
			return nil, fmt.Errorf("failed to scan collector total: %w", err)
		}
		stats.ByCollector = append(stats.ByCollector, ct)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	categoryQuery := `SELECT s.category, COALESCE(SUM(p.amount), 0), COUNT(*)
	FROM payments p JOIN students s ON s.id = p.student_id` + where + `
	GROUP BY s.category ORDER BY s.category`
	catRows, err := r.pool.Query(ctx, categoryQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate category totals: %w", err)
	}
	defer catRows.Close()
	for catRows.Next() {
		var ct model.CategoryTotal
		if err := catRows.Scan(&ct.Category, &ct.Total, &ct.Count); err != nil {
			return nil, fmt.Errorf("failed to scan category total: %w", err)
		}
		stats.ByCategory = append(stats.ByCategory, ct)
	}
	return stats, catRows.Err()
}
