package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"studyhall-backend/internal/domains/pricing/model"
	"studyhall-backend/internal/shared"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) Create(ctx context.Context, p *model.Pricing) error {
	query := `INSERT INTO pricing (id, student_category, time_plan, price, is_active)
	VALUES ($1, $2, $3, $4, TRUE)
	RETURNING created_at, updated_at`

	err := r.pool.QueryRow(ctx, query, p.ID, p.StudentCategory, p.TimePlan, p.Price).
		Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		// 23505 = unique_violation on (student_category, time_plan)
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return model.ErrDuplicateKey
		}
		return fmt.Errorf("failed to create pricing: %w", err)
	}
	p.IsActive = true
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Pricing, error) {
	query := `SELECT id, student_category, time_plan, price, is_active, updated_by, created_at, updated_at
	FROM pricing WHERE id = $1`

	var p model.Pricing
	err := r.pool.QueryRow(ctx, query, id).
		Scan(&p.ID, &p.StudentCategory, &p.TimePlan, &p.Price, &p.IsActive, &p.UpdatedBy, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrPricingNotFound
		}
		return nil, fmt.Errorf("failed to get pricing: %w", err)
	}
	return &p, nil
}

func (r *postgresRepository) FindActive(ctx context.Context, category shared.StudentCategory, plan shared.TimePlan) (*model.Pricing, error) {
	query := `SELECT id, student_category, time_plan, price, is_active, updated_by, created_at, updated_at
	FROM pricing WHERE student_category = $1 AND time_plan = $2 AND is_active = TRUE`

	var p model.Pricing
	err := r.pool.QueryRow(ctx, query, category, plan).
		Scan(&p.ID, &p.StudentCategory, &p.TimePlan, &p.Price, &p.IsActive, &p.UpdatedBy, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrPricingNotFound
		}
		return nil, fmt.Errorf("failed to find pricing: %w", err)
	}
	return &p, nil
}

func (r *postgresRepository) ListActive(ctx context.Context) ([]model.Pricing, error) {
	query := `SELECT id, student_category, time_plan, price, is_active, updated_by, created_at, updated_at
	FROM pricing WHERE is_active = TRUE ORDER BY student_category, time_plan`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list pricing: %w", err)
	}
	defer rows.Close()

	var result []model.Pricing
	for rows.Next() {
		var p model.Pricing
		if err := rows.Scan(&p.ID, &p.StudentCategory, &p.TimePlan, &p.Price, &p.IsActive, &p.UpdatedBy, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan pricing: %w", err)
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

func (r *postgresRepository) UpdatePrice(ctx context.Context, id uuid.UUID, price decimal.Decimal, updatedBy uuid.UUID) error {
	query := `UPDATE pricing SET price = $2, updated_by = $3, updated_at = NOW() WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id, price, updatedBy)
	if err != nil {
		return fmt.Errorf("failed to update price: %w", err)
	}
	if result.RowsAffected() == 0 {
		return model.ErrPricingNotFound
	}
	return nil
}

func (r *postgresRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE pricing SET is_active = FALSE, updated_at = NOW() WHERE id = $1 AND is_active = TRUE`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate pricing: %w", err)
	}
	if result.RowsAffected() == 0 {
		return model.ErrPricingNotFound
	}
	return nil
}
