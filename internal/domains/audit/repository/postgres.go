package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"studyhall-backend/internal/domains/audit/model"
	"studyhall-backend/internal/shared"
)

const auditColumns = `id, action, actor_id, actor_name, actor_role, target_type, target_id,
	old_values, new_values, reason, ip_address, created_at`

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) Insert(ctx context.Context, entry *model.AuditLog) error {
	query := `INSERT INTO audit_logs
	(id, action, actor_id, actor_name, actor_role, target_type, target_id, old_values, new_values, reason, ip_address)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	RETURNING created_at`

	err := r.pool.QueryRow(ctx, query,
		entry.ID, entry.Action, entry.ActorID, entry.ActorName, entry.ActorRole,
		entry.TargetType, entry.TargetID, entry.OldValues, entry.NewValues,
		entry.Reason, entry.IPAddress,
	).Scan(&entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert audit entry: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.AuditLog, error) {
	query := `SELECT ` + auditColumns + ` FROM audit_logs WHERE id = $1`

	var e model.AuditLog
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&e.ID, &e.Action, &e.ActorID, &e.ActorName, &e.ActorRole,
		&e.TargetType, &e.TargetID, &e.OldValues, &e.NewValues,
		&e.Reason, &e.IPAddress, &e.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrEntryNotFound
		}
		return nil, fmt.Errorf("failed to get audit entry: %w", err)
	}
	return &e, nil
}

func (r *postgresRepository) List(ctx context.Context, filter model.ListAuditFilter) ([]model.AuditLog, error) {
	query := `SELECT ` + auditColumns + ` FROM audit_logs WHERE 1=1`
	args := []interface{}{}
	argPos := 1

	if filter.Action != "" {
		query += fmt.Sprintf(" AND action = $%d", argPos)
		args = append(args, filter.Action)
		argPos++
	}
	if filter.ActorID != nil {
		query += fmt.Sprintf(" AND actor_id = $%d", argPos)
		args = append(args, *filter.ActorID)
		argPos++
	}
	if filter.TargetType != "" {
		query += fmt.Sprintf(" AND target_type = $%d", argPos)
		args = append(args, filter.TargetType)
		argPos++
	}
	if filter.TargetID != nil {
		query += fmt.Sprintf(" AND target_id = $%d", argPos)
		args = append(args, *filter.TargetID)
		argPos++
	}
	if filter.From != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", argPos)
		args = append(args, *filter.From)
		argPos++
	}
	if filter.To != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", argPos)
		args = append(args, *filter.To)
		argPos++
	}
	if filter.HideAdminEntries {
		query += fmt.Sprintf(" AND actor_role <> $%d", argPos)
		args = append(args, shared.RoleAdmin)
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
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	defer rows.Close()

	return collectEntries(rows)
}

func (r *postgresRepository) ListByTarget(ctx context.Context, targetType string, targetID uuid.UUID, hideAdmin bool) ([]model.AuditLog, error) {
	query := `SELECT ` + auditColumns + ` FROM audit_logs
	WHERE target_type = $1 AND target_id = $2`
	args := []interface{}{targetType, targetID}

	if hideAdmin {
		query += " AND actor_role <> $3"
		args = append(args, shared.RoleAdmin)
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries by target: %w", err)
	}
	defer rows.Close()

	return collectEntries(rows)
}

func collectEntries(rows pgx.Rows) ([]model.AuditLog, error) {
	var entries []model.AuditLog
	for rows.Next() {
		var e model.AuditLog
		if err := rows.Scan(
			&e.ID, &e.Action, &e.ActorID, &e.ActorName, &e.ActorRole,
			&e.TargetType, &e.TargetID, &e.OldValues, &e.NewValues,
			&e.Reason, &e.IPAddress, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *postgresRepository) Stats(ctx context.Context) (*model.AuditStats, error) {
	stats := &model.AuditStats{}

	rows, err := r.pool.Query(ctx, `SELECT action, COUNT(*) FROM audit_logs GROUP BY action ORDER BY COUNT(*) DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate audit actions: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var ac model.ActionCount
		if err := rows.Scan(&ac.Action, &ac.Count); err != nil {
			return nil, fmt.Errorf("failed to scan action count: %w", err)
		}
		stats.ByAction = append(stats.ByAction, ac)
		stats.Total += ac.Count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	actorRows, err := r.pool.Query(ctx, `SELECT actor_id, actor_name, COUNT(*)
	FROM audit_logs GROUP BY actor_id, actor_name ORDER BY COUNT(*) DESC LIMIT 10`)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate audit actors: %w", err)
	}
	defer actorRows.Close()
	for actorRows.Next() {
		var ac model.ActorCount
		if err := actorRows.Scan(&ac.ActorID, &ac.ActorName, &ac.Count); err != nil {
			return nil, fmt.Errorf("failed to scan actor count: %w", err)
		}
		stats.TopActors = append(stats.TopActors, ac)
	}
	return stats, actorRows.Err()
}
