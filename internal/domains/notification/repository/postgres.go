package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"studyhall-backend/internal/domains/notification/model"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) Insert(ctx context.Context, n *model.Notification) error {
	query := `INSERT INTO notifications
	(id, type, title, message, actor_id, actor_name, recipients, read_by, related_id, related_type)
	VALUES ($1, $2, $3, $4, $5, $6, $7, '{}'::jsonb, $8, $9)
	RETURNING created_at`

	err := r.pool.QueryRow(ctx, query,
		n.ID, n.Type, n.Title, n.Message, n.ActorID, n.ActorName,
		n.Recipients, n.RelatedID, n.RelatedType,
	).Scan(&n.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert notification: %w", err)
	}
	return nil
}

func (r *postgresRepository) ListForRecipient(ctx context.Context, recipient uuid.UUID, unreadOnly bool, limit int) ([]model.View, error) {
	query := `SELECT id, type, title, message, actor_name, related_id, related_type,
		read_by ? $2 AS is_read, created_at
	FROM notifications
	WHERE NOT is_deleted AND $1 = ANY(recipients)`

	if unreadOnly {
		query += ` AND NOT read_by ? $2`
	}
	query += ` ORDER BY created_at DESC LIMIT $3`

	rows, err := r.pool.Query(ctx, query, recipient, recipient.String(), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var views []model.View
	for rows.Next() {
		var v model.View
		if err := rows.Scan(&v.ID, &v.Type, &v.Title, &v.Message, &v.ActorName,
			&v.RelatedID, &v.RelatedType, &v.IsRead, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		views = append(views, v)
	}
	return views, rows.Err()
}

func (r *postgresRepository) UnreadCount(ctx context.Context, recipient uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM notifications
	WHERE NOT is_deleted AND $1 = ANY(recipients) AND NOT read_by ? $2`

	var count int
	if err := r.pool.QueryRow(ctx, query, recipient, recipient.String()).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

func (r *postgresRepository) MarkRead(ctx context.Context, id, recipient uuid.UUID) error {
	query := `UPDATE notifications
	SET read_by = read_by || jsonb_build_object($3::text, NOW())
	WHERE id = $1 AND NOT is_deleted AND $2 = ANY(recipients)`

	result, err := r.pool.Exec(ctx, query, id, recipient, recipient.String())
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	if result.RowsAffected() == 0 {
		return model.ErrNotificationNotFound
	}
	return nil
}

func (r *postgresRepository) MarkAllRead(ctx context.Context, recipient uuid.UUID) error {
	query := `UPDATE notifications
	SET read_by = read_by || jsonb_build_object($2::text, NOW())
	WHERE NOT is_deleted AND $1 = ANY(recipients) AND NOT read_by ? $2`

	if _, err := r.pool.Exec(ctx, query, recipient, recipient.String()); err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return nil
}

func (r *postgresRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE notifications SET is_deleted = TRUE WHERE id = $1 AND NOT is_deleted`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	if result.RowsAffected() == 0 {
		return model.ErrNotificationNotFound
	}
	return nil
}
