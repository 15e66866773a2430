package repository

import (
	"context"

	"github.com/google/uuid"

	"studyhall-backend/internal/domains/notification/model"
)

type Repository interface {
	Insert(ctx context.Context, n *model.Notification) error
	ListForRecipient(ctx context.Context, recipient uuid.UUID, unreadOnly bool, limit int) ([]model.View, error)
	UnreadCount(ctx context.Context, recipient uuid.UUID) (int, error)
	MarkRead(ctx context.Context, id, recipient uuid.UUID) error
	MarkAllRead(ctx context.Context, recipient uuid.UUID) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}
