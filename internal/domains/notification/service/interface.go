package service

import (
	"context"

	"github.com/google/uuid"

	"studyhall-backend/internal/domains/notification/model"
	"studyhall-backend/internal/shared"
)

// Service is both the fan-out sink handed to the other domains and the
// per-recipient inbox API.
type Service interface {
	shared.NotificationSink

	ListForRecipient(ctx context.Context, recipient uuid.UUID, unreadOnly bool, limit int) ([]model.View, error)
	UnreadCount(ctx context.Context, recipient uuid.UUID) (int, error)
	MarkRead(ctx context.Context, id, recipient uuid.UUID) error
	MarkAllRead(ctx context.Context, recipient uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}
