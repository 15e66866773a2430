package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	directorrepo "studyhall-backend/internal/domains/director/repository"
	"studyhall-backend/internal/domains/notification/model"
	"studyhall-backend/internal/domains/notification/repository"
	"studyhall-backend/internal/shared"
	"studyhall-backend/pkg/logger"
)

type notificationService struct {
	repo  repository.Repository
	users directorrepo.Repository
}

func NewService(repo repository.Repository, users directorrepo.Repository) Service {
	return &notificationService{repo: repo, users: users}
}

// Notify fans the event out to every active admin and director except the
// actor. Failures are logged and swallowed; notifications must never fail
// the operation that triggered them.
func (s *notificationService) Notify(ctx context.Context, event shared.NotificationEvent) {
	recipients, err := s.users.ActiveRecipients(ctx, event.Actor.ID)
	if err != nil {
		logger.Error("failed to resolve notification recipients", err)
		return
	}
	if len(recipients) == 0 {
		return
	}

	n := &model.Notification{
		ID:          uuid.New(),
		Type:        event.Type,
		Title:       event.Title,
		Message:     event.Message,
		ActorID:     event.Actor.ID,
		ActorName:   event.Actor.Name,
		Recipients:  recipients,
		RelatedType: event.RelatedType,
	}
	if event.RelatedID != uuid.Nil {
		n.RelatedID = &event.RelatedID
	}
	if err := s.repo.Insert(ctx, n); err != nil {
		logger.Error("failed to persist notification", err)
	}
}

func (s *notificationService) ListForRecipient(ctx context.Context, recipient uuid.UUID, unreadOnly bool, limit int) ([]model.View, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.repo.ListForRecipient(ctx, recipient, unreadOnly, limit)
}

func (s *notificationService) UnreadCount(ctx context.Context, recipient uuid.UUID) (int, error) {
	return s.repo.UnreadCount(ctx, recipient)
}

func (s *notificationService) MarkRead(ctx context.Context, id, recipient uuid.UUID) error {
	if err := s.repo.MarkRead(ctx, id, recipient); err != nil {
		if errors.Is(err, model.ErrNotificationNotFound) {
			return model.NewNotificationError(model.ErrCodeNotificationNotFound, "notification not found", err)
		}
		return err
	}
	return nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, recipient uuid.UUID) error {
	return s.repo.MarkAllRead(ctx, recipient)
}

func (s *notificationService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, model.ErrNotificationNotFound) {
			return model.NewNotificationError(model.ErrCodeNotificationNotFound, "notification not found", err)
		}
		return err
	}
	return nil
}
