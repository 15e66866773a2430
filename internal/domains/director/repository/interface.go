package repository

import (
	"context"

	"github.com/google/uuid"

	"studyhall-backend/internal/domains/director/model"
)

type Repository interface {
	Create(ctx context.Context, u *model.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	ListDirectors(ctx context.Context) ([]model.User, error)
	Update(ctx context.Context, u *model.User) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	TouchLastLogin(ctx context.Context, id uuid.UUID) error

	// ActiveRecipients returns the ids of every active admin and director
	// except the excluded one. Used for notification fan-out.
	ActiveRecipients(ctx context.Context, exclude uuid.UUID) ([]uuid.UUID, error)
}
