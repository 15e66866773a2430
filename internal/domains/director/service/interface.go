package service

import (
	"context"

	"github.com/google/uuid"

	"studyhall-backend/internal/domains/director/model"
	"studyhall-backend/internal/shared"
)

type Service interface {
	Login(ctx context.Context, req model.LoginRequest, ipAddress string) (*model.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*model.LoginResponse, error)
	Profile(ctx context.Context, userID uuid.UUID) (*model.User, error)
	UpdateProfile(ctx context.Context, actor shared.Actor, req model.UpdateProfileRequest) (*model.User, error)

	ListDirectors(ctx context.Context) ([]model.User, error)
	GetDirector(ctx context.Context, id uuid.UUID) (*model.User, error)
	CreateDirector(ctx context.Context, actor shared.Actor, req model.CreateDirectorRequest) (*model.User, error)
	UpdateDirector(ctx context.Context, actor shared.Actor, id uuid.UUID, req model.UpdateDirectorRequest) (*model.User, error)
	SetDirectorActive(ctx context.Context, actor shared.Actor, id uuid.UUID, active bool) (*model.User, error)
}
