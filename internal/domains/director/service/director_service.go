package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"studyhall-backend/internal/domains/director/model"
	"studyhall-backend/internal/domains/director/repository"
	"studyhall-backend/internal/shared"
	"studyhall-backend/pkg/jwt"
)

type directorService struct {
	repo      repository.Repository
	jwtMgr    *jwt.Manager
	auditSink shared.AuditSink
}

func NewService(repo repository.Repository, jwtMgr *jwt.Manager, auditSink shared.AuditSink) Service {
	return &directorService{repo: repo, jwtMgr: jwtMgr, auditSink: auditSink}
}

func (s *directorService) Login(ctx context.Context, req model.LoginRequest, ipAddress string) (*model.LoginResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewDirectorError(model.ErrCodeInvalidInput, err.Error(), err)
	}

	user, err := s.repo.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			// Same code as a bad password so usernames cannot be probed.
			return nil, model.NewDirectorError(model.ErrCodeInvalidCredentials, "invalid username or password", model.ErrInvalidCredentials)
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, model.NewDirectorError(model.ErrCodeInvalidCredentials, "invalid username or password", model.ErrInvalidCredentials)
	}
	if !user.IsActive {
		return nil, model.NewDirectorError(model.ErrCodeAccountDisabled, "account is deactivated", model.ErrAccountDisabled)
	}

	resp, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}

	if err := s.repo.TouchLastLogin(ctx, user.ID); err != nil {
		// Login still succeeds; the timestamp is informational.
		return resp, nil
	}

	action := shared.ActionDirectorLogin
	if user.Role == shared.RoleAdmin {
		action = shared.ActionAdminLogin
	}
	s.auditSink.Record(ctx, shared.AuditEntry{
		Action:     action,
		Actor:      shared.Actor{ID: user.ID, Name: user.Name, Role: user.Role},
		TargetType: shared.TargetUser,
		TargetID:   user.ID,
		IPAddress:  ipAddress,
	})
	return resp, nil
}

func (s *directorService) Refresh(ctx context.Context, refreshToken string) (*model.LoginResponse, error) {
	claims, err := s.jwtMgr.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, model.NewDirectorError(model.ErrCodeInvalidCredentials, "invalid refresh token", err)
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, model.NewDirectorError(model.ErrCodeInvalidCredentials, "invalid refresh token", err)
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, model.NewDirectorError(model.ErrCodeUserNotFound, "user not found", err)
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, model.NewDirectorError(model.ErrCodeAccountDisabled, "account is deactivated", model.ErrAccountDisabled)
	}

	return s.issueTokens(user)
}

func (s *directorService) issueTokens(user *model.User) (*model.LoginResponse, error) {
	access, err := s.jwtMgr.GenerateAccessToken(user.ID.String(), user.Name, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}
	refresh, err := s.jwtMgr.GenerateRefreshToken(user.ID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to sign refresh token: %w", err)
	}
	return &model.LoginResponse{AccessToken: access, RefreshToken: refresh, User: user}, nil
}

func (s *directorService) Profile(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, model.NewDirectorError(model.ErrCodeUserNotFound, "user not found", err)
		}
		return nil, err
	}
	return user, nil
}

func (s *directorService) UpdateProfile(ctx context.Context, actor shared.Actor, req model.UpdateProfileRequest) (*model.User, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewDirectorError(model.ErrCodeInvalidInput, err.Error(), err)
	}

	user, err := s.Profile(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	oldValues := map[string]interface{}{}
	newValues := map[string]interface{}{}

	if req.Name != nil && *req.Name != user.Name {
		oldValues["name"] = user.Name
		newValues["name"] = *req.Name
		user.Name = *req.Name
	}
	if req.NewPassword != nil {
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(*req.CurrentPassword)); err != nil {
			return nil, model.NewDirectorError(model.ErrCodeInvalidCredentials, "current password is incorrect", model.ErrInvalidCredentials)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = string(hash)
		newValues["password"] = "changed"
	}

	if len(newValues) == 0 {
		return user, nil
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	s.auditSink.Record(ctx, shared.AuditEntry{
		Action:     shared.ActionDirectorUpdated,
		Actor:      actor,
		TargetType: shared.TargetUser,
		TargetID:   user.ID,
		OldValues:  oldValues,
		NewValues:  newValues,
	})
	return user, nil
}

func (s *directorService) ListDirectors(ctx context.Context) ([]model.User, error) {
	return s.repo.ListDirectors(ctx)
}

func (s *directorService) GetDirector(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, model.NewDirectorError(model.ErrCodeUserNotFound, "director not found", err)
		}
		return nil, err
	}
	if user.Role != shared.RoleDirector {
		return nil, model.NewDirectorError(model.ErrCodeUserNotFound, "director not found", model.ErrUserNotFound)
	}
	return user, nil
}

func (s *directorService) CreateDirector(ctx context.Context, actor shared.Actor, req model.CreateDirectorRequest) (*model.User, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewDirectorError(model.ErrCodeInvalidInput, err.Error(), err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.New(),
		Username:     req.Username,
		PasswordHash: string(hash),
		Name:         req.Name,
		Role:         shared.RoleDirector,
		IsActive:     true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, model.ErrDuplicateUsername) {
			return nil, model.NewDirectorError(model.ErrCodeDuplicateUsername, "username is already taken", err)
		}
		return nil, err
	}

	s.auditSink.Record(ctx, shared.AuditEntry{
		Action:     shared.ActionDirectorCreated,
		Actor:      actor,
		TargetType: shared.TargetUser,
		TargetID:   user.ID,
		NewValues:  map[string]interface{}{"username": user.Username, "name": user.Name},
	})
	return user, nil
}

func (s *directorService) UpdateDirector(ctx context.Context, actor shared.Actor, id uuid.UUID, req model.UpdateDirectorRequest) (*model.User, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewDirectorError(model.ErrCodeInvalidInput, err.Error(), err)
	}

	user, err := s.GetDirector(ctx, id)
	if err != nil {
		return nil, err
	}

	oldValues := map[string]interface{}{}
	newValues := map[string]interface{}{}

	if req.Name != nil && *req.Name != user.Name {
		oldValues["name"] = user.Name
		newValues["name"] = *req.Name
		user.Name = *req.Name
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = string(hash)
		newValues["password"] = "changed"
	}

	if len(newValues) == 0 {
		return user, nil
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	s.auditSink.Record(ctx, shared.AuditEntry{
		Action:     shared.ActionDirectorUpdated,
		Actor:      actor,
		TargetType: shared.TargetUser,
		TargetID:   user.ID,
		OldValues:  oldValues,
		NewValues:  newValues,
	})
	return user, nil
}

func (s *directorService) SetDirectorActive(ctx context.Context, actor shared.Actor, id uuid.UUID, active bool) (*model.User, error) {
	user, err := s.GetDirector(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.IsActive == active {
		return user, nil
	}

	if err := s.repo.SetActive(ctx, id, active); err != nil {
		return nil, err
	}
	user.IsActive = active

	action := shared.ActionDirectorDeactivated
	if active {
		action = shared.ActionDirectorActivated
	}
	s.auditSink.Record(ctx, shared.AuditEntry{
		Action:     action,
		Actor:      actor,
		TargetType: shared.TargetUser,
		TargetID:   user.ID,
		OldValues:  map[string]interface{}{"is_active": !active},
		NewValues:  map[string]interface{}{"is_active": active},
	})
	return user, nil
}
