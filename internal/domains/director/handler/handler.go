package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"studyhall-backend/internal/domains/director/model"
	"studyhall-backend/internal/domains/director/service"
	"studyhall-backend/internal/shared/middleware"
	"studyhall-backend/internal/shared/response"
)

type Handler struct {
	svc service.Service
}

func NewHandler(svc service.Service) *Handler {
	return &Handler{svc: svc}
}

// ==================== AUTH ====================

// Login authenticates an admin or director and returns a token pair.
// POST /api/auth/login
func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	resp, err := h.svc.Login(c.Request.Context(), req, c.ClientIP())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SuccessWithMessage(c, http.StatusOK, "login successful", resp)
}

// Refresh exchanges a refresh token for a fresh token pair.
// POST /api/auth/refresh
func (h *Handler) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.RefreshToken == "" {
		response.BadRequest(c, "refresh_token is required")
		return
	}

	resp, err := h.svc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// Profile returns the authenticated account.
// GET /api/auth/profile
func (h *Handler) Profile(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	user, err := h.svc.Profile(c.Request.Context(), actor.ID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, user)
}

// UpdateProfile updates the authenticated account's own name or password.
// PUT /api/auth/profile
func (h *Handler) UpdateProfile(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	var req model.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	user, err := h.svc.UpdateProfile(c.Request.Context(), actor, req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SuccessWithMessage(c, http.StatusOK, "profile updated", user)
}

// ==================== DIRECTOR MANAGEMENT (admin only) ====================

// ListDirectors lists all director accounts.
// GET /api/directors
func (h *Handler) ListDirectors(c *gin.Context) {
	directors, err := h.svc.ListDirectors(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, directors, &response.Meta{Count: len(directors)})
}

// GetDirector returns one director account.
// GET /api/directors/:id
func (h *Handler) GetDirector(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid director id")
		return
	}

	director, err := h.svc.GetDirector(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, director)
}

// CreateDirector creates a new director account.
// POST /api/directors
func (h *Handler) CreateDirector(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	var req model.CreateDirectorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	director, err := h.svc.CreateDirector(c.Request.Context(), actor, req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SuccessWithMessage(c, http.StatusCreated, "director created", director)
}

// UpdateDirector updates a director's name or password.
// PUT /api/directors/:id
func (h *Handler) UpdateDirector(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid director id")
		return
	}

	var req model.UpdateDirectorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	director, err := h.svc.UpdateDirector(c.Request.Context(), actor, id, req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SuccessWithMessage(c, http.StatusOK, "director updated", director)
}

// ToggleDirectorActive activates or deactivates a director account.
// PATCH /api/directors/:id/active
func (h *Handler) ToggleDirectorActive(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid director id")
		return
	}

	var req struct {
		IsActive *bool `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.IsActive == nil {
		response.BadRequest(c, "is_active is required")
		return
	}

	director, err := h.svc.SetDirectorActive(c.Request.Context(), actor, id, *req.IsActive)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SuccessWithMessage(c, http.StatusOK, "director updated", director)
}

func handleServiceError(c *gin.Context, err error) {
	var dErr *model.DirectorError
	if errors.As(err, &dErr) {
		switch dErr.Code {
		case model.ErrCodeUserNotFound:
			response.ErrorResponse(c, http.StatusNotFound, dErr.Code, dErr.Message)
		case model.ErrCodeInvalidCredentials:
			response.ErrorResponse(c, http.StatusUnauthorized, dErr.Code, dErr.Message)
		case model.ErrCodeAccountDisabled:
			response.ErrorResponse(c, http.StatusForbidden, dErr.Code, dErr.Message)
		case model.ErrCodeDuplicateUsername:
			response.ErrorResponse(c, http.StatusConflict, dErr.Code, dErr.Message)
		case model.ErrCodeInvalidInput:
			response.ErrorResponse(c, http.StatusBadRequest, dErr.Code, dErr.Message)
		default:
			response.ErrorResponse(c, http.StatusInternalServerError, dErr.Code, dErr.Message)
		}
		return
	}
	response.InternalServerError(c, "an unexpected error occurred")
}
