package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"studyhall-backend/internal/domains/notification/model"
	"studyhall-backend/internal/domains/notification/service"
	"studyhall-backend/internal/shared/middleware"
	"studyhall-backend/internal/shared/response"
)

type Handler struct {
	svc service.Service
}

func NewHandler(svc service.Service) *Handler {
	return &Handler{svc: svc}
}

// ListNotifications returns the caller's inbox, newest first.
// GET /api/notifications?unread_only=true&limit=20
func (h *Handler) ListNotifications(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	unreadOnly := c.Query("unread_only") == "true"
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	views, err := h.svc.ListForRecipient(c.Request.Context(), actor.ID, unreadOnly, limit)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, views, &response.Meta{Count: len(views)})
}

// GetUnreadCount returns the caller's unread badge count.
// GET /api/notifications/unread-count
func (h *Handler) GetUnreadCount(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	count, err := h.svc.UnreadCount(c.Request.Context(), actor.ID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"unread": count})
}

// MarkRead marks one notification read for the caller.
// PATCH /api/notifications/:id/read
func (h *Handler) MarkRead(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid notification id")
		return
	}

	if err := h.svc.MarkRead(c.Request.Context(), id, actor.ID); err != nil {
		handleServiceError(c, err)
		return
	}

	response.SuccessWithMessage(c, http.StatusOK, "notification marked read", nil)
}

// MarkAllRead marks the caller's whole inbox read.
// PATCH /api/notifications/read-all
func (h *Handler) MarkAllRead(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	if err := h.svc.MarkAllRead(c.Request.Context(), actor.ID); err != nil {
		handleServiceError(c, err)
		return
	}

	response.SuccessWithMessage(c, http.StatusOK, "all notifications marked read", nil)
}

// DeleteNotification soft-deletes a notification for every recipient.
// DELETE /api/notifications/:id  (admin only)
func (h *Handler) DeleteNotification(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid notification id")
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		handleServiceError(c, err)
		return
	}

	response.SuccessWithMessage(c, http.StatusOK, "notification deleted", nil)
}

func handleServiceError(c *gin.Context, err error) {
	var nErr *model.NotificationError
	if errors.As(err, &nErr) {
		switch nErr.Code {
		case model.ErrCodeNotificationNotFound:
			response.ErrorResponse(c, http.StatusNotFound, nErr.Code, nErr.Message)
		case model.ErrCodeNotARecipient:
			response.ErrorResponse(c, http.StatusForbidden, nErr.Code, nErr.Message)
		default:
			response.ErrorResponse(c, http.StatusInternalServerError, nErr.Code, nErr.Message)
		}
		return
	}
	response.InternalServerError(c, "an unexpected error occurred")
}
