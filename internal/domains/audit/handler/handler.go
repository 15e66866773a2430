package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"studyhall-backend/internal/domains/audit/model"
	"studyhall-backend/internal/domains/audit/service"
	"studyhall-backend/internal/shared/middleware"
	"studyhall-backend/internal/shared/response"
)

type Handler struct {
	svc service.Service
}

func NewHandler(svc service.Service) *Handler {
	return &Handler{svc: svc}
}

// ListAuditLogs lists trail entries with filters. Directors never see
// admin-performed entries.
// GET /api/audit-logs?action=&actor_id=&target_type=&target_id=&from=&to=&limit=&offset=
func (h *Handler) ListAuditLogs(c *gin.Context) {
	viewer, ok := middleware.ActorFromContext(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	filter := model.ListAuditFilter{
		Action:     c.Query("action"),
		TargetType: c.Query("target_type"),
	}

	if v := c.Query("actor_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			response.BadRequest(c, "invalid actor_id")
			return
		}
		filter.ActorID = &id
	}
	if v := c.Query("target_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			response.BadRequest(c, "invalid target_id")
			return
		}
		filter.TargetID = &id
	}
	if v := c.Query("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			response.BadRequest(c, "from must be RFC3339")
			return
		}
		filter.From = &t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			response.BadRequest(c, "to must be RFC3339")
			return
		}
		filter.To = &t
	}
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))
	filter.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))

	entries, err := h.svc.List(c.Request.Context(), viewer, filter)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, entries, &response.Meta{Count: len(entries), Limit: filter.Limit})
}

// GetAuditLog returns one trail entry.
// GET /api/audit-logs/:id
func (h *Handler) GetAuditLog(c *gin.Context) {
	viewer, ok := middleware.ActorFromContext(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid audit entry id")
		return
	}

	entry, err := h.svc.GetByID(c.Request.Context(), viewer, id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, entry)
}

// ListAuditLogsByTarget lists the trail for one entity.
// GET /api/audit-logs/target/:type/:id
func (h *Handler) ListAuditLogsByTarget(c *gin.Context) {
	viewer, ok := middleware.ActorFromContext(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	targetType := c.Param("type")
	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid target id")
		return
	}

	entries, err := h.svc.ListByTarget(c.Request.Context(), viewer, targetType, targetID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, entries, &response.Meta{Count: len(entries)})
}

// GetAuditStats returns action counts and the most active actors.
// GET /api/audit-logs/stats  (admin only)
func (h *Handler) GetAuditStats(c *gin.Context) {
	stats, err := h.svc.Stats(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, stats)
}

func handleServiceError(c *gin.Context, err error) {
	var aErr *model.AuditError
	if errors.As(err, &aErr) {
		switch aErr.Code {
		case model.ErrCodeEntryNotFound:
			response.ErrorResponse(c, http.StatusNotFound, aErr.Code, aErr.Message)
		case model.ErrCodeEntryHidden:
			response.ErrorResponse(c, http.StatusForbidden, aErr.Code, aErr.Message)
		default:
			response.ErrorResponse(c, http.StatusInternalServerError, aErr.Code, aErr.Message)
		}
		return
	}
	response.InternalServerError(c, "an unexpected error occurred")
}
