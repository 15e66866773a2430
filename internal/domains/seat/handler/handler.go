package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"studyhall-backend/internal/domains/seat/model"
	"studyhall-backend/internal/domains/seat/service"
	"studyhall-backend/internal/shared"
	"studyhall-backend/internal/shared/response"
)

type Handler struct {
	svc service.Service
}

func NewHandler(svc service.Service) *Handler {
	return &Handler{svc: svc}
}

// ListSeats lists seats, optionally filtered by category and status.
// GET /api/seats?category=regular&status=available
func (h *Handler) ListSeats(c *gin.Context) {
	var filter model.ListSeatsFilter

	if v := c.Query("category"); v != "" {
		category := shared.StudentCategory(v)
		if !category.IsValid() {
			response.BadRequest(c, "invalid category")
			return
		}
		filter.Category = &category
	}
	if v := c.Query("status"); v != "" {
		status := model.SeatStatus(v)
		if status != model.StatusAvailable && status != model.StatusOccupied {
			response.BadRequest(c, "invalid status")
			return
		}
		filter.Status = &status
	}

	seats, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, seats, &response.Meta{Count: len(seats)})
}

// ListAvailable lists vacant seats for one category, for the seat picker.
// GET /api/seats/available?category=premium
func (h *Handler) ListAvailable(c *gin.Context) {
	category := shared.StudentCategory(c.Query("category"))
	if !category.IsValid() {
		response.BadRequest(c, "valid category is required")
		return
	}

	seats, err := h.svc.ListAvailable(c.Request.Context(), category)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, seats, &response.Meta{Count: len(seats)})
}

// GetSeatStats returns occupancy totals, overall and per category.
// GET /api/seats/stats
func (h *Handler) GetSeatStats(c *gin.Context) {
	stats, err := h.svc.Stats(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, stats)
}

// GetSeat returns one seat by its human-readable id.
// GET /api/seats/:seatId
func (h *Handler) GetSeat(c *gin.Context) {
	seatID := c.Param("seatId")
	if seatID == "" {
		response.BadRequest(c, "seat id is required")
		return
	}

	seat, err := h.svc.GetByID(c.Request.Context(), seatID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, seat)
}

func handleServiceError(c *gin.Context, err error) {
	var sErr *model.SeatError
	if errors.As(err, &sErr) {
		switch sErr.Code {
		case model.ErrCodeSeatNotFound:
			response.ErrorResponse(c, http.StatusNotFound, sErr.Code, sErr.Message)
		case model.ErrCodeSeatOccupied, model.ErrCodeSeatTypeMismatch:
			response.ErrorResponse(c, http.StatusConflict, sErr.Code, sErr.Message)
		default:
			response.ErrorResponse(c, http.StatusInternalServerError, sErr.Code, sErr.Message)
		}
		return
	}
	response.InternalServerError(c, "an unexpected error occurred")
}
