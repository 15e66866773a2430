package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"studyhall-backend/internal/domains/pricing/model"
	"studyhall-backend/internal/domains/pricing/service"
	"studyhall-backend/internal/shared"
	"studyhall-backend/internal/shared/middleware"
	"studyhall-backend/internal/shared/response"
)

type Handler struct {
	svc service.Service
}

func NewHandler(svc service.Service) *Handler {
	return &Handler{svc: svc}
}

// CreatePricing registers a fee for a new (category, plan) combination.
// POST /api/pricing
func (h *Handler) CreatePricing(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	var req model.CreatePricingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	pricing, err := h.svc.CreatePricing(c.Request.Context(), actor, req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SuccessWithMessage(c, http.StatusCreated, "pricing created", pricing)
}

// UpdatePrice changes the fee for an existing combination.
// PUT /api/pricing/:id
func (h *Handler) UpdatePrice(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid pricing id")
		return
	}

	var req model.UpdatePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	pricing, err := h.svc.UpdatePrice(c.Request.Context(), actor, id, req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SuccessWithMessage(c, http.StatusOK, "price updated", pricing)
}

// DeactivatePricing retires a combination without deleting the row.
// DELETE /api/pricing/:id
func (h *Handler) DeactivatePricing(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid pricing id")
		return
	}

	pricing, err := h.svc.Deactivate(c.Request.Context(), actor, id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SuccessWithMessage(c, http.StatusOK, "pricing deactivated", pricing)
}

// LookupFee returns the fee for a category/plan pair.
// GET /api/pricing/fee?student_category=regular&time_plan=6hr
func (h *Handler) LookupFee(c *gin.Context) {
	category := shared.StudentCategory(c.Query("student_category"))
	plan := shared.TimePlan(c.Query("time_plan"))

	if !category.IsValid() || !plan.IsValid() {
		response.BadRequest(c, "valid student_category and time_plan are required")
		return
	}

	pricing, err := h.svc.LookupFee(c.Request.Context(), category, plan)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"student_category": pricing.StudentCategory,
		"time_plan":        pricing.TimePlan,
		"fee":              pricing.Price,
	})
}

// ListPricing returns the full active price table.
// GET /api/pricing
func (h *Handler) ListPricing(c *gin.Context) {
	list, err := h.svc.ListActive(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, list, &response.Meta{Count: len(list)})
}

func handleServiceError(c *gin.Context, err error) {
	var pErr *model.PricingError
	if errors.As(err, &pErr) {
		switch pErr.Code {
		case model.ErrCodePricingNotFound:
			response.ErrorResponse(c, http.StatusNotFound, pErr.Code, pErr.Message)
		case model.ErrCodeDuplicateKey:
			response.ErrorResponse(c, http.StatusConflict, pErr.Code, pErr.Message)
		case model.ErrCodeInvalidPrice:
			response.ErrorResponse(c, http.StatusBadRequest, pErr.Code, pErr.Message)
		default:
			response.ErrorResponse(c, http.StatusInternalServerError, pErr.Code, pErr.Message)
		}
		return
	}
	response.InternalServerError(c, "an unexpected error occurred")
}
