package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"studyhall-backend/internal/domains/payment/model"
	"studyhall-backend/internal/domains/payment/service"
	studentmodel "studyhall-backend/internal/domains/student/model"
	"studyhall-backend/internal/infrastructure/storage"
	"studyhall-backend/internal/shared/middleware"
	"studyhall-backend/internal/shared/response"
)

type Handler struct {
	svc      service.Service
	uploader storage.Uploader
	images   *storage.ImageProcessor
}

func NewHandler(svc service.Service, uploader storage.Uploader, images *storage.ImageProcessor) *Handler {
	return &Handler{svc: svc, uploader: uploader, images: images}
}

// AddPayment records a collected installment. Multipart only: the receipt
// image file is mandatory.
// POST /api/payments
func (h *Handler) AddPayment(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	if !strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		response.BadRequest(c, "multipart form data with a receipt_image file is required")
		return
	}

	studentID, err := uuid.Parse(c.PostForm("student_id"))
	if err != nil {
		response.BadRequest(c, "valid student_id is required")
		return
	}
	amount, err := decimal.NewFromString(c.PostForm("amount"))
	if err != nil {
		response.BadRequest(c, "valid amount is required")
		return
	}

	req := model.AddPaymentRequest{
		StudentID:     studentID,
		Amount:        amount,
		Mode:          model.PaymentMode(c.PostForm("mode")),
		ReceiptNumber: c.PostForm("receipt_number"),
		Notes:         c.PostForm("notes"),
	}

	file, err := c.FormFile("receipt_image")
	if err != nil {
		response.BadRequest(c, "receipt image is required")
		return
	}
	f, err := file.Open()
	if err != nil {
		response.BadRequest(c, "failed to read receipt image")
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		response.BadRequest(c, "failed to read receipt image")
		return
	}

	if err := h.images.Validate(data); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	normalized, err := h.images.Normalize(data)
	if err != nil {
		response.BadRequest(c, "failed to process receipt image")
		return
	}

	key := fmt.Sprintf("receipts/%s.jpg", uuid.New().String())
	url, err := h.uploader.Upload(c.Request.Context(), key, normalized, "image/jpeg")
	if err != nil {
		response.InternalServerError(c, "failed to store receipt image")
		return
	}
	req.ReceiptImage = url

	payment, err := h.svc.Add(c.Request.Context(), actor, req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SuccessWithMessage(c, http.StatusCreated, "payment recorded", payment)
}

// ReversePayment undoes a payment with a mandatory reason.
// POST /api/payments/:id/reverse  (admin only)
func (h *Handler) ReversePayment(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid payment id")
		return
	}

	var req model.ReversePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	payment, err := h.svc.Reverse(c.Request.Context(), actor, id, req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SuccessWithMessage(c, http.StatusOK, "payment reversed", payment)
}

// GetPayment returns one payment.
// GET /api/payments/:id
func (h *Handler) GetPayment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid payment id")
		return
	}

	payment, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, payment)
}

// ListPayments lists payments with filters.
// GET /api/payments?student_id=&collected_by=&from=&to=&limit=&offset=
func (h *Handler) ListPayments(c *gin.Context) {
	var filter model.ListPaymentsFilter

	if v := c.Query("student_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			response.BadRequest(c, "invalid student_id")
			return
		}
		filter.StudentID = &id
	}
	if v := c.Query("collected_by"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			response.BadRequest(c, "invalid collected_by")
			return
		}
		filter.CollectedBy = &id
	}
	var err error
	if filter.From, filter.To, err = parseDateWindow(c); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))
	filter.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))

	payments, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, payments, &response.Meta{Count: len(payments), Limit: filter.Limit})
}

// ListStudentPayments lists one student's payments with the live total.
// GET /api/payments/student/:studentId
func (h *Handler) ListStudentPayments(c *gin.Context) {
	studentID, err := uuid.Parse(c.Param("studentId"))
	if err != nil {
		response.BadRequest(c, "invalid student id")
		return
	}

	result, err := h.svc.ListByStudent(c.Request.Context(), studentID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// GetCollectionStats aggregates non-reversed payments in an optional window.
// GET /api/payments/stats?from=&to=
func (h *Handler) GetCollectionStats(c *gin.Context) {
	from, to, err := parseDateWindow(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	stats, err := h.svc.Stats(c.Request.Context(), from, to)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, stats)
}

// ExportPayments downloads the payment history for an optional window as a
// spreadsheet.
// GET /api/payments/export?from=&to=
func (h *Handler) ExportPayments(c *gin.Context) {
	from, to, err := parseDateWindow(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	f, err := h.svc.ExportToExcel(c.Request.Context(), from, to)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		response.InternalServerError(c, "failed to build export file")
		return
	}

	filename := fmt.Sprintf("payments-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

func parseDateWindow(c *gin.Context) (*time.Time, *time.Time, error) {
	var from, to *time.Time
	if v := c.Query("from"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			return nil, nil, errors.New("from must be RFC3339 or YYYY-MM-DD")
		}
		from = &t
	}
	if v := c.Query("to"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			return nil, nil, errors.New("to must be RFC3339 or YYYY-MM-DD")
		}
		to = &t
	}
	return from, to, nil
}

func parseDate(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", v)
}

func handleServiceError(c *gin.Context, err error) {
	var pErr *model.PaymentError
	if errors.As(err, &pErr) {
		switch pErr.Code {
		case model.ErrCodePaymentNotFound:
			response.ErrorResponse(c, http.StatusNotFound, pErr.Code, pErr.Message)
		case model.ErrCodeInvalidInput:
			response.ErrorResponse(c, http.StatusBadRequest, pErr.Code, pErr.Message)
		case model.ErrCodeAlreadyReversed:
			response.ErrorResponse(c, http.StatusConflict, pErr.Code, pErr.Message)
		default:
			response.ErrorResponse(c, http.StatusInternalServerError, pErr.Code, pErr.Message)
		}
		return
	}

	var stErr *studentmodel.StudentError
	if errors.As(err, &stErr) {
		switch stErr.Code {
		case studentmodel.ErrCodeStudentNotFound:
			response.ErrorResponse(c, http.StatusNotFound, stErr.Code, stErr.Message)
		case studentmodel.ErrCodeStudentDeleted:
			response.ErrorResponse(c, http.StatusConflict, stErr.Code, stErr.Message)
		default:
			response.ErrorResponse(c, http.StatusInternalServerError, stErr.Code, stErr.Message)
		}
		return
	}

	response.InternalServerError(c, "an unexpected error occurred")
}
