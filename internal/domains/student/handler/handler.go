package handler

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	seatmodel "studyhall-backend/internal/domains/seat/model"
	"studyhall-backend/internal/domains/student/model"
	"studyhall-backend/internal/domains/student/service"
	"studyhall-backend/internal/infrastructure/storage"
	"studyhall-backend/internal/shared"
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

// CreateStudent admits a new student. Accepts JSON, or multipart form data
// with an optional "photo" file.
// POST /api/students
func (h *Handler) CreateStudent(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	var req model.CreateStudentRequest
	if isMultipart(c) {
		var err error
		req, err = h.bindCreateForm(c)
		if err != nil {
			response.BadRequest(c, err.Error())
			return
		}
	} else if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	student, err := h.svc.Create(c.Request.Context(), actor, req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SuccessWithMessage(c, http.StatusCreated, "student admitted", student)
}

// UpdateStudent edits a student. Accepts JSON, or multipart form data with
// an optional replacement "photo" file.
// PUT /api/students/:id
func (h *Handler) UpdateStudent(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid student id")
		return
	}

	var req model.UpdateStudentRequest
	if isMultipart(c) {
		req, err = h.bindUpdateForm(c)
		if err != nil {
			response.BadRequest(c, err.Error())
			return
		}
	} else if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	student, err := h.svc.Update(c.Request.Context(), actor, id, req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SuccessWithMessage(c, http.StatusOK, "student updated", student)
}

// DeleteStudent soft-deletes a student and frees their seat.
// DELETE /api/students/:id
func (h *Handler) DeleteStudent(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid student id")
		return
	}

	var req model.DeleteStudentRequest
	_ = c.ShouldBindJSON(&req) // body is optional

	student, err := h.svc.Delete(c.Request.Context(), actor, id, req.Reason)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SuccessWithMessage(c, http.StatusOK, "student deleted", student)
}

// RestoreStudent brings a deleted student back into a vacant seat.
// POST /api/students/:id/restore  (admin only)
func (h *Handler) RestoreStudent(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid student id")
		return
	}

	var req model.RestoreStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	student, err := h.svc.Restore(c.Request.Context(), actor, id, req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SuccessWithMessage(c, http.StatusOK, "student restored", student)
}

// GetStudent returns one student. Directors cannot see deleted students.
// GET /api/students/:id
func (h *Handler) GetStudent(c *gin.Context) {
	viewer, ok := middleware.ActorFromContext(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid student id")
		return
	}

	student, err := h.svc.GetByID(c.Request.Context(), viewer, id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, student)
}

// ListStudents lists students with filters. include_deleted is honored for
// admins only.
// GET /api/students?status=&category=&fee_status=&search=&include_deleted=&limit=&offset=
func (h *Handler) ListStudents(c *gin.Context) {
	viewer, ok := middleware.ActorFromContext(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	var filter model.ListStudentsFilter
	if v := c.Query("status"); v != "" {
		status := model.LifecycleStatus(v)
		filter.Status = &status
	}
	if v := c.Query("category"); v != "" {
		category := shared.StudentCategory(v)
		if !category.IsValid() {
			response.BadRequest(c, "invalid category")
			return
		}
		filter.Category = &category
	}
	if v := c.Query("fee_status"); v != "" {
		feeStatus := model.FeeStatus(v)
		filter.FeeStatus = &feeStatus
	}
	filter.Search = c.Query("search")
	filter.IncludeDeleted = c.Query("include_deleted") == "true"
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))
	filter.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))

	students, err := h.svc.List(c.Request.Context(), viewer, filter)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, students, &response.Meta{Count: len(students), Limit: filter.Limit})
}

// GetStudentStats returns lifecycle totals for the dashboard.
// GET /api/students/stats
func (h *Handler) GetStudentStats(c *gin.Context) {
	stats, err := h.svc.Stats(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, stats)
}

// RepairFeeStatuses re-derives every ledger on demand.
// POST /api/students/repair-fees  (admin only)
func (h *Handler) RepairFeeStatuses(c *gin.Context) {
	fixed, err := h.svc.RepairFeeStatuses(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"fixed": fixed})
}

// ==================== form binding ====================

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/form-data")
}

func (h *Handler) bindCreateForm(c *gin.Context) (model.CreateStudentRequest, error) {
	req := model.CreateStudentRequest{
		Name:     c.PostForm("name"),
		Mobile:   c.PostForm("mobile"),
		Category: shared.StudentCategory(c.PostForm("category")),
		TimePlan: shared.TimePlan(c.PostForm("time_plan")),
		SeatID:   c.PostForm("seat_id"),
	}
	if v := c.PostForm("join_date"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			return req, errors.New("join_date must be RFC3339 or YYYY-MM-DD")
		}
		req.JoinDate = &t
	}

	if file, err := c.FormFile("photo"); err == nil {
		url, err := h.uploadPhoto(c, file)
		if err != nil {
			return req, err
		}
		req.Photo = url
	}
	return req, nil
}

func (h *Handler) bindUpdateForm(c *gin.Context) (model.UpdateStudentRequest, error) {
	var req model.UpdateStudentRequest

	if v, ok := c.GetPostForm("name"); ok {
		req.Name = &v
	}
	if v, ok := c.GetPostForm("mobile"); ok {
		req.Mobile = &v
	}
	if v, ok := c.GetPostForm("category"); ok {
		category := shared.StudentCategory(v)
		req.Category = &category
	}
	if v, ok := c.GetPostForm("time_plan"); ok {
		plan := shared.TimePlan(v)
		req.TimePlan = &plan
	}
	if v, ok := c.GetPostForm("seat_id"); ok {
		req.SeatID = &v
	}

	if file, err := c.FormFile("photo"); err == nil {
		url, err := h.uploadPhoto(c, file)
		if err != nil {
			return req, err
		}
		req.Photo = &url
	}
	return req, nil
}

func (h *Handler) uploadPhoto(c *gin.Context, file *multipart.FileHeader) (string, error) {
	f, err := file.Open()
	if err != nil {
		return "", errors.New("failed to read photo")
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", errors.New("failed to read photo")
	}

	if err := h.images.Validate(data); err != nil {
		return "", err
	}
	normalized, err := h.images.Normalize(data)
	if err != nil {
		return "", errors.New("failed to process photo")
	}

	key := fmt.Sprintf("photos/%s.jpg", uuid.New().String())
	url, err := h.uploader.Upload(c.Request.Context(), key, normalized, "image/jpeg")
	if err != nil {
		return "", errors.New("failed to store photo")
	}
	return url, nil
}

func parseDate(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", v)
}

func handleServiceError(c *gin.Context, err error) {
	var stErr *model.StudentError
	if errors.As(err, &stErr) {
		switch stErr.Code {
		case model.ErrCodeStudentNotFound:
			response.ErrorResponse(c, http.StatusNotFound, stErr.Code, stErr.Message)
		case model.ErrCodeInvalidInput:
			response.ErrorResponse(c, http.StatusBadRequest, stErr.Code, stErr.Message)
		case model.ErrCodeAlreadyDeleted, model.ErrCodeNotDeleted, model.ErrCodeStudentDeleted:
			response.ErrorResponse(c, http.StatusConflict, stErr.Code, stErr.Message)
		case model.ErrCodePricingNotFound:
			response.ErrorResponse(c, http.StatusNotFound, stErr.Code, stErr.Message)
		default:
			response.ErrorResponse(c, http.StatusInternalServerError, stErr.Code, stErr.Message)
		}
		return
	}

	var sErr *seatmodel.SeatError
	if errors.As(err, &sErr) {
		switch sErr.Code {
		case seatmodel.ErrCodeSeatNotFound:
			response.ErrorResponse(c, http.StatusNotFound, sErr.Code, sErr.Message)
		case seatmodel.ErrCodeSeatOccupied, seatmodel.ErrCodeSeatTypeMismatch:
			response.ErrorResponse(c, http.StatusConflict, sErr.Code, sErr.Message)
		default:
			response.ErrorResponse(c, http.StatusInternalServerError, sErr.Code, sErr.Message)
		}
		return
	}

	response.InternalServerError(c, "an unexpected error occurred")
}
