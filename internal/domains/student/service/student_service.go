package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	pricingmodel "studyhall-backend/internal/domains/pricing/model"
	pricingrepo "studyhall-backend/internal/domains/pricing/repository"
	seatmodel "studyhall-backend/internal/domains/seat/model"
	seatrepo "studyhall-backend/internal/domains/seat/repository"
	"studyhall-backend/internal/domains/student/model"
	"studyhall-backend/internal/domains/student/repository"
	"studyhall-backend/internal/shared"
	"studyhall-backend/pkg/logger"
)

const defaultDeleteReason = "no reason provided"

type studentService struct {
	students  repository.Repository
	seats     seatrepo.Repository
	pricing   pricingrepo.Repository
	auditSink shared.AuditSink
	notifier  shared.NotificationSink
}

func NewService(
	students repository.Repository,
	seats seatrepo.Repository,
	pricing pricingrepo.Repository,
	auditSink shared.AuditSink,
	notifier shared.NotificationSink,
) Service {
	return &studentService{
		students:  students,
		seats:     seats,
		pricing:   pricing,
		auditSink: auditSink,
		notifier:  notifier,
	}
}

// Create admits a new student. Preconditions are checked before any write:
// input shape, active pricing for the combination, seat exists, seat vacant,
// seat category matches. The student row is persisted before the seat is
// occupied: if the seat write then fails we are left with a valid student
// needing a manual seat fix, which beats a phantom occupied seat.
func (s *studentService) Create(ctx context.Context, actor shared.Actor, req model.CreateStudentRequest) (*model.Student, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewStudentError(model.ErrCodeInvalidInput, err.Error(), err)
	}

	price, err := s.pricing.FindActive(ctx, req.Category, req.TimePlan)
	if err != nil {
		if errors.Is(err, pricingmodel.ErrPricingNotFound) {
			return nil, model.NewStudentError(model.ErrCodePricingNotFound,
				fmt.Sprintf("no active pricing for %s/%s", req.Category, req.TimePlan), err)
		}
		return nil, err
	}

	seatID := strings.ToUpper(req.SeatID)
	seat, err := s.seats.GetByID(ctx, seatID)
	if err != nil {
		if errors.Is(err, seatmodel.ErrSeatNotFound) {
			return nil, seatmodel.NewSeatError(seatmodel.ErrCodeSeatNotFound, "seat not found", err)
		}
		return nil, err
	}
	if seat.Status != seatmodel.StatusAvailable {
		return nil, seatmodel.NewSeatError(seatmodel.ErrCodeSeatOccupied, "seat is already occupied", seatmodel.ErrSeatOccupied)
	}
	if seat.SeatCategory != req.Category {
		return nil, seatmodel.NewSeatError(seatmodel.ErrCodeSeatTypeMismatch,
			fmt.Sprintf("seat %s is %s, student is %s", seat.SeatID, seat.SeatCategory, req.Category),
			seatmodel.ErrSeatTypeMismatch)
	}

	joinDate := time.Now()
	if req.JoinDate != nil {
		joinDate = *req.JoinDate
	}

	feeStatus, due := model.DeriveFeeLedger(price.Price, decimal.Zero)
	student := &model.Student{
		ID:         uuid.New(),
		Name:       req.Name,
		Mobile:     req.Mobile,
		Photo:      req.Photo,
		Category:   req.Category,
		TimePlan:   req.TimePlan,
		SeatID:     seatID,
		JoinDate:   joinDate,
		ExpiryDate: joinDate.Add(shared.MembershipDuration),
		TotalFee:   price.Price,
		AmountPaid: decimal.Zero,
		AmountDue:  due,
		FeeStatus:  feeStatus,
		Status:     model.StatusActive,
	}

	if err := s.students.Create(ctx, student); err != nil {
		return nil, err
	}
	if err := s.seats.Occupy(ctx, seatID, student.ID); err != nil {
		// The student row is already committed; surface the seat failure
		// so the operator can reconcile.
		logger.Error("seat occupy failed after student create", err)
		return nil, mapSeatError(err)
	}

	s.auditSink.Record(ctx, shared.AuditEntry{
		Action:     shared.ActionStudentAdded,
		Actor:      actor,
		TargetType: shared.TargetStudent,
		TargetID:   student.ID,
		NewValues: map[string]interface{}{
			"name": student.Name, "mobile": student.Mobile,
			"category": student.Category, "time_plan": student.TimePlan,
			"seat_id": student.SeatID, "total_fee": student.TotalFee.String(),
		},
	})
	s.auditSink.Record(ctx, shared.AuditEntry{
		Action:     shared.ActionSeatAssigned,
		Actor:      actor,
		TargetType: shared.TargetSeat,
		TargetID:   student.ID,
		NewValues:  map[string]interface{}{"seat_id": seatID, "student": student.Name},
	})
	s.notifier.Notify(ctx, shared.NotificationEvent{
		Type:        shared.ActionStudentAdded,
		Title:       "New student admitted",
		Message:     fmt.Sprintf("%s was admitted to seat %s", student.Name, seatID),
		Actor:       actor,
		RelatedID:   student.ID,
		RelatedType: shared.TargetStudent,
	})
	return student, nil
}

// Update edits a non-deleted student. A time-plan change re-prices against
// the student's (possibly just changed) category; if no active pricing
// exists for the new combination the plan is left untouched rather than
// erroring, matching the admission form's behavior. A seat change is
// validated before the old seat is released, so a rejected swap leaves
// occupancy untouched.
func (s *studentService) Update(ctx context.Context, actor shared.Actor, id uuid.UUID, req model.UpdateStudentRequest) (*model.Student, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewStudentError(model.ErrCodeInvalidInput, err.Error(), err)
	}

	student, err := s.mustGet(ctx, id)
	if err != nil {
		return nil, err
	}
	if student.IsDeleted {
		return nil, model.NewStudentError(model.ErrCodeStudentDeleted, "cannot edit a deleted student", model.ErrStudentDeleted)
	}

	oldValues := map[string]interface{}{}
	newValues := map[string]interface{}{}

	if req.Name != nil && *req.Name != student.Name {
		oldValues["name"], newValues["name"] = student.Name, *req.Name
		student.Name = *req.Name
	}
	if req.Mobile != nil && *req.Mobile != student.Mobile {
		oldValues["mobile"], newValues["mobile"] = student.Mobile, *req.Mobile
		student.Mobile = *req.Mobile
	}
	if req.Photo != nil && *req.Photo != student.Photo {
		oldValues["photo"], newValues["photo"] = student.Photo, *req.Photo
		student.Photo = *req.Photo
	}
	if req.Category != nil && *req.Category != student.Category {
		// Category edits do not revalidate the current seat; the seat keeps
		// its own category and the two can drift until the next seat change.
		oldValues["category"], newValues["category"] = student.Category, *req.Category
		student.Category = *req.Category
	}

	if req.TimePlan != nil && *req.TimePlan != student.TimePlan {
		price, err := s.pricing.FindActive(ctx, student.Category, *req.TimePlan)
		if err == nil {
			oldValues["time_plan"], newValues["time_plan"] = student.TimePlan, *req.TimePlan
			oldValues["total_fee"], newValues["total_fee"] = student.TotalFee.String(), price.Price.String()
			student.TimePlan = *req.TimePlan
			student.TotalFee = price.Price
			student.FeeStatus, student.AmountDue = model.DeriveFeeLedger(student.TotalFee, student.AmountPaid)
		} else if !errors.Is(err, pricingmodel.ErrPricingNotFound) {
			return nil, err
		}
		// No active pricing: the plan silently stays as it was.
	}

	if req.SeatID != nil {
		newSeatID := strings.ToUpper(*req.SeatID)
		if newSeatID != student.SeatID {
			if err := s.swapSeat(ctx, student, newSeatID); err != nil {
				return nil, err
			}
			oldValues["seat_id"], newValues["seat_id"] = student.SeatID, newSeatID
			student.SeatID = newSeatID
		}
	}

	if err := s.students.Update(ctx, student); err != nil {
		return nil, err
	}

	if len(newValues) > 0 {
		s.auditSink.Record(ctx, shared.AuditEntry{
			Action:     shared.ActionStudentEdited,
			Actor:      actor,
			TargetType: shared.TargetStudent,
			TargetID:   student.ID,
			OldValues:  oldValues,
			NewValues:  newValues,
		})
		if _, changed := newValues["seat_id"]; changed {
			s.auditSink.Record(ctx, shared.AuditEntry{
				Action:     shared.ActionSeatChanged,
				Actor:      actor,
				TargetType: shared.TargetSeat,
				TargetID:   student.ID,
				OldValues:  map[string]interface{}{"seat_id": oldValues["seat_id"]},
				NewValues:  map[string]interface{}{"seat_id": newValues["seat_id"]},
			})
		}
		s.notifier.Notify(ctx, shared.NotificationEvent{
			Type:        shared.ActionStudentEdited,
			Title:       "Student updated",
			Message:     fmt.Sprintf("%s's record was updated", student.Name),
			Actor:       actor,
			RelatedID:   student.ID,
			RelatedType: shared.TargetStudent,
		})
	}
	return student, nil
}

// swapSeat validates the target seat fully before releasing the current
// one, so a failed validation leaves both seats untouched.
func (s *studentService) swapSeat(ctx context.Context, student *model.Student, newSeatID string) error {
	newSeat, err := s.seats.GetByID(ctx, newSeatID)
	if err != nil {
		if errors.Is(err, seatmodel.ErrSeatNotFound) {
			return seatmodel.NewSeatError(seatmodel.ErrCodeSeatNotFound, "seat not found", err)
		}
		return err
	}
	if newSeat.Status != seatmodel.StatusAvailable {
		return seatmodel.NewSeatError(seatmodel.ErrCodeSeatOccupied, "seat is already occupied", seatmodel.ErrSeatOccupied)
	}

	if student.SeatID != "" {
		if err := s.seats.Release(ctx, student.SeatID); err != nil {
			return err
		}
	}
	if err := s.seats.Occupy(ctx, newSeatID, student.ID); err != nil {
		logger.Error("seat occupy failed after release during swap", err)
		return mapSeatError(err)
	}
	return nil
}

// Delete soft-deletes a student and frees their seat. The fee ledger is
// left untouched so the payment history still reconciles.
func (s *studentService) Delete(ctx context.Context, actor shared.Actor, id uuid.UUID, reason string) (*model.Student, error) {
	student, err := s.mustGet(ctx, id)
	if err != nil {
		return nil, err
	}
	if student.IsDeleted {
		return nil, model.NewStudentError(model.ErrCodeAlreadyDeleted, "student is already deleted", model.ErrAlreadyDeleted)
	}

	if strings.TrimSpace(reason) == "" {
		reason = defaultDeleteReason
	}

	oldStatus := student.Status
	freedSeat := student.SeatID
	now := time.Now()

	student.IsDeleted = true
	student.Status = model.StatusDeleted
	student.DeletedAt = &now
	student.DeletedBy = &actor.ID
	student.DeleteReason = reason
	student.SeatID = ""

	if err := s.students.Update(ctx, student); err != nil {
		return nil, err
	}
	if freedSeat != "" {
		if err := s.seats.Release(ctx, freedSeat); err != nil {
			logger.Error("seat release failed after student delete", err)
		}
	}

	s.auditSink.Record(ctx, shared.AuditEntry{
		Action:     shared.ActionStudentDeleted,
		Actor:      actor,
		TargetType: shared.TargetStudent,
		TargetID:   student.ID,
		OldValues:  map[string]interface{}{"status": oldStatus, "seat_id": freedSeat},
		NewValues:  map[string]interface{}{"status": student.Status},
		Reason:     reason,
	})
	s.notifier.Notify(ctx, shared.NotificationEvent{
		Type:        shared.ActionStudentDeleted,
		Title:       "Student removed",
		Message:     fmt.Sprintf("%s was removed (%s)", student.Name, reason),
		Actor:       actor,
		RelatedID:   student.ID,
		RelatedType: shared.TargetStudent,
	})
	return student, nil
}

// Restore brings a deleted student back onto a fresh 30-day membership
// window in a compatible vacant seat.
func (s *studentService) Restore(ctx context.Context, actor shared.Actor, id uuid.UUID, req model.RestoreStudentRequest) (*model.Student, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewStudentError(model.ErrCodeInvalidInput, err.Error(), err)
	}

	student, err := s.mustGet(ctx, id)
	if err != nil {
		return nil, err
	}
	if !student.IsDeleted {
		return nil, model.NewStudentError(model.ErrCodeNotDeleted, "student is not deleted", model.ErrNotDeleted)
	}

	seatID := strings.ToUpper(req.SeatID)
	seat, err := s.seats.GetByID(ctx, seatID)
	if err != nil {
		if errors.Is(err, seatmodel.ErrSeatNotFound) {
			return nil, seatmodel.NewSeatError(seatmodel.ErrCodeSeatNotFound, "seat not found", err)
		}
		return nil, err
	}
	if seat.Status != seatmodel.StatusAvailable {
		return nil, seatmodel.NewSeatError(seatmodel.ErrCodeSeatOccupied, "seat is already occupied", seatmodel.ErrSeatOccupied)
	}
	if seat.SeatCategory != student.Category {
		return nil, seatmodel.NewSeatError(seatmodel.ErrCodeSeatTypeMismatch,
			fmt.Sprintf("seat %s is %s, student is %s", seat.SeatID, seat.SeatCategory, student.Category),
			seatmodel.ErrSeatTypeMismatch)
	}

	now := time.Now()
	student.IsDeleted = false
	student.Status = model.StatusActive
	student.RestoredAt = &now
	student.RestoredBy = &actor.ID
	student.SeatID = seatID
	student.ExpiryDate = now.Add(shared.MembershipDuration)

	if err := s.students.Update(ctx, student); err != nil {
		return nil, err
	}
	if err := s.seats.Occupy(ctx, seatID, student.ID); err != nil {
		logger.Error("seat occupy failed after student restore", err)
		return nil, mapSeatError(err)
	}

	s.auditSink.Record(ctx, shared.AuditEntry{
		Action:     shared.ActionStudentRestored,
		Actor:      actor,
		TargetType: shared.TargetStudent,
		TargetID:   student.ID,
		OldValues:  map[string]interface{}{"status": model.StatusDeleted},
		NewValues:  map[string]interface{}{"status": student.Status, "seat_id": seatID, "expiry_date": student.ExpiryDate},
	})
	s.notifier.Notify(ctx, shared.NotificationEvent{
		Type:        shared.ActionStudentRestored,
		Title:       "Student restored",
		Message:     fmt.Sprintf("%s was restored to seat %s", student.Name, seatID),
		Actor:       actor,
		RelatedID:   student.ID,
		RelatedType: shared.TargetStudent,
	})
	return student, nil
}

func (s *studentService) GetByID(ctx context.Context, viewer shared.Actor, id uuid.UUID) (*model.Student, error) {
	student, err := s.mustGet(ctx, id)
	if err != nil {
		return nil, err
	}
	// Deleted students are admin-only.
	if student.IsDeleted && viewer.Role != shared.RoleAdmin {
		return nil, model.NewStudentError(model.ErrCodeStudentNotFound, "student not found", model.ErrStudentNotFound)
	}
	return student, nil
}

func (s *studentService) List(ctx context.Context, viewer shared.Actor, filter model.ListStudentsFilter) ([]model.Student, error) {
	if viewer.Role != shared.RoleAdmin {
		filter.IncludeDeleted = false
	}
	if filter.Limit <= 0 || filter.Limit > 200 {
		filter.Limit = 50
	}
	return s.students.List(ctx, filter)
}

func (s *studentService) Stats(ctx context.Context) (*model.StudentStats, error) {
	return s.students.Stats(ctx)
}

func (s *studentService) RepairFeeStatuses(ctx context.Context) (int, error) {
	students, err := s.students.ListNonDeleted(ctx)
	if err != nil {
		return 0, err
	}

	fixed := 0
	for i := range students {
		st := &students[i]
		status, due := model.DeriveFeeLedger(st.TotalFee, st.AmountPaid)
		if status == st.FeeStatus && due.Equal(st.AmountDue) {
			continue
		}
		if err := s.students.UpdateFeeLedger(ctx, st.ID, st.AmountPaid, due, status); err != nil {
			logger.Error("fee repair failed for student", err)
			continue
		}
		fixed++
	}
	if fixed > 0 {
		logger.Info("fee statuses repaired", map[string]interface{}{"fixed": fixed})
	}
	return fixed, nil
}

// SweepExpiredMemberships expires memberships past their window and frees
// the seats. The student rows keep their fee data and are not deleted;
// "membership expired" and "seat occupied" are deliberately decoupled.
func (s *studentService) SweepExpiredMemberships(ctx context.Context) (int, error) {
	expired, err := s.students.ListExpiredActive(ctx, time.Now())
	if err != nil {
		return 0, err
	}

	swept := 0
	for i := range expired {
		st := &expired[i]
		if err := s.students.MarkExpired(ctx, st.ID); err != nil {
			logger.Error("failed to mark student expired", err)
			continue
		}
		if st.SeatID != "" {
			if err := s.seats.Release(ctx, st.SeatID); err != nil {
				logger.Error("failed to release expired student's seat", err)
			}
		}
		swept++
	}
	if swept > 0 {
		logger.Info("expired memberships swept", map[string]interface{}{"swept": swept})
	}
	return swept, nil
}

func (s *studentService) mustGet(ctx context.Context, id uuid.UUID) (*model.Student, error) {
	student, err := s.students.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrStudentNotFound) {
			return nil, model.NewStudentError(model.ErrCodeStudentNotFound, "student not found", err)
		}
		return nil, err
	}
	return student, nil
}

func mapSeatError(err error) error {
	switch {
	case errors.Is(err, seatmodel.ErrSeatNotFound):
		return seatmodel.NewSeatError(seatmodel.ErrCodeSeatNotFound, "seat not found", err)
	case errors.Is(err, seatmodel.ErrSeatOccupied):
		return seatmodel.NewSeatError(seatmodel.ErrCodeSeatOccupied, "seat is already occupied", err)
	default:
		return err
	}
}
