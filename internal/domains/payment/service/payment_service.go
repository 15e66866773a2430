package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"studyhall-backend/internal/domains/payment/model"
	"studyhall-backend/internal/domains/payment/repository"
	studentmodel "studyhall-backend/internal/domains/student/model"
	studentrepo "studyhall-backend/internal/domains/student/repository"
	"studyhall-backend/internal/shared"
	"studyhall-backend/pkg/logger"
)

type paymentService struct {
	payments  repository.Repository
	students  studentrepo.Repository
	auditSink shared.AuditSink
	notifier  shared.NotificationSink
}

func NewService(
	payments repository.Repository,
	students studentrepo.Repository,
	auditSink shared.AuditSink,
	notifier shared.NotificationSink,
) Service {
	return &paymentService{
		payments:  payments,
		students:  students,
		auditSink: auditSink,
		notifier:  notifier,
	}
}

// Add records a collected installment. The payment row is persisted before
// the student's ledger moves; if the ledger write then fails the payment
// stands and the daily repair pass trues the ledger up.
func (s *paymentService) Add(ctx context.Context, actor shared.Actor, req model.AddPaymentRequest) (*model.Payment, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewPaymentError(model.ErrCodeInvalidInput, err.Error(), err)
	}

	student, err := s.students.GetByID(ctx, req.StudentID)
	if err != nil {
		if errors.Is(err, studentmodel.ErrStudentNotFound) {
			return nil, studentmodel.NewStudentError(studentmodel.ErrCodeStudentNotFound, "student not found", err)
		}
		return nil, err
	}
	if student.IsDeleted {
		return nil, studentmodel.NewStudentError(studentmodel.ErrCodeStudentDeleted,
			"cannot record a payment for a deleted student", studentmodel.ErrStudentDeleted)
	}

	payment := &model.Payment{
		ID:              uuid.New(),
		StudentID:       student.ID,
		Amount:          req.Amount,
		Mode:            req.Mode,
		ReceiptNumber:   req.ReceiptNumber,
		ReceiptImage:    req.ReceiptImage,
		Notes:           req.Notes,
		CollectedBy:     actor.ID,
		CollectedByName: actor.Name,
		CollectionDate:  time.Now(),
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, err
	}

	newPaid := student.AmountPaid.Add(req.Amount)
	status, due := studentmodel.DeriveFeeLedger(student.TotalFee, newPaid)
	if err := s.students.UpdateFeeLedger(ctx, student.ID, newPaid, due, status); err != nil {
		// The payment row is already committed; the repair pass will
		// reconcile the ledger.
		logger.Error("ledger update failed after payment create", err)
		return nil, err
	}

	s.auditSink.Record(ctx, shared.AuditEntry{
		Action:     shared.ActionPaymentAdded,
		Actor:      actor,
		TargetType: shared.TargetPayment,
		TargetID:   payment.ID,
		NewValues: map[string]interface{}{
			"student": student.Name, "amount": payment.Amount.String(),
			"mode": payment.Mode, "receipt_number": payment.ReceiptNumber,
		},
	})
	s.notifier.Notify(ctx, shared.NotificationEvent{
		Type:        shared.ActionPaymentAdded,
		Title:       "Payment collected",
		Message:     fmt.Sprintf("%s paid %s by %s", student.Name, payment.Amount.String(), payment.Mode),
		Actor:       actor,
		RelatedID:   payment.ID,
		RelatedType: shared.TargetPayment,
	})
	return payment, nil
}

// Reverse undoes a payment exactly once. The student ledger is re-derived
// from the same canonical rule the add path uses, so a reversal is an
// exact inverse of the add.
func (s *paymentService) Reverse(ctx context.Context, actor shared.Actor, id uuid.UUID, req model.ReversePaymentRequest) (*model.Payment, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewPaymentError(model.ErrCodeInvalidInput, err.Error(), err)
	}

	payment, err := s.payments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrPaymentNotFound) {
			return nil, model.NewPaymentError(model.ErrCodePaymentNotFound, "payment not found", err)
		}
		return nil, err
	}
	if payment.IsReversed {
		return nil, model.NewPaymentError(model.ErrCodeAlreadyReversed, "payment is already reversed", model.ErrAlreadyReversed)
	}

	if err := s.payments.MarkReversed(ctx, id, actor.ID, req.Reason); err != nil {
		if errors.Is(err, model.ErrAlreadyReversed) {
			return nil, model.NewPaymentError(model.ErrCodeAlreadyReversed, "payment is already reversed", err)
		}
		if errors.Is(err, model.ErrPaymentNotFound) {
			return nil, model.NewPaymentError(model.ErrCodePaymentNotFound, "payment not found", err)
		}
		return nil, err
	}

	now := time.Now()
	payment.IsReversed = true
	payment.ReversedAt = &now
	payment.ReversedBy = &actor.ID
	payment.ReverseReason = req.Reason

	student, err := s.students.GetByID(ctx, payment.StudentID)
	if err != nil {
		logger.Error("student lookup failed after payment reversal", err)
		return payment, nil
	}
	newPaid := student.AmountPaid.Sub(payment.Amount)
	status, due := studentmodel.DeriveFeeLedger(student.TotalFee, newPaid)
	if err := s.students.UpdateFeeLedger(ctx, student.ID, newPaid, due, status); err != nil {
		logger.Error("ledger update failed after payment reversal", err)
	}

	s.auditSink.Record(ctx, shared.AuditEntry{
		Action:     shared.ActionPaymentReversed,
		Actor:      actor,
		TargetType: shared.TargetPayment,
		TargetID:   payment.ID,
		OldValues:  map[string]interface{}{"is_reversed": false},
		NewValues:  map[string]interface{}{"is_reversed": true, "amount": payment.Amount.String()},
		Reason:     req.Reason,
	})
	s.notifier.Notify(ctx, shared.NotificationEvent{
		Type:        shared.ActionPaymentReversed,
		Title:       "Payment reversed",
		Message:     fmt.Sprintf("Payment of %s for %s was reversed (%s)", payment.Amount.String(), student.Name, req.Reason),
		Actor:       actor,
		RelatedID:   payment.ID,
		RelatedType: shared.TargetPayment,
	})
	return payment, nil
}

func (s *paymentService) GetByID(ctx context.Context, id uuid.UUID) (*model.Payment, error) {
	payment, err := s.payments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrPaymentNotFound) {
			return nil, model.NewPaymentError(model.ErrCodePaymentNotFound, "payment not found", err)
		}
		return nil, err
	}
	return payment, nil
}

func (s *paymentService) List(ctx context.Context, filter model.ListPaymentsFilter) ([]model.Payment, error) {
	if filter.Limit <= 0 || filter.Limit > 200 {
		filter.Limit = 50
	}
	return s.payments.List(ctx, filter)
}

func (s *paymentService) ListByStudent(ctx context.Context, studentID uuid.UUID) (*model.StudentPayments, error) {
	payments, err := s.payments.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	total, err := s.payments.NonReversedTotal(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return &model.StudentPayments{Payments: payments, TotalPaid: total}, nil
}

func (s *paymentService) Stats(ctx context.Context, from, to *time.Time) (*model.CollectionStats, error) {
	return s.payments.Stats(ctx, from, to)
}
