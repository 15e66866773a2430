package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"studyhall-backend/internal/domains/payment/model"
	"studyhall-backend/internal/shared"
)

type Service interface {
	Add(ctx context.Context, actor shared.Actor, req model.AddPaymentRequest) (*model.Payment, error)
	Reverse(ctx context.Context, actor shared.Actor, id uuid.UUID, req model.ReversePaymentRequest) (*model.Payment, error)

	GetByID(ctx context.Context, id uuid.UUID) (*model.Payment, error)
	List(ctx context.Context, filter model.ListPaymentsFilter) ([]model.Payment, error)
	ListByStudent(ctx context.Context, studentID uuid.UUID) (*model.StudentPayments, error)
	Stats(ctx context.Context, from, to *time.Time) (*model.CollectionStats, error)
	ExportToExcel(ctx context.Context, from, to *time.Time) (*excelize.File, error)
}
