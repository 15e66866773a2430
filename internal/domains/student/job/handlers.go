package job

import (
	"context"

	"github.com/hibiken/asynq"

	"studyhall-backend/internal/domains/student/service"
	"studyhall-backend/internal/shared"
	"studyhall-backend/pkg/logger"
)

// Handlers owns the two maintenance tasks: the hourly expired-seat sweep
// and the daily fee-status repair. Both are idempotent, so asynq retries
// are safe.
type Handlers struct {
	svc service.Service
}

func NewHandlers(svc service.Service) *Handlers {
	return &Handlers{svc: svc}
}

func (h *Handlers) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(shared.TypeSweepExpiredSeats, h.HandleSweepExpiredSeats)
	mux.HandleFunc(shared.TypeRepairFeeStatus, h.HandleRepairFeeStatus)
}

func (h *Handlers) HandleSweepExpiredSeats(ctx context.Context, _ *asynq.Task) error {
	swept, err := h.svc.SweepExpiredMemberships(ctx)
	if err != nil {
		logger.Error("expired-seat sweep failed", err)
		return err
	}
	logger.Info("expired-seat sweep finished", map[string]interface{}{"swept": swept})
	return nil
}

func (h *Handlers) HandleRepairFeeStatus(ctx context.Context, _ *asynq.Task) error {
	fixed, err := h.svc.RepairFeeStatuses(ctx)
	if err != nil {
		logger.Error("fee-status repair failed", err)
		return err
	}
	logger.Info("fee-status repair finished", map[string]interface{}{"fixed": fixed})
	return nil
}
