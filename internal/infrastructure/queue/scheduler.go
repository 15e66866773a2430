package queue

import (
	"time"

	"github.com/hibiken/asynq"

	"studyhall-backend/internal/config"
	"studyhall-backend/internal/shared"
	"studyhall-backend/pkg/logger"
)

// Scheduler registers the periodic maintenance tasks on asynq's cron
// scheduler. The worker process runs it next to the task server.
type Scheduler struct {
	scheduler *asynq.Scheduler
}

func NewScheduler(cfg config.RedisConfig) *Scheduler {
	scheduler := asynq.NewScheduler(
		asynq.RedisClientOpt{Addr: cfg.Host, Password: cfg.Password, DB: cfg.DB},
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)
	return &Scheduler{scheduler: scheduler}
}

// RegisterMaintenanceJobs wires the two cron entries: the expired-seat
// sweep every hour and the fee-status repair daily at 2 AM.
func (s *Scheduler) RegisterMaintenanceJobs() error {
	if err := s.registerSweepExpiredSeats(); err != nil {
		return err
	}
	return s.registerRepairFeeStatus()
}

func (s *Scheduler) registerSweepExpiredSeats() error {
	task := asynq.NewTask(shared.TypeSweepExpiredSeats, nil)

	_, err := s.scheduler.Register(
		"0 * * * *", // hourly
		task,
		asynq.Queue(shared.QueueMaintenance),
		asynq.MaxRetry(2),
		asynq.Timeout(5*time.Minute),
	)
	if err != nil {
		logger.Error("failed to register expired-seat sweep", err)
		return err
	}

	logger.Info("registered expired-seat sweep: hourly", map[string]interface{}{})
	return nil
}

func (s *Scheduler) registerRepairFeeStatus() error {
	task := asynq.NewTask(shared.TypeRepairFeeStatus, nil)

	_, err := s.scheduler.Register(
		"0 2 * * *", // daily at 2 AM
		task,
		asynq.Queue(shared.QueueMaintenance),
		asynq.MaxRetry(2),
		asynq.Timeout(10*time.Minute),
	)
	if err != nil {
		logger.Error("failed to register fee-status repair", err)
		return err
	}

	logger.Info("registered fee-status repair: daily at 2 AM", map[string]interface{}{})
	return nil
}

func (s *Scheduler) Start() error {
	return s.scheduler.Run()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
