package main

import (
	"log"

	"github.com/hibiken/asynq"

	"studyhall-backend/internal/domains/student/job"
	"studyhall-backend/internal/shared"
	"studyhall-backend/pkg/container"
	"studyhall-backend/pkg/logger"
)

// startAsynqServer runs the task server with the maintenance handlers
// registered. Concurrency is low on purpose: both tasks are table scans
// against the same small database.
func startAsynqServer(c *container.Container) *asynq.Server {
	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     c.Config.Redis.Host,
			Password: c.Config.Redis.Password,
			DB:       c.Config.Redis.DB,
		},
		asynq.Config{
			Concurrency: 2,
			Queues: map[string]int{
				shared.QueueMaintenance: 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	job.NewHandlers(c.StudentService).Register(mux)

	go func() {
		logger.Info("task server starting", nil)
		if err := srv.Run(mux); err != nil {
			log.Fatalf("task server failed: %v", err)
		}
	}()
	return srv
}
