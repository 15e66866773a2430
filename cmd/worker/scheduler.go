package main

import (
	"log"

	"studyhall-backend/internal/infrastructure/queue"
	"studyhall-backend/pkg/container"
	"studyhall-backend/pkg/logger"
)

func startScheduler(c *container.Container) *queue.Scheduler {
	scheduler := queue.NewScheduler(c.Config.Redis)

	if err := scheduler.RegisterMaintenanceJobs(); err != nil {
		log.Fatalf("failed to register scheduled jobs: %v", err)
	}

	go func() {
		logger.Info("scheduler starting", nil)
		if err := scheduler.Start(); err != nil {
			log.Fatalf("scheduler failed: %v", err)
		}
	}()
	return scheduler
}
