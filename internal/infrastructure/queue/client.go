package queue

import (
	"fmt"

	"github.com/hibiken/asynq"

	"studyhall-backend/internal/config"
	"studyhall-backend/internal/shared"
)

// Client enqueues one-off tasks. The API process uses it for the
// startup-time fee repair pass.
type Client struct {
	client *asynq.Client
}

func NewClient(cfg config.RedisConfig) *Client {
	return &Client{
		client: asynq.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.Host,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
	}
}

// EnqueueFeeRepair schedules one fee-status repair run.
func (c *Client) EnqueueFeeRepair() error {
	task := asynq.NewTask(shared.TypeRepairFeeStatus, nil)
	if _, err := c.client.Enqueue(task, asynq.Queue(shared.QueueMaintenance), asynq.MaxRetry(2)); err != nil {
		return fmt.Errorf("failed to enqueue fee repair: %w", err)
	}
	return nil
}

func (c *Client) Close() error {
	return c.client.Close()
}
