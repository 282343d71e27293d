// Package queue bridges upload submissions to background ingestion jobs over
// Redis using asynq.
package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const (
	// TypeIngestStatement is the task type for statement ingestion jobs.
	TypeIngestStatement = "statement:ingest"

	// UploadQueue is the named queue ingestion jobs are published to.
	UploadQueue = "uploads"
)

// IngestPayload is the wire payload of an ingestion job.
type IngestPayload struct {
	FilePath   string `json:"file_path"`
	ContractID *int64 `json:"contract_id,omitempty"`
}

// Enqueuer publishes ingestion jobs. Satisfied by Client.
type Enqueuer interface {
	EnqueueIngestion(ctx context.Context, filePath string, contractID *int64) (string, error)
}

// Client publishes ingestion tasks to Redis.
type Client struct {
	client *asynq.Client
}

func NewClient(redisAddr string) *Client {
	return &Client{client: asynq.NewClient(asynq.RedisClientOpt{Addr: redisAddr})}
}

func (c *Client) Close() error {
	return c.client.Close()
}

// EnqueueIngestion publishes a job and returns its id. Delivery is
// at-least-once; the handler tolerates re-execution by writing a fresh
// statement record per run.
func (c *Client) EnqueueIngestion(ctx context.Context, filePath string, contractID *int64) (string, error) {
	task, err := NewIngestTask(filePath, contractID)
	if err != nil {
		return "", err
	}
	info, err := c.client.EnqueueContext(ctx, task, asynq.Queue(UploadQueue))
	if err != nil {
		return "", fmt.Errorf("failed to enqueue ingestion task: %w", err)
	}
	return info.ID, nil
}

// NewIngestTask builds an ingestion task from its payload fields.
func NewIngestTask(filePath string, contractID *int64) (*asynq.Task, error) {
	payload, err := json.Marshal(IngestPayload{FilePath: filePath, ContractID: contractID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal ingestion payload: %w", err)
	}
	return asynq.NewTask(TypeIngestStatement, payload), nil
}
