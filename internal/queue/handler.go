package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/OdivalPereira/loan-parser/internal/domain/statement"
)

// Runner executes one ingestion run. Satisfied by ingest.Service.
type Runner interface {
	Run(ctx context.Context, filePath string, contractID *int64) (*statement.Statement, error)
}

// IngestHandler consumes ingestion tasks and drives the pipeline.
type IngestHandler struct {
	runner Runner
	logger *slog.Logger
}

func NewIngestHandler(runner Runner, logger *slog.Logger) *IngestHandler {
	return &IngestHandler{runner: runner, logger: logger}
}

// ProcessTask implements asynq.Handler. Returning an error makes asynq retry
// the task; the pipeline only surfaces infrastructure errors, so retried jobs
// are ones where no statement record could be written.
func (h *IngestHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload IngestPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal ingestion payload: %w", err)
	}

	h.logger.InfoContext(ctx, "processing ingestion task",
		slog.String("file_path", payload.FilePath))

	st, err := h.runner.Run(ctx, payload.FilePath, payload.ContractID)
	if err != nil {
		h.logger.ErrorContext(ctx, "ingestion task failed",
			slog.String("file_path", payload.FilePath),
			slog.Any("error", err))
		return err
	}

	h.logger.InfoContext(ctx, "ingestion task finished",
		slog.String("statement_id", st.ID.String()),
		slog.String("status", st.Status))
	return nil
}
