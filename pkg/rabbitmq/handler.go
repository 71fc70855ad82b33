package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"sitewatch/internals/modules/check"

	"github.com/rabbitmq/amqp091-go"
)

type MessageHandler interface {
	Handle(ctx context.Context, msg amqp091.Delivery) error
}

type BatchRunner interface {
	RunBatch(ctx context.Context, batchID string, urls []string) check.Report
}

// CheckBatchHandler turns check queue messages into batch runs.
type CheckBatchHandler struct {
	runner BatchRunner
}

func NewCheckBatchHandler(runner BatchRunner) *CheckBatchHandler {
	return &CheckBatchHandler{
		runner: runner,
	}
}

func (h *CheckBatchHandler) Handle(ctx context.Context, msg amqp091.Delivery) error {
	var batch CheckBatchMessage
	if err := json.Unmarshal(msg.Body, &batch); err != nil {
		return fmt.Errorf("decode check batch: %w", err)
	}
	if len(batch.URLs) == 0 {
		return errors.New("check batch has no urls")
	}

	id := batch.ID
	if id == "" {
		id = msg.MessageId
	}

	h.runner.RunBatch(ctx, id, batch.URLs)
	return nil
}
