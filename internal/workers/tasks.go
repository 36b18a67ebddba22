// internal/workers/tasks.go
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/ammerola/pantry-be/internal/core/domain"
)

const (
	TypeClassificationAttach = "classification:attach"
	TypeInventoryImport      = "inventory:import"
	TypeExportsCleanup       = "exports:cleanup"
)

// Queue names, matching the ASYNQ_QUEUES defaults.
const (
	QueueCritical = "critical"
	QueueDefault  = "default"
	QueueLow      = "low"
)

// Enqueuer is the part of *asynq.Client the HTTP layer needs.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

var _ Enqueuer = (*asynq.Client)(nil)

// ClassificationPayload asks the worker to classify an image onto an item.
type ClassificationPayload struct {
	Namespace string `json:"namespace"`
	Name      string `json:"name"`
	ImageSrc  string `json:"image_src"`
}

// ImportPayload carries rows already parsed from an uploaded file.
type ImportPayload struct {
	JobID     string        `json:"job_id"`
	Namespace string        `json:"namespace"`
	Filename  string        `json:"filename"`
	Items     []domain.Item `json:"items"`
}

// CleanupPayload overrides the configured retention when set.
type CleanupPayload struct {
	RetentionSeconds int64 `json:"retention_seconds,omitempty"`
}

// Retention returns the override, or fallback when none was given.
func (p CleanupPayload) Retention(fallback time.Duration) time.Duration {
	if p.RetentionSeconds > 0 {
		return time.Duration(p.RetentionSeconds) * time.Second
	}
	return fallback
}

// NewClassificationTask builds a classification:attach task.
func NewClassificationTask(p ClassificationPayload) (*asynq.Task, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal classification payload: %w", err)
	}
	return asynq.NewTask(TypeClassificationAttach, payload,
		asynq.Queue(QueueDefault),
		asynq.MaxRetry(3),
		asynq.Timeout(time.Minute),
	), nil
}

// NewImportTask builds an inventory:import task.
func NewImportTask(p ImportPayload) (*asynq.Task, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal import payload: %w", err)
	}
	return asynq.NewTask(TypeInventoryImport, payload,
		asynq.Queue(QueueDefault),
		asynq.MaxRetry(5),
		asynq.Timeout(5*time.Minute),
	), nil
}

// NewCleanupTask builds an exports:cleanup task.
func NewCleanupTask(p CleanupPayload) (*asynq.Task, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal cleanup payload: %w", err)
	}
	return asynq.NewTask(TypeExportsCleanup, payload,
		asynq.Queue(QueueLow),
		asynq.MaxRetry(1),
		asynq.Unique(time.Hour),
	), nil
}

func decode(t *asynq.Task, v any) error {
	if err := json.Unmarshal(t.Payload(), v); err != nil {
		return fmt.Errorf("failed to unmarshal %s payload: %v: %w", t.Type(), err, asynq.SkipRetry)
	}
	return nil
}
