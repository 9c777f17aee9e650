// Package jobs hosts the background task definitions and the Asynq worker
// glue around them.
package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/subahan-billing/subahan-billing/internal/catalog"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTrashPurge permanently removes catalog items whose trash window
	// has lapsed.
	TaskTrashPurge = "catalog:trash_purge"
)

// TrashPurgePayload carries scheduling metadata.
type TrashPurgePayload struct {
	ScheduledFor time.Time `json:"scheduled_for"`
}

// NewTrashPurgeTask constructs the purge task.
func NewTrashPurgeTask(at time.Time) (*asynq.Task, error) {
	body, err := json.Marshal(TrashPurgePayload{ScheduledFor: at})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTrashPurge, body, asynq.Queue(QueueDefault)), nil
}

// TrashPurger runs the catalog purge; satisfied by *catalog.Service.
type TrashPurger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// HandleTrashPurgeTask returns the handler bound to the catalog service.
func HandleTrashPurgeTask(purger TrashPurger, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload TrashPurgePayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		purged, err := purger.PurgeExpired(ctx)
		if err != nil {
			logger.Error("trash purge", slog.Any("error", err))
			return err
		}
		logger.Info("trash purge done",
			slog.Int64("purged", purged),
			slog.Duration("retention", catalog.RetentionWindow))
		return nil
	}
}
