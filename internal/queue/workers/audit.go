package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/lexprocure/api/internal/models"
	"github.com/lexprocure/api/internal/queue"
)

type AuditStore interface {
	Insert(ctx context.Context, entry *models.AuditLog) error
}

// AuditWorker replays audit entries whose synchronous write failed. Returning an
// error lets asynq retry with backoff until MaxRetry is exhausted.
type AuditWorker struct {
	store AuditStore
}

func NewAuditWorker(store AuditStore) *AuditWorker {
	return &AuditWorker{store: store}
}

func (w *AuditWorker) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload queue.AuditRecordPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal audit payload: %w", err)
	}

	entry := &models.AuditLog{
		EntityType:  models.EntityType(payload.EntityType),
		EntityID:    payload.EntityID,
		Action:      models.AuditAction(payload.Action),
		PerformedBy: payload.PerformedBy,
		Changes:     payload.Changes,
	}
	if err := w.store.Insert(ctx, entry); err != nil {
		return fmt.Errorf("replay audit insert: %w", err)
	}

	slog.Info("replayed audit entry",
		"entity_type", entry.EntityType, "entity_id", entry.EntityID, "action", entry.Action)
	return nil
}
