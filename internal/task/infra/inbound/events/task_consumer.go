package events

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	sharedEvents "github.com/davicafu/relaypage/internal/shared/events"
	sharedCache "github.com/davicafu/relaypage/internal/shared/infra/platform/cache"
	sharedUtils "github.com/davicafu/relaypage/internal/shared/infra/utils"
	taskDomain "github.com/davicafu/relaypage/internal/task/domain"
)

// TaskConsumer registra el historial de cada cambio y descarta los totales afectados.
type TaskConsumer struct {
	activity taskDomain.ActivityRepository
	counts   *sharedCache.CountStore
	log      *zap.Logger
}

// NewTaskConsumer acepta activity nil (sin almacén de historial).
func NewTaskConsumer(activity taskDomain.ActivityRepository, counts *sharedCache.CountStore, logger *zap.Logger) *TaskConsumer {
	return &TaskConsumer{
		activity: activity,
		counts:   counts,
		log:      logger,
	}
}

// HandleMessage es el punto de entrada para un nuevo mensaje/evento.
func (c *TaskConsumer) HandleMessage(ctx context.Context, key string, payload []byte) {
	var base sharedEvents.IntegrationEvent
	if err := json.Unmarshal(payload, &base); err != nil {
		c.log.Warn("Failed to unmarshal integration event for task", zap.String("key", key), zap.Error(err))
		return
	}

	switch base.Type {
	case taskDomain.TaskCreated:
		sharedUtils.UnmarshalAndHandle[sharedEvents.TaskCreated](c.log, base.Data, func(evt sharedEvents.TaskCreated) {
			c.handle(ctx, base.Type, evt.ID, evt.AssigneeID, evt.Title, evt.Status, evt.OccurredAt)
		})

	case taskDomain.TaskUpdated:
		sharedUtils.UnmarshalAndHandle[sharedEvents.TaskUpdated](c.log, base.Data, func(evt sharedEvents.TaskUpdated) {
			c.handle(ctx, base.Type, evt.ID, evt.AssigneeID, evt.Title, evt.Status, evt.OccurredAt)
		})

	default:
		c.log.Warn("Unknown task event type", zap.String("type", base.Type), zap.String("key", key))
	}
}

func (c *TaskConsumer) handle(ctx context.Context, eventType, taskID, assigneeID, title, status string, occurredAt time.Time) {
	ctxTask, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()

	if c.activity != nil {
		entry, err := taskDomain.NewActivity(eventType, taskID, assigneeID, title, taskDomain.TaskStatus(status), occurredAt)
		if err == nil {
			err = c.activity.LogBatch(ctxTask, []*taskDomain.Activity{entry})
		}
		if err != nil {
			c.log.Warn("Failed to record task activity", zap.String("task_id", taskID), zap.Error(err))
		}
	}

	for _, key := range []string{
		sharedCache.ScopeKey(taskDomain.CountScope, assigneeID),
		sharedCache.ScopeKey(taskDomain.ActivityCountScope, taskID),
	} {
		if err := c.counts.Invalidate(ctxTask, key); err != nil {
			c.log.Warn("Failed to invalidate task counts", zap.String("key", key), zap.Error(err))
		}
	}

	c.log.Debug("Task event processed", zap.String("type", eventType), zap.String("task_id", taskID))
}
