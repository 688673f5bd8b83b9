package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	sharedEvents "github.com/davicafu/relaypage/internal/shared/events"
	sharedCache "github.com/davicafu/relaypage/internal/shared/infra/platform/cache"
	taskDomain "github.com/davicafu/relaypage/internal/task/domain"
	"github.com/davicafu/relaypage/tests/mocks"
)

func payload(t *testing.T, eventType, key string, data interface{}) []byte {
	t.Helper()
	evt, err := sharedEvents.New(eventType, key, data)
	require.NoError(t, err)
	b, err := json.Marshal(evt)
	require.NoError(t, err)
	return b
}

func TestTaskConsumer_RecordsActivityAndInvalidates(t *testing.T) {
	// Arrange
	ctx := context.Background()
	activity := mocks.NewInMemoryActivityRepo()
	cache := mocks.NewDummyCache()
	consumer := NewTaskConsumer(activity, sharedCache.NewCountStore(cache, 60, zap.NewNop()), zap.NewNop())

	taskID, assignee := uuid.NewString(), uuid.NewString()
	assigneeKey := sharedCache.ScopeKey(taskDomain.CountScope, assignee)
	activityKey := sharedCache.ScopeKey(taskDomain.ActivityCountScope, taskID)
	require.NoError(t, cache.Set(ctx, assigneeKey, map[string]int{"*": 1}, 60))
	require.NoError(t, cache.Set(ctx, activityKey, map[string]int{"*": 1}, 60))

	// Act
	consumer.HandleMessage(ctx, assignee, payload(t, taskDomain.TaskCreated, assignee, sharedEvents.TaskCreated{
		ID: taskID, AssigneeID: assignee, Title: "t", Status: "pending", OccurredAt: time.Now(),
	}))
	consumer.HandleMessage(ctx, assignee, payload(t, taskDomain.TaskUpdated, assignee, sharedEvents.TaskUpdated{
		ID: taskID, AssigneeID: assignee, Title: "t", Status: "completed", OccurredAt: time.Now(),
	}))

	// Assert
	assert.Equal(t, 2, activity.Len())
	n, err := activity.CountByCriteria(ctx, taskDomain.TaskActivityCriteria{TaskID: taskID})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.False(t, cache.Has(assigneeKey))
	assert.False(t, cache.Has(activityKey))
}

func TestTaskConsumer_IgnoresUnknown(t *testing.T) {
	activity := mocks.NewInMemoryActivityRepo()
	consumer := NewTaskConsumer(activity, nil, zap.NewNop())

	consumer.HandleMessage(context.Background(), "", []byte("{"))
	consumer.HandleMessage(context.Background(), "", payload(t, "user.created", "", map[string]string{}))

	assert.Equal(t, 0, activity.Len())
}
