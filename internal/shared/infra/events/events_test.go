package events

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	sharedEvents "github.com/davicafu/relaypage/internal/shared/events"
)

type recordingHandler struct {
	mu       sync.Mutex
	payloads [][]byte
}

func (h *recordingHandler) HandleMessage(_ context.Context, _ string, payload []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.payloads = append(h.payloads, payload)
}

func (h *recordingHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.payloads)
}

func TestInMemoryEventBus_DeliversToSubscribers(t *testing.T) {
	// Arrange
	bus := NewInMemoryEventBus("user")
	ch := bus.Subscribe(4)
	evt, err := sharedEvents.New("user.created", "u-1", sharedEvents.UserCreated{ID: "u-1", OrganizationID: "org-1"})
	require.NoError(t, err)

	// Act
	require.NoError(t, bus.Publish(context.Background(), evt))

	// Assert
	select {
	case msg := <-ch:
		var got sharedEvents.IntegrationEvent
		require.NoError(t, json.Unmarshal(msg.([]byte), &got))
		assert.Equal(t, "user.created", got.Type)
		assert.Equal(t, "u-1", got.PartitionKey())
	case <-time.After(time.Second):
		t.Fatal("el suscriptor no recibió el evento")
	}
}

func TestInMemoryEventBus_FullBufferDoesNotBlock(t *testing.T) {
	bus := NewInMemoryEventBus("task")
	_ = bus.Subscribe(1)

	require.NoError(t, bus.Publish(context.Background(), "a"))
	require.NoError(t, bus.Publish(context.Background(), "b"))
	assert.Equal(t, "task", bus.Topic())
}

func TestBackgroundConsumerChan(t *testing.T) {
	// Arrange
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	bus := NewInMemoryEventBus("task")
	handler := &recordingHandler{}
	BackgroundConsumerChan(ctx, bus.Subscribe(8), handler, zap.NewNop())

	// Act
	require.NoError(t, bus.Publish(ctx, map[string]string{"type": "task.created"}))
	require.NoError(t, bus.Publish(ctx, map[string]string{"type": "task.updated"}))

	// Assert
	assert.Eventually(t, func() bool { return handler.count() == 2 }, time.Second, 10*time.Millisecond)
}
