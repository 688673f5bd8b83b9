package mocks

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	sharedEvents "github.com/davicafu/relaypage/internal/shared/events"
	sharedBus "github.com/davicafu/relaypage/internal/shared/infra/platform/bus"
)

// MockPublisher simula un publisher con expectativas de testify.
type MockPublisher struct {
	mock.Mock
}

var _ sharedBus.EventPublisher = (*MockPublisher)(nil)

func (m *MockPublisher) Publish(ctx context.Context, event interface{}) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// RecordingPublisher guarda los eventos de integración publicados.
type RecordingPublisher struct {
	mu     sync.Mutex
	events []sharedEvents.IntegrationEvent
}

var _ sharedBus.EventPublisher = (*RecordingPublisher)(nil)

func (p *RecordingPublisher) Publish(ctx context.Context, event interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if evt, ok := event.(sharedEvents.IntegrationEvent); ok {
		p.events = append(p.events, evt)
	}
	return nil
}

// Types devuelve los tipos publicados en orden.
func (p *RecordingPublisher) Types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

func (p *RecordingPublisher) Events() []sharedEvents.IntegrationEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]sharedEvents.IntegrationEvent(nil), p.events...)
}
