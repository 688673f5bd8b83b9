package events

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	sharedEvents "github.com/davicafu/relaypage/internal/shared/events"
	sharedCache "github.com/davicafu/relaypage/internal/shared/infra/platform/cache"
	sharedUtils "github.com/davicafu/relaypage/internal/shared/infra/utils"
	userDomain "github.com/davicafu/relaypage/internal/user/domain"
)

// UserConsumer mantiene coherente la caché de totales: cualquier alta o etiqueta
// cambia el total de la organización.
type UserConsumer struct {
	counts *sharedCache.CountStore
	log    *zap.Logger
}

func NewUserConsumer(counts *sharedCache.CountStore, logger *zap.Logger) *UserConsumer {
	return &UserConsumer{
		counts: counts,
		log:    logger,
	}
}

func (c *UserConsumer) HandleMessage(ctx context.Context, key string, payload []byte) {
	var base sharedEvents.IntegrationEvent
	if err := json.Unmarshal(payload, &base); err != nil {
		c.log.Warn("Failed to unmarshal integration event", zap.String("key", key), zap.Error(err))
		return
	}

	switch base.Type {
	case userDomain.UserCreated:
		sharedUtils.UnmarshalAndHandle[sharedEvents.UserCreated](c.log, base.Data, func(evt sharedEvents.UserCreated) {
			c.invalidate(ctx, evt.OrganizationID, base.Type)
		})

	case userDomain.UserTagged:
		sharedUtils.UnmarshalAndHandle[sharedEvents.UserTagged](c.log, base.Data, func(evt sharedEvents.UserTagged) {
			c.invalidate(ctx, evt.OrganizationID, base.Type)
		})

	default:
		c.log.Warn("Unknown event type", zap.String("type", base.Type))
	}
}

func (c *UserConsumer) invalidate(ctx context.Context, organizationID, eventType string) {
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()

	key := sharedCache.ScopeKey(userDomain.CountScope, organizationID)
	if err := c.counts.Invalidate(ctx, key); err != nil {
		c.log.Warn("Failed to invalidate user counts",
			zap.String("organization_id", organizationID),
			zap.String("event", eventType),
			zap.Error(err),
		)
		return
	}
	c.log.Debug("User counts invalidated", zap.String("key", key), zap.String("event", eventType))
}
