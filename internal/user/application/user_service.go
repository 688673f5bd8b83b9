package application

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	sharedDomain "github.com/davicafu/relaypage/internal/shared/domain"
	sharedEvents "github.com/davicafu/relaypage/internal/shared/events"
	sharedBus "github.com/davicafu/relaypage/internal/shared/infra/platform/bus"
	sharedCache "github.com/davicafu/relaypage/internal/shared/infra/platform/cache"
	"github.com/davicafu/relaypage/internal/shared/infra/platform/metrics"
	sharedUtils "github.com/davicafu/relaypage/internal/shared/infra/utils"
	"github.com/davicafu/relaypage/internal/shared/pagination"
	"github.com/davicafu/relaypage/internal/user/domain"
)

// UserService define los casos de uso relacionados con User.
type UserService struct {
	repo     domain.UserRepository
	counts   *sharedCache.CountStore
	events   sharedBus.EventPublisher
	maxLimit int
	log      *zap.Logger
}

// NewUserService acepta counts y events nil (sin caché de totales / sin eventos).
func NewUserService(repo domain.UserRepository, counts *sharedCache.CountStore, events sharedBus.EventPublisher, maxLimit int, log *zap.Logger) *UserService {
	return &UserService{
		repo:     repo,
		counts:   counts,
		events:   events,
		maxLimit: maxLimit,
		log:      log,
	}
}

func (s *UserService) CreateUser(ctx context.Context, organizationID, email, name string) (*domain.User, error) {
	user, err := domain.NewUser(organizationID, email, name)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.publish(ctx, domain.UserCreated, user.OrganizationID, sharedEvents.UserCreated{
		ID:             user.ID,
		OrganizationID: user.OrganizationID,
		Email:          user.Email,
		Name:           user.Name,
	})
	return user, nil
}

// GetUser reintenta los fallos transitorios del repositorio; ErrUserNotFound no se reintenta.
func (s *UserService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	var user *domain.User
	err := sharedUtils.Retry(ctx, 3, 100*time.Millisecond, func() error {
		var err error
		user, err = s.repo.GetByID(ctx, id)
		if errors.Is(err, domain.ErrUserNotFound) {
			return sharedUtils.Permanent(err)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// TagUser etiqueta al usuario; a partir de ahí queda fuera de los listados con excludeTagId=tagID.
func (s *UserService) TagUser(ctx context.Context, userID, tagID string) (*domain.User, error) {
	if _, err := uuid.Parse(tagID); err != nil {
		return nil, domain.ErrInvalidTag
	}

	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Tag(ctx, user.ID, tagID); err != nil {
		return nil, err
	}

	s.publish(ctx, domain.UserTagged, user.OrganizationID, sharedEvents.UserTagged{
		UserID:         user.ID,
		OrganizationID: user.OrganizationID,
		TagID:          tagID,
	})
	return user, nil
}

// ListOrganizationUsers pagina los usuarios de una organización, más nuevos primero.
// Los errores de argumentos se devuelven como pagination.ArgumentErrors.
func (s *UserService) ListOrganizationUsers(
	ctx context.Context,
	organizationID string,
	req pagination.Request,
	where domain.UserWhere,
) (pagination.Connection[*domain.User], error) {
	if _, err := uuid.Parse(organizationID); err != nil {
		return pagination.Connection[*domain.User]{}, domain.ErrOrganizationRequired
	}

	resolver := pagination.ExistenceResolver(pagination.IdentityCodec{}, func(ctx context.Context, id string) (bool, error) {
		return s.repo.ExistsInOrganization(ctx, organizationID, id)
	})

	res, err := pagination.ParseWithWhere(ctx, req, s.maxLimit, resolver, where, domain.ParseUserWhere)
	if err != nil {
		s.log.Error("Failed to resolve users cursor", zap.String("organization_id", organizationID), zap.Error(err))
		metrics.ObservePage(domain.CountScope, "", metrics.OutcomeFailed, 0)
		return pagination.Connection[*domain.User]{}, err
	}
	if !res.IsSuccessful() {
		s.log.Debug("Invalid pagination arguments", zap.String("organization_id", organizationID), zap.Error(res.Err()))
		metrics.ObservePage(domain.CountScope, "", metrics.OutcomeInvalid, 0)
		return pagination.Connection[*domain.User]{}, res.Err()
	}

	args := res.Value()
	scan := pagination.NewScan(args.NormalizedArgs, args.Where.Criteria(organizationID))
	scopeKey := sharedCache.ScopeKey(domain.CountScope, organizationID)

	fetcher := pagination.FetcherFuncs[*domain.User]{
		List: s.repo.ListByCriteria,
		Count: func(ctx context.Context, criteria sharedDomain.Criteria) (int, error) {
			return s.counts.Count(ctx, scopeKey, sharedCache.Fingerprint(criteria), func(ctx context.Context) (int, error) {
				return s.repo.CountByCriteria(ctx, criteria)
			})
		},
	}

	conn, err := pagination.Paginate[*domain.User](ctx, fetcher, scan, args.NormalizedArgs)
	if err != nil {
		s.log.Error("Failed to list organization users", zap.String("organization_id", organizationID), zap.Error(err))
		metrics.ObservePage(domain.CountScope, string(args.Direction), metrics.OutcomeFailed, 0)
		return pagination.Connection[*domain.User]{}, err
	}

	metrics.ObservePage(domain.CountScope, string(args.Direction), metrics.OutcomeOK, len(conn.Edges))
	return conn, nil
}

// publish no falla la operación: el cambio ya está persistido.
func (s *UserService) publish(ctx context.Context, eventType, key string, data interface{}) {
	if s.events == nil {
		return
	}
	evt, err := sharedEvents.New(eventType, key, data)
	if err == nil {
		err = s.events.Publish(ctx, evt)
	}
	if err != nil {
		s.log.Warn("Failed to publish user event", zap.String("type", eventType), zap.Error(err))
	}
}
