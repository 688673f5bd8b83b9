package cache

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	sharedDomain "github.com/davicafu/relaypage/internal/shared/domain"
	"github.com/davicafu/relaypage/internal/shared/infra/platform/metrics"
)

// CountStore memoriza totales de listados agrupados por ámbito (organización, responsable...).
// Cada ámbito es una sola clave con un mapa huella -> total, así un evento invalida todas
// las variantes de filtro de una vez.
//
// El ámbito lleva además una generación en "<scope>:gen". Invalidate la renueva, y una
// entrada escrita con una generación anterior se ignora aunque su escritura llegue tarde.
type CountStore struct {
	cache Cache
	ttl   int
	log   *zap.Logger
}

func NewCountStore(cache Cache, ttlSecs int, log *zap.Logger) *CountStore {
	return &CountStore{cache: cache, ttl: ttlSecs, log: log}
}

// ScopeKey forma la clave del ámbito, p.ej. "user:count:<orgID>".
func ScopeKey(entity, scope string) string {
	return fmt.Sprintf("%s:count:%s", entity, scope)
}

// Fingerprint identifica de forma determinista un conjunto de condiciones.
func Fingerprint(criteria sharedDomain.Criteria) string {
	if criteria == nil {
		return "*"
	}
	return fmt.Sprintf("%v", criteria.ToConditions())
}

type scopeEntry struct {
	Generation string         `json:"generation"`
	Totals     map[string]int `json:"totals"`
}

func generationKey(scopeKey string) string {
	return scopeKey + ":gen"
}

// Count devuelve el total cacheado o lo calcula con count y lo guarda en background.
// Un fallo de la caché nunca falla la petición.
func (s *CountStore) Count(ctx context.Context, scopeKey, fingerprint string, count func(context.Context) (int, error)) (int, error) {
	if s == nil || s.cache == nil {
		return count(ctx)
	}

	gen, err := s.generation(ctx, scopeKey)
	if err != nil {
		s.log.Warn("Count cache generation read failed", zap.String("key", scopeKey), zap.Error(err))
		return count(ctx)
	}

	var entry scopeEntry
	hit, err := s.cache.Get(ctx, scopeKey, &entry)
	if err != nil {
		s.log.Warn("Count cache read failed", zap.String("key", scopeKey), zap.Error(err))
	}
	current := hit && entry.Generation == gen
	if current {
		if n, ok := entry.Totals[fingerprint]; ok {
			metrics.ObserveCountCache(true)
			return n, nil
		}
	}
	metrics.ObserveCountCache(false)

	n, err := count(ctx)
	if err != nil {
		return 0, err
	}

	updated := map[string]int{fingerprint: n}
	if current {
		for k, v := range entry.Totals {
			if k != fingerprint {
				updated[k] = v
			}
		}
	}
	// La generación es la leída antes de contar: si hubo un Invalidate entre medias, la entrada nace caducada.
	AsyncCacheSet(s.cache, scopeKey, scopeEntry{Generation: gen, Totals: updated}, s.ttl, s.log)

	return n, nil
}

// generation devuelve la generación vigente del ámbito, "" si nunca se invalidó.
func (s *CountStore) generation(ctx context.Context, scopeKey string) (string, error) {
	var gen string
	if _, err := s.cache.Get(ctx, generationKey(scopeKey), &gen); err != nil {
		return "", err
	}
	return gen, nil
}

// Invalidate descarta todos los totales de un ámbito. La generación nueva vive el doble que las entradas.
func (s *CountStore) Invalidate(ctx context.Context, scopeKey string) error {
	if s == nil || s.cache == nil {
		return nil
	}
	if err := s.cache.Set(ctx, generationKey(scopeKey), uuid.NewString(), 2*s.ttl); err != nil {
		return err
	}
	return s.cache.Delete(ctx, scopeKey)
}
