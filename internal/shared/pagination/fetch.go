package pagination

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	sharedDomain "github.com/davicafu/relaypage/internal/shared/domain"
	sharedQuery "github.com/davicafu/relaypage/internal/shared/infra/platform/query"
)

// Fetcher es el puerto de lectura que implementan los repositorios paginables.
type Fetcher[T any] interface {
	ListByCriteria(ctx context.Context, criteria sharedDomain.Criteria, sort sharedQuery.Sort, limit int) ([]T, error)
	CountByCriteria(ctx context.Context, criteria sharedDomain.Criteria) (int, error)
}

// FetcherFuncs permite componer un Fetcher a partir de funciones (p.ej. un conteo con caché).
type FetcherFuncs[T any] struct {
	List  func(ctx context.Context, criteria sharedDomain.Criteria, sort sharedQuery.Sort, limit int) ([]T, error)
	Count func(ctx context.Context, criteria sharedDomain.Criteria) (int, error)
}

func (f FetcherFuncs[T]) ListByCriteria(ctx context.Context, criteria sharedDomain.Criteria, sort sharedQuery.Sort, limit int) ([]T, error) {
	return f.List(ctx, criteria, sort, limit)
}

func (f FetcherFuncs[T]) CountByCriteria(ctx context.Context, criteria sharedDomain.Criteria) (int, error) {
	return f.Count(ctx, criteria)
}

// Paginate ejecuta en paralelo la lectura y el conteo y ensambla la conexión.
// Si una de las dos falla se cancela la otra.
func Paginate[T any](ctx context.Context, fetcher Fetcher[T], scan Scan, args NormalizedArgs[string], opts ...AssembleOption[T]) (Connection[T], error) {
	var (
		items []T
		total int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = fetcher.ListByCriteria(gctx, scan.ListCriteria(), scan.Sort, scan.Limit)
		if err != nil {
			return fmt.Errorf("list page: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		total, err = fetcher.CountByCriteria(gctx, scan.CountCriteria())
		if err != nil {
			return fmt.Errorf("count total: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return Connection[T]{}, err
	}

	return Assemble(items, args, total, opts...), nil
}
