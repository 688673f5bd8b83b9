package pagination

import (
	sharedDomain "github.com/davicafu/relaypage/internal/shared/domain"
	sharedQuery "github.com/davicafu/relaypage/internal/shared/infra/platform/query"
)

// DefaultIDField es la columna del identificador ordenable.
const DefaultIDField = "id"

// SortOrder es el orden por identificador que puede pedir una entidad.
type SortOrder string

const (
	Ascending  SortOrder = "ASCENDING"
	Descending SortOrder = "DESCENDING"
)

// Valid indica si es un valor conocido.
func (o SortOrder) Valid() bool {
	return o == Ascending || o == Descending
}

// scanPlan resuelve la tabla de verdad orden x dirección.
// El comparador y el orden siempre "avanzan" hacia el mismo lado.
func scanPlan(direction Direction, order SortOrder) (sharedDomain.Operator, bool) {
	if order == Ascending {
		if direction == Backward {
			return sharedDomain.OpLt, true
		}
		return sharedDomain.OpGt, false
	}

	// Descendente (más nuevos primero) por defecto
	if direction == Backward {
		return sharedDomain.OpGt, false
	}
	return sharedDomain.OpLt, true
}

// BuildFilter devuelve la condición por identificador para el cursor, o ninguna si cursor es nil.
func BuildFilter(field string, cursor *string, direction Direction, order SortOrder) sharedDomain.Criteria {
	if cursor == nil {
		return sharedDomain.Conditions{}
	}
	op, _ := scanPlan(direction, order)
	return sharedDomain.Conditions{{Field: field, Op: op, Value: *cursor}}
}

// BuildSort devuelve el orden del recorrido interno.
func BuildSort(field string, direction Direction, order SortOrder) sharedQuery.Sort {
	_, desc := scanPlan(direction, order)
	return sharedQuery.Sort{Field: field, Desc: desc}
}

// ---------------- Scan ----------------

// Scan es la lectura que el llamante debe ejecutar contra su almacenamiento.
type Scan struct {
	// IDFilter es un artefacto de la paginación: nunca entra en el conteo.
	IDFilter sharedDomain.Criteria
	Entity   sharedDomain.Criteria
	Sort     sharedQuery.Sort
	Limit    int
}

// ListCriteria es filtro por identificador AND filtros de la entidad.
func (s Scan) ListCriteria() sharedDomain.Criteria {
	return sharedDomain.And(s.IDFilter, s.Entity)
}

// CountCriteria son sólo los filtros de la entidad.
func (s Scan) CountCriteria() sharedDomain.Criteria {
	return sharedDomain.And(s.Entity)
}

type scanConfig struct {
	field string
	order SortOrder
}

type ScanOption func(*scanConfig)

// WithIDField cambia la columna del identificador (p.ej. "_id" en MongoDB).
func WithIDField(field string) ScanOption {
	return func(c *scanConfig) { c.field = field }
}

// WithSortByID aplica el orden pedido por la entidad; un valor vacío mantiene el descendente.
func WithSortByID(order SortOrder) ScanOption {
	return func(c *scanConfig) {
		if order != "" {
			c.order = order
		}
	}
}

// NewScan deriva filtro, orden y límite a partir de los argumentos normalizados.
func NewScan(args NormalizedArgs[string], entity sharedDomain.Criteria, opts ...ScanOption) Scan {
	cfg := scanConfig{field: DefaultIDField, order: Descending}
	for _, opt := range opts {
		opt(&cfg)
	}

	return Scan{
		IDFilter: BuildFilter(cfg.field, args.Cursor, args.Direction, cfg.order),
		Entity:   entity,
		Sort:     BuildSort(cfg.field, args.Direction, cfg.order),
		Limit:    args.Limit,
	}
}
