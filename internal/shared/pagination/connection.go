package pagination

import "fmt"

// Edge es un elemento de la página junto a su cursor.
type Edge[T any] struct {
	Cursor string `json:"cursor"`
	Node   T      `json:"node"`
}

// PageInfo sigue la forma de Relay; los cursores son null cuando no hay aristas.
type PageInfo struct {
	StartCursor     *string `json:"startCursor"`
	EndCursor       *string `json:"endCursor"`
	HasNextPage     bool    `json:"hasNextPage"`
	HasPreviousPage bool    `json:"hasPreviousPage"`
}

// Connection es el resultado paginado.
type Connection[T any] struct {
	Edges      []Edge[T] `json:"edges"`
	PageInfo   PageInfo  `json:"pageInfo"`
	TotalCount int       `json:"totalCount"`
}

// Nodes devuelve los nodos en orden.
func (c Connection[T]) Nodes() []T {
	nodes := make([]T, 0, len(c.Edges))
	for _, e := range c.Edges {
		nodes = append(nodes, e.Node)
	}
	return nodes
}

// EmptyConnection es la conexión canónica sin resultados.
func EmptyConnection[T any]() Connection[T] {
	return Connection[T]{Edges: []Edge[T]{}}
}

// Identifiable lo implementan las entidades cuyo identificador sirve de cursor.
type Identifiable interface {
	CursorID() string
}

// ---------------- Opciones ----------------

type assembleConfig[T any] struct {
	cursor func(T) string
	node   func(T) T
	codec  Codec
}

type AssembleOption[T any] func(*assembleConfig[T])

// WithCursor sustituye la extracción del cursor por defecto.
func WithCursor[T any](fn func(T) string) AssembleOption[T] {
	return func(c *assembleConfig[T]) { c.cursor = fn }
}

// WithNode transforma cada objeto antes de colocarlo en la arista.
func WithNode[T any](fn func(T) T) AssembleOption[T] {
	return func(c *assembleConfig[T]) { c.node = fn }
}

// WithCodec codifica el identificador por defecto con codec.
func WithCodec[T any](codec Codec) AssembleOption[T] {
	return func(c *assembleConfig[T]) { c.codec = codec }
}

func defaultCursor[T any](obj T) string {
	if id, ok := any(obj).(Identifiable); ok {
		return id.CursorID()
	}
	return fmt.Sprint(obj)
}

// ---------------- Assemble ----------------

// Assemble construye la conexión a partir de la lectura sobredimensionada.
//
// objects viene en el orden del recorrido interno y puede traer la fila centinela
// (len == args.Limit). Nunca se modifica el slice recibido.
func Assemble[T, C any](objects []T, args NormalizedArgs[C], totalCount int, opts ...AssembleOption[T]) Connection[T] {
	if totalCount == 0 {
		return EmptyConnection[T]()
	}

	cfg := assembleConfig[T]{codec: IdentityCodec{}}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.cursor == nil {
		codec := cfg.codec
		cfg.cursor = func(obj T) string { return codec.Encode(defaultCursor(obj)) }
	}

	conn := EmptyConnection[T]()
	conn.TotalCount = totalCount

	list := objects
	switch args.Direction {
	case Backward:
		if args.Cursor != nil {
			conn.PageInfo.HasNextPage = true
		}
		if len(list) == 0 {
			return conn
		}
		if len(list) == args.Limit {
			conn.PageInfo.HasPreviousPage = true
			list = list[:len(list)-1]
		}
		list = reversed(list)

	default:
		if args.Cursor != nil {
			conn.PageInfo.HasPreviousPage = true
		}
		if len(list) == 0 {
			return conn
		}
		if len(list) == args.Limit {
			conn.PageInfo.HasNextPage = true
			list = list[:len(list)-1]
		}
	}

	conn.Edges = make([]Edge[T], 0, len(list))
	for _, obj := range list {
		node := obj
		if cfg.node != nil {
			node = cfg.node(obj)
		}
		conn.Edges = append(conn.Edges, Edge[T]{Cursor: cfg.cursor(obj), Node: node})
	}

	if len(conn.Edges) > 0 {
		start := conn.Edges[0].Cursor
		end := conn.Edges[len(conn.Edges)-1].Cursor
		conn.PageInfo.StartCursor = &start
		conn.PageInfo.EndCursor = &end
	}

	return conn
}

func reversed[T any](in []T) []T {
	out := make([]T, len(in))
	for i, v := range in {
		out[len(in)-1-i] = v
	}
	return out
}
