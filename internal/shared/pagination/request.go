package pagination

// Direction indica el sentido del recorrido.
type Direction string

const (
	Forward  Direction = "FORWARD"
	Backward Direction = "BACKWARD"
)

// Request son los cuatro argumentos Relay tal cual llegan del cliente.
type Request struct {
	First  *int    `json:"first,omitempty"`
	After  *string `json:"after,omitempty"`
	Last   *int    `json:"last,omitempty"`
	Before *string `json:"before,omitempty"`
}

// NormalizedArgs es la petición validada.
// Limit siempre es la cantidad pedida + 1 (fila centinela).
type NormalizedArgs[C any] struct {
	Cursor    *C
	Direction Direction
	Limit     int
}

// PageSize es la cantidad que pidió el cliente, sin la fila centinela.
func (a NormalizedArgs[C]) PageSize() int {
	return a.Limit - 1
}

// ArgsWithWhere añade el filtro específico de la entidad.
type ArgsWithWhere[C, W any] struct {
	NormalizedArgs[C]
	Where W
}

// ArgsWithSortedBy añade el orden específico de la entidad.
type ArgsWithSortedBy[C, S any] struct {
	NormalizedArgs[C]
	SortedBy S
}

// ArgsWithSortedByAndWhere combina ambos.
type ArgsWithSortedByAndWhere[C, S, W any] struct {
	NormalizedArgs[C]
	SortedBy S
	Where    W
}
