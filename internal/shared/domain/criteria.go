package domain

// ---------------- Operadores ----------------

type Operator string

const (
	OpEq    Operator = "="
	OpGt    Operator = ">"
	OpGte   Operator = ">="
	OpLt    Operator = "<"
	OpLte   Operator = "<="
	OpLike  Operator = "LIKE"
	OpILike Operator = "ILIKE"
	// OpPrefix compara el comienzo del campo sin distinguir mayúsculas.
	OpPrefix Operator = "PREFIX"
	// OpNotMember excluye filas enlazadas mediante una tabla de unión (Value es Membership).
	OpNotMember Operator = "NOT MEMBER"
)

// ---------------- Criterion ----------------

// Criterion describe una condición neutral de filtrado
type Criterion struct {
	Field string
	Op    Operator
	Value interface{}
}

// Membership describe una relación N:M: filas de Table cuya columna Key vale Value,
// unidas a la entidad por la columna ForeignKey.
type Membership struct {
	Table      string
	ForeignKey string
	Key        string
	Value      interface{}
}

// ---------------- Criteria interface ----------------

// Criteria permite transformar filtros a condiciones neutrales
type Criteria interface {
	ToConditions() []Criterion
}

// Conditions adapta una lista fija de condiciones a Criteria.
type Conditions []Criterion

func (c Conditions) ToConditions() []Criterion {
	return c
}

// ---------------- Composite Criteria ----------------

// CompositeCriteria es la conjunción de varios criterios. Los traductores unen todas
// las condiciones con AND.
type CompositeCriteria struct {
	Criterias []Criteria
}

func (c CompositeCriteria) ToConditions() []Criterion {
	var all []Criterion
	for _, crit := range c.Criterias {
		if crit == nil {
			continue
		}
		all = append(all, crit.ToConditions()...)
	}
	return all
}

// ---------------- Helpers ----------------

// And combina criterios; los nil se ignoran.
func And(criterias ...Criteria) CompositeCriteria {
	return CompositeCriteria{Criterias: criterias}
}
