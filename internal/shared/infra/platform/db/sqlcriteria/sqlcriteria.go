// Package sqlcriteria traduce criterios neutrales a SQL para los distintos motores.
package sqlcriteria

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	sharedDomain "github.com/davicafu/relaypage/internal/shared/domain"
	sharedQuery "github.com/davicafu/relaypage/internal/shared/infra/platform/query"
)

var (
	ErrUnknownField      = errors.New("unknown field")
	ErrUnsupportedOp     = errors.New("unsupported operator")
	ErrInvalidMembership = errors.New("invalid membership criterion")

	identifier  = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
)

// Dialect fija el estilo de placeholders y la comparación insensible a mayúsculas.
type Dialect int

const (
	Postgres Dialect = iota
	SQLite
	ClickHouse
)

func (d Dialect) String() string {
	switch d {
	case Postgres:
		return "postgres"
	case SQLite:
		return "sqlite"
	case ClickHouse:
		return "clickhouse"
	}
	return "unknown"
}

// Placeholder devuelve el marcador del argumento n (1-based).
func (d Dialect) Placeholder(n int) string {
	if d == Postgres {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// ilike compara col con ph sin distinguir mayúsculas. En SQLite ambos lados se pliegan
// con LowerFunc, por eso el argumento pasa por fold.
func (d Dialect) ilike(col, ph string) string {
	if d == SQLite {
		return fmt.Sprintf("%s(%s) LIKE %s", LowerFunc, col, ph)
	}
	return fmt.Sprintf("%s ILIKE %s", col, ph)
}

func (d Dialect) fold(v interface{}) interface{} {
	if s, ok := v.(string); ok && d == SQLite {
		return strings.ToLower(s)
	}
	return v
}

// ClickHouse no admite ESCAPE: la barra invertida ya es el escape de LIKE.
func (d Dialect) escape() string {
	if d == ClickHouse {
		return ""
	}
	return ` ESCAPE '\'`
}

// Columns es la lista blanca campo -> columna.
type Columns map[string]string

func (c Columns) column(field string) (string, error) {
	col, ok := c[field]
	if !ok || !identifier.MatchString(col) {
		return "", fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	return col, nil
}

// ---------------- Where ----------------

// Where traduce criteria a una expresión unida por AND y sus argumentos.
// Una expresión vacía significa "sin filtro".
func Where(criteria sharedDomain.Criteria, d Dialect, cols Columns) (string, []interface{}, error) {
	if criteria == nil {
		return "", nil, nil
	}

	var (
		clauses []string
		args    []interface{}
	)
	for _, c := range criteria.ToConditions() {
		col, err := cols.column(c.Field)
		if err != nil {
			return "", nil, err
		}
		ph := d.Placeholder(len(args) + 1)

		switch c.Op {
		case sharedDomain.OpEq, sharedDomain.OpGt, sharedDomain.OpGte, sharedDomain.OpLt, sharedDomain.OpLte, sharedDomain.OpLike:
			clauses = append(clauses, fmt.Sprintf("%s %s %s", col, c.Op, ph))
			args = append(args, c.Value)

		case sharedDomain.OpILike:
			clauses = append(clauses, d.ilike(col, ph))
			args = append(args, d.fold(c.Value))

		case sharedDomain.OpPrefix:
			prefix, ok := c.Value.(string)
			if !ok {
				return "", nil, fmt.Errorf("%w: prefix on %s must be a string", ErrUnsupportedOp, c.Field)
			}
			clauses = append(clauses, d.ilike(col, ph)+d.escape())
			args = append(args, d.fold(likeEscaper.Replace(prefix)+"%"))

		case sharedDomain.OpNotMember:
			m, ok := c.Value.(sharedDomain.Membership)
			if !ok || !identifier.MatchString(m.Table) || !identifier.MatchString(m.ForeignKey) || !identifier.MatchString(m.Key) {
				return "", nil, fmt.Errorf("%w: %s", ErrInvalidMembership, c.Field)
			}
			clauses = append(clauses, fmt.Sprintf("%s NOT IN (SELECT %s FROM %s WHERE %s = %s)",
				col, m.ForeignKey, m.Table, m.Key, ph))
			args = append(args, m.Value)

		default:
			return "", nil, fmt.Errorf("%w: %s", ErrUnsupportedOp, c.Op)
		}
	}

	return strings.Join(clauses, " AND "), args, nil
}

// OrderBy traduce el orden a "col ASC|DESC".
func OrderBy(sort sharedQuery.Sort, cols Columns) (string, error) {
	col, err := cols.column(sort.Field)
	if err != nil {
		return "", err
	}
	return col + " " + sort.Direction(), nil
}

// ---------------- Select ----------------

// Select compone "SELECT ... FROM ... [WHERE] ORDER BY ... LIMIT n".
func Select(d Dialect, projection, table string, criteria sharedDomain.Criteria, sort sharedQuery.Sort, limit int, cols Columns) (string, []interface{}, error) {
	whereSQL, args, err := Where(criteria, d, cols)
	if err != nil {
		return "", nil, err
	}
	orderSQL, err := OrderBy(sort, cols)
	if err != nil {
		return "", nil, err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "SELECT %s FROM %s", projection, table)
	if whereSQL != "" {
		b.WriteString(" WHERE " + whereSQL)
	}
	args = append(args, limit)
	fmt.Fprintf(&b, " ORDER BY %s LIMIT %s", orderSQL, d.Placeholder(len(args)))

	return b.String(), args, nil
}

// Count compone "SELECT COUNT(*) FROM ... [WHERE]".
func Count(d Dialect, table string, criteria sharedDomain.Criteria, cols Columns) (string, []interface{}, error) {
	whereSQL, args, err := Where(criteria, d, cols)
	if err != nil {
		return "", nil, err
	}
	query := "SELECT COUNT(*) FROM " + table
	if whereSQL != "" {
		query += " WHERE " + whereSQL
	}
	return query, args, nil
}
