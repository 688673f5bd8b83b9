// Package mongocriteria traduce criterios neutrales a filtros y orden de MongoDB.
package mongocriteria

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"

	sharedDomain "github.com/davicafu/relaypage/internal/shared/domain"
	sharedQuery "github.com/davicafu/relaypage/internal/shared/infra/platform/query"
)

var (
	ErrUnknownField  = errors.New("unknown field")
	ErrUnsupportedOp = errors.New("unsupported operator")
)

// Fields es la lista blanca campo -> clave del documento.
type Fields map[string]string

func (f Fields) key(field string) (string, error) {
	k, ok := f[field]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	return k, nil
}

// Filter traduce criteria a un filtro bson. Varias condiciones sobre la misma
// clave se fusionan en un único sub-documento ({_id: {$lt: a, $gt: b}}).
func Filter(criteria sharedDomain.Criteria, fields Fields) (bson.D, error) {
	filter := bson.D{}
	if criteria == nil {
		return filter, nil
	}

	index := map[string]int{}
	for _, c := range criteria.ToConditions() {
		key, err := fields.key(c.Field)
		if err != nil {
			return nil, err
		}
		ops, err := operators(c)
		if err != nil {
			return nil, err
		}

		if i, ok := index[key]; ok {
			filter[i].Value = append(filter[i].Value.(bson.D), ops...)
			continue
		}
		index[key] = len(filter)
		filter = append(filter, bson.E{Key: key, Value: ops})
	}
	return filter, nil
}

func operators(c sharedDomain.Criterion) (bson.D, error) {
	switch c.Op {
	case sharedDomain.OpEq:
		return bson.D{{Key: "$eq", Value: c.Value}}, nil
	case sharedDomain.OpGt:
		return bson.D{{Key: "$gt", Value: c.Value}}, nil
	case sharedDomain.OpGte:
		return bson.D{{Key: "$gte", Value: c.Value}}, nil
	case sharedDomain.OpLt:
		return bson.D{{Key: "$lt", Value: c.Value}}, nil
	case sharedDomain.OpLte:
		return bson.D{{Key: "$lte", Value: c.Value}}, nil
	}

	s, ok := c.Value.(string)
	if !ok {
		return nil, fmt.Errorf("%w: %s on %s needs a string", ErrUnsupportedOp, c.Op, c.Field)
	}
	switch c.Op {
	case sharedDomain.OpLike:
		return bson.D{{Key: "$regex", Value: likeToRegex(s)}}, nil
	case sharedDomain.OpILike:
		return bson.D{{Key: "$regex", Value: likeToRegex(s)}, {Key: "$options", Value: "i"}}, nil
	case sharedDomain.OpPrefix:
		return bson.D{{Key: "$regex", Value: "^" + regexp.QuoteMeta(s)}, {Key: "$options", Value: "i"}}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedOp, c.Op)
}

// likeToRegex convierte un patrón LIKE (% y _) en una expresión anclada.
func likeToRegex(pattern string) string {
	var b strings.Builder
	b.WriteString("^")
	for _, r := range pattern {
		switch r {
		case '%':
			b.WriteString(".*")
		case '_':
			b.WriteString(".")
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteString("$")
	return b.String()
}

// Sort traduce el orden a bson.D {campo: 1|-1}.
func Sort(sort sharedQuery.Sort, fields Fields) (bson.D, error) {
	key, err := fields.key(sort.Field)
	if err != nil {
		return nil, err
	}
	dir := 1
	if sort.Desc {
		dir = -1
	}
	return bson.D{{Key: key, Value: dir}}, nil
}
