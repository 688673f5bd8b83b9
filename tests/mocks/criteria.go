package mocks

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	sharedDomain "github.com/davicafu/relaypage/internal/shared/domain"
	sharedQuery "github.com/davicafu/relaypage/internal/shared/infra/platform/query"
)

// fieldGetter devuelve el valor textual de un campo neutral; ok=false si el campo no existe.
type fieldGetter[T any] func(item T, field string) (string, bool)

// memberChecker indica si id está enlazado según la relación m.
type memberChecker func(m sharedDomain.Membership, id string) bool

// matchAll evalúa las condiciones en memoria. A diferencia de un repo real, un campo
// desconocido hace fallar la condición para que los tests lo detecten.
func matchAll[T any](item T, get fieldGetter[T], conds []sharedDomain.Criterion, member memberChecker) bool {
	for _, c := range conds {
		v, ok := get(item, c.Field)
		if !ok || !matchOne(v, c, member) {
			return false
		}
	}
	return true
}

func matchOne(v string, c sharedDomain.Criterion, member memberChecker) bool {
	if c.Op == sharedDomain.OpNotMember {
		m, ok := c.Value.(sharedDomain.Membership)
		return ok && member != nil && !member(m, v)
	}

	want := fmt.Sprintf("%v", c.Value)
	switch c.Op {
	case sharedDomain.OpEq:
		return v == want
	case sharedDomain.OpLt:
		return v < want
	case sharedDomain.OpLte:
		return v <= want
	case sharedDomain.OpGt:
		return v > want
	case sharedDomain.OpGte:
		return v >= want
	case sharedDomain.OpPrefix:
		return strings.HasPrefix(strings.ToLower(v), strings.ToLower(want))
	case sharedDomain.OpLike:
		return likeRegexp(want, false).MatchString(v)
	case sharedDomain.OpILike:
		return likeRegexp(want, true).MatchString(v)
	}
	return false
}

func likeRegexp(pattern string, insensitive bool) *regexp.Regexp {
	quoted := regexp.QuoteMeta(pattern)
	quoted = strings.ReplaceAll(quoted, "%", ".*")
	quoted = strings.ReplaceAll(quoted, "_", ".")
	if insensitive {
		quoted = "(?i)" + quoted
	}
	return regexp.MustCompile("^" + quoted + "$")
}

// sortAndLimit ordena por el campo pedido y recorta a limit.
func sortAndLimit[T any](list []T, get fieldGetter[T], s sharedQuery.Sort, limit int) []T {
	sort.SliceStable(list, func(i, j int) bool {
		vi, _ := get(list[i], s.Field)
		vj, _ := get(list[j], s.Field)
		if s.Desc {
			return vi > vj
		}
		return vi < vj
	})
	if limit >= 0 && len(list) > limit {
		list = list[:limit]
	}
	return list
}

// filterItems aplica criteria sobre un mapa sin relaciones de pertenencia.
func filterItems[T any](items map[string]T, criteria sharedDomain.Criteria, get fieldGetter[T]) []T {
	var conds []sharedDomain.Criterion
	if criteria != nil {
		conds = criteria.ToConditions()
	}
	var list []T
	for _, item := range items {
		if matchAll(item, get, conds, nil) {
			list = append(list, item)
		}
	}
	return list
}
