package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"

	sharedDomain "github.com/davicafu/relaypage/internal/shared/domain"
	"github.com/davicafu/relaypage/internal/shared/pagination"
)

const MaxTitlePrefixLength = 100

// TaskWhere es el filtro tal cual llega del cliente.
type TaskWhere struct {
	Status      *string `json:"status,omitempty"`
	TitlePrefix *string `json:"titlePrefix,omitempty"`
}

// TaskFilter es el filtro validado.
type TaskFilter struct {
	Status      TaskStatus
	TitlePrefix string
}

// Criteria combina el ámbito del responsable con el filtro.
func (f TaskFilter) Criteria(assigneeID string) sharedDomain.Criteria {
	criterias := []sharedDomain.Criteria{AssigneeCriteria{AssigneeID: assigneeID}}
	if f.Status != "" {
		criterias = append(criterias, StatusCriteria{Status: f.Status})
	}
	if f.TitlePrefix != "" {
		criterias = append(criterias, TitlePrefixCriteria{Prefix: f.TitlePrefix})
	}
	return sharedDomain.And(criterias...)
}

var ParseTaskWhere = pagination.WhereParserFunc[TaskWhere, TaskFilter](func(in TaskWhere, path []string) pagination.Result[TaskFilter] {
	var (
		filter TaskFilter
		errs   []pagination.ArgumentError
	)

	if in.Status != nil {
		status := TaskStatus(strings.ToLower(strings.TrimSpace(*in.Status)))
		if status.Valid() {
			filter.Status = status
		} else {
			errs = append(errs, pagination.NewArgumentError(
				fmt.Sprintf("status must be one of %s, %s, %s", TaskPending, TaskCompleted, TaskFailed),
				withField(path, "status")...))
		}
	}

	if in.TitlePrefix != nil {
		prefix := strings.TrimSpace(*in.TitlePrefix)
		switch n := utf8.RuneCountInString(prefix); {
		case n == 0:
			errs = append(errs, pagination.NewArgumentError("titlePrefix cannot be empty", withField(path, "titlePrefix")...))
		case n > MaxTitlePrefixLength:
			errs = append(errs, pagination.NewArgumentError(
				fmt.Sprintf("titlePrefix cannot exceed %d characters", MaxTitlePrefixLength),
				withField(path, "titlePrefix")...))
		default:
			filter.TitlePrefix = prefix
		}
	}

	if len(errs) > 0 {
		return pagination.Fail[TaskFilter](errs...)
	}
	return pagination.Ok(filter)
})

// TaskSortedBy sólo admite ordenar por id.
type TaskSortedBy struct {
	ID *string `json:"id,omitempty"`
}

// ParseTaskSortedBy valida el orden; sin valor, más nuevas primero.
var ParseTaskSortedBy = pagination.SortedByParserFunc[TaskSortedBy, pagination.SortOrder](func(in TaskSortedBy, path []string) pagination.Result[pagination.SortOrder] {
	if in.ID == nil {
		return pagination.Ok(pagination.Descending)
	}
	order := pagination.SortOrder(strings.ToUpper(strings.TrimSpace(*in.ID)))
	if !order.Valid() {
		return pagination.Fail[pagination.SortOrder](pagination.NewArgumentError(
			fmt.Sprintf("id must be %s or %s", pagination.Ascending, pagination.Descending),
			withField(path, "id")...))
	}
	return pagination.Ok(order)
})

func withField(path []string, field string) []string {
	full := make([]string, 0, len(path)+1)
	full = append(full, path...)
	return append(full, field)
}
