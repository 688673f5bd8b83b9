package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	sharedDomain "github.com/davicafu/relaypage/internal/shared/domain"
	"github.com/davicafu/relaypage/internal/shared/pagination"
)

const MaxNamePrefixLength = 100

// UserWhere es el filtro tal cual llega del cliente.
type UserWhere struct {
	NamePrefix   *string `json:"namePrefix,omitempty"`
	ExcludeTagID *string `json:"excludeTagId,omitempty"`
}

// UserFilter es el filtro validado.
type UserFilter struct {
	NamePrefix   string
	ExcludeTagID string
}

// Criteria combina el ámbito de organización con el filtro.
// Se aplica igual al listado y al conteo.
func (f UserFilter) Criteria(organizationID string) sharedDomain.Criteria {
	criterias := []sharedDomain.Criteria{OrganizationCriteria{OrganizationID: organizationID}}
	if f.NamePrefix != "" {
		criterias = append(criterias, NamePrefixCriteria{Prefix: f.NamePrefix})
	}
	if f.ExcludeTagID != "" {
		criterias = append(criterias, ExcludeTagCriteria{TagID: f.ExcludeTagID})
	}
	return sharedDomain.And(criterias...)
}

// ParseUserWhere valida el filtro de usuarios acumulando todos los errores.
var ParseUserWhere = pagination.WhereParserFunc[UserWhere, UserFilter](func(in UserWhere, path []string) pagination.Result[UserFilter] {
	var (
		filter UserFilter
		errs   []pagination.ArgumentError
	)

	if in.NamePrefix != nil {
		prefix := strings.TrimSpace(*in.NamePrefix)
		switch n := utf8.RuneCountInString(prefix); {
		case n == 0:
			errs = append(errs, argError("namePrefix cannot be empty", path, "namePrefix"))
		case n > MaxNamePrefixLength:
			errs = append(errs, argError(fmt.Sprintf("namePrefix cannot exceed %d characters", MaxNamePrefixLength), path, "namePrefix"))
		default:
			filter.NamePrefix = prefix
		}
	}

	if in.ExcludeTagID != nil {
		if _, err := uuid.Parse(*in.ExcludeTagID); err != nil {
			errs = append(errs, argError("excludeTagId must be a valid UUID", path, "excludeTagId"))
		} else {
			filter.ExcludeTagID = *in.ExcludeTagID
		}
	}

	if len(errs) > 0 {
		return pagination.Fail[UserFilter](errs...)
	}
	return pagination.Ok(filter)
})

func argError(message string, path []string, field string) pagination.ArgumentError {
	full := make([]string, 0, len(path)+1)
	full = append(full, path...)
	return pagination.NewArgumentError(message, append(full, field)...)
}
