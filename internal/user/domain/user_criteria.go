package domain

import (
	sharedDomain "github.com/davicafu/relaypage/internal/shared/domain"
)

// Campos neutrales que entienden los repositorios de usuarios.
const (
	FieldID             = "id"
	FieldOrganizationID = "organizationId"
	FieldEmail          = "email"
	FieldName           = "name"
)

// Tabla de unión usuario-etiqueta.
const (
	TagsTable      = "user_tags"
	TagsUserColumn = "user_id"
	TagsTagColumn  = "tag_id"
)

// ---------------- Implementaciones concretas ----------------

// Usuarios de una organización
type OrganizationCriteria struct {
	OrganizationID string
}

func (c OrganizationCriteria) ToConditions() []sharedDomain.Criterion {
	return []sharedDomain.Criterion{{Field: FieldOrganizationID, Op: sharedDomain.OpEq, Value: c.OrganizationID}}
}

// Nombre que empieza por Prefix, sin distinguir mayúsculas
type NamePrefixCriteria struct {
	Prefix string
}

func (c NamePrefixCriteria) ToConditions() []sharedDomain.Criterion {
	return []sharedDomain.Criterion{{Field: FieldName, Op: sharedDomain.OpPrefix, Value: c.Prefix}}
}

// Usuarios que todavía no tienen la etiqueta
type ExcludeTagCriteria struct {
	TagID string
}

func (c ExcludeTagCriteria) ToConditions() []sharedDomain.Criterion {
	return []sharedDomain.Criterion{{
		Field: FieldID,
		Op:    sharedDomain.OpNotMember,
		Value: sharedDomain.Membership{
			Table:      TagsTable,
			ForeignKey: TagsUserColumn,
			Key:        TagsTagColumn,
			Value:      c.TagID,
		},
	}}
}
