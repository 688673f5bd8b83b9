package domain

import (
	"context"
	"errors"

	sharedDomain "github.com/davicafu/relaypage/internal/shared/domain"
	sharedQuery "github.com/davicafu/relaypage/internal/shared/infra/platform/query"
)

// ---------- Errores de dominio ----------
var (
	ErrUserNotFound         = errors.New("user not found")
	ErrUserAlreadyExists    = errors.New("user already exists")
	ErrInvalidUser          = errors.New("invalid user")
	ErrOrganizationRequired = errors.New("organization id must be a valid UUID")
	ErrInvalidTag           = errors.New("tag id must be a valid UUID")
)

// ---------- Interfaces (Ports) ----------

// UserRepository define las operaciones persistentes para User.
type UserRepository interface {
	// Debe devolver ErrUserAlreadyExists si el email ya existe en la organización.
	Create(ctx context.Context, u *User) error

	// Debe devolver ErrUserNotFound si no existe.
	GetByID(ctx context.Context, id string) (*User, error)

	// Tag enlaza el usuario con la etiqueta. Etiquetar dos veces no es un error.
	Tag(ctx context.Context, userID, tagID string) error

	// ExistsInOrganization resuelve cursores: sólo cuentan los usuarios de la organización.
	ExistsInOrganization(ctx context.Context, organizationID, id string) (bool, error)

	// ListByCriteria devuelve como mucho limit usuarios en el orden pedido.
	ListByCriteria(ctx context.Context, criteria sharedDomain.Criteria, sort sharedQuery.Sort, limit int) ([]*User, error)

	CountByCriteria(ctx context.Context, criteria sharedDomain.Criteria) (int, error)
}
