package domain

import (
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	sharedBus "github.com/davicafu/relaypage/internal/shared/infra/platform/bus"
)

// User representa un usuario de una organización.
// El ID es un UUIDv7: su orden lexicográfico es el orden de creación.
type User struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organization_id"`
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewUser valida los datos y asigna un identificador ordenable.
func NewUser(organizationID, email, name string) (*User, error) {
	name = strings.TrimSpace(name)
	if _, err := uuid.Parse(organizationID); err != nil {
		return nil, ErrOrganizationRequired
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || name == "" {
		return nil, ErrInvalidUser
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}
	// Solo la dirección: "Ana <ana@x.io>" se guarda como "ana@x.io".
	return &User{
		ID:             id.String(),
		OrganizationID: organizationID,
		Email:          strings.ToLower(addr.Address),
		Name:           name,
		CreatedAt:      time.Now().UTC(),
	}, nil
}

func (u *User) CursorID() string {
	return u.ID
}

func (u *User) PartitionKey() string {
	return u.OrganizationID
}

var _ sharedBus.Keyer = (*User)(nil)
