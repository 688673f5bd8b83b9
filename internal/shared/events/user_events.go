package events

// Estos son contratos de integración, NO entidades del dominio.
// Se definen planos para intercambio entre contextos.

type UserCreated struct {
	ID             string `json:"id"`
	OrganizationID string `json:"organization_id"`
	Email          string `json:"email"`
	Name           string `json:"name"`
}

type UserTagged struct {
	UserID         string `json:"user_id"`
	OrganizationID string `json:"organization_id"`
	TagID          string `json:"tag_id"`
}
