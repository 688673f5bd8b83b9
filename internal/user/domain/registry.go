package domain

// Tipos de evento del contexto de usuarios.
const (
	UserCreated = "user.created"
	UserTagged  = "user.tagged"
)

const UserTopic = "user"

// CountScope es el ámbito de los totales cacheados de usuarios.
const CountScope = "user"
