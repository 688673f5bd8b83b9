package domain

// Las constantes de los tipos de evento se definen aquí, como valores string.
const (
	TaskCreated = "task.created"
	TaskUpdated = "task.updated"
)

const TaskTopic = "task"

// Ámbitos de los totales cacheados: por responsable y por tarea (historial).
const (
	CountScope         = "task"
	ActivityCountScope = "task_activity"
)
