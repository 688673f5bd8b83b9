package domain

import (
	shared "github.com/davicafu/relaypage/internal/shared/domain"
)

// Campos neutrales de tareas e historial.
const (
	FieldID         = "id"
	FieldAssigneeID = "assigneeId"
	FieldStatus     = "status"
	FieldTitle      = "title"
	FieldTaskID     = "taskId"
)

// --- Criterios Específicos para el Dominio Task ---

// AssigneeCriteria busca tareas asignadas a un usuario específico.
type AssigneeCriteria struct {
	AssigneeID string
}

func (c AssigneeCriteria) ToConditions() []shared.Criterion {
	return []shared.Criterion{
		{Field: FieldAssigneeID, Op: shared.OpEq, Value: c.AssigneeID},
	}
}

// StatusCriteria busca tareas por su estado (pending, completed, etc.).
type StatusCriteria struct {
	Status TaskStatus
}

func (c StatusCriteria) ToConditions() []shared.Criterion {
	return []shared.Criterion{
		{Field: FieldStatus, Op: shared.OpEq, Value: string(c.Status)},
	}
}

// TitlePrefixCriteria busca tareas cuyo título empiece por Prefix, sin distinguir mayúsculas.
type TitlePrefixCriteria struct {
	Prefix string
}

func (c TitlePrefixCriteria) ToConditions() []shared.Criterion {
	return []shared.Criterion{
		{Field: FieldTitle, Op: shared.OpPrefix, Value: c.Prefix},
	}
}

// TaskActivityCriteria limita el historial a una tarea.
type TaskActivityCriteria struct {
	TaskID string
}

func (c TaskActivityCriteria) ToConditions() []shared.Criterion {
	return []shared.Criterion{
		{Field: FieldTaskID, Op: shared.OpEq, Value: c.TaskID},
	}
}
