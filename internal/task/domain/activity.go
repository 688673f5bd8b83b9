package domain

import (
	"time"

	"github.com/google/uuid"
)

// Activity es una entrada del historial de una tarea.
type Activity struct {
	ID         string     `json:"id"`
	TaskID     string     `json:"task_id"`
	AssigneeID string     `json:"assignee_id"`
	EventType  string     `json:"event_type"`
	Title      string     `json:"title"`
	Status     TaskStatus `json:"status"`
	OccurredAt time.Time  `json:"occurred_at"`
}

func NewActivity(eventType, taskID, assigneeID, title string, status TaskStatus, occurredAt time.Time) (*Activity, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}
	return &Activity{
		ID:         id.String(),
		TaskID:     taskID,
		AssigneeID: assigneeID,
		EventType:  eventType,
		Title:      title,
		Status:     status,
		OccurredAt: occurredAt.UTC(),
	}, nil
}

func (a *Activity) CursorID() string {
	return a.ID
}
