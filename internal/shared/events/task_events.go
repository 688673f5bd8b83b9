package events

import "time"

type TaskCreated struct {
	ID         string    `json:"id"`
	AssigneeID string    `json:"assignee_id"`
	Title      string    `json:"title"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}

type TaskUpdated struct {
	ID         string    `json:"id"`
	AssigneeID string    `json:"assignee_id"`
	Title      string    `json:"title"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}
