package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"

	sharedBus "github.com/davicafu/relaypage/internal/shared/infra/platform/bus"
)

type TaskStatus string

const (
	TaskPending   TaskStatus = "pending"
	TaskCompleted TaskStatus = "completed"
	TaskFailed    TaskStatus = "failed"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskPending, TaskCompleted, TaskFailed:
		return true
	}
	return false
}

// Task pertenece a un responsable; el ID es un UUIDv7 ordenable.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	AssigneeID  string     `json:"assignee_id"`
	Status      TaskStatus `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func NewTask(assigneeID, title, description string) (*Task, error) {
	title = strings.TrimSpace(title)
	if _, err := uuid.Parse(assigneeID); err != nil {
		return nil, ErrAssigneeRequired
	}
	if title == "" {
		return nil, ErrInvalidTask
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &Task{
		ID:          id.String(),
		Title:       title,
		Description: description,
		AssigneeID:  assigneeID,
		Status:      TaskPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func (t *Task) CursorID() string {
	return t.ID
}

// Los eventos de un mismo responsable van a la misma partición.
func (t *Task) PartitionKey() string {
	return t.AssigneeID
}

// --- Métodos de dominio ---
func (t *Task) Complete() {
	t.Status = TaskCompleted
	t.UpdatedAt = time.Now().UTC()
}

func (t *Task) Fail() {
	t.Status = TaskFailed
	t.UpdatedAt = time.Now().UTC()
}

func (t *Task) Update(title, description string) {
	t.Title = title
	t.Description = description
	t.UpdatedAt = time.Now().UTC()
}

var _ sharedBus.Keyer = (*Task)(nil)
