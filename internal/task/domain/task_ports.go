package domain

import (
	"context"
	"errors"
	"fmt"

	sharedDomain "github.com/davicafu/relaypage/internal/shared/domain"
	sharedQuery "github.com/davicafu/relaypage/internal/shared/infra/platform/query"
)

var (
	ErrTaskNotFound      = errors.New("task not found")
	ErrTaskAlreadyExists = errors.New("task already exists")
	ErrInvalidTask       = errors.New("invalid task")
	ErrAssigneeRequired  = errors.New("assignee id must be a valid UUID")
	ErrInvalidStatus     = errors.New("invalid task status")
)

// --- Repositorio de Tasks ---
type TaskRepository interface {
	Create(ctx context.Context, t *Task) error
	Update(ctx context.Context, t *Task) error
	GetByID(ctx context.Context, id string) (*Task, error)
	ExistsForAssignee(ctx context.Context, assigneeID, id string) (bool, error)
	ListByCriteria(ctx context.Context, criteria sharedDomain.Criteria, sort sharedQuery.Sort, limit int) ([]*Task, error)
	CountByCriteria(ctx context.Context, criteria sharedDomain.Criteria) (int, error)
}

// --- Historial (analítica) ---
type ActivityRepository interface {
	LogBatch(ctx context.Context, activities []*Activity) error
	ExistsForTask(ctx context.Context, taskID, id string) (bool, error)
	ListByCriteria(ctx context.Context, criteria sharedDomain.Criteria, sort sharedQuery.Sort, limit int) ([]*Activity, error)
	CountByCriteria(ctx context.Context, criteria sharedDomain.Criteria) (int, error)
}

// ---------- Helpers comunes (cache keys, etc.) ----------

func TaskCacheKeyByID(id string) string {
	return fmt.Sprintf("task:id:%s", id)
}
