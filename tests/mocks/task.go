package mocks

import (
	"context"
	"sync"
	"sync/atomic"

	sharedDomain "github.com/davicafu/relaypage/internal/shared/domain"
	sharedQuery "github.com/davicafu/relaypage/internal/shared/infra/platform/query"
	taskDomain "github.com/davicafu/relaypage/internal/task/domain"
)

// InMemoryTaskRepo simula TaskRepository.
type InMemoryTaskRepo struct {
	Tasks map[string]*taskDomain.Task
	mu    sync.Mutex

	GetCalls   atomic.Int32
	CountCalls atomic.Int32
	Err        error
}

var _ taskDomain.TaskRepository = (*InMemoryTaskRepo)(nil)

func NewInMemoryTaskRepo() *InMemoryTaskRepo {
	return &InMemoryTaskRepo{
		Tasks: make(map[string]*taskDomain.Task),
	}
}

// --- Implementación de la interfaz TaskRepository ---

func (r *InMemoryTaskRepo) Create(ctx context.Context, t *taskDomain.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.Tasks[t.ID]; ok {
		return taskDomain.ErrTaskAlreadyExists
	}
	copied := *t
	r.Tasks[t.ID] = &copied
	return nil
}

func (r *InMemoryTaskRepo) GetByID(ctx context.Context, id string) (*taskDomain.Task, error) {
	r.GetCalls.Add(1)
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.Tasks[id]
	if !ok {
		return nil, taskDomain.ErrTaskNotFound
	}
	copied := *t
	return &copied, nil
}

func (r *InMemoryTaskRepo) Update(ctx context.Context, t *taskDomain.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.Tasks[t.ID]; !ok {
		return taskDomain.ErrTaskNotFound
	}
	copied := *t
	r.Tasks[t.ID] = &copied
	return nil
}

func (r *InMemoryTaskRepo) ExistsForAssignee(ctx context.Context, assigneeID, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return false, r.Err
	}
	t, ok := r.Tasks[id]
	return ok && t.AssigneeID == assigneeID, nil
}

func (r *InMemoryTaskRepo) ListByCriteria(ctx context.Context, criteria sharedDomain.Criteria, s sharedQuery.Sort, limit int) ([]*taskDomain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	return sortAndLimit(filterItems(r.Tasks, criteria, taskField), taskField, s, limit), nil
}

func (r *InMemoryTaskRepo) CountByCriteria(ctx context.Context, criteria sharedDomain.Criteria) (int, error) {
	r.CountCalls.Add(1)
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return 0, r.Err
	}
	return len(filterItems(r.Tasks, criteria, taskField)), nil
}

func taskField(t *taskDomain.Task, field string) (string, bool) {
	switch field {
	case taskDomain.FieldID:
		return t.ID, true
	case taskDomain.FieldAssigneeID:
		return t.AssigneeID, true
	case taskDomain.FieldStatus:
		return string(t.Status), true
	case taskDomain.FieldTitle:
		return t.Title, true
	}
	return "", false
}

// ---------------- Historial ----------------

// InMemoryActivityRepo simula ActivityRepository (la tabla de ClickHouse).
type InMemoryActivityRepo struct {
	Activities map[string]*taskDomain.Activity
	mu         sync.Mutex
	Err        error
}

var _ taskDomain.ActivityRepository = (*InMemoryActivityRepo)(nil)

func NewInMemoryActivityRepo() *InMemoryActivityRepo {
	return &InMemoryActivityRepo{Activities: make(map[string]*taskDomain.Activity)}
}

func (r *InMemoryActivityRepo) LogBatch(ctx context.Context, activities []*taskDomain.Activity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	for _, a := range activities {
		r.Activities[a.ID] = a
	}
	return nil
}

func (r *InMemoryActivityRepo) ExistsForTask(ctx context.Context, taskID, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return false, r.Err
	}
	a, ok := r.Activities[id]
	return ok && a.TaskID == taskID, nil
}

func (r *InMemoryActivityRepo) ListByCriteria(ctx context.Context, criteria sharedDomain.Criteria, s sharedQuery.Sort, limit int) ([]*taskDomain.Activity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	return sortAndLimit(filterItems(r.Activities, criteria, activityField), activityField, s, limit), nil
}

func (r *InMemoryActivityRepo) CountByCriteria(ctx context.Context, criteria sharedDomain.Criteria) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return 0, r.Err
	}
	return len(filterItems(r.Activities, criteria, activityField)), nil
}

// Len devuelve el número de entradas registradas.
func (r *InMemoryActivityRepo) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.Activities)
}

func activityField(a *taskDomain.Activity, field string) (string, bool) {
	switch field {
	case taskDomain.FieldID:
		return a.ID, true
	case taskDomain.FieldTaskID:
		return a.TaskID, true
	case taskDomain.FieldAssigneeID:
		return a.AssigneeID, true
	case taskDomain.FieldStatus:
		return string(a.Status), true
	case taskDomain.FieldTitle:
		return a.Title, true
	}
	return "", false
}
