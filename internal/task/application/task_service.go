package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	sharedDomain "github.com/davicafu/relaypage/internal/shared/domain"
	sharedEvents "github.com/davicafu/relaypage/internal/shared/events"
	sharedBus "github.com/davicafu/relaypage/internal/shared/infra/platform/bus"
	sharedCache "github.com/davicafu/relaypage/internal/shared/infra/platform/cache"
	"github.com/davicafu/relaypage/internal/shared/infra/platform/metrics"
	sharedUtils "github.com/davicafu/relaypage/internal/shared/infra/utils"
	"github.com/davicafu/relaypage/internal/shared/pagination"
	taskDomain "github.com/davicafu/relaypage/internal/task/domain"
)

const (
	taskCacheTTL   = 120
	activityEntity = "task_activity"
)

// ErrActivityUnavailable se devuelve cuando no hay almacén de historial configurado.
var ErrActivityUnavailable = errors.New("task activity store not configured")

// TaskUpdate son los cambios parciales que admite UpdateTask.
type TaskUpdate struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"`
}

// TaskService define los casos de uso relacionados con Task.
// Incorpora repositorios, caché de entidades, caché de totales y logger.
type TaskService struct {
	repo     taskDomain.TaskRepository
	activity taskDomain.ActivityRepository
	cache    sharedCache.Cache
	counts   *sharedCache.CountStore
	events   sharedBus.EventPublisher
	maxLimit int
	log      *zap.Logger
}

// NewTaskService acepta activity, cache, counts y events nil.
func NewTaskService(
	repo taskDomain.TaskRepository,
	activity taskDomain.ActivityRepository,
	cache sharedCache.Cache,
	counts *sharedCache.CountStore,
	events sharedBus.EventPublisher,
	maxLimit int,
	log *zap.Logger,
) *TaskService {
	return &TaskService{
		repo:     repo,
		activity: activity,
		cache:    cache,
		counts:   counts,
		events:   events,
		maxLimit: maxLimit,
		log:      log,
	}
}

// CreateTask crea una tarea pendiente, actualiza la caché y publica task.created.
func (s *TaskService) CreateTask(ctx context.Context, assigneeID, title, description string) (*taskDomain.Task, error) {
	task, err := taskDomain.NewTask(assigneeID, title, description)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, task); err != nil {
		s.log.Error("Failed to create task", zap.Error(err))
		return nil, err
	}

	// Actualizar caché en segundo plano
	sharedCache.AsyncCacheSet(s.cache, taskDomain.TaskCacheKeyByID(task.ID), task, taskCacheTTL, s.log)

	s.publish(ctx, taskDomain.TaskCreated, task, sharedEvents.TaskCreated{
		ID:         task.ID,
		AssigneeID: task.AssigneeID,
		Title:      task.Title,
		Status:     string(task.Status),
		OccurredAt: task.CreatedAt,
	})
	return task, nil
}

// UpdateTask aplica cambios parciales. El estado pasa por los métodos de dominio.
func (s *TaskService) UpdateTask(ctx context.Context, id string, changes TaskUpdate) (*taskDomain.Task, error) {
	task, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}

	title, description := task.Title, task.Description
	if changes.Title != nil {
		title = strings.TrimSpace(*changes.Title)
		if title == "" {
			return nil, taskDomain.ErrInvalidTask
		}
	}
	if changes.Description != nil {
		description = *changes.Description
	}
	task.Update(title, description)

	if changes.Status != nil {
		switch taskDomain.TaskStatus(strings.ToLower(*changes.Status)) {
		case taskDomain.TaskCompleted:
			task.Complete()
		case taskDomain.TaskFailed:
			task.Fail()
		case taskDomain.TaskPending:
			task.Status = taskDomain.TaskPending
		default:
			return nil, taskDomain.ErrInvalidStatus
		}
	}

	if err := s.repo.Update(ctx, task); err != nil {
		s.log.Error("Failed to update task", zap.String("task_id", id), zap.Error(err))
		return nil, err
	}

	sharedCache.AsyncCacheSet(s.cache, taskDomain.TaskCacheKeyByID(task.ID), task, taskCacheTTL, s.log)

	s.publish(ctx, taskDomain.TaskUpdated, task, sharedEvents.TaskUpdated{
		ID:         task.ID,
		AssigneeID: task.AssigneeID,
		Title:      task.Title,
		Status:     string(task.Status),
		OccurredAt: task.UpdatedAt,
	})
	return task, nil
}

// GetTaskByID obtiene una tarea, usando el patrón cache-aside con reintentos.
func (s *TaskService) GetTaskByID(ctx context.Context, id string) (*taskDomain.Task, error) {
	// 1. Intentar obtener de la caché
	if s.cache != nil {
		var t taskDomain.Task
		if hit, _ := s.cache.Get(ctx, taskDomain.TaskCacheKeyByID(id), &t); hit {
			return &t, nil
		}
	}

	// 2. Si es 'miss', ir al repositorio con reintentos
	task, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}

	// 3. Actualizar caché en segundo plano para la próxima vez
	sharedCache.AsyncCacheSet(s.cache, taskDomain.TaskCacheKeyByID(task.ID), task, taskCacheTTL, s.log)

	return task, nil
}

func (s *TaskService) fetch(ctx context.Context, id string) (*taskDomain.Task, error) {
	var task *taskDomain.Task
	err := sharedUtils.Retry(ctx, 3, 100*time.Millisecond, func() error {
		var errRetry error
		task, errRetry = s.repo.GetByID(ctx, id)
		if errors.Is(errRetry, taskDomain.ErrTaskNotFound) {
			return sharedUtils.Permanent(errRetry)
		}
		return errRetry
	})

	if err != nil {
		if errors.Is(err, taskDomain.ErrTaskNotFound) {
			s.log.Warn("Task not found", zap.String("task_id", id))
		} else {
			s.log.Error("Failed to fetch task", zap.String("task_id", id), zap.Error(err))
		}
		return nil, err
	}
	return task, nil
}

// ---------------- Listados paginados ----------------

// ListAssigneeTasks pagina las tareas de un responsable con filtro y orden por id.
func (s *TaskService) ListAssigneeTasks(
	ctx context.Context,
	assigneeID string,
	req pagination.Request,
	where taskDomain.TaskWhere,
	sortedBy taskDomain.TaskSortedBy,
) (pagination.Connection[*taskDomain.Task], error) {
	if _, err := uuid.Parse(assigneeID); err != nil {
		return pagination.Connection[*taskDomain.Task]{}, taskDomain.ErrAssigneeRequired
	}

	resolver := pagination.ExistenceResolver(pagination.IdentityCodec{}, func(ctx context.Context, id string) (bool, error) {
		return s.repo.ExistsForAssignee(ctx, assigneeID, id)
	})

	res, err := pagination.ParseWithSortedByAndWhere(ctx, req, s.maxLimit, resolver,
		sortedBy, taskDomain.ParseTaskSortedBy, where, taskDomain.ParseTaskWhere)
	if err != nil {
		s.log.Error("Failed to resolve tasks cursor", zap.String("assignee_id", assigneeID), zap.Error(err))
		metrics.ObservePage(taskDomain.CountScope, "", metrics.OutcomeFailed, 0)
		return pagination.Connection[*taskDomain.Task]{}, err
	}
	if !res.IsSuccessful() {
		s.log.Debug("Invalid pagination arguments", zap.String("assignee_id", assigneeID), zap.Error(res.Err()))
		metrics.ObservePage(taskDomain.CountScope, "", metrics.OutcomeInvalid, 0)
		return pagination.Connection[*taskDomain.Task]{}, res.Err()
	}

	args := res.Value()
	scan := pagination.NewScan(args.NormalizedArgs, args.Where.Criteria(assigneeID), pagination.WithSortByID(args.SortedBy))
	fetcher := pagination.FetcherFuncs[*taskDomain.Task]{
		List:  s.repo.ListByCriteria,
		Count: s.cachedCount(sharedCache.ScopeKey(taskDomain.CountScope, assigneeID), s.repo.CountByCriteria),
	}

	conn, err := pagination.Paginate[*taskDomain.Task](ctx, fetcher, scan, args.NormalizedArgs)
	if err != nil {
		s.log.Error("Failed to list assignee tasks", zap.String("assignee_id", assigneeID), zap.Error(err))
		metrics.ObservePage(taskDomain.CountScope, string(args.Direction), metrics.OutcomeFailed, 0)
		return pagination.Connection[*taskDomain.Task]{}, err
	}

	metrics.ObservePage(taskDomain.CountScope, string(args.Direction), metrics.OutcomeOK, len(conn.Edges))
	return conn, nil
}

// ListTaskActivity pagina el historial de una tarea, más reciente primero.
// Los cursores son opacos: no exponen los identificadores del almacén analítico.
func (s *TaskService) ListTaskActivity(ctx context.Context, taskID string, req pagination.Request) (pagination.Connection[*taskDomain.Activity], error) {
	if s.activity == nil {
		return pagination.Connection[*taskDomain.Activity]{}, ErrActivityUnavailable
	}
	if _, err := s.GetTaskByID(ctx, taskID); err != nil {
		if errors.Is(err, taskDomain.ErrTaskNotFound) {
			metrics.ObservePage(activityEntity, "", metrics.OutcomeNotFound, 0)
		}
		return pagination.Connection[*taskDomain.Activity]{}, err
	}

	codec := pagination.OpaqueCodec{}
	resolver := pagination.ExistenceResolver(codec, func(ctx context.Context, id string) (bool, error) {
		return s.activity.ExistsForTask(ctx, taskID, id)
	})

	res, err := pagination.Parse(ctx, req, s.maxLimit, resolver)
	if err != nil {
		s.log.Error("Failed to resolve activity cursor", zap.String("task_id", taskID), zap.Error(err))
		metrics.ObservePage(activityEntity, "", metrics.OutcomeFailed, 0)
		return pagination.Connection[*taskDomain.Activity]{}, err
	}
	if !res.IsSuccessful() {
		metrics.ObservePage(activityEntity, "", metrics.OutcomeInvalid, 0)
		return pagination.Connection[*taskDomain.Activity]{}, res.Err()
	}

	args := res.Value()
	scan := pagination.NewScan(args, taskDomain.TaskActivityCriteria{TaskID: taskID})
	fetcher := pagination.FetcherFuncs[*taskDomain.Activity]{
		List:  s.activity.ListByCriteria,
		Count: s.cachedCount(sharedCache.ScopeKey(taskDomain.ActivityCountScope, taskID), s.activity.CountByCriteria),
	}

	conn, err := pagination.Paginate[*taskDomain.Activity](ctx, fetcher, scan, args, pagination.WithCodec[*taskDomain.Activity](codec))
	if err != nil {
		s.log.Error("Failed to list task activity", zap.String("task_id", taskID), zap.Error(err))
		metrics.ObservePage(activityEntity, string(args.Direction), metrics.OutcomeFailed, 0)
		return pagination.Connection[*taskDomain.Activity]{}, err
	}

	metrics.ObservePage(activityEntity, string(args.Direction), metrics.OutcomeOK, len(conn.Edges))
	return conn, nil
}

// cachedCount envuelve count con la caché de totales del ámbito scopeKey.
func (s *TaskService) cachedCount(
	scopeKey string,
	count func(context.Context, sharedDomain.Criteria) (int, error),
) func(context.Context, sharedDomain.Criteria) (int, error) {
	return func(ctx context.Context, criteria sharedDomain.Criteria) (int, error) {
		return s.counts.Count(ctx, scopeKey, sharedCache.Fingerprint(criteria), func(ctx context.Context) (int, error) {
			return count(ctx, criteria)
		})
	}
}

func (s *TaskService) publish(ctx context.Context, eventType string, task *taskDomain.Task, data interface{}) {
	if s.events == nil {
		return
	}
	evt, err := sharedEvents.New(eventType, task.PartitionKey(), data)
	if err == nil {
		err = s.events.Publish(ctx, evt)
	}
	if err != nil {
		s.log.Warn("Failed to publish task event", zap.String("type", eventType), zap.String("task_id", task.ID), zap.Error(err))
	}
}
