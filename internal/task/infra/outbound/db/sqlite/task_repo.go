package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	sharedDomain "github.com/davicafu/relaypage/internal/shared/domain"
	"github.com/davicafu/relaypage/internal/shared/infra/platform/db/sqlcriteria"
	sharedQuery "github.com/davicafu/relaypage/internal/shared/infra/platform/query"
	taskDomain "github.com/davicafu/relaypage/internal/task/domain"
)

const taskColumns = "id, title, description, assignee_id, status, created_at, updated_at"

var columns = sqlcriteria.Columns{
	taskDomain.FieldID:         "id",
	taskDomain.FieldAssigneeID: "assignee_id",
	taskDomain.FieldStatus:     "status",
	taskDomain.FieldTitle:      "title",
}

// TaskRepoSQLite es el almacén local de tareas.
type TaskRepoSQLite struct {
	db *sql.DB
}

var _ taskDomain.TaskRepository = (*TaskRepoSQLite)(nil)

func NewTaskRepoSQLite(db *sql.DB) *TaskRepoSQLite {
	return &TaskRepoSQLite{db: db}
}

// ------------------ CRUD ------------------

func (r *TaskRepoSQLite) Create(ctx context.Context, t *taskDomain.Task) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO tasks (id, title, description, assignee_id, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Title, t.Description, t.AssigneeID, string(t.Status), formatTime(t.CreatedAt), formatTime(t.UpdatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return taskDomain.ErrTaskAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *TaskRepoSQLite) Update(ctx context.Context, t *taskDomain.Task) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET title = ?, description = ?, status = ?, updated_at = ? WHERE id = ?`,
		t.Title, t.Description, string(t.Status), formatTime(t.UpdatedAt), t.ID,
	)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return taskDomain.ErrTaskNotFound
	}
	return nil
}

func (r *TaskRepoSQLite) GetByID(ctx context.Context, id string) (*taskDomain.Task, error) {
	t, err := scanTask(r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, taskDomain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return t, nil
}

func (r *TaskRepoSQLite) ExistsForAssignee(ctx context.Context, assigneeID, id string) (bool, error) {
	var exists int
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM tasks WHERE id = ? AND assignee_id = ?)`, id, assigneeID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists == 1, nil
}

// ------------------ Listados ------------------

func (r *TaskRepoSQLite) ListByCriteria(ctx context.Context, criteria sharedDomain.Criteria, sort sharedQuery.Sort, limit int) ([]*taskDomain.Task, error) {
	query, args, err := sqlcriteria.Select(sqlcriteria.SQLite, taskColumns, "tasks", criteria, sort, limit, columns)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	tasks := []*taskDomain.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *TaskRepoSQLite) CountByCriteria(ctx context.Context, criteria sharedDomain.Criteria) (int, error) {
	query, args, err := sqlcriteria.Count(sqlcriteria.SQLite, "tasks", criteria, columns)
	if err != nil {
		return 0, err
	}
	var n int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

// ------------------ Helpers ------------------

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanTask(s scanner) (*taskDomain.Task, error) {
	var (
		t                    taskDomain.Task
		status               string
		createdAt, updatedAt string
	)
	if err := s.Scan(&t.ID, &t.Title, &t.Description, &t.AssigneeID, &status, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	t.Status = taskDomain.TaskStatus(status)

	var err error
	if t.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("invalid created_at %q: %w", createdAt, err)
	}
	if t.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return nil, fmt.Errorf("invalid updated_at %q: %w", updatedAt, err)
	}
	return &t, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// InitSQLite crea la tabla de tareas si no existe.
func InitSQLite(db *sql.DB) error {
	_, err := db.Exec(`
	CREATE TABLE IF NOT EXISTS tasks (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		assignee_id TEXT NOT NULL,
		status TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`)
	if err != nil {
		return err
	}
	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_tasks_assignee_id ON tasks (assignee_id, id)`)
	return err
}
