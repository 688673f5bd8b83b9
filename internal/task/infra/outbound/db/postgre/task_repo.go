package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib" // Driver de PostgreSQL

	// --- Importaciones del dominio y compartidas ---
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

// TaskRepoPostgres implementa la interfaz TaskRepository para PostgreSQL.
type TaskRepoPostgres struct {
	db *sql.DB
}

var _ taskDomain.TaskRepository = (*TaskRepoPostgres)(nil)

// NewTaskRepoPostgres es el constructor del repositorio.
func NewTaskRepoPostgres(db *sql.DB) *TaskRepoPostgres {
	return &TaskRepoPostgres{db: db}
}

// ------------------ CRUD ------------------

func (r *TaskRepoPostgres) Create(ctx context.Context, t *taskDomain.Task) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO tasks (id, title, description, assignee_id, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		t.ID, t.Title, t.Description, t.AssigneeID, string(t.Status), t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return taskDomain.ErrTaskAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *TaskRepoPostgres) Update(ctx context.Context, t *taskDomain.Task) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET title = $1, description = $2, status = $3, updated_at = $4 WHERE id = $5`,
		t.Title, t.Description, string(t.Status), t.UpdatedAt, t.ID,
	)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return taskDomain.ErrTaskNotFound
	}
	return nil
}

func (r *TaskRepoPostgres) GetByID(ctx context.Context, id string) (*taskDomain.Task, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id)
	t, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, taskDomain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return t, nil
}

func (r *TaskRepoPostgres) ExistsForAssignee(ctx context.Context, assigneeID, id string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM tasks WHERE id = $1 AND assignee_id = $2)`, id, assigneeID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

// ------------------ Listados ------------------

func (r *TaskRepoPostgres) ListByCriteria(ctx context.Context, criteria sharedDomain.Criteria, sort sharedQuery.Sort, limit int) ([]*taskDomain.Task, error) {
	query, args, err := sqlcriteria.Select(sqlcriteria.Postgres, taskColumns, "tasks", criteria, sort, limit, columns)
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

func (r *TaskRepoPostgres) CountByCriteria(ctx context.Context, criteria sharedDomain.Criteria) (int, error) {
	query, args, err := sqlcriteria.Count(sqlcriteria.Postgres, "tasks", criteria, columns)
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
		t      taskDomain.Task
		status string
	)
	if err := s.Scan(&t.ID, &t.Title, &t.Description, &t.AssigneeID, &status, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	t.Status = taskDomain.TaskStatus(status)
	return &t, nil
}

// InitPostgres crea la tabla de tareas si no existe.
func InitPostgres(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS tasks (
			id TEXT COLLATE "C" PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			assignee_id TEXT NOT NULL,
			status TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_assignee_id ON tasks (assignee_id, id)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
