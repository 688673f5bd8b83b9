package clickhouse

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2"

	sharedDomain "github.com/davicafu/relaypage/internal/shared/domain"
	"github.com/davicafu/relaypage/internal/shared/infra/platform/db/sqlcriteria"
	sharedQuery "github.com/davicafu/relaypage/internal/shared/infra/platform/query"
	taskDomain "github.com/davicafu/relaypage/internal/task/domain"
)

const activityColumns = "id, task_id, assignee_id, event_type, title, status, occurred_at"

var columns = sqlcriteria.Columns{
	taskDomain.FieldID:         "id",
	taskDomain.FieldTaskID:     "task_id",
	taskDomain.FieldAssigneeID: "assignee_id",
	taskDomain.FieldStatus:     "status",
	taskDomain.FieldTitle:      "title",
}

// TaskActivityRepo implementa ActivityRepository sobre ClickHouse.
type TaskActivityRepo struct {
	db *sql.DB
}

var _ taskDomain.ActivityRepository = (*TaskActivityRepo)(nil)

// NewTaskActivityRepo es el constructor.
func NewTaskActivityRepo(addr string, dbName string) (*TaskActivityRepo, error) {
	conn := clickhouse.OpenDB(&clickhouse.Options{
		Addr: []string{addr},
		Auth: clickhouse.Auth{
			Database: dbName,
		},
		Settings: clickhouse.Settings{
			"max_execution_time": 60,
		},
	})

	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("could not ping clickhouse: %w", err)
	}

	return &TaskActivityRepo{db: conn}, nil
}

// LogBatch inserta un lote de entradas. ClickHouse funciona mejor con inserciones en lotes.
func (r *TaskActivityRepo) LogBatch(ctx context.Context, activities []*taskDomain.Activity) error {
	if len(activities) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO task_activity ("+activityColumns+")")
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, a := range activities {
		if _, err := stmt.ExecContext(ctx,
			a.ID,
			a.TaskID,
			a.AssigneeID,
			a.EventType,
			a.Title,
			string(a.Status),
			a.OccurredAt,
		); err != nil {
			// Si un registro falla, hacemos rollback de todo el lote.
			tx.Rollback()
			return fmt.Errorf("failed to exec statement for activity %s: %w", a.ID, err)
		}
	}

	return tx.Commit()
}

func (r *TaskActivityRepo) ExistsForTask(ctx context.Context, taskID, id string) (bool, error) {
	var n uint64
	err := r.db.QueryRowContext(ctx,
		`SELECT count() FROM task_activity WHERE id = ? AND task_id = ?`, id, taskID,
	).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *TaskActivityRepo) ListByCriteria(ctx context.Context, criteria sharedDomain.Criteria, sort sharedQuery.Sort, limit int) ([]*taskDomain.Activity, error) {
	query, args, err := sqlcriteria.Select(sqlcriteria.ClickHouse, activityColumns, "task_activity", criteria, sort, limit, columns)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	activities := []*taskDomain.Activity{}
	for rows.Next() {
		var (
			a      taskDomain.Activity
			status string
		)
		if err := rows.Scan(&a.ID, &a.TaskID, &a.AssigneeID, &a.EventType, &a.Title, &status, &a.OccurredAt); err != nil {
			return nil, err
		}
		a.Status = taskDomain.TaskStatus(status)
		activities = append(activities, &a)
	}
	return activities, rows.Err()
}

func (r *TaskActivityRepo) CountByCriteria(ctx context.Context, criteria sharedDomain.Criteria) (int, error) {
	query, args, err := sqlcriteria.Count(sqlcriteria.ClickHouse, "task_activity", criteria, columns)
	if err != nil {
		return 0, err
	}
	var n uint64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return int(n), nil
}

// InitSchema crea la tabla en ClickHouse si no existe.
// Se ordena por (task_id, id) para que el recorrido por cursor sea un rango del índice.
func (r *TaskActivityRepo) InitSchema() error {
	query := `
		CREATE TABLE IF NOT EXISTS task_activity (
			id          String,
			task_id     String,
			assignee_id String,
			event_type  String,
			title       String,
			status      String,
			occurred_at DateTime64(3)
		) ENGINE = MergeTree()
		PARTITION BY toYYYYMM(occurred_at)
		ORDER BY (task_id, id);
	`
	_, err := r.db.Exec(query)
	return err
}
