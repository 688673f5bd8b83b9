package postgres

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davicafu/relaypage/internal/shared/pagination"
	taskDomain "github.com/davicafu/relaypage/internal/task/domain"
)

// setupPostgresTestDB se conecta a Postgres, crea el esquema y limpia las tablas.
func setupPostgresTestDB(t *testing.T) *sql.DB {
	connStr := os.Getenv("DATABASE_URL")
	if connStr == "" {
		t.Skip("DATABASE_URL no está configurada, saltando test de integración con Postgres")
	}

	db, err := sql.Open("pgx", connStr)
	require.NoError(t, err)
	require.NoError(t, db.Ping())
	require.NoError(t, InitPostgres(db))

	t.Cleanup(func() {
		db.Exec("DELETE FROM tasks")
		db.Close()
	})
	return db
}

func TestTaskRepoPostgres_Paginates(t *testing.T) {
	// Arrange
	repo := NewTaskRepoPostgres(setupPostgresTestDB(t))
	ctx := context.Background()
	assignee := uuid.NewString()
	var tasks []*taskDomain.Task
	for _, title := range []string{"Informe 100%", "informe_b", "Reunión"} {
		task, err := taskDomain.NewTask(assignee, title, "")
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, task))
		tasks = append(tasks, task)
	}
	filter := taskDomain.TaskFilter{TitlePrefix: "INFORME"}

	// Act
	args := pagination.NormalizedArgs[string]{Direction: pagination.Forward, Limit: 2}
	conn, err := pagination.Paginate[*taskDomain.Task](ctx, repo,
		pagination.NewScan(args, filter.Criteria(assignee), pagination.WithSortByID(pagination.Ascending)), args)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 2, conn.TotalCount)
	require.Len(t, conn.Edges, 1)
	assert.Equal(t, tasks[0].ID, conn.Edges[0].Node.ID)
	assert.True(t, conn.PageInfo.HasNextPage)
}

func TestTaskRepoPostgres_UpdateAndExists(t *testing.T) {
	repo := NewTaskRepoPostgres(setupPostgresTestDB(t))
	ctx := context.Background()
	task, err := taskDomain.NewTask(uuid.NewString(), "t", "")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, task))

	task.Complete()
	require.NoError(t, repo.Update(ctx, task))
	got, err := repo.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, taskDomain.TaskCompleted, got.Status)

	ok, err := repo.ExistsForAssignee(ctx, uuid.NewString(), task.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = repo.GetByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, taskDomain.ErrTaskNotFound)
}

func TestTaskRepoPostgres_IDsCompareByBytes(t *testing.T) {
	db := setupPostgresTestDB(t)

	var collation string
	require.NoError(t, db.QueryRow(
		`SELECT collation_name FROM information_schema.columns WHERE table_name = 'tasks' AND column_name = 'id'`,
	).Scan(&collation))

	assert.Equal(t, "C", collation)
}
