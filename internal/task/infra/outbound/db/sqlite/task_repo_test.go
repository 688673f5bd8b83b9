package sqlite

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davicafu/relaypage/internal/shared/pagination"
	taskDomain "github.com/davicafu/relaypage/internal/task/domain"
)

func setupRepo(t *testing.T) *TaskRepoSQLite {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, InitSQLite(db))
	return NewTaskRepoSQLite(db)
}

func TestTaskRepoSQLite_CRUD(t *testing.T) {
	// Arrange
	repo := setupRepo(t)
	ctx := context.Background()
	task, err := taskDomain.NewTask(uuid.NewString(), "Preparar demo", "desc")
	require.NoError(t, err)

	// Act
	require.NoError(t, repo.Create(ctx, task))
	task.Fail()
	require.NoError(t, repo.Update(ctx, task))
	got, err := repo.GetByID(ctx, task.ID)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, taskDomain.TaskFailed, got.Status)
	assert.True(t, task.UpdatedAt.Equal(got.UpdatedAt))
	assert.ErrorIs(t, repo.Create(ctx, task), taskDomain.ErrTaskAlreadyExists)

	_, err = repo.GetByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, taskDomain.ErrTaskNotFound)
	missing, _ := taskDomain.NewTask(uuid.NewString(), "x", "")
	assert.ErrorIs(t, repo.Update(ctx, missing), taskDomain.ErrTaskNotFound)
}

func TestTaskRepoSQLite_PaginatesAscending(t *testing.T) {
	// Arrange
	repo := setupRepo(t)
	ctx := context.Background()
	assignee := uuid.NewString()
	var tasks []*taskDomain.Task
	for _, title := range []string{"a", "b", "c", "d"} {
		task, err := taskDomain.NewTask(assignee, title, "")
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, task))
		tasks = append(tasks, task)
	}
	other, _ := taskDomain.NewTask(uuid.NewString(), "ajena", "")
	require.NoError(t, repo.Create(ctx, other))

	ok, err := repo.ExistsForAssignee(ctx, assignee, other.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	// Act
	args := pagination.NormalizedArgs[string]{Cursor: &tasks[0].ID, Direction: pagination.Forward, Limit: 3}
	scan := pagination.NewScan(args, taskDomain.TaskFilter{Status: taskDomain.TaskPending}.Criteria(assignee),
		pagination.WithSortByID(pagination.Ascending))
	conn, err := pagination.Paginate[*taskDomain.Task](ctx, repo, scan, args)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 4, conn.TotalCount, "el cursor no afecta al total")
	require.Len(t, conn.Edges, 2)
	assert.Equal(t, tasks[1].ID, conn.Edges[0].Node.ID)
	assert.Equal(t, tasks[2].ID, conn.Edges[1].Node.ID)
	assert.True(t, conn.PageInfo.HasNextPage)
	assert.True(t, conn.PageInfo.HasPreviousPage)
}
