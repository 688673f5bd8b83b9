package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/davicafu/relaypage/internal/shared/pagination"
	"github.com/davicafu/relaypage/internal/task/application"
	taskDomain "github.com/davicafu/relaypage/internal/task/domain"
	"github.com/davicafu/relaypage/tests/mocks"
)

func setupRouter(t *testing.T, activity taskDomain.ActivityRepository) (*gin.Engine, *application.TaskService) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	service := application.NewTaskService(mocks.NewInMemoryTaskRepo(), activity, nil, nil, nil, 100, zap.NewNop())
	r := gin.New()
	RegisterTaskRoutes(r, NewTaskHandler(service))
	return r, service
}

func do(r *gin.Engine, method, url string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestTaskCRUD(t *testing.T) {
	// Arrange
	r, _ := setupRouter(t, nil)
	assignee := uuid.NewString()

	// Act
	rec := do(r, http.MethodPost, "/tasks", map[string]string{"title": "Preparar demo", "assigneeId": assignee})

	// Assert
	require.Equal(t, http.StatusCreated, rec.Code)
	var task taskDomain.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &task))
	assert.Equal(t, assignee, task.AssigneeID)

	rec = do(r, http.MethodPut, "/tasks/"+task.ID, map[string]string{"status": "failed"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &task))
	assert.Equal(t, taskDomain.TaskFailed, task.Status)

	rec = do(r, http.MethodGet, "/tasks/"+task.ID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(r, http.MethodPut, "/tasks/"+task.ID, map[string]string{"status": "archived"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(r, http.MethodGet, "/tasks/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(r, http.MethodPost, "/tasks", map[string]string{"title": "x", "assigneeId": "nadie"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListAssigneeTasks(t *testing.T) {
	// Arrange
	r, service := setupRouter(t, nil)
	assignee := uuid.NewString()
	var ids []string
	for _, title := range []string{"a", "b", "c"} {
		task, err := service.CreateTask(context.Background(), assignee, title, "")
		require.NoError(t, err)
		ids = append(ids, task.ID)
	}

	// Act
	rec := do(r, http.MethodGet, "/users/"+assignee+"/tasks?last=2&sortedBy=ASCENDING&status=pending", nil)

	// Assert: los dos últimos en orden ascendente
	require.Equal(t, http.StatusOK, rec.Code)
	var conn pagination.Connection[taskDomain.Task]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &conn))
	require.Len(t, conn.Edges, 2)
	assert.Equal(t, ids[1], conn.Edges[0].Node.ID)
	assert.Equal(t, ids[2], conn.Edges[1].Node.ID)
	assert.True(t, conn.PageInfo.HasPreviousPage)
	assert.False(t, conn.PageInfo.HasNextPage)
	assert.Equal(t, 3, conn.TotalCount)
}

func TestListAssigneeTasks_ArgumentErrors(t *testing.T) {
	r, _ := setupRouter(t, nil)

	rec := do(r, http.MethodGet, "/users/"+uuid.NewString()+"/tasks?first=-1&sortedBy=up", nil)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var body struct {
		Errors []pagination.ArgumentError `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Errors, 2)
	assert.Equal(t, "first must be a non-negative integer", body.Errors[0].Message)
	assert.Equal(t, []string{"sortedBy"}, body.Errors[1].Path, "la ruta es el parámetro de la query")
}

func TestListAssigneeTasks_ReportsEveryErrorAtOnce(t *testing.T) {
	// Arrange
	r, _ := setupRouter(t, nil)

	// Act: first no entero junto a otros tres problemas
	rec := do(r, http.MethodGet, "/users/"+uuid.NewString()+"/tasks?first=abc&last=2&after=x&titlePrefix=", nil)

	// Assert
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var body struct {
		Errors []pagination.ArgumentError `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []pagination.ArgumentError{
		{Message: "first must be an integer", Path: []string{"first"}},
		{Message: "last cannot be provided with first", Path: []string{"last"}},
		{Message: "Argument after is an invalid cursor.", Path: []string{"after"}},
		{Message: "titlePrefix cannot be empty", Path: []string{"titlePrefix"}},
	}, body.Errors)
}

func TestListTaskActivity(t *testing.T) {
	// Arrange
	activity := mocks.NewInMemoryActivityRepo()
	r, service := setupRouter(t, activity)
	task, err := service.CreateTask(context.Background(), uuid.NewString(), "con historial", "")
	require.NoError(t, err)
	entry, err := taskDomain.NewActivity(taskDomain.TaskCreated, task.ID, task.AssigneeID, task.Title, task.Status, time.Now())
	require.NoError(t, err)
	require.NoError(t, activity.LogBatch(context.Background(), []*taskDomain.Activity{entry}))

	// Act
	rec := do(r, http.MethodGet, "/tasks/"+task.ID+"/activity?first=5", nil)

	// Assert
	require.Equal(t, http.StatusOK, rec.Code)
	var conn pagination.Connection[taskDomain.Activity]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &conn))
	require.Len(t, conn.Edges, 1)
	assert.Equal(t, entry.ID, conn.Edges[0].Node.ID)

	rec = do(r, http.MethodGet, "/tasks/"+task.ID+"/activity?first=1&after=%25%25", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListTaskActivity_Unavailable(t *testing.T) {
	r, _ := setupRouter(t, nil)

	rec := do(r, http.MethodGet, "/tasks/"+uuid.NewString()+"/activity?first=1", nil)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
