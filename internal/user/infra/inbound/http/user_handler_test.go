package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/davicafu/relaypage/internal/shared/pagination"
	"github.com/davicafu/relaypage/internal/user/application"
	"github.com/davicafu/relaypage/internal/user/domain"
	"github.com/davicafu/relaypage/tests/mocks"
)

type errorsBody struct {
	Errors []pagination.ArgumentError `json:"errors"`
}

func setupRouter(t *testing.T) (*gin.Engine, *application.UserService) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	service := application.NewUserService(mocks.NewInMemoryUserRepo(), nil, &mocks.RecordingPublisher{}, 100, zap.NewNop())
	r := gin.New()
	RegisterUserRoutes(r, NewUserHandler(service))
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

func TestCreateAndGetUser(t *testing.T) {
	// Arrange
	r, _ := setupRouter(t)
	org := uuid.NewString()

	// Act
	rec := do(r, http.MethodPost, "/organizations/"+org+"/users", map[string]string{"email": "ana@example.com", "name": "Ana"})

	// Assert
	require.Equal(t, http.StatusCreated, rec.Code)
	var created domain.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, org, created.OrganizationID)

	rec = do(r, http.MethodGet, "/users/"+created.ID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(r, http.MethodPost, "/organizations/"+org+"/users", map[string]string{"email": "ana@example.com", "name": "Ana"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(r, http.MethodGet, "/users/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateUser_BadRequest(t *testing.T) {
	r, _ := setupRouter(t)

	rec := do(r, http.MethodPost, "/organizations/"+uuid.NewString()+"/users", map[string]string{"email": "no-es-email"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(r, http.MethodPost, "/organizations/acme/users", map[string]string{"email": "a@b.io", "name": "A"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTagUser(t *testing.T) {
	r, service := setupRouter(t)
	user, err := service.CreateUser(context.Background(), uuid.NewString(), "a@b.io", "Ana")
	require.NoError(t, err)

	rec := do(r, http.MethodPost, "/users/"+user.ID+"/tags", map[string]string{"tagId": uuid.NewString()})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(r, http.MethodPost, "/users/"+user.ID+"/tags", map[string]string{"tagId": "vip"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListOrganizationUsers(t *testing.T) {
	// Arrange
	r, service := setupRouter(t)
	org := uuid.NewString()
	for i := 0; i < 3; i++ {
		_, err := service.CreateUser(context.Background(), org, fmt.Sprintf("u%d@example.com", i), fmt.Sprintf("User %d", i))
		require.NoError(t, err)
	}

	// Act
	rec := do(r, http.MethodGet, "/organizations/"+org+"/users?first=2&namePrefix=user", nil)

	// Assert
	require.Equal(t, http.StatusOK, rec.Code)
	var conn pagination.Connection[domain.User]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &conn))
	assert.Len(t, conn.Edges, 2)
	assert.Equal(t, 3, conn.TotalCount)
	assert.True(t, conn.PageInfo.HasNextPage)
	require.NotNil(t, conn.PageInfo.EndCursor)

	// Act: página siguiente
	rec = do(r, http.MethodGet, "/organizations/"+org+"/users?first=2&after="+*conn.PageInfo.EndCursor, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var next pagination.Connection[domain.User]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &next))
	assert.Len(t, next.Edges, 1)
	assert.False(t, next.PageInfo.HasNextPage)
	assert.True(t, next.PageInfo.HasPreviousPage)
}

func TestListOrganizationUsers_ArgumentErrors(t *testing.T) {
	r, _ := setupRouter(t)
	base := "/organizations/" + uuid.NewString() + "/users"

	cases := []struct {
		name     string
		query    string
		expected []string
	}{
		{"no entero", "?first=dos", []string{"first must be an integer"}},
		{"sin first ni last", "", []string{"first was not provided", "last was not provided"}},
		{"first y last", "?first=1&last=1", []string{"last cannot be provided with first"}},
		{"límite excedido", "?first=101", []string{"first cannot exceed 100"}},
		{"cursor desconocido", "?first=1&after=" + uuid.NewString(), []string{"Argument after is an invalid cursor."}},
		{"prefijo vacío", "?first=1&namePrefix=%20", []string{"namePrefix cannot be empty"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(r, http.MethodGet, base+tc.query, nil)

			require.Equal(t, http.StatusBadRequest, rec.Code)
			var body errorsBody
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			messages := make([]string, 0, len(body.Errors))
			for _, e := range body.Errors {
				messages = append(messages, e.Message)
			}
			assert.Equal(t, tc.expected, messages)
		})
	}
}

func TestListOrganizationUsers_FlatPathsAndDecodeErrorsTogether(t *testing.T) {
	r, _ := setupRouter(t)

	rec := do(r, http.MethodGet, "/organizations/"+uuid.NewString()+"/users?last=x&namePrefix=%20&excludeTagId=nope", nil)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var body errorsBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []pagination.ArgumentError{
		{Message: "last must be an integer", Path: []string{"last"}},
		{Message: "namePrefix cannot be empty", Path: []string{"namePrefix"}},
		{Message: "excludeTagId must be a valid UUID", Path: []string{"excludeTagId"}},
	}, body.Errors)
}
