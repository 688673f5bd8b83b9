package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/davicafu/relaypage/internal/shared/pagination"
	"github.com/davicafu/relaypage/internal/task/application"
	taskDomain "github.com/davicafu/relaypage/internal/task/domain"
	"github.com/davicafu/relaypage/pkg/utils"
)

// TaskHandler encapsula los endpoints HTTP relacionados con Task.
type TaskHandler struct {
	service *application.TaskService
}

// NewTaskHandler crea un nuevo TaskHandler.
func NewTaskHandler(service *application.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

// --- Handlers CRUD ---

// CreateTask endpoint POST /tasks
func (h *TaskHandler) CreateTask(c *gin.Context) {
	var req struct {
		Title       string `json:"title" binding:"required"`
		Description string `json:"description"`
		AssigneeID  string `json:"assigneeId" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequest(c, err.Error())
		return
	}

	task, err := h.service.CreateTask(c.Request.Context(), req.AssigneeID, req.Title, req.Description)
	if err != nil {
		sendTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, task)
}

// GetTask endpoint GET /tasks/:id
func (h *TaskHandler) GetTask(c *gin.Context) {
	task, err := h.service.GetTaskByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		sendTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// UpdateTask endpoint PUT /tasks/:id
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	// Usamos punteros para que los campos sean opcionales en el JSON
	var req application.TaskUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequest(c, err.Error())
		return
	}

	task, err := h.service.UpdateTask(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		sendTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// --- Listados paginados ---

// assigneeTasksArgs nombra los errores de where/sortedBy como los parámetros planos de la query.
var assigneeTasksArgs = utils.QueryArgs{
	"where.status":      "status",
	"where.titlePrefix": "titlePrefix",
	"sortedBy.id":       "sortedBy",
}

// ListAssigneeTasks endpoint GET /users/:id/tasks?first=&after=&last=&before=&status=&titlePrefix=&sortedBy=
func (h *TaskHandler) ListAssigneeTasks(c *gin.Context) {
	req, decodeErrs := utils.ParsePageRequest(c)
	where := taskDomain.TaskWhere{
		Status:      utils.OptionalQuery(c, "status"),
		TitlePrefix: utils.OptionalQuery(c, "titlePrefix"),
	}
	sortedBy := taskDomain.TaskSortedBy{ID: utils.OptionalQuery(c, "sortedBy")}

	conn, err := h.service.ListAssigneeTasks(c.Request.Context(), c.Param("id"), req, where, sortedBy)
	if errs, ok := utils.ArgumentErrorsOf(decodeErrs, err); ok {
		utils.SendArgumentErrors(c, assigneeTasksArgs.Rename(errs))
		return
	}
	if err != nil {
		sendTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, conn)
}

// ListTaskActivity endpoint GET /tasks/:id/activity?first=&after=&last=&before=
func (h *TaskHandler) ListTaskActivity(c *gin.Context) {
	req, decodeErrs := utils.ParsePageRequest(c)

	conn, err := h.service.ListTaskActivity(c.Request.Context(), c.Param("id"), req)
	if errs, ok := utils.ArgumentErrorsOf(decodeErrs, err); ok {
		utils.SendArgumentErrors(c, errs)
		return
	}
	if err != nil {
		sendTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, conn)
}

func sendTaskError(c *gin.Context, err error) {
	var argErrs pagination.ArgumentErrors
	switch {
	case errors.As(err, &argErrs):
		utils.SendArgumentErrors(c, argErrs)
	case errors.Is(err, taskDomain.ErrTaskNotFound):
		utils.SendNotFound(c, "task not found")
	case errors.Is(err, taskDomain.ErrTaskAlreadyExists):
		utils.SendError(c, http.StatusConflict, err.Error())
	case errors.Is(err, taskDomain.ErrInvalidTask),
		errors.Is(err, taskDomain.ErrAssigneeRequired),
		errors.Is(err, taskDomain.ErrInvalidStatus):
		utils.SendBadRequest(c, err.Error())
	case errors.Is(err, application.ErrActivityUnavailable):
		utils.SendError(c, http.StatusServiceUnavailable, err.Error())
	default:
		utils.SendInternalServerError(c, err.Error())
	}
}
