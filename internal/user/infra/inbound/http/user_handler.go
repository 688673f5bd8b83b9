package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/davicafu/relaypage/internal/shared/pagination"
	"github.com/davicafu/relaypage/internal/user/application"
	"github.com/davicafu/relaypage/internal/user/domain"
	"github.com/davicafu/relaypage/pkg/utils"
)

// UserHandler encapsula los endpoints HTTP relacionados con User
type UserHandler struct {
	service *application.UserService
}

// NewUserHandler crea un nuevo UserHandler
func NewUserHandler(service *application.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// ---------------- Handlers ----------------

// CreateUser endpoint POST /organizations/:orgId/users
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
		Name  string `json:"name" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequest(c, err.Error())
		return
	}

	user, err := h.service.CreateUser(c.Request.Context(), c.Param("orgId"), req.Email, req.Name)
	if err != nil {
		sendUserError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

// GetUser endpoint GET /users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.service.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		sendUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// TagUser endpoint POST /users/:id/tags
func (h *UserHandler) TagUser(c *gin.Context) {
	var req struct {
		TagID string `json:"tagId" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequest(c, err.Error())
		return
	}

	user, err := h.service.TagUser(c.Request.Context(), c.Param("id"), req.TagID)
	if err != nil {
		sendUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// organizationUsersArgs nombra los errores de where como los parámetros planos de la query.
var organizationUsersArgs = utils.QueryArgs{
	"where.namePrefix":   "namePrefix",
	"where.excludeTagId": "excludeTagId",
}

// ListOrganizationUsers endpoint GET /organizations/:orgId/users?first=&after=&last=&before=&namePrefix=&excludeTagId=
func (h *UserHandler) ListOrganizationUsers(c *gin.Context) {
	req, decodeErrs := utils.ParsePageRequest(c)

	where := domain.UserWhere{
		NamePrefix:   utils.OptionalQuery(c, "namePrefix"),
		ExcludeTagID: utils.OptionalQuery(c, "excludeTagId"),
	}

	conn, err := h.service.ListOrganizationUsers(c.Request.Context(), c.Param("orgId"), req, where)
	if errs, ok := utils.ArgumentErrorsOf(decodeErrs, err); ok {
		utils.SendArgumentErrors(c, organizationUsersArgs.Rename(errs))
		return
	}
	if err != nil {
		sendUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, conn)
}

func sendUserError(c *gin.Context, err error) {
	var argErrs pagination.ArgumentErrors
	switch {
	case errors.As(err, &argErrs):
		utils.SendArgumentErrors(c, argErrs)
	case errors.Is(err, domain.ErrUserNotFound):
		utils.SendNotFound(c, "user not found")
	case errors.Is(err, domain.ErrUserAlreadyExists):
		utils.SendError(c, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrInvalidUser),
		errors.Is(err, domain.ErrOrganizationRequired),
		errors.Is(err, domain.ErrInvalidTag):
		utils.SendBadRequest(c, err.Error())
	default:
		utils.SendInternalServerError(c, err.Error())
	}
}
