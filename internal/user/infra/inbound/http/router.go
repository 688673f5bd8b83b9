package http

import "github.com/gin-gonic/gin"

func RegisterUserRoutes(r *gin.Engine, handler *UserHandler) {
	orgs := r.Group("/organizations/:orgId/users")
	{
		orgs.POST("", handler.CreateUser)
		orgs.GET("", handler.ListOrganizationUsers)
	}

	users := r.Group("/users")
	{
		users.GET("/:id", handler.GetUser)
		users.POST("/:id/tags", handler.TagUser)
	}
}
