package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/realestate-app/models"
	"github.com/yeremiapane/realestate-app/services"
	"github.com/yeremiapane/realestate-app/utils"
)

// RequireRoles lets the request through when the caller holds any of roles.
// It must run after AuthMiddleware.
func RequireRoles(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := CurrentActor(c)
		if !ok {
			utils.RespondServiceError(c, utils.Unauthorized("unauthorized"))
			c.Abort()
			return
		}
		if err := services.RequireRole(actor, roles...); err != nil {
			utils.RespondServiceError(c, err)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireSelfOrAdmin compares the caller with the user id in path param.
func RequireSelfOrAdmin(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := CurrentActor(c)
		if !ok {
			utils.RespondServiceError(c, utils.Unauthorized("unauthorized"))
			c.Abort()
			return
		}
		if err := services.RequireOwnerOrAdmin(actor, c.Param(param), "Not authorized to access another user's data"); err != nil {
			utils.RespondServiceError(c, err)
			c.Abort()
			return
		}
		c.Next()
	}
}
