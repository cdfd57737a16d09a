package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/realestate-app/utils"
)

// WebSocketAuthMiddleware authenticates an upgrade request. Browsers cannot
// set headers on websocket requests, so the token comes from ?token=.
func WebSocketAuthMiddleware(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !strings.EqualFold(c.GetHeader("Upgrade"), "websocket") {
			utils.RespondError(c, http.StatusBadRequest, errors.New("websocket upgrade required"))
			c.Abort()
			return
		}
		token := c.Query("token")
		if token == "" {
			token = utils.ExtractToken(c)
		}
		claims, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		setClaims(c, claims)
		c.Next()
	}
}
