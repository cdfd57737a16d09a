package utils

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const AccessTokenCookie = "access_token"

// ExtractToken looks for a bearer token in the Authorization header, then in
// the access_token cookie, then in the "token" query parameter used by
// websocket clients.
func ExtractToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		if strings.HasPrefix(header, "Bearer ") {
			return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		}
		return ""
	}
	if cookie, err := c.Cookie(AccessTokenCookie); err == nil && cookie != "" {
		return cookie
	}
	return c.Query("token")
}
