package middlewares

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/realestate-app/models"
	"github.com/yeremiapane/realestate-app/utils"
)

const (
	ctxClaims = "claims"
	ctxActor  = "actor"
)

// Authenticator validates an access token.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*utils.CustomClaims, error)
}

func AuthMiddleware(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := auth.Authenticate(c.Request.Context(), utils.ExtractToken(c))
		if err != nil {
			utils.RespondServiceError(c, err)
			c.Abort()
			return
		}
		setClaims(c, claims)
		c.Next()
	}
}

// OptionalAuthMiddleware attaches the caller when a valid token is sent and
// lets anonymous requests through otherwise.
func OptionalAuthMiddleware(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := utils.ExtractToken(c); token != "" {
			if claims, err := auth.Authenticate(c.Request.Context(), token); err == nil {
				setClaims(c, claims)
			}
		}
		c.Next()
	}
}

func setClaims(c *gin.Context, claims *utils.CustomClaims) {
	c.Set(ctxClaims, claims)
	c.Set(ctxActor, models.Actor{
		UserID: claims.UserID(),
		Email:  claims.Email,
		Roles:  models.RoleSetFromInts(claims.Roles),
	})
}

func CurrentActor(c *gin.Context) (models.Actor, bool) {
	v, ok := c.Get(ctxActor)
	if !ok {
		return models.Actor{}, false
	}
	actor, ok := v.(models.Actor)
	return actor, ok
}

func CurrentClaims(c *gin.Context) (*utils.CustomClaims, bool) {
	v, ok := c.Get(ctxClaims)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*utils.CustomClaims)
	return claims, ok
}
