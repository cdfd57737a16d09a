package middlewares

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/yeremiapane/realestate-app/models"
	"github.com/yeremiapane/realestate-app/utils"
	"golang.org/x/time/rate"
)

type staticAuth struct {
	tokens map[string]*utils.CustomClaims
}

func (a staticAuth) Authenticate(ctx context.Context, token string) (*utils.CustomClaims, error) {
	claims, ok := a.tokens[token]
	if !ok {
		return nil, utils.Unauthorized("Invalid or expired token")
	}
	return claims, nil
}

func claimsFor(id string, roles ...models.Role) *utils.CustomClaims {
	c := &utils.CustomClaims{Roles: models.NewRoleSet(roles...).Ints()}
	c.Subject = id
	return c
}

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	utils.InitLogger()
	auth := staticAuth{tokens: map[string]*utils.CustomClaims{
		"admin": claimsFor("a1", models.RoleAdmin),
		"agent": claimsFor("u1", models.RoleUser, models.RoleAgent),
		"user":  claimsFor("u2", models.RoleUser),
	}}

	r := gin.New()
	ok := func(c *gin.Context) { c.Status(http.StatusOK) }
	r.GET("/agents", AuthMiddleware(auth), RequireRoles(models.RoleAgent), ok)
	r.GET("/users/:userId", AuthMiddleware(auth), RequireSelfOrAdmin("userId"), ok)
	r.GET("/maybe", OptionalAuthMiddleware(auth), func(c *gin.Context) {
		if actor, ok := CurrentActor(c); ok {
			c.String(http.StatusOK, actor.UserID)
			return
		}
		c.String(http.StatusOK, "anonymous")
	})
	return r
}

func perform(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireRoles(t *testing.T) {
	r := setupRouter()
	assert.Equal(t, http.StatusUnauthorized, perform(r, "/agents", "").Code)
	assert.Equal(t, http.StatusUnauthorized, perform(r, "/agents", "bogus").Code)
	assert.Equal(t, http.StatusUnauthorized, perform(r, "/agents", "user").Code)
	assert.Equal(t, http.StatusOK, perform(r, "/agents", "agent").Code)
}

func TestRequireSelfOrAdmin(t *testing.T) {
	r := setupRouter()
	assert.Equal(t, http.StatusOK, perform(r, "/users/u2", "user").Code)
	assert.Equal(t, http.StatusUnauthorized, perform(r, "/users/u1", "user").Code)
	assert.Equal(t, http.StatusOK, perform(r, "/users/u1", "admin").Code)
}

func TestOptionalAuth(t *testing.T) {
	r := setupRouter()
	assert.Equal(t, "anonymous", perform(r, "/maybe", "").Body.String())
	assert.Equal(t, "anonymous", perform(r, "/maybe", "bogus").Body.String())
	assert.Equal(t, "u1", perform(r, "/maybe", "agent").Body.String())
}

func TestRateLimiter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rl := NewRateLimiter(rate.Every(time.Hour), 2)
	assert.True(t, rl.Allow("1.1.1.1"))
	assert.True(t, rl.Allow("1.1.1.1"))
	assert.False(t, rl.Allow("1.1.1.1"))
	assert.True(t, rl.Allow("2.2.2.2"))

	r := gin.New()
	r.GET("/", NewRateLimiter(rate.Every(time.Hour), 1).RateLimit(), func(c *gin.Context) { c.Status(http.StatusOK) })
	assert.Equal(t, http.StatusOK, perform(r, "/", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, perform(r, "/", "").Code)
}

func TestRateLimiterSweepsIdleClientsPeriodically(t *testing.T) {
	rl := NewRateLimiter(rate.Every(time.Second), 1)
	base := rl.lastSweep

	rl.allowAt("idle", base)
	rl.allowAt("busy", base.Add(time.Minute))
	// within the sweep interval nothing is scanned
	rl.allowAt("busy", base.Add(rl.ttl))
	assert.Len(t, rl.clients, 2)

	rl.allowAt("busy", base.Add(rl.ttl+2*time.Minute))
	assert.Len(t, rl.clients, 1)
	assert.Contains(t, rl.clients, "busy")
	assert.Equal(t, base.Add(rl.ttl+2*time.Minute), rl.lastSweep)

	rl.allowAt("late", base.Add(2*rl.ttl+time.Minute))
	assert.Len(t, rl.clients, 2)
	rl.allowAt("late", base.Add(2*rl.ttl+3*time.Minute))
	assert.Len(t, rl.clients, 1)
	assert.Contains(t, rl.clients, "late")
}
