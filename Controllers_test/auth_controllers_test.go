package Controllers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/realestate-app/models"
	"github.com/yeremiapane/realestate-app/utils"
)

func TestAuthFlow(t *testing.T) {
	a := setupApp(t)

	// Register
	w := a.do(t, "POST", "/api/auth/email/register", "", map[string]interface{}{
		"email":     "buyer@example.com",
		"password":  "secret1",
		"firstName": "Budi",
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	var user struct {
		ID    string `json:"id"`
		Roles []int  `json:"roles"`
	}
	decode(t, w, &user)
	assert.Equal(t, []int{2}, user.Roles)

	// Duplicate email
	w = a.do(t, "POST", "/api/auth/email/register", "", map[string]interface{}{
		"email": "buyer@example.com", "password": "secret1",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Email already exists", decode(t, w, nil).Message)

	// Wrong password
	w = a.do(t, "POST", "/api/auth/email/login", "", map[string]interface{}{
		"email": "buyer@example.com", "password": "nope",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Login sets the cookie and returns both tokens
	w = a.do(t, "POST", "/api/auth/email/login", "", map[string]interface{}{
		"email": "buyer@example.com", "password": "secret1",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Set-Cookie"), utils.AccessTokenCookie+"=")
	var login struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	decode(t, w, &login)
	require.NotEmpty(t, login.AccessToken)

	w = a.do(t, "GET", "/api/auth/verify", login.AccessToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// Refresh rotates the token
	w = a.do(t, "POST", "/api/auth/refresh", "", map[string]string{"refresh_token": login.RefreshToken})
	assert.Equal(t, http.StatusOK, w.Code)
	w = a.do(t, "POST", "/api/auth/refresh", "", map[string]string{"refresh_token": login.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Logout revokes the access token
	w = a.do(t, "POST", "/api/auth/logout", login.AccessToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = a.do(t, "GET", "/api/auth/verify", login.AccessToken, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPasswordReset(t *testing.T) {
	a := setupApp(t)
	a.createUser(t, "seller@example.com", models.RoleUser, models.RoleSeller)

	w := a.do(t, "POST", "/api/auth/forgot-password", "", map[string]string{"email": "ghost@example.com"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode(t, w, nil).Data)

	w = a.do(t, "POST", "/api/auth/forgot-password", "", map[string]string{"email": "seller@example.com"})
	require.Equal(t, http.StatusOK, w.Code)
	var issued struct {
		ResetToken string `json:"reset_token"`
	}
	decode(t, w, &issued)
	require.NotEmpty(t, issued.ResetToken)

	w = a.do(t, "POST", "/api/auth/reset-password", "", map[string]string{
		"token": issued.ResetToken, "newPassword": "brandnew1",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	w = a.do(t, "POST", "/api/auth/email/login", "", map[string]string{
		"email": "seller@example.com", "password": "brandnew1",
	})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	a := setupApp(t)
	w := a.do(t, "GET", "/api/auth/verify", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = a.do(t, "GET", "/api/auth/verify", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = a.do(t, "GET", "/ping", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = a.do(t, "GET", "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `realestate_http_requests_total{method="GET",route="/api/auth/verify",status="401"} 2`)
}
