package Controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/realestate-app/config"
	"github.com/yeremiapane/realestate-app/models"
	"github.com/yeremiapane/realestate-app/router"
	"github.com/yeremiapane/realestate-app/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "controllers-test-secret"

type testApp struct {
	app    *router.App
	tokens *utils.TokenManager
}

func setupApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)
	utils.InitLogger()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))

	cfg := &config.Config{
		APIPrefix:        "api",
		GinMode:          gin.TestMode,
		DBDriver:         "sqlite",
		JWTSecret:        testSecret,
		JWTExpiresIn:     time.Hour,
		JWTRefreshExpiry: 24 * time.Hour,
		FrontendDomain:   "*",
		UploadDir:        t.TempDir(),
		MaxUploadBytes:   1 << 20,
		RateLimitRPS:     1000,
		RateLimitBurst:   1000,
		MetricsEnabled:   true,
	}
	return &testApp{
		app:    router.SetupRouter(db, cfg),
		tokens: utils.NewTokenManager(testSecret, time.Hour, 24*time.Hour),
	}
}

// createUser stores a user with password "secret1" and returns it with an
// access token.
func (a *testApp) createUser(t *testing.T, email string, roles ...models.Role) (*models.User, string) {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	require.NoError(t, err)
	u := &models.User{Email: email, Password: string(hashed), Roles: models.NewRoleSet(roles...)}
	require.NoError(t, a.app.Store.Users.Create(context.Background(), u))

	token, _, err := a.tokens.GenerateToken(u.ID, u.Email, u.Roles.Ints(), utils.AccessToken)
	require.NoError(t, err)
	return u, token
}

func (a *testApp) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(payload)
	}
	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.app.Engine.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder, data interface{}) envelope {
	t.Helper()
	var resp envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	if data != nil {
		require.NoError(t, json.Unmarshal(resp.Data, data), w.Body.String())
	}
	return resp
}
