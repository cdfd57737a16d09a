package config

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/realestate-app/utils"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("GIN_MODE", "")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("API_PREFIX", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "api", cfg.APIPrefix)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, devJWTSecret, cfg.JWTSecret)
	assert.Equal(t, 24*time.Hour, cfg.JWTExpiresIn)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("API_PREFIX", "/v1/")
	t.Setenv("DB_DRIVER", "MySQL")
	t.Setenv("JWT_EXPIRES_IN", "15m")
	t.Setenv("MAX_UPLOAD_MB", "2")
	t.Setenv("METRICS_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "v1", cfg.APIPrefix)
	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.Equal(t, 15*time.Minute, cfg.JWTExpiresIn)
	assert.EqualValues(t, 2<<20, cfg.MaxUploadBytes)
	assert.False(t, cfg.MetricsEnabled)
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := map[string]map[string]string{
		"release without secret": {"GIN_MODE": "release", "JWT_SECRET": ""},
		"unknown driver":         {"DB_DRIVER": "oracle"},
		"bad duration":           {"JWT_EXPIRES_IN": "soon"},
		"node out of range":      {"SNOWFLAKE_NODE": "2048"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestInitDBLogsThroughLogrus(t *testing.T) {
	utils.InitLogger()
	var buf bytes.Buffer
	utils.InfoLogger.SetOutput(&buf)

	db, err := InitDB(&Config{DBDriver: "sqlite", DBDSN: "file:" + uuid.NewString() + "?mode=memory&cache=shared", GinMode: "release"})
	require.NoError(t, err)

	require.Error(t, db.Exec("SELECT * FROM missing_table").Error)
	assert.Contains(t, buf.String(), "missing_table")
	assert.Contains(t, buf.String(), "component=gorm")
}
