package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
server:
  port: "9090"
  mode: debug
database:
  driver: sqlite
  sqlite_path: volumes/test.db
jwt:
  secret: short
  expire_hours: 2
storage:
  type: local
  local_path: %s
runner:
  timeout_ms: 1500
  java_image: my-java
rate_limit:
  requests_per_user: 0
cors:
  allowed_origins:
    - http://localhost:4100
`

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	uploads := filepath.Join(dir, "uploads")
	content := []byte(strings.Replace(sampleConfig, "%s", uploads, 1))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), content, 0644))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 2*time.Hour, cfg.JWT.ExpireTime)
	assert.Equal(t, "jwt_portfolio", cfg.JWT.CookieName)
	assert.Equal(t, 1500*time.Millisecond, cfg.Runner.Timeout)
	assert.Equal(t, "my-java", cfg.Runner.JavaImage)
	assert.Equal(t, "python:3.12-slim", cfg.Runner.PythonImage)
	assert.Equal(t, 10, cfg.RateLimit.RequestsPerUser)
	assert.Equal(t, time.Minute, cfg.RateLimit.UserWindow())
	assert.Equal(t, []string{"http://localhost:4100"}, cfg.CORS.AllowedOrigins)

	_, err = os.Stat(uploads)
	assert.NoError(t, err, "local storage dir is created")
}

func TestNormalize(t *testing.T) {
	cfg := &Config{
		Server:   ServerConfig{Mode: "release"},
		JWT:      JWTConfig{Secret: "short", ExpireTime: 1},
		Database: DatabaseConfig{Driver: "sqlite"},
	}
	assert.Error(t, cfg.normalize())

	cfg = &Config{
		Server:   ServerConfig{Mode: "debug"},
		Database: DatabaseConfig{Driver: "postgres"},
	}
	assert.Error(t, cfg.normalize())

	cfg = &Config{
		Server:    ServerConfig{Mode: "release"},
		JWT:       JWTConfig{Secret: "0123456789abcdef0123456789abcdef", ExpireTime: 12},
		Database:  DatabaseConfig{Driver: "mysql"},
		RateLimit: RateLimitConfig{RequestsPerUser: 5, UserWindowMins: 2},
	}
	require.NoError(t, cfg.normalize())
	assert.Equal(t, 12*time.Hour, cfg.JWT.ExpireTime)
	assert.Equal(t, 5, cfg.RateLimit.RequestsPerUser)
	assert.Equal(t, 2*time.Minute, cfg.RateLimit.UserWindow())
}
