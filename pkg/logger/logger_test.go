package logger

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"portfolio_backend/internal/config"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewWritesJSONWithService(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	l := New(&config.Config{
		Server: config.ServerConfig{Mode: "release"},
		Log:    config.LogConfig{Level: "warn", File: path, MaxSizeMB: 1},
	})
	l.Info("dropped")
	l.Warn("kept", zap.String("k", "v"))
	require.NoError(t, l.Sync())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "kept", entry["msg"])
	assert.Equal(t, ServiceName, entry["service"])
	assert.Equal(t, "v", entry["k"])
}

func TestLevelFallsBackToMode(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, level(&config.Config{Server: config.ServerConfig{Mode: "debug"}}))
	assert.Equal(t, zapcore.InfoLevel, level(&config.Config{Log: config.LogConfig{Level: "nonsense"}}))
	assert.Equal(t, zapcore.ErrorLevel, level(&config.Config{Log: config.LogConfig{Level: "error"}}))
}

func TestGinLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	prev := Log
	Log = zap.New(core)
	t.Cleanup(func() { Log = prev })

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(GinLogger())
	r.GET("/api/quests/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/quests/9", nil))

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	fields := entries[0].ContextMap()
	assert.Equal(t, "/api/quests/:id", fields["route"])
	assert.Equal(t, int64(http.StatusNotFound), fields["status"])
}

func TestAuditLoggerName(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	prev := Log
	Log = zap.New(core)
	t.Cleanup(func() { Log = prev })

	Audit().Info("event")
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "audit", logs.All()[0].LoggerName)
}
