package configwatcher

import (
	"context"
	"os"
	"path/filepath"
	"portfolio_backend/internal/config"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, path string, perUser int) {
	t.Helper()
	content := []byte("server:\n  mode: debug\ndatabase:\n  driver: sqlite\nstorage:\n  local_path: " +
		filepath.Join(filepath.Dir(path), "uploads") + "\nrate_limit:\n  requests_per_user: " + strconv.Itoa(perUser) + "\n")
	require.NoError(t, os.WriteFile(path, content, 0644))
}

func TestWatchConfigReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	writeConfig(t, path, 3)

	var got atomic.Int64
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- WatchConfig(ctx, path, func(cfg *config.Config) {
			got.Store(int64(cfg.RateLimit.RequestsPerUser))
		})
	}()

	// 等待监听器就绪
	time.Sleep(200 * time.Millisecond)
	writeConfig(t, path, 7)

	require.Eventually(t, func() bool { return got.Load() == 7 }, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not exit after cancel")
	}
}
