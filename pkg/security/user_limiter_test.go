package security

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestUserRateLimiterWindow(t *testing.T) {
	l := NewUserRateLimiter(2, time.Minute)
	now := time.Unix(1_700_000_000, 0)
	l.SetClock(func() time.Time { return now })

	ok, remaining := l.Allow("amy")
	assert.True(t, ok)
	assert.Equal(t, 1, remaining)
	ok, remaining = l.Allow("amy")
	assert.True(t, ok)
	assert.Equal(t, 0, remaining)
	ok, _ = l.Allow("amy")
	assert.False(t, ok)

	// 不同用户互不影响
	ok, _ = l.Allow("bob")
	assert.True(t, ok)

	now = now.Add(time.Minute)
	ok, _ = l.Allow("amy")
	assert.True(t, ok)
}

func TestUserRateLimiterConfigure(t *testing.T) {
	l := NewUserRateLimiter(1, time.Minute)
	now := time.Unix(1_700_000_000, 0)
	l.SetClock(func() time.Time { return now })

	ok, _ := l.Allow("amy")
	require.True(t, ok)
	ok, _ = l.Allow("amy")
	require.False(t, ok)

	l.Configure(3, 0)
	assert.Equal(t, 3, l.Limit())
	ok, _ = l.Allow("amy")
	assert.True(t, ok)

	l.Configure(-1, 0)
	assert.Equal(t, 3, l.Limit())
}

func TestUserRateLimiterPurge(t *testing.T) {
	l := NewUserRateLimiter(5, time.Minute)
	now := time.Unix(1_700_000_000, 0)
	l.SetClock(func() time.Time { return now })

	l.Allow("amy")
	now = now.Add(30 * time.Second)
	l.Allow("bob")

	now = now.Add(40 * time.Second)
	assert.Equal(t, 1, l.Purge())
	assert.Len(t, l.windows, 1)
	assert.Contains(t, l.windows, "bob")
}

func TestUserRateLimiterMiddleware(t *testing.T) {
	l := NewUserRateLimiter(1, time.Minute)
	r := gin.New()
	r.GET("/x", l.Middleware(func(c *gin.Context) string { return c.Query("u") }), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	do := func(query string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x"+query, nil))
		return w
	}

	assert.Equal(t, http.StatusUnauthorized, do("").Code)

	w := do("?u=amy")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	assert.Equal(t, http.StatusTooManyRequests, do("?u=amy").Code)
	assert.Equal(t, http.StatusOK, do("?u=bob").Code)
}
