package security

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// UserKeyFunc 从请求中解析限流主体，返回空串表示无法识别用户
type UserKeyFunc func(c *gin.Context) string

type userWindow struct {
	start time.Time
	count int
}

// UserRateLimiter 按用户的固定窗口限流，限额可在运行时调整
type UserRateLimiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	windows map[string]*userWindow
	now     func() time.Time
}

func NewUserRateLimiter(limit int, window time.Duration) *UserRateLimiter {
	return &UserRateLimiter{
		limit:   limit,
		window:  window,
		windows: make(map[string]*userWindow),
		now:     time.Now,
	}
}

// SetClock 替换时间源（测试用）
func (l *UserRateLimiter) SetClock(now func() time.Time) {
	l.mu.Lock()
	l.now = now
	l.mu.Unlock()
}

// Configure 热更新限额与窗口
func (l *UserRateLimiter) Configure(limit int, window time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if limit > 0 {
		l.limit = limit
	}
	if window > 0 {
		l.window = window
	}
}

func (l *UserRateLimiter) Limit() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.limit
}

// Allow 记录一次请求，返回是否放行以及窗口内剩余次数
func (l *UserRateLimiter) Allow(key string) (bool, int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.windows[key]
	if !ok || now.Sub(w.start) >= l.window {
		w = &userWindow{start: now}
		l.windows[key] = w
	}

	if w.count >= l.limit {
		return false, 0
	}
	w.count++
	return true, l.limit - w.count
}

// Purge 清理已过期的窗口
func (l *UserRateLimiter) Purge() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	removed := 0
	for key, w := range l.windows {
		if now.Sub(w.start) >= l.window {
			delete(l.windows, key)
			removed++
		}
	}
	return removed
}

// StartJanitor 定期清理过期窗口，stop关闭后退出
func (l *UserRateLimiter) StartJanitor(interval time.Duration, stop <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				l.Purge()
			case <-stop:
				return
			}
		}
	}()
}

func (l *UserRateLimiter) Middleware(keyFunc UserKeyFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := keyFunc(c)
		if key == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":    http.StatusUnauthorized,
				"message": "user identity required for rate limiting",
			})
			return
		}

		allowed, remaining := l.Allow(key)
		c.Header("X-RateLimit-Limit", strconv.Itoa(l.Limit()))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"code":    http.StatusTooManyRequests,
				"message": "rate limit exceeded",
			})
			return
		}

		c.Next()
	}
}
