package middleware

import (
	"portfolio_backend/internal/model"
	"portfolio_backend/internal/util"
	"portfolio_backend/pkg/logger"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TokenSource 认证所需的配置项
type TokenSource struct {
	Secret     string
	CookieName string
}

func (s TokenSource) extract(c *gin.Context) string {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		if token := strings.TrimPrefix(authHeader, "Bearer "); token != authHeader {
			return token
		}
	}
	if s.CookieName != "" {
		if cookie, err := c.Cookie(s.CookieName); err == nil && cookie != "" {
			return cookie
		}
	}
	return c.Query("token")
}

func AuthMiddleware(src TokenSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := src.extract(c)
		if tokenString == "" {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		claims, err := util.ParseJWT(tokenString, src.Secret)
		if err != nil {
			logger.Log.Debug("JWT parse failed", zap.Error(err))
			util.Unauthorized(c)
			c.Abort()
			return
		}

		c.Set(util.ContextUserKey, claims)
		c.Next()
	}
}

// OptionalAuth 有合法令牌时写入声明，否则直接放行
func OptionalAuth(src TokenSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString := src.extract(c); tokenString != "" {
			if claims, err := util.ParseJWT(tokenString, src.Secret); err == nil {
				c.Set(util.ContextUserKey, claims)
			}
		}
		c.Next()
	}
}

func RoleMiddleware(roles ...model.PersonRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := util.GetUserFromContext(c)
		if user == nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		// 管理员拥有全部权限
		hasRole := user.Role == model.RoleAdmin
		for _, role := range roles {
			if user.Role == role {
				hasRole = true
				break
			}
		}

		if !hasRole {
			util.Forbidden(c)
			c.Abort()
			return
		}
		c.Next()
	}
}
