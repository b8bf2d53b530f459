package middleware

import (
	"strings"
	"syncup_backend/internal/config"
	"syncup_backend/internal/repository"
	"syncup_backend/internal/util"

	"github.com/gin-gonic/gin"
)

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	return strings.TrimPrefix(authHeader, "Bearer ")
}

// AuthMiddleware 会话认证。
// 没带令牌返回 401；令牌无效或过期返回 403，前端据此区分"去登录"和"令牌被拒"。
// 解析通过后按 ID 回查用户：令牌签发后账号被删的情况同样按 401 处理。
func AuthMiddleware(cfg *config.Config, userRepo *repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		claims, err := util.ParseAccessToken(tokenString, cfg.JWT.Secret)
		if err != nil {
			util.Forbidden(c)
			c.Abort()
			return
		}

		if _, err := userRepo.FindByID(claims.UserID); err != nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		c.Set("user", claims)
		c.Next()
	}
}

// TryAuthMiddleware 可选认证：有合法令牌就挂上身份，失败一律放行为匿名
func TryAuthMiddleware(cfg *config.Config, userRepo *repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString != "" {
			if claims, err := util.ParseAccessToken(tokenString, cfg.JWT.Secret); err == nil {
				if _, err := userRepo.FindByID(claims.UserID); err == nil {
					c.Set("user", claims)
				}
			}
		}
		c.Next()
	}
}
