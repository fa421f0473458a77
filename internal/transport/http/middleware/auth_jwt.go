package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"taskerai/internal/core/auth"
	resp "taskerai/internal/transport/http/response"
)

// AuthJWT 解析 Bearer 令牌，写入 userId / role 供后续动作使用
func AuthJWT(j *auth.JWTer) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if !strings.HasPrefix(ah, "Bearer ") {
			c.AbortWithStatusJSON(resp.Status(resp.CodeUnauthorized), resp.Error(resp.CodeUnauthorized, "missing token"))
			return
		}
		claims, err := j.ParseAccess(strings.TrimPrefix(ah, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(resp.Status(resp.CodeUnauthorized), resp.Error(resp.CodeUnauthorized, "invalid token"))
			return
		}
		c.Set("userId", claims.UID)
		c.Set("role", claims.Role)
		c.Next()
	}
}
