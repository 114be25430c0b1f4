package middleware

import (
	"github.com/gin-gonic/gin"

	"wechat-relay/cmd/internal/logger"
	"wechat-relay/cmd/relay/auth"
	"wechat-relay/cmd/relay/trace"
)

// SecretAuthMiddleware 는 Authorization 헤더가 "Bearer <secret>" 와 정확히 같은지 확인한다.
// 실패하면 어떤 업스트림 호출도 하지 않고 401 로 끝낸다.
func SecretAuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := auth.CheckBearer(c, secret); err != nil {
			logger.WarnWithFields("unauthorized request", logger.Fields{
				"path":       c.Request.URL.Path,
				"reason":     err.Error(),
				"request_id": trace.RequestIDFromContext(c.Request.Context()),
			})
			auth.AbortWithUnauthorized(c)
			return
		}
		c.Next()
	}
}
