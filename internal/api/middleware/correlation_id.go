package middleware

import (
	"strings"
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	correlationIDKey = "correlationID"

	// CorrelationIDHeader 贯穿 API、任务 payload 与 worker 日志。
	CorrelationIDHeader = "X-Correlation-ID"

	maxCorrelationIDLen = 128
)

// CorrelationIDMiddleware 确保每个请求都带有 Correlation ID。
// 优先使用 X-Correlation-ID，其次 X-Request-ID；不合法的值会被替换为新的 UUID。
func CorrelationIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := sanitizeCorrelationID(c.GetHeader(CorrelationIDHeader))
		if id == "" {
			id = sanitizeCorrelationID(c.GetHeader("X-Request-ID"))
		}
		if id == "" {
			id = uuid.NewString()
		}

		c.Set(correlationIDKey, id)
		c.Header(CorrelationIDHeader, id)

		c.Next()
	}
}

// sanitizeCorrelationID 拒绝过长或带控制字符的值，它们会原样进入日志与队列消息。
func sanitizeCorrelationID(raw string) string {
	id := strings.TrimSpace(raw)
	if id == "" || len(id) > maxCorrelationIDLen {
		return ""
	}
	for _, r := range id {
		if !unicode.IsPrint(r) || unicode.IsSpace(r) {
			return ""
		}
	}
	return id
}

// GetCorrelationID 从上下文中取出 Correlation ID。
func GetCorrelationID(c *gin.Context) string {
	if id, ok := c.Get(correlationIDKey); ok {
		s, _ := id.(string)
		return s
	}
	return ""
}
