package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
)

const slogLoggerKey = "slogLogger"

// quietPaths 只在 debug 级别记录，避免探活与抓取指标刷屏。
var quietPaths = map[string]bool{
	"/health":  true,
	"/metrics": true,
}

// SlogLoggerMiddleware 为每个请求派生带 Correlation ID 的 slog.Logger，
// 并按响应状态选择日志级别。
func SlogLoggerMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		attrs := []any{
			slog.String("correlation_id", GetCorrelationID(c)),
			slog.String("method", c.Request.Method),
			slog.String("path", path),
		}
		if id := c.Param("id"); id != "" {
			attrs = append(attrs, slog.String("resume_id", id))
		}
		requestLogger := logger.With(attrs...)
		c.Set(slogLoggerKey, requestLogger)

		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		level := slog.LevelInfo
		switch {
		case status >= 500:
			level = slog.LevelError
		case status >= 400:
			level = slog.LevelWarn
		case quietPaths[path]:
			level = slog.LevelDebug
		}
		requestLogger.Log(c.Request.Context(), level, "request completed",
			slog.Int("status", status),
			slog.Duration("latency", time.Since(start)),
			slog.String("client_ip", c.ClientIP()),
		)
	}
}

// LoggerFromContext 返回请求级 logger，未经过中间件时退回 slog.Default()。
func LoggerFromContext(c *gin.Context) *slog.Logger {
	if l, ok := c.Get(slogLoggerKey); ok {
		if logger, ok := l.(*slog.Logger); ok {
			return logger
		}
	}
	return slog.Default()
}
