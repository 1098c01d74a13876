package api

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RegisterRoutes 注册 API 路由，不包含 /api 前缀。
// redisClient 为 nil 时不注册 WebSocket 路由，也不限制上传频率。
func RegisterRoutes(
	router *gin.Engine,
	resumeHandler *ResumeHandler,
	redisClient *redis.Client,
	uploadsPerMinute int,
) {
	v1 := router.Group("/v1")

	resumeGroup := v1.Group("/resumes")
	{
		if redisClient != nil {
			resumeGroup.POST("", UploadRateLimit(redisClient, uploadsPerMinute), resumeHandler.UploadResume)
			resumeGroup.GET("/:id/ws", NewWsHandler(redisClient, resumeHandler).HandleConnection)
		} else {
			resumeGroup.POST("", resumeHandler.UploadResume)
		}
		resumeGroup.GET("/:id", resumeHandler.GetResume)
	}
}
