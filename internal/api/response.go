package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// errorResponse 是所有非 2xx 响应的统一结构。
type errorResponse struct {
	Error string `json:"error"`
}

// Error 写入错误响应并终止后续 handler。
func Error(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, errorResponse{Error: msg})
}

func BadRequest(c *gin.Context, msg string)      { Error(c, http.StatusBadRequest, msg) }
func NotFound(c *gin.Context, msg string)        { Error(c, http.StatusNotFound, msg) }
func TooManyRequests(c *gin.Context, msg string) { Error(c, http.StatusTooManyRequests, msg) }
func Internal(c *gin.Context, msg string)        { Error(c, http.StatusInternalServerError, msg) }
