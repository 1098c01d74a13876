package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(buf *bytes.Buffer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
	r := gin.New()
	r.Use(CorrelationIDMiddleware(), SlogLoggerMiddleware(logger))
	r.GET("/v1/resumes/:id", func(c *gin.Context) {
		c.String(http.StatusOK, GetCorrelationID(c))
	})
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func TestCorrelationIDPropagation(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{name: "correlation header", headers: map[string]string{"X-Correlation-ID": "abc-123"}, want: "abc-123"},
		{name: "request id fallback", headers: map[string]string{"X-Request-ID": "req-9"}, want: "req-9"},
		{name: "control characters replaced", headers: map[string]string{"X-Correlation-ID": "bad\x01id"}},
		{name: "too long replaced", headers: map[string]string{"X-Correlation-ID": strings.Repeat("a", 200)}},
		{name: "generated"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			r := newEngine(&buf)
			req := httptest.NewRequest(http.MethodGet, "/v1/resumes/r1", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			got := w.Header().Get(CorrelationIDHeader)
			require.NotEmpty(t, got)
			assert.Equal(t, got, w.Body.String())
			if tt.want != "" {
				assert.Equal(t, tt.want, got)
			} else {
				assert.Len(t, got, 36)
			}
		})
	}
}

func TestSlogLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	r := newEngine(&buf)

	for _, path := range []string{"/v1/resumes/r1", "/missing", "/health"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	out := buf.String()
	assert.Contains(t, out, `"resume_id":"r1"`)
	assert.Contains(t, out, `"level":"WARN"`)
	assert.NotContains(t, out, `"path":"/health"`)
}

func TestLoggerFromContextDefault(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Equal(t, slog.Default(), LoggerFromContext(c))
}
