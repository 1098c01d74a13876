package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"

	"resumeATS/internal/api/middleware"
	"resumeATS/internal/resume"
	"resumeATS/internal/tasks"
)

// WsHandler 把某条记录的状态变化推送给 WebSocket 客户端。
// 每条消息都是最新的 resume.Summary；记录进入终态后服务端主动关闭连接。
type WsHandler struct {
	redisClient *redis.Client
	records     *ResumeHandler
	upgrader    websocket.Upgrader
}

// NewWsHandler 构造 WebSocket 处理器。
func NewWsHandler(redisClient *redis.Client, records *ResumeHandler) *WsHandler {
	return &WsHandler{
		redisClient: redisClient,
		records:     records,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				u, err := url.Parse(origin)
				if err != nil {
					return false
				}
				return strings.EqualFold(u.Host, r.Host)
			},
		},
	}
}

// HandleConnection 校验记录存在后升级连接，并启动读写循环。
func (h *WsHandler) HandleConnection(c *gin.Context) {
	rec, ok := h.records.loadRecord(c)
	if !ok {
		return
	}

	log := middleware.LoggerFromContext(c).With(
		slog.String("resume_id", rec.ID),
		slog.String("client_ip", c.ClientIP()),
	)

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("upgrade websocket failed", slog.Any("error", err))
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 先订阅再读取快照，避免错过两者之间发布的通知。
	channel := tasks.NotifyChannel(rec.ID)
	pubsub := h.redisClient.Subscribe(ctx, channel)
	defer pubsub.Close()
	if _, err := pubsub.Receive(ctx); err != nil {
		log.Error("subscribe redis channel failed", slog.Any("error", err))
		writeClose(conn, websocket.CloseInternalServerErr, "subscribe failed")
		return
	}

	errCh := make(chan error, 2)
	go readLoop(conn, errCh, cancel)

	done, err := h.pushSummary(ctx, conn, rec.ID)
	if err != nil || done {
		h.closeWith(conn, log, err)
		return
	}

	msgs := pubsub.Channel()
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("websocket connection closed")
			return
		case err := <-errCh:
			log.Info("websocket connection closed", slog.Any("error", err))
			return
		case _, ok := <-msgs:
			if !ok {
				h.closeWith(conn, log, fmt.Errorf("pubsub channel closed"))
				return
			}
			done, err := h.pushSummary(ctx, conn, rec.ID)
			if err != nil || done {
				h.closeWith(conn, log, err)
				return
			}
		case <-ticker.C:
			deadline := time.Now().Add(5 * time.Second)
			if err := conn.WriteControl(websocket.PingMessage, []byte("ping"), deadline); err != nil {
				log.Info("websocket ping failed", slog.Any("error", err))
				return
			}
		}
	}
}

// pushSummary 发送最新视图，done 表示记录已进入终态。
func (h *WsHandler) pushSummary(ctx context.Context, conn *websocket.Conn, id string) (done bool, err error) {
	rec, err := h.records.store.Get(ctx, id)
	if err != nil {
		return false, fmt.Errorf("load resume result: %w", err)
	}
	if err := conn.WriteJSON(resume.NewSummary(*rec)); err != nil {
		return false, fmt.Errorf("write message: %w", err)
	}
	return rec.Status.Terminal(), nil
}

func (h *WsHandler) closeWith(conn *websocket.Conn, log *slog.Logger, err error) {
	if err != nil {
		log.Warn("websocket stream aborted", slog.Any("error", err))
		writeClose(conn, websocket.CloseInternalServerErr, "stream error")
		return
	}
	writeClose(conn, websocket.CloseNormalClosure, "done")
}

// readLoop 只用于感知客户端断开。
func readLoop(conn *websocket.Conn, errCh chan<- error, cancel context.CancelFunc) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			errCh <- fmt.Errorf("read message: %w", err)
			cancel()
			return
		}
	}
}

func writeClose(conn *websocket.Conn, code int, text string) {
	deadline := time.Now().Add(5 * time.Second)
	_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, text), deadline)
}
