package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"resumeATS/internal/errcode"
	"resumeATS/internal/resume"
	"resumeATS/internal/tasks"
)

// 统一的状态通知协议（通过 Redis Pub/Sub 转发给 WebSocket 客户端）。
// 注意：这里的字段名与前端解析保持一致。
type StatusNotifyMessage struct {
	Status        string `json:"status"`
	ResumeID      string `json:"resume_id"`
	CorrelationID string `json:"correlation_id,omitempty"`
	ErrorCode     int    `json:"error_code"`
	ErrorKind     string `json:"error_kind,omitempty"`
	ErrorMessage  string `json:"error_message,omitempty"`
	ATSScore      *int   `json:"ats_score,omitempty"`
}

// Notifier 发布终态通知。
type Notifier interface {
	Publish(ctx context.Context, msg StatusNotifyMessage) error
}

// RedisNotifier 通过 Redis Pub/Sub 发布通知。
type RedisNotifier struct {
	client *redis.Client
}

// NewRedisNotifier 创建 RedisNotifier。
func NewRedisNotifier(client *redis.Client) *RedisNotifier {
	return &RedisNotifier{client: client}
}

// Publish 把消息发布到 resume_notify:<resumeId>。
func (n *RedisNotifier) Publish(ctx context.Context, msg StatusNotifyMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal notification payload: %w", err)
	}
	channel := tasks.NotifyChannel(msg.ResumeID)
	if err := n.client.Publish(ctx, channel, data).Err(); err != nil {
		return fmt.Errorf("publish redis notification to %q: %w", channel, err)
	}
	return nil
}

func newNotifyMessage(resumeID, correlationID string, u resume.TerminalUpdate) StatusNotifyMessage {
	msg := StatusNotifyMessage{
		Status:        string(u.Status),
		ResumeID:      resumeID,
		CorrelationID: correlationID,
		ErrorCode:     errcode.OK,
	}
	switch u.Status {
	case resume.StatusCompleted:
		if u.Analysis != nil {
			score := u.Analysis.ATSScore
			msg.ATSScore = &score
		}
	case resume.StatusFailed:
		msg.ErrorCode = u.ErrorKind.Code()
		msg.ErrorKind = string(u.ErrorKind)
		msg.ErrorMessage = u.ErrorMessage
	}
	return msg
}
