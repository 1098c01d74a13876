package tasks

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

// 任务类型与队列常量，确保队列生产者与消费者一致。
const (
	TypeResumeParse  = "resume:parse"
	QueueResumeParse = "resume_parse_queue"
)

// ResumeParsePayload 描述解析一份简历所需的信息。
type ResumeParsePayload struct {
	ResumeID      string `json:"resumeId"`
	UserID        string `json:"userId"`
	FilePath      string `json:"filePath"`
	CorrelationID string `json:"correlationId,omitempty"`
}

// TaskOptions 控制入队时的队列、超时与重试次数。
type TaskOptions struct {
	Queue    string
	Timeout  time.Duration
	MaxRetry int
}

// DefaultTaskOptions 返回默认的入队参数。
func DefaultTaskOptions() TaskOptions {
	return TaskOptions{
		Queue:    QueueResumeParse,
		Timeout:  30 * time.Minute,
		MaxRetry: 3,
	}
}

// NewResumeParseTask 构造一个新的简历解析任务。
func NewResumeParseTask(p ResumeParsePayload, opts TaskOptions) (*asynq.Task, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	if opts.Queue == "" {
		opts.Queue = QueueResumeParse
	}
	return asynq.NewTask(TypeResumeParse, payload,
		asynq.Queue(opts.Queue),
		asynq.Timeout(opts.Timeout),
		asynq.MaxRetry(opts.MaxRetry),
	), nil
}

// DecodeResumeParsePayload 解析任务载荷。
func DecodeResumeParsePayload(data []byte) (ResumeParsePayload, error) {
	var p ResumeParsePayload
	err := json.Unmarshal(data, &p)
	return p, err
}

// NotifyChannel 返回某条简历处理记录的 Redis 通知频道。
func NotifyChannel(resumeID string) string {
	return "resume_notify:" + resumeID
}
