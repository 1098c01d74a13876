package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hibiken/asynq"
	"gorm.io/gorm"

	"resumeATS/internal/database"
	"resumeATS/internal/errcode"
	"resumeATS/internal/metrics"
	"resumeATS/internal/resume"
	"resumeATS/internal/tasks"
)

// StatusStore 是 worker 对处理记录的写入接口，由 database.StatusStore 实现。
type StatusStore interface {
	SetProcessing(ctx context.Context, id string) error
	SetTerminal(ctx context.Context, id string, u resume.TerminalUpdate) error
}

// ResumeTaskHandler 负责消费简历解析任务。
type ResumeTaskHandler struct {
	store    StatusStore
	pipeline *Pipeline
	sources  *SourceResolver
	notifier Notifier
	logger   *slog.Logger
}

// NewResumeTaskHandler 创建任务处理器。notifier 可以为 nil。
func NewResumeTaskHandler(
	store StatusStore,
	pipeline *Pipeline,
	sources *SourceResolver,
	notifier Notifier,
	logger *slog.Logger,
) *ResumeTaskHandler {
	if sources == nil {
		sources = NewSourceResolver(nil, "")
	}
	return &ResumeTaskHandler{
		store:    store,
		pipeline: pipeline,
		sources:  sources,
		notifier: notifier,
		logger:   logger,
	}
}

// taskProgress 记录一次投递已经写入了哪些状态，供 panic 兜底使用。
type taskProgress struct {
	resumeID      string
	correlationID string
	processing    bool
	terminal      bool
}

// ProcessTask 实现 asynq.Handler。
// 返回 nil 表示终态已写入（或任务无可写入的记录）；返回错误交由 asynq 重新投递。
func (h *ResumeTaskHandler) ProcessTask(ctx context.Context, t *asynq.Task) (retErr error) {
	log := h.logger
	if taskID, ok := asynq.GetTaskID(ctx); ok {
		log = log.With(slog.String("task_id", taskID))
	}

	var progress taskProgress
	defer func() {
		if r := recover(); r != nil {
			log.Error("resume task panicked", slog.Any("panic", r))
			retErr = h.recoverPanic(ctx, log, &progress, r)
		}
	}()

	payload, err := tasks.DecodeResumeParsePayload(t.Payload())
	if err != nil {
		log.Error("unmarshal task payload failed", slog.Any("error", err))
		return fmt.Errorf("decode payload: %v: %w", err, asynq.SkipRetry)
	}

	resumeID := strings.TrimSpace(payload.ResumeID)
	log = log.With(
		slog.String("correlation_id", payload.CorrelationID),
		slog.String("resume_id", resumeID),
		slog.String("user_id", payload.UserID),
		slog.String("file_path", payload.FilePath),
	)
	log.Info("resume parse task received")
	progress.resumeID = resumeID
	progress.correlationID = payload.CorrelationID

	if resumeID == "" {
		log.Error("task rejected: missing resumeId")
		return fmt.Errorf("missing resumeId: %w", asynq.SkipRetry)
	}
	if strings.TrimSpace(payload.FilePath) == "" {
		log.Warn("task rejected: missing filePath")
		update := resume.Failed(errcode.ValidationError, "Missing required fields: resumeId or filePath")
		return h.finish(ctx, log, &progress, update)
	}

	if err := h.store.SetProcessing(ctx, resumeID); err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			log.Warn("resume result not found, skipping task")
			return nil
		case errors.Is(err, database.ErrAlreadyTerminal):
			log.Info("resume result already terminal, reprocessing redelivered task")
		default:
			log.Error("set processing status failed", slog.Any("error", err))
			return err
		}
	}
	progress.processing = true

	update, err := h.process(ctx, log, payload.FilePath)
	if err != nil {
		return err
	}
	return h.finish(ctx, log, &progress, update)
}

// recoverPanic 处理流水线阶段之外的 panic。
// processing 已写入而终态未写入时，尽力写入 failed/internal_error 并确认任务；
// 兜底写入失败或尚未写入 processing 时返回错误交给 asynq 重试。
func (h *ResumeTaskHandler) recoverPanic(ctx context.Context, log *slog.Logger, p *taskProgress, r any) error {
	if p.terminal {
		return nil
	}
	if !p.processing {
		return fmt.Errorf("resume task panic: %v", r)
	}

	update := resume.Failed(errcode.InternalError, "Unexpected error while processing the resume")
	if err := h.store.SetTerminal(ctx, p.resumeID, update); err != nil {
		log.Error("write failed status after panic failed", slog.Any("error", err))
		return fmt.Errorf("resume task panic: %v", r)
	}
	p.terminal = true
	metrics.ObserveResult(string(update.Status), string(update.ErrorKind))
	h.notify(ctx, log, p, update)
	return nil
}

// process 运行流水线并得到终态。只有需要重新投递的错误才会返回 error。
func (h *ResumeTaskHandler) process(ctx context.Context, log *slog.Logger, filePath string) (resume.TerminalUpdate, error) {
	localPath, cleanup, err := h.sources.Resolve(ctx, filePath)
	if err != nil {
		if shouldRetry(ctx, err) {
			log.Warn("resolve resume file failed, will retry", slog.Any("error", err))
			return resume.TerminalUpdate{}, err
		}
		log.Error("resolve resume file failed", slog.Any("error", err))
		return failedUpdate(err), nil
	}
	defer cleanup()

	result, err := h.pipeline.Run(ctx, localPath)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			log.Warn("resume task interrupted", slog.Any("error", ctxErr))
			return resume.TerminalUpdate{}, ctxErr
		}
		log.Warn("resume pipeline failed",
			slog.String("error_kind", string(errcode.KindOf(err))),
			slog.Any("error", err),
		)
		return failedUpdate(err), nil
	}

	return resume.Completed(result.RawText, result.Skills, result.Analysis), nil
}

// finish 写入终态；写入成功后尽力发送通知。
func (h *ResumeTaskHandler) finish(ctx context.Context, log *slog.Logger, p *taskProgress, update resume.TerminalUpdate) error {
	resumeID := p.resumeID
	if err := h.store.SetTerminal(ctx, resumeID, update); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn("resume result not found, dropping terminal status", slog.String("status", string(update.Status)))
			return nil
		}
		log.Error("write terminal status failed", slog.Any("error", err))

		if update.Status != resume.StatusFailed {
			fallback := resume.Failed(errcode.InternalError, "Failed to save processing result")
			if ferr := h.store.SetTerminal(ctx, resumeID, fallback); ferr != nil {
				log.Error("write fallback failed status failed", slog.Any("error", ferr))
			}
		}
		return fmt.Errorf("write terminal status: %w", err)
	}
	p.terminal = true

	metrics.ObserveResult(string(update.Status), string(update.ErrorKind))
	switch update.Status {
	case resume.StatusCompleted:
		attrs := []any{slog.Int("skills_count", len(update.Skills))}
		if update.Analysis != nil {
			metrics.ObserveATSScore(update.Analysis.ATSScore)
			attrs = append(attrs,
				slog.Int("ats_score", update.Analysis.ATSScore),
				slog.Int("missing_skills", len(update.Analysis.MissingSkills)),
			)
		}
		log.Info("resume processing completed", attrs...)
	case resume.StatusFailed:
		log.Info("resume processing failed",
			slog.String("error_kind", string(update.ErrorKind)),
			slog.String("error", update.ErrorMessage),
		)
	}

	h.notify(ctx, log, p, update)
	return nil
}

// notify 尽力发送终态通知，失败或 panic 都只记录日志。
func (h *ResumeTaskHandler) notify(ctx context.Context, log *slog.Logger, p *taskProgress, update resume.TerminalUpdate) {
	if h.notifier == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			log.Error("status notifier panicked", slog.Any("panic", r))
		}
	}()
	msg := newNotifyMessage(p.resumeID, p.correlationID, update)
	if err := h.notifier.Publish(ctx, msg); err != nil {
		log.Warn("publish status notification failed", slog.Any("error", err))
	}
}

func failedUpdate(err error) resume.TerminalUpdate {
	return resume.Failed(errcode.KindOf(err), errcode.MessageOf(err))
}

// shouldRetry 判断文件解析错误是否交给队列重试：
// ctx 已结束总是重试；带类型的错误不会因重试改变；其余错误在最后一次尝试时转为失败。
func shouldRetry(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return true
	}
	var typed *errcode.Error
	if errors.As(err, &typed) {
		return false
	}
	return !isFinalAsynqAttempt(ctx)
}

func isFinalAsynqAttempt(ctx context.Context) bool {
	retryCount, ok1 := asynq.GetRetryCount(ctx)
	maxRetry, ok2 := asynq.GetMaxRetry(ctx)
	if !ok1 || !ok2 {
		return false
	}
	return retryCount >= maxRetry
}
