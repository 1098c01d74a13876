package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"gorm.io/gorm"

	"resumeATS/internal/api/middleware"
	"resumeATS/internal/errcode"
	"resumeATS/internal/extract"
	"resumeATS/internal/metrics"
	"resumeATS/internal/resume"
	"resumeATS/internal/tasks"
)

// ResultStore 是 API 对处理记录的读写接口，由 database.StatusStore 实现。
type ResultStore interface {
	CreatePending(ctx context.Context, id, userID, filePath string) error
	SetTerminal(ctx context.Context, id string, u resume.TerminalUpdate) error
	Get(ctx context.Context, id string) (*resume.Record, error)
}

// TaskEnqueuer 由 asynq.Client 实现。
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// ResumeHandler 负责简历上传与结果查询。
type ResumeHandler struct {
	store    ResultStore
	enqueuer TaskEnqueuer
	uploads  UploadStore
	scanner  Scanner
	maxBytes int64
	taskOpts tasks.TaskOptions
}

// NewResumeHandler 构造 ResumeHandler。scanner 为 nil 时跳过病毒扫描。
func NewResumeHandler(
	store ResultStore,
	enqueuer TaskEnqueuer,
	uploads UploadStore,
	scanner Scanner,
	maxBytes int64,
	taskOpts tasks.TaskOptions,
) *ResumeHandler {
	return &ResumeHandler{
		store:    store,
		enqueuer: enqueuer,
		uploads:  uploads,
		scanner:  scanner,
		maxBytes: maxBytes,
		taskOpts: taskOpts,
	}
}

// UploadResume 校验并保存上传文件，创建 pending 记录后入队。
func (h *ResumeHandler) UploadResume(c *gin.Context) {
	log := middleware.LoggerFromContext(c)
	ctx := c.Request.Context()

	file, err := c.FormFile("file")
	if err != nil {
		metrics.ObserveUpload("rejected")
		BadRequest(c, "No file uploaded. Please upload a resume file.")
		return
	}

	if file.Size > h.maxBytes {
		metrics.ObserveUpload("rejected")
		BadRequest(c, fmt.Sprintf("File size exceeds %dMB limit.", h.maxBytes/(1024*1024)))
		return
	}
	if file.Size == 0 {
		metrics.ObserveUpload("rejected")
		BadRequest(c, "Uploaded file is empty. Please upload a valid resume.")
		return
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !slices.Contains(extract.SupportedExtensions, ext) {
		metrics.ObserveUpload("rejected")
		BadRequest(c, "Invalid file type. Only PDF, DOC, and DOCX files are allowed.")
		return
	}

	if h.scanner != nil {
		reader, err := file.Open()
		if err != nil {
			Internal(c, "Failed to read uploaded file.")
			return
		}
		err = h.scanner.Scan(reader)
		reader.Close()
		if errors.Is(err, ErrInfected) {
			log.Warn("infected upload rejected", slog.String("filename", file.Filename), slog.Any("error", err))
			metrics.ObserveUpload("infected")
			BadRequest(c, "Malicious file detected.")
			return
		}
		if err != nil {
			log.Error("scan upload failed", slog.Any("error", err))
			metrics.ObserveUpload("failed")
			Internal(c, "Failed to scan uploaded file.")
			return
		}
	}

	userID := strings.TrimSpace(c.PostForm("userId"))
	if userID == "" {
		userID = strings.TrimSpace(c.GetHeader("X-User-ID"))
	}

	reader, err := file.Open()
	if err != nil {
		Internal(c, "Failed to read uploaded file.")
		return
	}
	defer reader.Close()

	contentType := file.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	resumeID := uuid.NewString()
	log = log.With(slog.String("resume_id", resumeID), slog.String("user_id", userID))

	filePath, err := h.uploads.Save(ctx, "resume-"+resumeID+ext, reader, file.Size, contentType)
	if err != nil {
		log.Error("store upload failed", slog.Any("error", err))
		metrics.ObserveUpload("failed")
		Internal(c, "An error occurred while uploading the resume. Please try again.")
		return
	}

	if err := h.store.CreatePending(ctx, resumeID, userID, filePath); err != nil {
		log.Error("create resume result failed", slog.Any("error", err))
		h.removeUpload(ctx, log, filePath)
		metrics.ObserveUpload("failed")
		Internal(c, "An error occurred while uploading the resume. Please try again.")
		return
	}

	task, err := tasks.NewResumeParseTask(tasks.ResumeParsePayload{
		ResumeID:      resumeID,
		UserID:        userID,
		FilePath:      filePath,
		CorrelationID: middleware.GetCorrelationID(c),
	}, h.taskOpts)
	if err == nil {
		_, err = h.enqueuer.EnqueueContext(ctx, task)
	}
	if err != nil {
		log.Error("enqueue resume task failed", slog.Any("error", err))
		failed := resume.Failed(errcode.InternalError, "Failed to queue resume for processing. Please try again.")
		if serr := h.store.SetTerminal(ctx, resumeID, failed); serr != nil {
			log.Error("mark resume result failed", slog.Any("error", serr))
		}
		h.removeUpload(ctx, log, filePath)
		metrics.ObserveUpload("failed")
		Internal(c, "Failed to queue resume for processing. Please try again later.")
		return
	}

	log.Info("resume upload accepted", slog.String("file_path", filePath), slog.Int64("size", file.Size))
	metrics.ObserveUpload("accepted")
	c.JSON(http.StatusAccepted, gin.H{
		"resumeId": resumeID,
		"status":   resume.StatusPending,
		"message":  "Resume uploaded successfully and is being processed.",
	})
}

// GetResume 返回处理记录的对外视图。
// 请求携带 X-User-ID 时只能读取自己的记录。
func (h *ResumeHandler) GetResume(c *gin.Context) {
	rec, ok := h.loadRecord(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, resume.NewSummary(*rec))
}

func (h *ResumeHandler) loadRecord(c *gin.Context) (*resume.Record, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		BadRequest(c, "Invalid resume ID format.")
		return nil, false
	}

	rec, err := h.store.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "Resume result not found.")
			return nil, false
		}
		middleware.LoggerFromContext(c).Error("load resume result failed", slog.String("resume_id", id), slog.Any("error", err))
		Internal(c, "An error occurred while fetching the resume result.")
		return nil, false
	}

	if userID := strings.TrimSpace(c.GetHeader("X-User-ID")); userID != "" && userID != rec.UserID {
		NotFound(c, "Resume result not found.")
		return nil, false
	}
	return rec, true
}

func (h *ResumeHandler) removeUpload(ctx context.Context, log *slog.Logger, filePath string) {
	if err := h.uploads.Remove(ctx, filePath); err != nil {
		log.Warn("remove stored upload failed", slog.String("file_path", filePath), slog.Any("error", err))
	}
}
