package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/hibiken/asynq"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"resumeATS/internal/ats"
	"resumeATS/internal/config"
	"resumeATS/internal/database"
	"resumeATS/internal/extract"
	applog "resumeATS/internal/logger"
	"resumeATS/internal/resume"
	"resumeATS/internal/skills"
	"resumeATS/internal/tasks"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "resume-admin",
		Short:        "运维工具：本地评分、查看与重新投递简历解析任务",
		SilenceUsage: true,
	}
	root.AddCommand(newScoreCmd(), newShowCmd(), newRequeueCmd())
	return root
}

// scoreReport 是 score 子命令的输出。
type scoreReport struct {
	File     string          `json:"file"`
	Skills   []string        `json:"skills"`
	Analysis resume.Analysis `json:"analysis"`
}

func newScoreCmd() *cobra.Command {
	var maxPages int
	cmd := &cobra.Command{
		Use:   "score <file>",
		Short: "在本地抽取并评分一份简历，不访问数据库与队列",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := applog.NewWithWriter(cmd.ErrOrStderr(), config.LogConfig{Level: "warn", Format: "text"})
			report, err := scoreFile(args[0], maxPages, logger)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), report)
		},
	}
	cmd.Flags().IntVar(&maxPages, "max-pages", 0, "PDF 最多读取的页数，0 表示不限制")
	return cmd
}

func scoreFile(path string, maxPages int, logger *slog.Logger) (*scoreReport, error) {
	text, err := extract.New(logger, extract.WithMaxPages(maxPages)).Extract(path)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, errors.New("no text could be extracted from the resume")
	}

	dict := skills.NewDefaultDictionary()
	found := skills.NewMatcher(dict).Match(text)
	analysis := ats.NewEngine(dict.Len(), logger).Score(text, found)
	return &scoreReport{File: path, Skills: found, Analysis: analysis}, nil
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <resume-id>",
		Short: "打印处理记录的对外视图",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			rec, err := store.Get(cmd.Context(), args[0])
			if err != nil {
				return describeLookupError(args[0], err)
			}
			return writeJSON(cmd.OutOrStdout(), resume.NewSummary(*rec))
		},
	}
}

func newRequeueCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "requeue <resume-id>",
		Short: "把记录重置为 pending 并重新投递解析任务",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			store, err := openStoreWith(cfg)
			if err != nil {
				return err
			}

			client := asynq.NewClient(asynq.RedisClientOpt{
				Addr:     cfg.Redis.Addr(),
				Password: cfg.Redis.Password,
				DB:       cfg.Redis.DB,
			})
			defer client.Close()

			info, err := requeue(cmd.Context(), store, client, args[0], tasks.TaskOptions{
				Queue:    cfg.Worker.Queue,
				Timeout:  cfg.Worker.TaskTimeout,
				MaxRetry: cfg.Worker.MaxRetry,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "requeued %s as task %s on %s\n", args[0], info.ID, info.Queue)
			return nil
		},
	}
}

type requeueStore interface {
	Get(ctx context.Context, id string) (*resume.Record, error)
	ResetPending(ctx context.Context, id string) error
}

type enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

func requeue(ctx context.Context, store requeueStore, client enqueuer, id string, opts tasks.TaskOptions) (*asynq.TaskInfo, error) {
	rec, err := store.Get(ctx, id)
	if err != nil {
		return nil, describeLookupError(id, err)
	}
	if rec.FilePath == "" {
		return nil, fmt.Errorf("resume %s has no file path", id)
	}

	task, err := tasks.NewResumeParseTask(tasks.ResumeParsePayload{
		ResumeID: rec.ID,
		UserID:   rec.UserID,
		FilePath: rec.FilePath,
	}, opts)
	if err != nil {
		return nil, err
	}
	if err := store.ResetPending(ctx, id); err != nil {
		return nil, fmt.Errorf("reset resume %s: %w", id, err)
	}
	info, err := client.EnqueueContext(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("enqueue resume %s: %w", id, err)
	}
	return info, nil
}

func openStore() (*database.StatusStore, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return openStoreWith(cfg)
}

func openStoreWith(cfg *config.Config) (*database.StatusStore, error) {
	db, err := database.InitDatabase(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}
	return database.NewStatusStore(db), nil
}

func describeLookupError(id string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("resume %s not found", id)
	}
	return fmt.Errorf("load resume %s: %w", id, err)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
