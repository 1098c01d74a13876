package worker

import (
	"context"
	"errors"
	"log/slog"
	"runtime/debug"
	"strings"
	"time"

	"resumeATS/internal/errcode"
	"resumeATS/internal/metrics"
	"resumeATS/internal/resume"
)

// TextExtractor 从本地文件抽取清洗后的文本。
type TextExtractor interface {
	Extract(path string) (string, error)
}

// SkillMatcher 从文本中识别技能。
type SkillMatcher interface {
	Match(text string) []string
}

// Scorer 计算 ATS 评分。
type Scorer interface {
	Score(text string, skills []string) resume.Analysis
}

// Result 是一次成功运行的产物。
type Result struct {
	RawText  string
	Skills   []string
	Analysis resume.Analysis
}

// Pipeline 串联 extract → match → score。
type Pipeline struct {
	extractor TextExtractor
	matcher   SkillMatcher
	scorer    Scorer
	logger    *slog.Logger
}

// NewPipeline 创建流水线，三个阶段的实现均可被并发共享。
func NewPipeline(extractor TextExtractor, matcher SkillMatcher, scorer Scorer, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{extractor: extractor, matcher: matcher, scorer: scorer, logger: logger}
}

// Run 依次执行各阶段。返回的错误要么是 *errcode.Error，要么是 ctx 的错误。
func (p *Pipeline) Run(ctx context.Context, path string) (*Result, error) {
	var text string
	err := p.stage("extract", func() (err error) {
		text, err = p.extractor.Extract(path)
		return err
	})
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, errcode.New(errcode.NoTextExtracted, "No text could be extracted from the resume")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var skills []string
	if err := p.stage("match", func() error {
		skills = p.matcher.Match(text)
		return nil
	}); err != nil {
		return nil, err
	}
	if skills == nil {
		skills = []string{}
	}

	var analysis resume.Analysis
	if err := p.stage("score", func() error {
		analysis = p.scorer.Score(text, skills)
		return nil
	}); err != nil {
		return nil, err
	}

	return &Result{RawText: text, Skills: skills, Analysis: analysis}, nil
}

// stage 运行单个阶段并把 panic 转为 internal_error。
func (p *Pipeline) stage(name string, fn func() error) (err error) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("pipeline stage panicked",
				slog.String("stage", name),
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())),
			)
			err = errcode.New(errcode.InternalError, "Unexpected error during %s stage", name)
		}
		metrics.ObserveStage(name, time.Since(start))
	}()

	if err := fn(); err != nil {
		var typed *errcode.Error
		if errors.As(err, &typed) {
			return err
		}
		return errcode.Wrap(errcode.InternalError, err, "Unexpected error during %s stage", name)
	}
	return nil
}
