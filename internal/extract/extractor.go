package extract

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"resumeATS/internal/errcode"
)

// Format 是按扩展名识别出的文档格式。
type Format string

const (
	FormatPDF  Format = ".pdf"
	FormatDOCX Format = ".docx"
	FormatDOC  Format = ".doc"
)

// SupportedExtensions 是上传时允许的扩展名（.doc 可以上传，但会在处理阶段失败）。
var SupportedExtensions = []string{string(FormatPDF), string(FormatDOC), string(FormatDOCX)}

// FormatOf 根据小写扩展名识别格式。
// .doc 返回 unsupported_format，其他未知扩展名返回 invalid_format。
func FormatOf(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch Format(ext) {
	case FormatPDF, FormatDOCX:
		return Format(ext), nil
	case FormatDOC:
		return FormatDOC, errcode.New(errcode.UnsupportedFormat,
			"Unsupported file format: %s. DOC extraction is not implemented, please use PDF or DOCX", ext)
	default:
		if ext == "" {
			ext = "(none)"
		}
		return Format(ext), errcode.New(errcode.InvalidFormat,
			"Invalid file format: %s. Supported formats: .pdf, .docx", ext)
	}
}

// Extractor 负责按格式分派文本抽取。
type Extractor struct {
	logger   *slog.Logger
	maxPages int
}

// Option 调整 Extractor 行为。
type Option func(*Extractor)

// WithMaxPages 限制 PDF 最多读取的页数，0 表示不限制。
func WithMaxPages(n int) Option {
	return func(e *Extractor) { e.maxPages = n }
}

// New 创建 Extractor。
func New(logger *slog.Logger, opts ...Option) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	e := &Extractor{logger: logger}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract 读取文件并返回清洗后的文本。
// 文件不存在时在格式分派之前返回 file_not_found；
// 抽取结果只有空白时返回空串而不是错误，由调用方决定如何处理。
func (e *Extractor) Extract(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", errcode.Wrap(errcode.FileNotFound, err, "Resume file not found: %s", filepath.Base(path))
		}
		return "", errcode.Wrap(errcode.FileNotFound, err, "Resume file is not readable: %s", filepath.Base(path))
	}
	if info.IsDir() {
		return "", errcode.New(errcode.FileNotFound, "Resume path is a directory: %s", filepath.Base(path))
	}

	format, err := FormatOf(path)
	if err != nil {
		return "", err
	}

	log := e.logger.With(slog.String("format", string(format)), slog.Int64("size", info.Size()))

	var raw string
	switch format {
	case FormatPDF:
		raw, err = e.extractPDF(path)
	case FormatDOCX:
		raw, err = extractDOCX(path)
	}
	if err != nil {
		return "", errcode.Wrap(errcode.ExtractionError, err,
			"Failed to extract text from %s file", strings.TrimPrefix(string(format), "."))
	}

	if strings.TrimSpace(raw) == "" {
		log.Warn("document yielded no text")
		return "", nil
	}

	cleaned := Clean(raw)
	log.Debug("text extracted",
		slog.Int("raw_chars", len(raw)),
		slog.Int("clean_chars", len(cleaned)),
	)
	return cleaned, nil
}

func recoverParser(err *error, format string) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("%s parser panic: %v", format, r)
	}
}
