package errcode

import (
	"errors"
	"fmt"
)

// 错误码约定：
// - 0：无错误
// - 4xxx：任务输入或文档本身的问题（重试无意义）
// - 5000：系统错误
const (
	OK               = 0
	InvalidJob       = 4000
	DocumentMissing  = 4004
	FormatRejected   = 4015
	FormatUnknown    = 4016
	DocumentUnusable = 4022
	NoText           = 4042
	SystemError      = 5000
)

// Kind 是写入失败记录的原因标签。
type Kind string

const (
	ValidationError   Kind = "validation_error"
	FileNotFound      Kind = "file_not_found"
	UnsupportedFormat Kind = "unsupported_format"
	InvalidFormat     Kind = "invalid_format"
	ExtractionError   Kind = "extraction_error"
	NoTextExtracted   Kind = "no_text_extracted"
	InternalError     Kind = "internal_error"
)

// Kinds 列出全部失败类型，顺序固定。
var Kinds = []Kind{
	ValidationError,
	FileNotFound,
	UnsupportedFormat,
	InvalidFormat,
	ExtractionError,
	NoTextExtracted,
	InternalError,
}

// Code 返回失败类型对应的数字错误码。
func (k Kind) Code() int {
	switch k {
	case ValidationError:
		return InvalidJob
	case FileNotFound:
		return DocumentMissing
	case UnsupportedFormat:
		return FormatRejected
	case InvalidFormat:
		return FormatUnknown
	case ExtractionError:
		return DocumentUnusable
	case NoTextExtracted:
		return NoText
	default:
		return SystemError
	}
}

// Error 是流水线各阶段返回的带类型错误。
// Message 面向读取记录的用户，Err 仅用于日志。
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// New 构造一个不带底层原因的错误。
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap 构造一个包裹底层原因的错误。
func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf 返回错误链中的失败类型，未识别的错误归为 internal_error。
func KindOf(err error) Kind {
	var typed *Error
	if errors.As(err, &typed) {
		return typed.Kind
	}
	return InternalError
}

// MessageOf 返回可以直接展示给用户的失败原因，不暴露底层错误细节。
func MessageOf(err error) string {
	var typed *Error
	if errors.As(err, &typed) && typed.Message != "" {
		return typed.Message
	}
	return "internal error while processing resume"
}
