package xretry

import (
	"errors"
	"fmt"
	"net/http"
)

// RetryableError 可重试错误接口
// 实现此接口的错误会被显式识别为可重试或不可重试，
// 优先级高于默认的状态码/错误消息判定。
type RetryableError interface {
	error
	Retryable() bool
}

// PermanentError 永久性错误（不应重试）
type PermanentError struct {
	Err error
}

// NewPermanentError 创建永久性错误
func NewPermanentError(err error) *PermanentError {
	return &PermanentError{Err: err}
}

func (e *PermanentError) Error() string {
	if e.Err == nil {
		return "permanent error"
	}
	return e.Err.Error()
}

func (e *PermanentError) Unwrap() error {
	return e.Err
}

func (e *PermanentError) Retryable() bool {
	return false
}

// TemporaryError 临时性错误（应该重试）
type TemporaryError struct {
	Err error
}

// NewTemporaryError 创建临时性错误
func NewTemporaryError(err error) *TemporaryError {
	return &TemporaryError{Err: err}
}

func (e *TemporaryError) Error() string {
	if e.Err == nil {
		return "temporary error"
	}
	return e.Err.Error()
}

func (e *TemporaryError) Unwrap() error {
	return e.Err
}

func (e *TemporaryError) Retryable() bool {
	return true
}

// HTTPError 携带状态码与响应头的 HTTP 失败。
//
// 这是默认瞬时错误判定和 Retry-After 提示提取所识别的显式错误形态。
// 调用方将 HTTP 层失败映射为 HTTPError 后，无需自定义判定函数即可
// 获得默认的重试行为。
type HTTPError struct {
	// StatusCode HTTP 状态码
	StatusCode int

	// Header 响应头（可为 nil）。
	// Retry-After 提示从此处提取。
	Header http.Header

	// Message 可选的错误描述。为空时使用标准格式。
	Message string
}

// NewHTTPError 创建 HTTPError
func NewHTTPError(statusCode int, header http.Header, message string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Header:     header,
		Message:    message,
	}
}

// FromResponse 从 HTTP 响应构造 HTTPError。
// 会克隆响应头，调用方关闭 Body 后错误对象依然有效。
// resp 为 nil 时返回 nil。
func FromResponse(resp *http.Response) *HTTPError {
	if resp == nil {
		return nil
	}
	return &HTTPError{
		StatusCode: resp.StatusCode,
		Header:     resp.Header.Clone(),
	}
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("unexpected status %d (%s)", e.StatusCode, http.StatusText(e.StatusCode))
}

// IsRetryable 检查错误是否可重试（通用引擎使用）。
// 规则：
//   - nil 错误：不需要重试（视为成功）
//   - 实现 RetryableError 接口：根据 Retryable() 返回值判断
//   - 其他错误：默认视为可重试
//
// 注意与 [DefaultIsRetryable] 的区别：通用引擎对未知错误默认重试，
// 瞬时错误执行器对未识别的错误快速失败。
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var re RetryableError
	if errors.As(err, &re) {
		return re.Retryable()
	}

	return true
}

// IsPermanent 检查错误是否为永久性错误
func IsPermanent(err error) bool {
	if err == nil {
		return false
	}
	return !IsRetryable(err)
}
