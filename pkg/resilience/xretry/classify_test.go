package xretry

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// codedError 通过能力接口暴露状态码的自定义错误。
type codedError struct {
	code int
}

func (e *codedError) Error() string   { return fmt.Sprintf("coded failure %d", e.code) }
func (e *codedError) StatusCode() int { return e.code }

// headeredError 通过能力接口暴露响应头的自定义错误。
type headeredError struct {
	header http.Header
}

func (e *headeredError) Error() string       { return "headered failure" }
func (e *headeredError) Header() http.Header { return e.header }

func TestDefaultIsRetryable(t *testing.T) {
	t.Run("NilError", func(t *testing.T) {
		assert.False(t, DefaultIsRetryable(nil))
	})

	t.Run("TransientStatusCodes", func(t *testing.T) {
		for _, code := range []int{408, 429, 500, 502, 503, 504} {
			assert.True(t, DefaultIsRetryable(NewHTTPError(code, nil, "")), "status %d", code)
		}
	})

	t.Run("NonTransientStatusCodes", func(t *testing.T) {
		for _, code := range []int{400, 401, 403, 404, 409, 422, 501} {
			assert.False(t, DefaultIsRetryable(NewHTTPError(code, nil, "")), "status %d", code)
		}
	})

	t.Run("StatusCoderCapability", func(t *testing.T) {
		assert.True(t, DefaultIsRetryable(&codedError{code: 503}))
		assert.False(t, DefaultIsRetryable(&codedError{code: 404}))
	})

	t.Run("WrappedHTTPError", func(t *testing.T) {
		err := fmt.Errorf("fetch report: %w", NewHTTPError(http.StatusBadGateway, nil, ""))
		assert.True(t, DefaultIsRetryable(err))
	})

	t.Run("MessageMarks", func(t *testing.T) {
		for _, msg := range []string{
			"dial tcp: i/o timeout",
			"read: ECONNRESET",
			"connect: econnrefused",
			"upstream socket hang up",
			"temporary network glitch",
			"REQUEST_TIMEOUT from gateway",
		} {
			assert.True(t, DefaultIsRetryable(errors.New(msg)), "message %q", msg)
		}
	})

	t.Run("UnrecognizedFailsFast", func(t *testing.T) {
		assert.False(t, DefaultIsRetryable(errors.New("invalid argument")))
		// 不含已知特征的 DNS 失败同样快速失败，这是当前行为而非缺陷。
		assert.False(t, DefaultIsRetryable(errors.New("no such host")))
	})

	t.Run("ExplicitOverrideWins", func(t *testing.T) {
		// PermanentError 包装 503：显式标记优先于状态码判定。
		perm := NewPermanentError(NewHTTPError(http.StatusServiceUnavailable, nil, ""))
		assert.False(t, DefaultIsRetryable(perm))

		// TemporaryError 包装无特征错误：显式标记使其可重试。
		temp := NewTemporaryError(errors.New("opaque"))
		assert.True(t, DefaultIsRetryable(temp))
	})
}

func TestDefaultRetryAfter(t *testing.T) {
	t.Run("NoHeader", func(t *testing.T) {
		_, ok := DefaultRetryAfter(NewHTTPError(http.StatusServiceUnavailable, nil, ""))
		assert.False(t, ok)
	})

	t.Run("PlainErrorNoHint", func(t *testing.T) {
		_, ok := DefaultRetryAfter(errors.New("timeout"))
		assert.False(t, ok)
	})

	t.Run("CanonicalHeader", func(t *testing.T) {
		header := http.Header{}
		header.Set("Retry-After", "5")
		d, ok := DefaultRetryAfter(NewHTTPError(http.StatusServiceUnavailable, header, ""))
		require.True(t, ok)
		assert.Equal(t, 5*time.Second, d)
	})

	t.Run("LowercaseMapKey", func(t *testing.T) {
		// 手工构造的 map 可能绕过 http.Header 的键名规范化。
		header := http.Header{"retry-after": {"7"}}
		d, ok := DefaultRetryAfter(NewHTTPError(http.StatusTooManyRequests, header, ""))
		require.True(t, ok)
		assert.Equal(t, 7*time.Second, d)
	})

	t.Run("NumericStringWithSpaces", func(t *testing.T) {
		header := http.Header{}
		header.Set("Retry-After", "  12  ")
		d, ok := DefaultRetryAfter(NewHTTPError(http.StatusServiceUnavailable, header, ""))
		require.True(t, ok)
		assert.Equal(t, 12*time.Second, d)
	})

	t.Run("ZeroSeconds", func(t *testing.T) {
		header := http.Header{}
		header.Set("Retry-After", "0")
		d, ok := DefaultRetryAfter(NewHTTPError(http.StatusServiceUnavailable, header, ""))
		require.True(t, ok)
		assert.Equal(t, time.Duration(0), d)
	})

	t.Run("InvalidValues", func(t *testing.T) {
		for _, raw := range []string{"soon", "-3", "1.5", "Wed, 21 Oct 2026 07:28:00 GMT", ""} {
			header := http.Header{}
			header.Set("Retry-After", raw)
			_, ok := DefaultRetryAfter(NewHTTPError(http.StatusServiceUnavailable, header, ""))
			assert.False(t, ok, "raw %q", raw)
		}
	})

	t.Run("HeaderCarrierCapability", func(t *testing.T) {
		header := http.Header{}
		header.Set("Retry-After", "3")
		d, ok := DefaultRetryAfter(&headeredError{header: header})
		require.True(t, ok)
		assert.Equal(t, 3*time.Second, d)
	})
}
