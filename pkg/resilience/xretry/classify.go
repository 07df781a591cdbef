package xretry

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// 默认判定为瞬时错误的 HTTP 状态码。
// 408 Request Timeout、429 Too Many Requests、500/502/503/504 服务端错误。
var transientStatusCodes = map[int]struct{}{
	http.StatusRequestTimeout:      {},
	http.StatusTooManyRequests:     {},
	http.StatusInternalServerError: {},
	http.StatusBadGateway:          {},
	http.StatusServiceUnavailable:  {},
	http.StatusGatewayTimeout:      {},
}

// 默认判定为瞬时错误的消息特征（小写匹配）。
var transientMessageMarks = []string{
	"timeout",
	"econnreset",
	"econnrefused",
	"socket hang up",
	"network",
	"request_timeout",
}

// statusCoder 暴露 HTTP 状态码的错误能力接口。
// 调用方无需依赖 HTTPError 类型，实现此接口即可参与默认判定。
type statusCoder interface {
	StatusCode() int
}

// headerCarrier 暴露响应头的错误能力接口。
type headerCarrier interface {
	Header() http.Header
}

// errStatusCode 安全提取错误携带的 HTTP 状态码。
// 依次探测 *HTTPError 与 statusCoder 能力接口，均不匹配时返回 false。
func errStatusCode(err error) (int, bool) {
	var he *HTTPError
	if errors.As(err, &he) && he != nil {
		return he.StatusCode, true
	}
	var sc statusCoder
	if errors.As(err, &sc) {
		return sc.StatusCode(), true
	}
	return 0, false
}

// errHeader 安全提取错误携带的响应头。
func errHeader(err error) (http.Header, bool) {
	var he *HTTPError
	if errors.As(err, &he) && he != nil && he.Header != nil {
		return he.Header, true
	}
	var hc headerCarrier
	if errors.As(err, &hc) {
		if h := hc.Header(); h != nil {
			return h, true
		}
	}
	return nil, false
}

// DefaultIsRetryable 默认的瞬时错误判定。
//
// 判定顺序：
//  1. nil 错误不可重试
//  2. 实现 RetryableError 接口的错误按 Retryable() 返回值判定（显式覆盖）
//  3. 携带状态码且状态码属于 {408, 429, 500, 502, 503, 504} 的错误可重试
//  4. 错误消息（大小写不敏感）包含已知瞬时特征的错误可重试
//  5. 其余错误一律快速失败
//
// 未被识别的瞬时条件（例如不含上述特征的 DNS 解析失败）会被快速失败，
// 这是当前行为而非缺陷；需要更宽松判定的调用方通过 WithIsRetryable 覆盖。
func DefaultIsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var re RetryableError
	if errors.As(err, &re) {
		return re.Retryable()
	}

	if code, ok := errStatusCode(err); ok {
		if _, transient := transientStatusCodes[code]; transient {
			return true
		}
	}

	msg := strings.ToLower(err.Error())
	for _, mark := range transientMessageMarks {
		if strings.Contains(msg, mark) {
			return true
		}
	}

	return false
}

// DefaultRetryAfter 默认的 Retry-After 提示提取。
//
// 当错误携带响应头且存在 Retry-After 条目（大小写不敏感）、
// 且值可解析为非负十进制整数（秒）时，返回对应的延迟时长。
// 其余情况返回 (0, false)，执行器回退到计算出的指数退避。
//
// HTTP-date 形式的 Retry-After 不支持，按无提示处理。
func DefaultRetryAfter(err error) (time.Duration, bool) {
	header, ok := errHeader(err)
	if !ok {
		return 0, false
	}

	raw := header.Get("Retry-After")
	if raw == "" {
		// http.Header.Get 依赖规范化键名；手工构造的 map 可能携带
		// 任意大小写的键，这里兜底做一次不区分大小写的扫描。
		for key, values := range header {
			if strings.EqualFold(key, "Retry-After") && len(values) > 0 {
				raw = values[0]
				break
			}
		}
	}
	if raw == "" {
		return 0, false
	}

	seconds, err2 := strconv.Atoi(strings.TrimSpace(raw))
	if err2 != nil || seconds < 0 {
		return 0, false
	}
	return time.Duration(seconds) * time.Second, true
}
