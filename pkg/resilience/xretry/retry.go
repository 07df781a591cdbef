package xretry

import (
	"context"
	"errors"
	"time"
)

// 通用引擎的构造防御错误。
var (
	// ErrNilRetryer 表示 Retryer 接收者为 nil。
	ErrNilRetryer = errors.New("xretry: nil retryer")

	// ErrNilContext 表示传入了 nil 上下文。
	ErrNilContext = errors.New("xretry: nil context")

	// ErrNilFunc 表示传入了 nil 操作函数。
	ErrNilFunc = errors.New("xretry: nil function")
)

// RetryPolicy 定义重试策略接口，判断是否应该继续重试。
type RetryPolicy interface {
	// MaxAttempts 返回最大尝试次数（包含首次尝试）。
	// 返回 0 表示无限重试。
	MaxAttempts() int

	// ShouldRetry 判断是否应该重试。
	// attempt 为当前已失败的次数（从 1 开始），err 为上次执行的错误。
	ShouldRetry(ctx context.Context, attempt int, err error) bool
}

// BackoffPolicy 定义退避策略接口，计算重试间隔时间。
type BackoffPolicy interface {
	// NextDelay 返回第 attempt 次重试前的延迟时间（attempt 从 1 开始）。
	NextDelay(attempt int) time.Duration
}

// Executor 重试执行器接口。
// NewRetryer 返回 *Retryer 而非此接口（泛型函数需要具体类型），
// 调用方如需 mock，可在自身代码中以 Executor 作为参数类型。
type Executor interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}
