package xretry

import (
	"context"
	"math"
	"sync/atomic"
	"time"

	retry "github.com/avast/retry-go/v5"
)

// safeIntToUint 将 int 安全转换为 uint，负数返回 0。
// 用于将 MaxAttempts (int) 传递给 retry-go 的 Attempts (uint)。
func safeIntToUint(n int) uint {
	if n <= 0 {
		return 0
	}
	return uint(n)
}

// safeUintToInt 将 uint 安全转换为 int，超过 MaxInt 的值截断到 MaxInt。
func safeUintToInt(n uint) int {
	if n > uint(math.MaxInt) {
		return math.MaxInt
	}
	return int(n)
}

// 确保 *Retryer 实现 Executor 接口
var _ Executor = (*Retryer)(nil)

// Retryer 通用重试执行器。
//
// 组合 RetryPolicy（是否重试）和 BackoffPolicy（重试间隔），
// 底层使用 avast/retry-go/v5 驱动重试循环。
type Retryer struct {
	retryPolicy   RetryPolicy
	backoffPolicy BackoffPolicy
	onRetry       func(attempt int, err error)
}

// RetryerOption 执行器配置选项
type RetryerOption func(*Retryer)

// WithRetryPolicy 设置重试策略。nil 被静默忽略。
func WithRetryPolicy(p RetryPolicy) RetryerOption {
	return func(r *Retryer) {
		if p != nil {
			r.retryPolicy = p
		}
	}
}

// WithBackoffPolicy 设置退避策略。nil 被静默忽略。
func WithBackoffPolicy(p BackoffPolicy) RetryerOption {
	return func(r *Retryer) {
		if p != nil {
			r.backoffPolicy = p
		}
	}
}

// WithOnRetry 设置重试回调。nil 被静默忽略。
// attempt 从 1 开始计数。
func WithOnRetry(f func(attempt int, err error)) RetryerOption {
	return func(r *Retryer) {
		if f != nil {
			r.onRetry = f
		}
	}
}

// NewRetryer 创建通用重试执行器。
// 默认使用 FixedRetry(3) 和无抖动的指数退避（100ms 起步、30s 上限、因子 2）。
func NewRetryer(opts ...RetryerOption) *Retryer {
	r := &Retryer{
		retryPolicy:   NewFixedRetry(3),
		backoffPolicy: NewExponentialBackoff(100*time.Millisecond, 30*time.Second, 2.0, 0),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Do 执行带重试的操作。
// 接收者或参数为 nil 时返回对应的防御错误。
func (r *Retryer) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if r == nil {
		return ErrNilRetryer
	}
	if ctx == nil {
		return ErrNilContext
	}
	if fn == nil {
		return ErrNilFunc
	}

	return retry.New(r.buildOptions(ctx)...).Do(func() error {
		return fn(ctx)
	})
}

// DoWithResult 执行带重试的操作（有返回值）。
// 泛型方法无法挂在类型上，只能作为包级函数使用。
func DoWithResult[T any](ctx context.Context, r *Retryer, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if r == nil {
		return zero, ErrNilRetryer
	}
	if ctx == nil {
		return zero, ErrNilContext
	}
	if fn == nil {
		return zero, ErrNilFunc
	}

	return retry.NewWithData[T](r.buildOptions(ctx)...).Do(func() (T, error) {
		return fn(ctx)
	})
}

// buildOptions 把策略翻译为 retry-go 的选项。
// 每次调用重建选项切片，分配开销对重试场景可忽略。
func (r *Retryer) buildOptions(ctx context.Context) []retry.Option {
	opts := make([]retry.Option, 0, 6)

	opts = append(opts, retry.Context(ctx))

	// 零值 Retryer（绕过工厂直接构造）兜底为默认策略。
	retryPolicy := r.retryPolicy
	if retryPolicy == nil {
		retryPolicy = NewFixedRetry(3)
	}
	backoffPolicy := r.backoffPolicy
	if backoffPolicy == nil {
		backoffPolicy = NewExponentialBackoff(100*time.Millisecond, 30*time.Second, 2.0, 0)
	}

	// MaxAttempts 设置 retry-go 的硬上限，ShouldRetry 提供逐次判断；
	// 两者共同生效：ShouldRetry 可提前终止，但不会超过上限。
	maxAttempts := retryPolicy.MaxAttempts()
	if maxAttempts <= 0 {
		opts = append(opts, retry.UntilSucceeded())
	} else {
		opts = append(opts, retry.Attempts(safeIntToUint(maxAttempts)))
	}

	// attemptCount 表示已失败次数（1-based），与 ShouldRetry 的语义一致。
	// 原子计数保证闭包即使被并发调用也不会触发数据竞争。
	var attemptCount atomic.Int64
	opts = append(opts, retry.RetryIf(func(err error) bool {
		count := int(attemptCount.Add(1))
		if !retry.IsRecoverable(err) {
			return false
		}
		return retryPolicy.ShouldRetry(ctx, count, err)
	}))

	// retry-go v5 的 DelayType 中 n 从 1 开始，与 BackoffPolicy.NextDelay 一致。
	opts = append(opts, retry.DelayType(func(n uint, _ error, _ retry.DelayContext) time.Duration {
		return backoffPolicy.NextDelay(safeUintToInt(n))
	}))

	if r.onRetry != nil {
		opts = append(opts, retry.OnRetry(func(n uint, err error) {
			// OnRetry 的 n 从 0 开始，转换为 1-based。
			r.onRetry(safeUintToInt(n)+1, err)
		}))
	}

	// 只返回最后一个错误，与瞬时错误执行器的传播语义保持一致。
	opts = append(opts, retry.LastErrorOnly(true))

	return opts
}

// RetryPolicy 返回当前重试策略。nil 接收者返回 nil。
func (r *Retryer) RetryPolicy() RetryPolicy {
	if r == nil {
		return nil
	}
	return r.retryPolicy
}

// BackoffPolicy 返回当前退避策略。nil 接收者返回 nil。
func (r *Retryer) BackoffPolicy() BackoffPolicy {
	if r == nil {
		return nil
	}
	return r.backoffPolicy
}

// Unrecoverable 将错误标记为不可恢复（retry-go 原生语义），
// 通用引擎遇到后会立即停止重试。
func Unrecoverable(err error) error {
	return retry.Unrecoverable(err)
}
