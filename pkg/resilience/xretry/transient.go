package xretry

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"
)

// 瞬时错误执行器的默认策略参数。
const (
	// DefaultMaxRetries 默认最大重试次数（不含首次尝试，总尝试 = 重试 + 1）。
	DefaultMaxRetries = 10

	// DefaultInitialDelay 默认初始延迟。
	DefaultInitialDelay = 1000 * time.Millisecond

	// DefaultMaxDelay 默认延迟上限（对计算值和 Retry-After 提示同时生效）。
	DefaultMaxDelay = 30000 * time.Millisecond
)

// RetryEvent 一次重试前的诊断信息。
// Attempt 从 1 开始计数，表示即将进行的是第几次重试。
type RetryEvent struct {
	// Attempt 重试序号（1-based）
	Attempt int

	// MaxRetries 重试预算
	MaxRetries int

	// Delay 本次重试前的等待时长
	Delay time.Duration

	// Label 策略上的诊断标签（可为空）
	Label string

	// Err 触发本次重试的错误
	Err error
}

// transientPolicy 瞬时错误执行器的策略。
// 仅通过 TransientOption 构造，执行期间不可变。
type transientPolicy struct {
	maxRetries   int
	initialDelay time.Duration
	maxDelay     time.Duration
	isRetryable  func(error) bool
	retryAfter   func(error) (time.Duration, bool)
	label        string
	onRetry      func(RetryEvent)

	// sleep 可注入的等待实现（测试用）。返回 false 表示等待被上下文中断。
	sleep func(ctx context.Context, d time.Duration) bool
}

// TransientOption 瞬时错误执行器的策略选项
type TransientOption func(*transientPolicy)

// WithMaxRetries 设置最大重试次数（不含首次尝试）。
// 负值按 0 处理（只尝试一次，不重试）。
func WithMaxRetries(n int) TransientOption {
	return func(p *transientPolicy) {
		if n < 0 {
			n = 0
		}
		p.maxRetries = n
	}
}

// WithInitialDelay 设置初始延迟。非正值被忽略（保持默认值）。
func WithInitialDelay(d time.Duration) TransientOption {
	return func(p *transientPolicy) {
		if d > 0 {
			p.initialDelay = d
		}
	}
}

// WithMaxDelay 设置延迟上限。非正值被忽略（保持默认值）。
func WithMaxDelay(d time.Duration) TransientOption {
	return func(p *transientPolicy) {
		if d > 0 {
			p.maxDelay = d
		}
	}
}

// WithLabel 设置诊断标签，出现在每条重试诊断行的前缀。
func WithLabel(label string) TransientOption {
	return func(p *transientPolicy) {
		p.label = label
	}
}

// WithIsRetryable 覆盖瞬时错误判定。nil 被静默忽略。
func WithIsRetryable(f func(error) bool) TransientOption {
	return func(p *transientPolicy) {
		if f != nil {
			p.isRetryable = f
		}
	}
}

// WithRetryAfterHint 覆盖 Retry-After 提示提取。nil 被静默忽略。
// 提示值优先于计算出的指数退避，但仍受延迟上限约束。
func WithRetryAfterHint(f func(error) (time.Duration, bool)) TransientOption {
	return func(p *transientPolicy) {
		if f != nil {
			p.retryAfter = f
		}
	}
}

// WithRetryEventHandler 覆盖重试诊断输出。nil 被静默忽略。
// 默认实现向 stderr 写一行诊断（见 FormatRetryEvent）。
func WithRetryEventHandler(f func(RetryEvent)) TransientOption {
	return func(p *transientPolicy) {
		if f != nil {
			p.onRetry = f
		}
	}
}

// newTransientPolicy 从默认值和选项构造策略。
func newTransientPolicy(opts []TransientOption) *transientPolicy {
	p := &transientPolicy{
		maxRetries:   DefaultMaxRetries,
		initialDelay: DefaultInitialDelay,
		maxDelay:     DefaultMaxDelay,
		isRetryable:  DefaultIsRetryable,
		retryAfter:   DefaultRetryAfter,
		sleep:        sleepContext,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.onRetry == nil {
		p.onRetry = func(ev RetryEvent) {
			writeRetryEvent(os.Stderr, ev)
		}
	}
	return p
}

// FormatRetryEvent 按约定格式渲染一条重试诊断行（不含换行）：
//
//	{label}: Transient error, retrying in {delay}ms (attempt {n}/{maxRetries})
//
// 无标签时省略前缀。
func FormatRetryEvent(ev RetryEvent) string {
	prefix := ""
	if ev.Label != "" {
		prefix = ev.Label + ": "
	}
	return fmt.Sprintf("%sTransient error, retrying in %dms (attempt %d/%d)",
		prefix, ev.Delay.Milliseconds(), ev.Attempt, ev.MaxRetries)
}

// writeRetryEvent 向 w 写一条诊断行。写失败静默忽略（诊断不阻断重试）。
func writeRetryEvent(w io.Writer, ev RetryEvent) {
	_, _ = fmt.Fprintln(w, FormatRetryEvent(ev))
}

// sleepContext 上下文感知的等待。返回 false 表示等待被中断。
func sleepContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}

// nextDelay 计算第 attempt 次失败（0-based）后的等待时长。
// Retry-After 提示整体替换计算值（不做合并），两者都被钳制到 maxDelay。
func (p *transientPolicy) nextDelay(attempt int, err error) time.Duration {
	if hint, ok := p.retryAfter(err); ok {
		if hint < 0 {
			hint = 0
		}
		if hint > p.maxDelay {
			hint = p.maxDelay
		}
		return hint
	}

	// 指数退避：initialDelay * 2^attempt，钳制到 maxDelay。
	// 逐位左移前先判断是否已越过上限，避免溢出。
	delay := p.initialDelay
	for i := 0; i < attempt; i++ {
		if delay >= p.maxDelay {
			return p.maxDelay
		}
		delay <<= 1
	}
	if delay > p.maxDelay {
		return p.maxDelay
	}
	return delay
}

// DoTransient 执行带瞬时错误重试的操作。
//
// 循环语义（三个出口，一条继续边）：
//   - 操作成功：立即返回 nil，不再等待
//   - 非瞬时错误：立即原样返回该错误
//   - 重试预算耗尽：原样返回最后一次观察到的错误
//   - 瞬时错误且预算未耗尽：计算延迟、发出诊断、等待后重试
//
// 执行器从不包装错误、也不引入自己的错误种类；"首次即失败"与
// "重试耗尽后失败"在返回值形态上不可区分，只能通过诊断行推断。
// 上下文在等待期间被取消时，停止重试并返回最后一次观察到的错误。
func DoTransient(ctx context.Context, fn func(ctx context.Context) error, opts ...TransientOption) error {
	_, err := DoTransientWithResult(ctx, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	}, opts...)
	return err
}

// DoTransientWithResult 执行带瞬时错误重试的操作（有返回值）。
// 语义与 DoTransient 一致。成功时返回操作产出的值。
func DoTransientWithResult[T any](ctx context.Context, fn func(ctx context.Context) (T, error), opts ...TransientOption) (T, error) {
	var zero T
	p := newTransientPolicy(opts)

	var lastErr error
	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		v, err := fn(ctx)
		if err == nil {
			return v, nil
		}
		lastErr = err

		if !p.isRetryable(err) {
			return zero, err
		}
		if attempt == p.maxRetries {
			return zero, err
		}

		delay := p.nextDelay(attempt, err)
		p.onRetry(RetryEvent{
			Attempt:    attempt + 1,
			MaxRetries: p.maxRetries,
			Delay:      delay,
			Label:      p.label,
			Err:        err,
		})
		if !p.sleep(ctx, delay) {
			return zero, lastErr
		}
	}

	// 仅在策略被直接构造为负预算时可达；选项路径已将负值钳制为 0。
	return zero, lastErr
}
