package xretry

import "context"

// FixedRetryPolicy 固定次数重试策略
type FixedRetryPolicy struct {
	maxAttempts int
}

// NewFixedRetry 创建固定次数重试策略。
// maxAttempts 为最大尝试次数（包含首次尝试），最小为 1。
func NewFixedRetry(maxAttempts int) *FixedRetryPolicy {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &FixedRetryPolicy{maxAttempts: maxAttempts}
}

func (p *FixedRetryPolicy) MaxAttempts() int {
	return p.maxAttempts
}

func (p *FixedRetryPolicy) ShouldRetry(ctx context.Context, attempt int, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	if attempt >= p.maxAttempts {
		return false
	}
	return IsRetryable(err)
}

// AlwaysRetryPolicy 无限重试策略（慎用）。
// 只有上下文取消或遇到永久性错误才会停止。
type AlwaysRetryPolicy struct{}

// NewAlwaysRetry 创建无限重试策略
func NewAlwaysRetry() *AlwaysRetryPolicy {
	return &AlwaysRetryPolicy{}
}

func (p *AlwaysRetryPolicy) MaxAttempts() int {
	return 0
}

func (p *AlwaysRetryPolicy) ShouldRetry(ctx context.Context, _ int, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	return IsRetryable(err)
}

// NeverRetryPolicy 永不重试策略
type NeverRetryPolicy struct{}

// NewNeverRetry 创建永不重试策略
func NewNeverRetry() *NeverRetryPolicy {
	return &NeverRetryPolicy{}
}

func (p *NeverRetryPolicy) MaxAttempts() int {
	return 1
}

func (p *NeverRetryPolicy) ShouldRetry(_ context.Context, _ int, _ error) bool {
	return false
}

// TransientRetryPolicy 瞬时错误重试策略。
// 与 DoTransient 使用同一套判定（DefaultIsRetryable），
// 供需要通用引擎但希望沿用 HTTP 瞬时语义的调用方使用。
type TransientRetryPolicy struct {
	maxAttempts int
}

// NewTransientRetry 创建瞬时错误重试策略。
// maxAttempts 为最大尝试次数（包含首次尝试），最小为 1。
func NewTransientRetry(maxAttempts int) *TransientRetryPolicy {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &TransientRetryPolicy{maxAttempts: maxAttempts}
}

func (p *TransientRetryPolicy) MaxAttempts() int {
	return p.maxAttempts
}

func (p *TransientRetryPolicy) ShouldRetry(ctx context.Context, attempt int, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	if attempt >= p.maxAttempts {
		return false
	}
	return DefaultIsRetryable(err)
}

// 确保实现了 RetryPolicy 接口
var (
	_ RetryPolicy = (*FixedRetryPolicy)(nil)
	_ RetryPolicy = (*AlwaysRetryPolicy)(nil)
	_ RetryPolicy = (*NeverRetryPolicy)(nil)
	_ RetryPolicy = (*TransientRetryPolicy)(nil)
)
