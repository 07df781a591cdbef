// Package xretry 提供瞬时错误重试执行器和通用重试引擎。
//
// # 设计理念
//
// xretry 包含两层能力：
//
//   - 瞬时错误执行器（DoTransient / DoTransientWithResult）：面向 HTTP/网络调用的
//     开箱即用原语。内置瞬时错误识别（状态码 + 错误消息特征）、Retry-After 提示、
//     指数退避和诊断输出，适合脚手架项目直接使用。
//   - 通用重试引擎（Retryer）：接口驱动的可组合执行器，
//     RetryPolicy 定义是否重试，BackoffPolicy 定义重试间隔，
//     底层使用 [avast/retry-go/v5] 实现。
//
// # 瞬时错误执行器
//
// 默认策略：最多重试 10 次（共 11 次尝试），初始延迟 1s，指数退避（因子 2），
// 延迟上限 30s。失败对象携带的 Retry-After 提示优先于计算出的退避值，
// 但仍受延迟上限约束。
//
//	result, err := xretry.DoTransientWithResult(ctx, func(ctx context.Context) (*Report, error) {
//	    return fetchReport(ctx)
//	}, xretry.WithMaxRetries(3), xretry.WithLabel("report"))
//
// 默认的瞬时错误判定见 [DefaultIsRetryable]：
//   - 实现 RetryableError 接口的错误按 Retryable() 返回值判定
//   - 携带 408/429/500/502/503/504 状态码的错误视为瞬时错误
//   - 错误消息包含 timeout、econnreset、econnrefused、socket hang up、
//     network、request_timeout（大小写不敏感）视为瞬时错误
//   - 其余错误一律快速失败
//
// 执行器从不包装错误：调用方拿到的就是被包装操作最后一次返回的错误本身。
//
// # 通用重试引擎
//
//	retryer := xretry.NewRetryer(
//	    xretry.WithRetryPolicy(xretry.NewFixedRetry(3)),
//	    xretry.WithBackoffPolicy(xretry.NewExponentialBackoff(100*time.Millisecond, 10*time.Second, 2.0, 0.1)),
//	)
//	err := retryer.Do(ctx, func(ctx context.Context) error {
//	    return doSomething()
//	})
//
// # 错误分类
//
//   - NewPermanentError(err)：标记为永久性错误（不应重试）
//   - NewTemporaryError(err)：标记为临时性错误（应该重试）
//   - NewHTTPError(code, header, msg)：携带状态码与响应头的 HTTP 失败，
//     默认判定与 Retry-After 提示提取都基于它
//
// [avast/retry-go/v5]: https://github.com/avast/retry-go
package xretry
