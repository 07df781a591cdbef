package xretry_test

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/omeyang/xboot/pkg/resilience/xretry"
)

// 瞬时错误执行器：操作成功后立即返回，不再等待。
func ExampleDoTransientWithResult() {
	ctx := context.Background()

	attempts := 0
	result, err := xretry.DoTransientWithResult(ctx, func(_ context.Context) (string, error) {
		attempts++
		if attempts == 1 {
			return "", xretry.NewHTTPError(http.StatusServiceUnavailable, nil, "")
		}
		return "report-42", nil
	},
		xretry.WithMaxRetries(3),
		xretry.WithInitialDelay(time.Millisecond),
		xretry.WithRetryEventHandler(func(ev xretry.RetryEvent) {
			fmt.Println(xretry.FormatRetryEvent(ev))
		}),
	)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(result)

	// Output:
	// Transient error, retrying in 1ms (attempt 1/3)
	// report-42
}

// 不可重试错误快速失败：原样传播，不消耗重试预算。
func ExampleDoTransient() {
	ctx := context.Background()

	attempts := 0
	err := xretry.DoTransient(ctx, func(_ context.Context) error {
		attempts++
		return xretry.NewHTTPError(http.StatusNotFound, nil, "")
	})

	fmt.Println(err)
	fmt.Println("attempts:", attempts)

	// Output:
	// unexpected status 404 (Not Found)
	// attempts: 1
}

// 通用引擎：策略接口组合。
func ExampleNewRetryer() {
	retryer := xretry.NewRetryer(
		xretry.WithRetryPolicy(xretry.NewFixedRetry(3)),
		xretry.WithBackoffPolicy(xretry.NewNoBackoff()),
	)

	attempts := 0
	err := retryer.Do(context.Background(), func(_ context.Context) error {
		attempts++
		if attempts < 3 {
			return fmt.Errorf("attempt %d failed", attempts)
		}
		return nil
	})

	fmt.Println("err:", err)
	fmt.Println("attempts:", attempts)

	// Output:
	// err: <nil>
	// attempts: 3
}
