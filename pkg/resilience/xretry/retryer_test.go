package xretry

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryer_Do(t *testing.T) {
	t.Run("SuccessOnFirstAttempt", func(t *testing.T) {
		r := NewRetryer()
		var attempts int

		err := r.Do(context.Background(), func(_ context.Context) error {
			attempts++
			return nil
		})

		assert.NoError(t, err)
		assert.Equal(t, 1, attempts)
	})

	t.Run("SuccessAfterRetry", func(t *testing.T) {
		r := NewRetryer(
			WithRetryPolicy(NewFixedRetry(3)),
			WithBackoffPolicy(NewNoBackoff()),
		)
		var attempts int

		err := r.Do(context.Background(), func(_ context.Context) error {
			attempts++
			if attempts < 3 {
				return errors.New("temporary error")
			}
			return nil
		})

		assert.NoError(t, err)
		assert.Equal(t, 3, attempts)
	})

	t.Run("FailAfterMaxAttempts", func(t *testing.T) {
		r := NewRetryer(
			WithRetryPolicy(NewFixedRetry(3)),
			WithBackoffPolicy(NewNoBackoff()),
		)
		var attempts int
		boom := errors.New("persistent error")

		err := r.Do(context.Background(), func(_ context.Context) error {
			attempts++
			return boom
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, boom, "LastErrorOnly: 返回最后一次的错误")
		assert.Equal(t, 3, attempts)
	})

	t.Run("PermanentErrorNoRetry", func(t *testing.T) {
		r := NewRetryer(
			WithRetryPolicy(NewFixedRetry(5)),
			WithBackoffPolicy(NewNoBackoff()),
		)
		var attempts int

		err := r.Do(context.Background(), func(_ context.Context) error {
			attempts++
			return NewPermanentError(errors.New("permanent"))
		})

		assert.Error(t, err)
		assert.Equal(t, 1, attempts)
	})

	t.Run("UnrecoverableErrorNoRetry", func(t *testing.T) {
		r := NewRetryer(
			WithRetryPolicy(NewFixedRetry(5)),
			WithBackoffPolicy(NewNoBackoff()),
		)
		var attempts int

		err := r.Do(context.Background(), func(_ context.Context) error {
			attempts++
			return Unrecoverable(errors.New("unrecoverable"))
		})

		assert.Error(t, err)
		assert.Equal(t, 1, attempts)
	})

	t.Run("OnRetryCallback", func(t *testing.T) {
		var notified []int
		r := NewRetryer(
			WithRetryPolicy(NewFixedRetry(3)),
			WithBackoffPolicy(NewNoBackoff()),
			WithOnRetry(func(attempt int, _ error) {
				notified = append(notified, attempt)
			}),
		)

		_ = r.Do(context.Background(), func(_ context.Context) error {
			return errors.New("fail")
		})

		assert.NotEmpty(t, notified)
		assert.Equal(t, 1, notified[0], "回调的 attempt 从 1 开始")
	})

	t.Run("NilGuards", func(t *testing.T) {
		var nilRetryer *Retryer
		assert.ErrorIs(t, nilRetryer.Do(context.Background(), func(_ context.Context) error { return nil }), ErrNilRetryer)

		r := NewRetryer()
		//nolint:staticcheck // 故意传 nil 验证防御行为
		assert.ErrorIs(t, r.Do(nil, func(_ context.Context) error { return nil }), ErrNilContext)
		assert.ErrorIs(t, r.Do(context.Background(), nil), ErrNilFunc)
	})
}

func TestDoWithResult(t *testing.T) {
	t.Run("ReturnsValue", func(t *testing.T) {
		r := NewRetryer(
			WithRetryPolicy(NewFixedRetry(3)),
			WithBackoffPolicy(NewNoBackoff()),
		)
		var attempts int

		v, err := DoWithResult(context.Background(), r, func(_ context.Context) (string, error) {
			attempts++
			if attempts < 2 {
				return "", errors.New("not yet")
			}
			return "done", nil
		})

		require.NoError(t, err)
		assert.Equal(t, "done", v)
		assert.Equal(t, 2, attempts)
	})

	t.Run("NilGuards", func(t *testing.T) {
		_, err := DoWithResult(context.Background(), nil, func(_ context.Context) (int, error) { return 0, nil })
		assert.ErrorIs(t, err, ErrNilRetryer)

		r := NewRetryer()
		_, err = DoWithResult[int](context.Background(), r, nil)
		assert.ErrorIs(t, err, ErrNilFunc)
	})
}

func TestRetryPolicies(t *testing.T) {
	ctx := context.Background()

	t.Run("FixedRetry", func(t *testing.T) {
		p := NewFixedRetry(3)
		assert.Equal(t, 3, p.MaxAttempts())
		assert.True(t, p.ShouldRetry(ctx, 1, errors.New("x")))
		assert.False(t, p.ShouldRetry(ctx, 3, errors.New("x")))
		assert.False(t, p.ShouldRetry(ctx, 1, NewPermanentError(errors.New("x"))))

		assert.Equal(t, 1, NewFixedRetry(0).MaxAttempts(), "非法值归一化为 1")
	})

	t.Run("AlwaysRetry", func(t *testing.T) {
		p := NewAlwaysRetry()
		assert.Equal(t, 0, p.MaxAttempts())
		assert.True(t, p.ShouldRetry(ctx, 1000, errors.New("x")))

		canceled, cancel := context.WithCancel(ctx)
		cancel()
		assert.False(t, p.ShouldRetry(canceled, 1, errors.New("x")))
	})

	t.Run("NeverRetry", func(t *testing.T) {
		p := NewNeverRetry()
		assert.Equal(t, 1, p.MaxAttempts())
		assert.False(t, p.ShouldRetry(ctx, 1, errors.New("x")))
	})

	t.Run("TransientRetry", func(t *testing.T) {
		p := NewTransientRetry(3)
		assert.Equal(t, 3, p.MaxAttempts())
		assert.True(t, p.ShouldRetry(ctx, 1, NewHTTPError(http.StatusServiceUnavailable, nil, "")))
		assert.False(t, p.ShouldRetry(ctx, 1, NewHTTPError(http.StatusNotFound, nil, "")))
		assert.False(t, p.ShouldRetry(ctx, 1, errors.New("opaque")))
		assert.False(t, p.ShouldRetry(ctx, 3, NewHTTPError(http.StatusServiceUnavailable, nil, "")))
	})
}

func TestRetryer_Accessors(t *testing.T) {
	policy := NewFixedRetry(2)
	backoff := NewNoBackoff()
	r := NewRetryer(WithRetryPolicy(policy), WithBackoffPolicy(backoff))

	assert.Same(t, policy, r.RetryPolicy().(*FixedRetryPolicy))
	assert.Same(t, backoff, r.BackoffPolicy().(*NoBackoff))

	var nilRetryer *Retryer
	assert.Nil(t, nilRetryer.RetryPolicy())
	assert.Nil(t, nilRetryer.BackoffPolicy())
}
