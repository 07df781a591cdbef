package xretry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFixedBackoff(t *testing.T) {
	b := NewFixedBackoff(200 * time.Millisecond)
	assert.Equal(t, 200*time.Millisecond, b.NextDelay(1))
	assert.Equal(t, 200*time.Millisecond, b.NextDelay(10))

	assert.Equal(t, time.Duration(0), NewFixedBackoff(-time.Second).NextDelay(1))
}

func TestExponentialBackoff(t *testing.T) {
	t.Run("DeterministicGrowth", func(t *testing.T) {
		b := NewExponentialBackoff(100*time.Millisecond, 30*time.Second, 2.0, 0)
		assert.Equal(t, 100*time.Millisecond, b.NextDelay(1))
		assert.Equal(t, 200*time.Millisecond, b.NextDelay(2))
		assert.Equal(t, 400*time.Millisecond, b.NextDelay(3))
		assert.Equal(t, 800*time.Millisecond, b.NextDelay(4))
	})

	t.Run("CappedAtMaxDelay", func(t *testing.T) {
		b := NewExponentialBackoff(time.Second, 5*time.Second, 2.0, 0)
		assert.Equal(t, 4*time.Second, b.NextDelay(3))
		assert.Equal(t, 5*time.Second, b.NextDelay(4))
		assert.Equal(t, 5*time.Second, b.NextDelay(20))
	})

	t.Run("AttemptBelowOneNormalized", func(t *testing.T) {
		b := NewExponentialBackoff(100*time.Millisecond, time.Second, 2.0, 0)
		assert.Equal(t, b.NextDelay(1), b.NextDelay(0))
		assert.Equal(t, b.NextDelay(1), b.NextDelay(-3))
	})

	t.Run("HugeAttemptDoesNotOverflow", func(t *testing.T) {
		b := NewExponentialBackoff(time.Second, 30*time.Second, 2.0, 0)
		assert.Equal(t, 30*time.Second, b.NextDelay(10000))
	})

	t.Run("JitterStaysInRange", func(t *testing.T) {
		b := NewExponentialBackoff(time.Second, 30*time.Second, 2.0, 0.5)
		for range 100 {
			d := b.NextDelay(1)
			assert.GreaterOrEqual(t, d, 500*time.Millisecond)
			assert.LessOrEqual(t, d, 1500*time.Millisecond)
		}
	})

	t.Run("ParameterNormalization", func(t *testing.T) {
		b := NewExponentialBackoff(-1, -1, 0.5, 2.0)
		assert.Equal(t, 100*time.Millisecond, b.initialDelay)
		assert.Equal(t, 100*time.Millisecond, b.maxDelay)
		assert.Equal(t, 2.0, b.multiplier)
		assert.Equal(t, 1.0, b.jitter)
	})
}

func TestNoBackoff(t *testing.T) {
	b := NewNoBackoff()
	assert.Equal(t, time.Duration(0), b.NextDelay(1))
	assert.Equal(t, time.Duration(0), b.NextDelay(100))
}
