package xlog

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newBufferLogger 构建写入内存缓冲的 Logger（测试辅助）。
func newBufferLogger(t *testing.T, level Level) (LoggerWithLevel, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	logger, _, err := New().SetOutput(&buf).SetLevel(level).Build()
	require.NoError(t, err)
	return logger, &buf
}

func TestDefault(t *testing.T) {
	t.Cleanup(ResetDefault)
	ResetDefault()

	l1 := Default()
	require.NotNil(t, l1)
	assert.Same(t, l1, Default(), "惰性初始化后返回同一实例")
	assert.Equal(t, LevelInfo, l1.GetLevel())
}

func TestSetDefault(t *testing.T) {
	t.Cleanup(ResetDefault)
	ResetDefault()

	logger, buf := newBufferLogger(t, LevelDebug)
	SetDefault(logger)

	Debug(context.Background(), "via global", slog.String("k", "v"))
	assert.Contains(t, buf.String(), "via global")

	// nil 被忽略
	SetDefault(nil)
	assert.Same(t, logger, Default())
}

func TestGlobalConvenienceFunctions(t *testing.T) {
	t.Cleanup(ResetDefault)
	ResetDefault()

	logger, buf := newBufferLogger(t, LevelDebug)
	SetDefault(logger)

	ctx := context.Background()
	Debug(ctx, "d")
	Info(ctx, "i")
	Warn(ctx, "w")
	Error(ctx, "e")

	out := buf.String()
	for _, msg := range []string{"msg=d", "msg=i", "msg=w", "msg=e"} {
		assert.Contains(t, out, msg)
	}
}

func TestResetDefault_Concurrent(t *testing.T) {
	t.Cleanup(ResetDefault)
	ResetDefault()

	// Default 与 ResetDefault 并发调用不应 panic 或死锁。
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = Default()
		}()
		go func() {
			defer wg.Done()
			ResetDefault()
		}()
	}
	wg.Wait()

	assert.NotNil(t, Default())
}
