package xlog

import (
	"log/slog"
	"time"
)

// 常用属性键名。
const (
	// KeyError 错误属性键
	KeyError = "error"

	// KeyComponent 组件名属性键
	KeyComponent = "component"

	// KeyDuration 耗时属性键
	KeyDuration = "duration"

	// KeyCount 数量属性键
	KeyCount = "count"
)

// Err 构建错误属性。nil 错误记录为 "<nil>"。
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "<nil>")
	}
	return slog.String(KeyError, err.Error())
}

// Component 构建组件名属性。
func Component(name string) slog.Attr {
	return slog.String(KeyComponent, name)
}

// Duration 构建耗时属性，输出人类可读格式（如 "5s"、"1m30s"）。
// 如需机器解析的数值格式，使用 slog.Int64("duration_ms", d.Milliseconds())。
func Duration(d time.Duration) slog.Attr {
	return slog.String(KeyDuration, d.String())
}

// Count 构建数量属性。
func Count(n int) slog.Attr {
	return slog.Int(KeyCount, n)
}
