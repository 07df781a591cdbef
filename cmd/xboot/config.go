package main

import (
	"fmt"
	"time"

	"github.com/omeyang/xboot/pkg/config/xconf"
	"github.com/omeyang/xboot/pkg/observability/xlog"
	"github.com/omeyang/xboot/pkg/resilience/xretry"
)

// appConfig 是 xboot 的文件配置结构。
// 所有字段均有默认值，配置文件是可选的。
type appConfig struct {
	Log struct {
		Level  string `koanf:"level"`
		Format string `koanf:"format"`
		File   string `koanf:"file"`
	} `koanf:"log"`

	Retry struct {
		MaxRetries   int           `koanf:"max_retries"`
		InitialDelay time.Duration `koanf:"initial_delay"`
		MaxDelay     time.Duration `koanf:"max_delay"`
	} `koanf:"retry"`

	Fetch struct {
		Timeout      time.Duration `koanf:"timeout"`
		MaxBodyBytes int64         `koanf:"max_body_bytes"`
	} `koanf:"fetch"`
}

// 默认值。重试参数与 xretry 的默认保持一致。
const (
	defaultFetchTimeout      = 30 * time.Second
	defaultFetchMaxBodyBytes = 10 << 20 // 10 MiB
)

// defaultConfig 返回全默认配置。
func defaultConfig() *appConfig {
	cfg := &appConfig{}
	cfg.Log.Level = "info"
	cfg.Log.Format = "text"
	cfg.Retry.MaxRetries = xretry.DefaultMaxRetries
	cfg.Retry.InitialDelay = xretry.DefaultInitialDelay
	cfg.Retry.MaxDelay = xretry.DefaultMaxDelay
	cfg.Fetch.Timeout = defaultFetchTimeout
	cfg.Fetch.MaxBodyBytes = defaultFetchMaxBodyBytes
	return cfg
}

// loadConfig 加载配置：默认值 + 配置文件（可选）。
// 文件中未出现的键保留默认值。
func loadConfig(path string) (*appConfig, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	c, err := xconf.New(path)
	if err != nil {
		return nil, fmt.Errorf("加载配置文件失败: %w", err)
	}
	if err := c.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}
	return cfg, nil
}

// loggerOverrides 命令行对日志配置的覆盖项。空字符串表示不覆盖。
type loggerOverrides struct {
	level  string
	format string
	file   string
	quiet  bool
}

// buildLogger 按配置构建日志器。
// 命令行 flag 优先于配置文件；--quiet 将级别强制提升到 error。
// 返回的 cleanup 在进程退出前调用（关闭轮转文件）。
func buildLogger(cfg *appConfig, ov loggerOverrides) (xlog.LoggerWithLevel, func() error, error) {
	level := cfg.Log.Level
	if ov.level != "" {
		level = ov.level
	}
	if ov.quiet {
		level = "error"
	}
	format := cfg.Log.Format
	if ov.format != "" {
		format = ov.format
	}
	file := cfg.Log.File
	if ov.file != "" {
		file = ov.file
	}

	b := xlog.New().
		SetLevelString(level).
		SetFormat(format)
	if file != "" {
		b.SetRotation(file)
	}
	return b.Build()
}
