// xboot 是项目脚手架自带的命令行工具。
//
// 用法:
//
//	xboot [全局选项] <命令> [命令参数]
//
// 全局选项:
//
//	-c, --config      配置文件路径 (yaml/json，可选)
//	    --log-level   日志级别 (debug/info/warn/error，默认 info)
//	    --log-format  日志格式 (text/json，默认 text)
//	    --log-file    日志文件路径（启用轮转，默认输出到 stderr）
//	-q, --quiet       静默模式（抑制重试诊断输出）
//
// 命令:
//
//	fetch <url>...   并发抓取 URL，瞬时错误自动重试
//	version          显示版本信息
//	help             显示帮助信息
//
// 退出码:
//
//	0: 命令执行成功
//	1: 命令执行失败（任一 URL 抓取失败）
//	2: 参数错误（未知命令、无效 flag、缺少必需参数等）
//
// 示例:
//
//	xboot fetch https://example.com
//	xboot fetch https://a.example https://b.example
//	xboot -c /etc/xboot/config.yaml fetch https://example.com
//	xboot --log-format json fetch https://example.com
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// 版本信息（可通过 -ldflags 注入，例如:
//
//	go build -ldflags "-X main.Version=1.0.0 -X main.GitCommit=$(git rev-parse --short HEAD) -X main.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
//
// ）。
var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

func main() {
	os.Exit(run(os.Args))
}

func run(args []string) int {
	app := createApp()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	setupSignalHandler(cancel)

	if err := app.Run(ctx, args); err != nil {
		var exitErr *exitError
		if errors.As(err, &exitErr) {
			return exitErr.code
		}
		var usageErr *usageError
		if errors.As(err, &usageErr) {
			fmt.Fprintf(os.Stderr, "参数错误: %v\n", usageErr)
			return 2
		}
		// CLI 框架产生的参数错误（如未知 flag、未知命令）也返回退出码 2，
		// 与文档契约"参数错误 → 退出码 2"保持一致。
		if isCLIUsageError(err) {
			// ExitErrHandler 或 flag 解析器已向 stderr 输出错误详情，此处仅设置退出码
			return 2
		}
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		return 1
	}

	return 0
}

// setupSignalHandler 设置信号处理。
// 设计决策: 第一次信号优雅取消，第二次信号强制退出（退出码 130 = 128 + SIGINT）。
// 当抓取阻塞时，用户可通过再次 Ctrl+C 强制退出。
func setupSignalHandler(cancel context.CancelFunc) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel() // 第一次信号: 优雅取消

		<-sigCh
		signal.Stop(sigCh) // 回收订阅
		os.Exit(130)       // 第二次信号: 强制退出
	}()
}
