package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/omeyang/xboot/pkg/observability/xlog"
	"github.com/omeyang/xboot/pkg/resilience/xretry"
)

// fetchConcurrency fetch 命令的最大并发数。
const fetchConcurrency = 4

// exitError 表示需要非零退出码但已完成输出的场景。
// 命令内部已完成所有输出，main 只需设置退出码。
type exitError struct {
	code int
}

func (e *exitError) Error() string { return "" }

// usageError 表示参数错误（退出码 2）。
type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

// isCLIUsageError 判断是否为 CLI 框架产生的参数错误。
func isCLIUsageError(err error) bool {
	if _, ok := err.(cli.ExitCoder); ok {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "flag provided but not defined") ||
		strings.Contains(msg, "flag needs an argument") ||
		strings.Contains(msg, "No help topic for")
}

// createApp 创建 CLI 应用。
func createApp() *cli.Command {
	return &cli.Command{
		Name:    "xboot",
		Usage:   "项目脚手架命令行工具",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildTime),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "配置文件路径 (yaml/json)",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "日志级别 (debug/info/warn/error)",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "日志格式 (text/json)",
			},
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "日志文件路径（启用轮转）",
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "静默模式（抑制重试诊断输出）",
			},
		},
		Commands:       createCommands(),
		DefaultCommand: "help",
		Authors: []any{
			"XBoot Team",
		},
		// 设计决策: 禁止 urfave/cli 直接调用 os.Exit，
		// 由 run() 统一处理退出码映射，确保与文档退出码契约一致。
		ExitErrHandler: func(_ context.Context, _ *cli.Command, err error) {
			// ExitCoder 错误（如未知命令）的消息需在此输出，
			// 替代 HandleExitCoder 的默认 os.Exit 行为。
			if _, ok := err.(cli.ExitCoder); ok {
				fmt.Fprintln(os.Stderr, err)
			}
		},
	}
}

// createCommands 创建所有子命令。
func createCommands() []*cli.Command {
	return []*cli.Command{
		createFetchCommand(),
		createVersionCommand(),
	}
}

// createFetchCommand 创建 fetch 子命令。
func createFetchCommand() *cli.Command {
	return &cli.Command{
		Name:      "fetch",
		Aliases:   []string{"f"},
		Usage:     "并发抓取 URL，瞬时错误自动重试",
		ArgsUsage: "<url>...",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			urls := cmd.Args().Slice()
			if len(urls) == 0 {
				return &usageError{msg: "fetch 命令需要至少一个 URL"}
			}

			cfg, err := loadConfig(cmd.String("config"))
			if err != nil {
				return err
			}

			quiet := cmd.Bool("quiet")
			logger, cleanup, err := buildLogger(cfg, loggerOverrides{
				level:  cmd.String("log-level"),
				format: cmd.String("log-format"),
				file:   cmd.String("log-file"),
				quiet:  quiet,
			})
			if err != nil {
				return err
			}
			defer func() { _ = cleanup() }()

			return cmdFetch(ctx, cfg, quiet, urls, logger, os.Stdout)
		},
	}
}

// createVersionCommand 创建 version 子命令。
func createVersionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "显示版本信息",
		Action: func(_ context.Context, _ *cli.Command) error {
			fmt.Printf("xboot %s\n", Version)
			fmt.Printf("  commit: %s\n", GitCommit)
			fmt.Printf("  built:  %s\n", BuildTime)
			fmt.Printf("  go:     %s\n", runtime.Version())
			return nil
		},
	}
}

// fetchResult 单个 URL 的抓取结果。
type fetchResult struct {
	url      string
	status   int
	bytes    int64
	duration time.Duration
	err      error
}

// cmdFetch 并发抓取 URL。
// 每个 URL 独立重试；全部完成后逐一输出结果，任一失败则退出码为 1。
func cmdFetch(ctx context.Context, cfg *appConfig, quiet bool, urls []string, logger xlog.LoggerWithLevel, out io.Writer) error {
	runID := uuid.NewString()
	log := logger.With(slog.String("run_id", runID), xlog.Component("fetch"))

	client := &http.Client{Timeout: cfg.Fetch.Timeout}

	retryOpts := []xretry.TransientOption{
		xretry.WithMaxRetries(cfg.Retry.MaxRetries),
		xretry.WithInitialDelay(cfg.Retry.InitialDelay),
		xretry.WithMaxDelay(cfg.Retry.MaxDelay),
	}
	if quiet {
		// 静默模式: 丢弃重试诊断行。
		retryOpts = append(retryOpts, xretry.WithRetryEventHandler(func(xretry.RetryEvent) {}))
	}

	results := make([]fetchResult, len(urls))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchConcurrency)
	for i, u := range urls {
		g.Go(func() error {
			start := time.Now()
			opts := append([]xretry.TransientOption{xretry.WithLabel(u)}, retryOpts...)
			res, err := xretry.DoTransientWithResult(gctx, func(ctx context.Context) (fetchResult, error) {
				return fetchOne(ctx, client, u, cfg.Fetch.MaxBodyBytes)
			}, opts...)
			res.url = u
			res.duration = time.Since(start)
			res.err = err
			results[i] = res

			if err != nil {
				log.Error(gctx, "fetch failed", slog.String("url", u), xlog.Err(err), xlog.Duration(res.duration))
			} else {
				log.Info(gctx, "fetch done",
					slog.String("url", u),
					slog.Int("status", res.status),
					slog.Int64("bytes", res.bytes),
					xlog.Duration(res.duration),
				)
			}
			// 失败不取消其他 URL，统一在汇总阶段报告。
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, res := range results {
		if res.err != nil {
			failed++
			fmt.Fprintf(out, "fail  %s  error=%v\n", res.url, res.err)
			continue
		}
		fmt.Fprintf(out, "ok    %s  status=%d bytes=%d duration=%s\n",
			res.url, res.status, res.bytes, res.duration.Round(time.Millisecond))
	}

	if failed > 0 {
		fmt.Fprintf(out, "%d/%d 失败 (run_id: %s)\n", failed, len(urls), runID)
		return &exitError{code: 1}
	}
	return nil
}

// fetchOne 执行单次 GET。
// 非 2xx 状态映射为 *xretry.HTTPError，使默认瞬时性分类和
// Retry-After 提示生效；传输层错误包装为 TemporaryError（可重试）。
func fetchOne(ctx context.Context, client *http.Client, url string, maxBody int64) (fetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		// URL 本身非法，重试无意义。
		return fetchResult{}, xretry.NewPermanentError(err)
	}

	resp, err := client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return fetchResult{}, err
		}
		return fetchResult{}, xretry.NewTemporaryError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// 排空（限量）以便连接复用。
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return fetchResult{}, xretry.FromResponse(resp)
	}

	n, err := io.Copy(io.Discard, io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return fetchResult{}, xretry.NewTemporaryError(err)
	}

	return fetchResult{status: resp.StatusCode, bytes: n}, nil
}
