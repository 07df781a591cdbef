// Package observability 提供可观测性相关的子包。
//
// 子包列表：
//   - xlog: 结构化日志，基于 log/slog 扩展，支持动态级别和文件轮转
//
// 设计原则：
//   - 一律通过 context.Context 传递请求上下文
//   - 属性使用 slog.Attr，键名通过辅助函数统一
package observability
