// Package xconf 提供统一的配置加载和解析功能，基于 koanf 实现。
//
// # 设计理念
//
// xconf 定位为最小化配置加载器，负责文件/字节数据的加载、反序列化和热重载。
// 不负责配置治理（必选字段校验、默认值注入、环境变量覆盖），
// 这些能力由上层业务按需实现。
//
//   - 工厂函数：New, NewFromBytes
//   - Client() 暴露底层 koanf 实例
//   - 增值功能：并发安全的 Reload、类型安全的 Unmarshal、文件变更监视
//
// # 支持的格式
//
//   - YAML（默认，推荐）：.yaml, .yml
//   - JSON：.json
//
// # 并发安全
//
// Reload 通过互斥锁序列化并发调用；Client/Unmarshal 在读锁保护下访问当前实例。
// Client() 返回的指针在 Reload() 后仍然有效，但指向旧配置（快照语义）：
// 推荐每次需要时调用 Client()，不要长期缓存返回的指针。
//
// # 配置监视
//
// 支持文件变更监视和自动重载（基于 fsnotify）：监视目录而非文件本身、
// 内置防抖、兼容 vim/emacs 的原子写入。重载前比对内容指纹（xxhash），
// 内容未变化的重写事件不会触发回调。
// 从 bytes 创建的 Config 不支持监视。
package xconf
