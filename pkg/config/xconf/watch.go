package xconf

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatchCallback 文件变更回调函数。
// 配置内容实际发生变化并完成重载后调用，err 表示重载是否成功。
type WatchCallback func(cfg Config, err error)

// WatchOption 监视器配置选项
type WatchOption func(*watchOptions)

type watchOptions struct {
	debounce time.Duration
}

func defaultWatchOptions() *watchOptions {
	return &watchOptions{
		debounce: 100 * time.Millisecond,
	}
}

// WithDebounce 设置防抖时间：指定时间内的多次变更只触发一次重载。
// 非正值被忽略（保持默认 100ms）。
func WithDebounce(d time.Duration) WatchOption {
	return func(o *watchOptions) {
		if d > 0 {
			o.debounce = d
		}
	}
}

// Watcher 配置文件监视器。
// 监控配置文件变更、防抖后自动重载，内容指纹未变化的重写不触发回调。
type Watcher struct {
	cfg      *koanfConfig
	watcher  *fsnotify.Watcher
	callback WatchCallback
	debounce time.Duration
	ctx      context.Context
	cancel   context.CancelFunc
	mu       sync.Mutex
	running  bool
	timer    *time.Timer
	done     chan struct{}
}

// Watch 创建配置文件监视器。
//
// 只能监视从文件创建的 Config（通过 New 创建），
// 从 bytes 创建的 Config 返回 ErrNotWatchable。
// 返回的 Watcher 需调用 StartAsync() 开始监视、Stop() 停止。
//
// 示例:
//
//	cfg, _ := xconf.New("/etc/app/config.yaml")
//	w, err := xconf.Watch(cfg, func(c xconf.Config, err error) {
//	    if err != nil {
//	        xlog.Error(ctx, "config reload failed", xlog.Err(err))
//	        return
//	    }
//	    applyConfig(c)
//	})
//	if err != nil { ... }
//	w.StartAsync()
//	defer w.Stop()
func Watch(cfg Config, callback WatchCallback, opts ...WatchOption) (*Watcher, error) {
	kc, ok := cfg.(*koanfConfig)
	if !ok {
		return nil, ErrNotWatchable
	}
	if kc.isBytes || kc.path == "" {
		return nil, ErrNotWatchable
	}

	options := defaultWatchOptions()
	for _, opt := range opts {
		opt(options)
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("xconf: failed to create watcher: %w", err)
	}

	// 监视配置文件所在目录而非文件本身：编辑器保存时可能先删除再创建，
	// 直接监视文件会丢失后续事件。
	dir := filepath.Dir(kc.path)
	if err := fsWatcher.Add(dir); err != nil {
		closeErr := fsWatcher.Close()
		return nil, errors.Join(
			fmt.Errorf("xconf: failed to watch directory %s: %w", dir, err),
			closeErr,
		)
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Watcher{
		cfg:      kc,
		watcher:  fsWatcher,
		callback: callback,
		debounce: options.debounce,
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}, nil
}

// StartAsync 异步启动监视，在后台 goroutine 中运行，立即返回。
// 重复调用无效果。
func (w *Watcher) StartAsync() {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.mu.Unlock()

	go w.run()
}

// Stop 停止监视。
// 返回后监视循环已退出，不再有新的重载被调度；
// 已进入防抖窗口的定时器会被取消。
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = false

	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.cancel()
	err := w.watcher.Close()
	w.mu.Unlock()

	<-w.done
	return err
}

// run 监视主循环。
func (w *Watcher) run() {
	defer close(w.done)
	filename := filepath.Base(w.cfg.path)

	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event, filename)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			if w.callback != nil {
				w.callback(w.cfg, fmt.Errorf("xconf: watch error: %w", err))
			}
		}
	}
}

// handleEvent 处理文件系统事件：过滤非目标文件，防抖后触发重载。
func (w *Watcher) handleEvent(event fsnotify.Event, filename string) {
	if filepath.Base(event.Name) != filename {
		return
	}

	// Write: 直接修改；Create: 新建（部分编辑器）；
	// Rename: 原子写入（vim/emacs 写临时文件后 rename）。
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}

	w.timer = time.AfterFunc(w.debounce, func() {
		select {
		case <-w.ctx.Done():
			return
		default:
		}

		changed, err := w.cfg.reloadIfChanged(false)
		if err == nil && !changed {
			// 内容指纹未变化（例如 touch 或无修改保存），不打扰调用方。
			return
		}
		if w.callback != nil {
			w.callback(w.cfg, err)
		}
	})
}
