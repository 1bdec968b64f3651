package policy

import (
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/supportdesk/backend/internal/infrastructure/log"
)

// DefaultDebounceDelay 文件变更防抖延迟
const DefaultDebounceDelay = 300 * time.Millisecond

// Watcher 监听策略文件变更并触发 Store.Reload
// 监听的是所在目录，编辑器的原子替换（rename）也能被捕获
type Watcher struct {
	store    *Store
	watcher  *fsnotify.Watcher
	debounce time.Duration
	logger   *slog.Logger

	timer   *time.Timer
	timerMu sync.Mutex

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup

	// onReload 测试钩子
	onReload func(error)
}

// NewWatcher 创建策略文件监听器
func NewWatcher(store *Store, debounce time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounceDelay
	}
	return &Watcher{
		store:    store,
		watcher:  fw,
		debounce: debounce,
		logger:   log.NewModuleLogger("policy", "watcher"),
		stopCh:   make(chan struct{}),
	}, nil
}

// Start 开始监听
func (w *Watcher) Start() error {
	if w.store.Path() == "" {
		w.logger.Info("No policy file configured, watcher idle")
		return nil
	}
	dir := filepath.Dir(w.store.Path())
	if err := w.watcher.Add(dir); err != nil {
		return err
	}
	w.logger.Info("Watching policy file", "path", w.store.Path())

	w.wg.Add(1)
	go w.watchLoop()
	return nil
}

// Stop 停止监听
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		_ = w.watcher.Close()
		w.wg.Wait()

		w.timerMu.Lock()
		if w.timer != nil {
			w.timer.Stop()
		}
		w.timerMu.Unlock()
	})
}

func (w *Watcher) watchLoop() {
	defer w.wg.Done()

	target := filepath.Clean(w.store.Path())
	for {
		select {
		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				w.schedule()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("Policy watcher error", "error", err)
		}
	}
}

// schedule 防抖：连续写入只触发一次重载
func (w *Watcher) schedule() {
	w.timerMu.Lock()
	defer w.timerMu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		err := w.store.Reload()
		if w.onReload != nil {
			w.onReload(err)
		}
	})
}
