package policy

import (
	"github.com/google/wire"
	"github.com/supportdesk/backend/internal/infrastructure/config"
)

// ProvideWatcher 提供策略文件监听器，关闭自动重载时返回 nil
func ProvideWatcher(store *Store, cfg *config.SupportConfig) (*Watcher, error) {
	if !cfg.PolicyReload || store.Path() == "" {
		return nil, nil
	}
	return NewWatcher(store, DefaultDebounceDelay)
}

// ProviderSet 策略提供者集合
var ProviderSet = wire.NewSet(
	ProvideStore,
	ProvideWatcher,
)
