package policy

import (
	"log/slog"
	"sync/atomic"

	domain "github.com/supportdesk/backend/internal/domain/support"
	"github.com/supportdesk/backend/internal/infrastructure/config"
	"github.com/supportdesk/backend/internal/infrastructure/log"
)

// Store 持有当前生效的策略快照
// 读取无锁，替换为原子操作，进行中的请求继续使用旧快照
type Store struct {
	current atomic.Pointer[domain.Ruleset]
	path    string
	logger  *slog.Logger
}

// NewStore 以给定快照创建 Store
func NewStore(initial *domain.Ruleset, path string) *Store {
	s := &Store{
		path:   path,
		logger: log.NewModuleLogger("policy", "store"),
	}
	s.current.Store(initial)
	return s
}

// ProvideStore 根据配置创建 Store
// 未配置策略文件时使用内置策略；配置了但无效时启动失败
func ProvideStore(cfg *config.SupportConfig) (*Store, error) {
	if cfg.PolicyFile == "" {
		return NewStore(domain.DefaultRuleset(), ""), nil
	}
	rs, err := LoadFile(cfg.PolicyFile)
	if err != nil {
		return nil, err
	}
	return NewStore(rs, cfg.PolicyFile), nil
}

// Current 返回当前快照
func (s *Store) Current() *domain.Ruleset {
	return s.current.Load()
}

// Path 策略文件路径，内置策略时为空
func (s *Store) Path() string {
	return s.path
}

// Reload 重新读取策略文件，无效文件保持旧快照不变
func (s *Store) Reload() error {
	if s.path == "" {
		return nil
	}
	rs, err := LoadFile(s.path)
	if err != nil {
		s.logger.Warn("Policy reload rejected, keeping previous policy",
			"path", s.path,
			"error", err,
		)
		return err
	}
	s.current.Store(rs)
	s.logger.Info("Policy reloaded",
		"path", s.path,
		"categories", len(rs.Policy.Categories),
		"anger_threshold", rs.Policy.AngerThreshold,
	)
	return nil
}
