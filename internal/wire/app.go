package wire

import (
	"context"
	"log/slog"
	"time"

	appSupport "github.com/supportdesk/backend/internal/application/support"
	"github.com/supportdesk/backend/internal/infrastructure/log"
	"github.com/supportdesk/backend/internal/infrastructure/policy"
	"github.com/supportdesk/backend/internal/interfaces"
)

// 关闭时等待后台记录写入的最长时间
const recorderDrainTimeout = 10 * time.Second

// App 应用主结构，组合所有服务
type App struct {
	HTTPServer    *interfaces.HTTPServer
	MCPServer     *interfaces.MCPServer
	policyWatcher *policy.Watcher // 未开启热加载时为 nil
	recorder      *appSupport.Recorder
	logger        *slog.Logger
}

// NewApp 创建应用实例
func NewApp(
	httpServer *interfaces.HTTPServer,
	mcpServer *interfaces.MCPServer,
	policyWatcher *policy.Watcher,
	recorder *appSupport.Recorder,
) *App {
	return &App{
		HTTPServer:    httpServer,
		MCPServer:     mcpServer,
		policyWatcher: policyWatcher,
		recorder:      recorder,
		logger:        log.NewModuleLogger("app", "main"),
	}
}

// Start 启动所有服务
func (a *App) Start() error {
	a.logger.Info("Starting support desk application")

	// 策略文件热加载失败不影响服务，继续使用启动时的策略
	if a.policyWatcher != nil {
		if err := a.policyWatcher.Start(); err != nil {
			a.logger.Error("Failed to start policy watcher",
				"error", err,
			)
		} else {
			a.logger.Info("Policy watcher started")
		}
	}

	// 启动 HTTP 服务器（goroutine）
	go func() {
		if err := a.HTTPServer.Start(); err != nil {
			a.logger.Error("Failed to start HTTP server",
				"error", err,
			)
		}
	}()

	// MCP 通过 HTTP 的 /mcp/sse 端点提供服务，不需要单独启动
	a.logger.Info("Support desk application started successfully")
	return nil
}

// Stop 停止所有服务
// 数据库、Hub、外部客户端由 Wire 生成的 cleanup 关闭
func (a *App) Stop() error {
	a.logger.Info("Stopping support desk application")

	if a.policyWatcher != nil {
		a.policyWatcher.Stop()
		a.logger.Info("Policy watcher stopped")
	}

	if err := a.HTTPServer.Stop(); err != nil {
		a.logger.Error("Failed to stop HTTP server",
			"error", err,
		)
		return err
	}

	// 等待后台交互记录写完，再由 cleanup 关闭数据库与外部连接
	if a.recorder != nil {
		ctx, cancel := context.WithTimeout(context.Background(), recorderDrainTimeout)
		defer cancel()
		if err := a.recorder.Close(ctx); err != nil {
			a.logger.Warn("Conversation records still pending at shutdown",
				"error", err,
			)
		}
	}

	a.logger.Info("Support desk application stopped")
	return nil
}
