// @title Support Desk API
// @version 1.0
// @description 客服自动应答服务 API
// @host localhost:8000
// @BasePath /
// @schemes http
package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	applog "github.com/supportdesk/backend/internal/infrastructure/log"
	"github.com/supportdesk/backend/internal/wire"
)

func main() {
	// .env 不存在时忽略，环境变量优先
	_ = godotenv.Load()

	// 初始化日志系统
	applog.Init(nil)

	// Wire 自动生成的初始化函数
	app, cleanup, err := wire.InitializeAll()
	if err != nil {
		applog.GetLogger().Error("Failed to initialize application",
			"error", err,
		)
		os.Exit(1)
	}
	defer cleanup()

	// 启动所有服务
	if err := app.Start(); err != nil {
		applog.GetLogger().Error("Failed to start application",
			"error", err,
		)
		cleanup()
		os.Exit(1)
	}

	// 优雅关闭
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	applog.GetLogger().Info("Shutting down application...")
	if err := app.Stop(); err != nil {
		applog.GetLogger().Error("Error during application shutdown",
			"error", err,
		)
	}
	applog.GetLogger().Info("Application stopped")
}
