//go:build wireinject
// +build wireinject

package wire

import (
	"github.com/google/wire"
	"github.com/supportdesk/backend/internal/application"
	"github.com/supportdesk/backend/internal/application/ingest"
	"github.com/supportdesk/backend/internal/infrastructure"
	"github.com/supportdesk/backend/internal/infrastructure/config"
	"github.com/supportdesk/backend/internal/infrastructure/embedding"
	"github.com/supportdesk/backend/internal/infrastructure/vector"
	"github.com/supportdesk/backend/internal/interfaces"
)

// InitializeAll 初始化所有服务（HTTP + MCP）
func InitializeAll() (*App, func(), error) {
	wire.Build(
		// 按层组合 ProviderSet
		infrastructure.ProviderSet, // 基础设施层
		application.ProviderSet,    // 应用层
		interfaces.ProviderSet,     // 接口层
		NewApp,                     // 组合所有服务的应用结构
	)
	return nil, nil, nil
}

// InitializeIngest 初始化知识库导入服务（供 supportctl 使用）
func InitializeIngest(cfg *config.Config) (*ingest.Service, func(), error) {
	wire.Build(
		config.NewEmbeddingConfig,
		config.NewVectorConfig,
		embedding.ProviderSet,
		vector.ProviderSet,
		ingest.ProviderSet,
	)
	return nil, nil, nil
}
