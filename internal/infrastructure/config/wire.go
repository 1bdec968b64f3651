package config

import "github.com/google/wire"

// ProviderSet 配置 ProviderSet
var ProviderSet = wire.NewSet(
	NewConfig,
	NewDatabaseConfig,
	NewServerConfig,
	NewWebSocketConfig,
	NewSupportConfig,
	NewLLMConfig,
	NewEmbeddingConfig,
	NewVectorConfig,
	NewCacheConfig,
	NewWarehouseConfig,
	NewStreamConfig,
	NewMetricsConfig,
)
