package ingest

import (
	"github.com/google/wire"
	"github.com/supportdesk/backend/internal/infrastructure/embedding"
	"github.com/supportdesk/backend/internal/infrastructure/vector"
)

// ProvideService 使用 Embedding 客户端与 Qdrant 知识库创建导入服务
func ProvideService(embedder *embedding.Client, store *vector.QdrantStore) *Service {
	return NewService(embedder, store)
}

// ProviderSet 导入应用层 ProviderSet
var ProviderSet = wire.NewSet(
	ProvideService,
)
