package vector

import "github.com/google/wire"

// ProviderSet 向量库提供者集合
var ProviderSet = wire.NewSet(
	ProvideQdrantStore,
)
