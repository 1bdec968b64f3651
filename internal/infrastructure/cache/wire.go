package cache

import "github.com/google/wire"

// ProviderSet 缓存提供者集合
var ProviderSet = wire.NewSet(
	ProvideRetriever,
)
