package embedding

import "github.com/google/wire"

// ProviderSet Embedding 提供者集合
var ProviderSet = wire.NewSet(
	ProvideClient,
)
