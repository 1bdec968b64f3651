package stream

import "github.com/google/wire"

// ProviderSet 事件流提供者集合
var ProviderSet = wire.NewSet(
	ProvideKafkaSink,
)
