package metrics

import "github.com/google/wire"

// ProviderSet 指标提供者集合
var ProviderSet = wire.NewSet(
	ProvideMetrics,
)
