package warehouse

import "github.com/google/wire"

// ProviderSet 分析库提供者集合
var ProviderSet = wire.NewSet(
	ProvidePostgresSink,
)
