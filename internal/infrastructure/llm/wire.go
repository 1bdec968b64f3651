package llm

import "github.com/google/wire"

// ProviderSet LLM 提供者集合
var ProviderSet = wire.NewSet(
	ProvideGenerator,
)
