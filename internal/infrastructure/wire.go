package infrastructure

import (
	"github.com/google/wire"
	"github.com/supportdesk/backend/internal/infrastructure/cache"
	"github.com/supportdesk/backend/internal/infrastructure/config"
	"github.com/supportdesk/backend/internal/infrastructure/embedding"
	"github.com/supportdesk/backend/internal/infrastructure/llm"
	"github.com/supportdesk/backend/internal/infrastructure/metrics"
	"github.com/supportdesk/backend/internal/infrastructure/policy"
	"github.com/supportdesk/backend/internal/infrastructure/storage"
	"github.com/supportdesk/backend/internal/infrastructure/stream"
	"github.com/supportdesk/backend/internal/infrastructure/vector"
	"github.com/supportdesk/backend/internal/infrastructure/warehouse"
	"github.com/supportdesk/backend/internal/infrastructure/websocket"
)

// ProviderSet Infrastructure 层总 ProviderSet
var ProviderSet = wire.NewSet(
	config.ProviderSet,
	websocket.ProviderSet,
	storage.ProviderSet,
	policy.ProviderSet,
	llm.ProviderSet,
	embedding.ProviderSet,
	vector.ProviderSet,
	cache.ProviderSet,
	warehouse.ProviderSet,
	stream.ProviderSet,
	metrics.ProviderSet,
)
