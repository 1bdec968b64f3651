package application

import (
	"github.com/google/wire"
	"github.com/supportdesk/backend/internal/application/ingest"
	"github.com/supportdesk/backend/internal/application/support"
)

// ProviderSet Application 层总 ProviderSet
var ProviderSet = wire.NewSet(
	support.ProviderSet,
	ingest.ProviderSet,
)
