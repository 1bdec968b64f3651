package websocket

import (
	"github.com/google/wire"
	domain "github.com/supportdesk/backend/internal/domain/support"
)

// ProvideHub 提供已启动的 Hub
func ProvideHub() (*Hub, func()) {
	hub := NewHub()
	hub.Start()
	return hub, hub.Stop
}

// ProviderSet WebSocket 提供者集合
var ProviderSet = wire.NewSet(
	ProvideHub,
	NewAgentServer,
	NewHandoffNotifier,
	wire.Bind(new(domain.HandoffNotifier), new(*HandoffNotifier)),
)
