package websocket

import (
	"context"
	"time"

	domain "github.com/supportdesk/backend/internal/domain/support"
)

// HandoffEvent 推送给坐席的转人工事件
type HandoffEvent struct {
	Type           string    `json:"type"`
	ConversationID string    `json:"conversation_id"`
	Category       string    `json:"category"`
	AngerLevel     float64   `json:"anger_level"`
	Message        string    `json:"customer_message"`
	Language       string    `json:"language"`
	Response       string    `json:"response"`
	Timestamp      time.Time `json:"timestamp"`
}

// EventHandoff 事件类型
const EventHandoff = "handoff"

// HandoffNotifier 通过 Hub 推送转人工通知
type HandoffNotifier struct {
	hub *Hub
}

// NewHandoffNotifier 创建通知器
func NewHandoffNotifier(hub *Hub) *HandoffNotifier {
	return &HandoffNotifier{hub: hub}
}

// NotifyHandoff 推送转人工记录
func (n *HandoffNotifier) NotifyHandoff(ctx context.Context, rec *domain.ConversationRecord) error {
	return n.hub.Publish(ctx, string(rec.Category), HandoffEvent{
		Type:           EventHandoff,
		ConversationID: rec.ID,
		Category:       string(rec.Category),
		AngerLevel:     rec.SentimentScore,
		Message:        rec.Message,
		Language:       rec.Language,
		Response:       rec.Response,
		Timestamp:      rec.Timestamp,
	})
}
