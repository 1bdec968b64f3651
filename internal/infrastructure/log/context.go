package log

import (
	"context"
	"log/slog"
)

type contextKey string

// 上下文键定义
const (
	// RequestContextID HTTP 请求 ID
	RequestContextID contextKey = "request_id"

	// ConversationContextID 交互记录 ID
	ConversationContextID contextKey = "conversation_id"

	// ChannelContextID 请求入口（http、mcp、cli）
	ChannelContextID contextKey = "channel"
)

// WithRequestID 在上下文中添加请求 ID
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestContextID, requestID)
}

// WithConversationID 在上下文中添加交互记录 ID
func WithConversationID(ctx context.Context, conversationID string) context.Context {
	return context.WithValue(ctx, ConversationContextID, conversationID)
}

// WithChannel 在上下文中添加请求入口
func WithChannel(ctx context.Context, channel string) context.Context {
	return context.WithValue(ctx, ChannelContextID, channel)
}

// RequestIDFromContext 读取请求 ID
func RequestIDFromContext(ctx context.Context) string {
	v, _ := ctx.Value(RequestContextID).(string)
	return v
}

// LogCtxFromContext 从上下文中提取日志字段
func LogCtxFromContext(ctx context.Context) []slog.Attr {
	var attrs []slog.Attr

	for _, key := range []contextKey{RequestContextID, ConversationContextID, ChannelContextID} {
		if v, ok := ctx.Value(key).(string); ok && v != "" {
			attrs = append(attrs, slog.String(string(key), v))
		}
	}

	return attrs
}
