package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
	domain "github.com/supportdesk/backend/internal/domain/support"
	"github.com/supportdesk/backend/internal/infrastructure/config"
	"github.com/supportdesk/backend/internal/infrastructure/log"
)

// messageWriter kafka.Writer 中用到的方法
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// ConversationEvent 发布到事件流的交互事件
type ConversationEvent struct {
	Type   string                     `json:"type"`
	Record *domain.ConversationRecord `json:"record"`
}

const (
	// EventConversationRecorded 普通交互
	EventConversationRecorded = "conversation.recorded"
	// EventConversationHandoff 转人工交互
	EventConversationHandoff = "conversation.handoff"
)

// KafkaSink 将交互记录发布到 Kafka，按会话 ID 分区
type KafkaSink struct {
	writer messageWriter
	topic  string
	logger *slog.Logger
}

// NewKafkaSink 创建 Kafka 写入器
func NewKafkaSink(writer messageWriter, topic string) *KafkaSink {
	return &KafkaSink{
		writer: writer,
		topic:  topic,
		logger: log.NewModuleLogger("stream", "kafka"),
	}
}

// ProvideKafkaSink 根据配置创建写入器，未配置 broker 时返回 nil
func ProvideKafkaSink(cfg *config.StreamConfig) (*KafkaSink, func(), error) {
	if len(cfg.Brokers) == 0 {
		return nil, func() {}, nil
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 50 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}
	sink := NewKafkaSink(writer, cfg.Topic)
	sink.logger.Info("Kafka sink ready", "brokers", cfg.Brokers, "topic", cfg.Topic)

	cleanup := func() {
		if err := writer.Close(); err != nil {
			sink.logger.Warn("Failed to close kafka writer", "error", err)
		}
	}
	return sink, cleanup, nil
}

// Append 发布一条记录
func (s *KafkaSink) Append(ctx context.Context, rec *domain.ConversationRecord) error {
	event := ConversationEvent{
		Type:   EventConversationRecorded,
		Record: rec,
	}
	if rec.IsHandoff() {
		event.Type = EventConversationHandoff
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal conversation event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(rec.ID),
		Value: data,
		Time:  rec.Timestamp,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
		},
	}
	if err := s.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", s.topic, err)
	}

	s.logger.Debug("Published conversation event", "conversation_id", rec.ID, "type", event.Type)
	return nil
}
