package support

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	domain "github.com/supportdesk/backend/internal/domain/support"
	"github.com/supportdesk/backend/internal/infrastructure/log"
)

// NamedSink 带名称的记录写入目标
type NamedSink struct {
	Name string
	Sink domain.ConversationSink
}

// Recorder 交互记录器，把每条记录写入所有已配置的目标
type Recorder struct {
	sinks   []NamedSink
	timeout time.Duration
	logger  *slog.Logger

	mu      sync.Mutex
	closed  bool
	pending sync.WaitGroup
}

// NewRecorder 创建 Recorder
func NewRecorder(timeout time.Duration, sinks ...NamedSink) *Recorder {
	active := make([]NamedSink, 0, len(sinks))
	for _, s := range sinks {
		if s.Sink != nil {
			active = append(active, s)
		}
	}
	return &Recorder{
		sinks:   active,
		timeout: timeout,
		logger:  log.NewModuleLogger("support", "recorder"),
	}
}

// Sinks 返回已配置的目标名称
func (r *Recorder) Sinks() []string {
	names := make([]string, len(r.sinks))
	for i, s := range r.sinks {
		names[i] = s.Name
	}
	return names
}

// Record 写入记录
// 使用与调用方取消解耦的上下文，客户端断开不会丢失记录
// 任一目标失败都会返回包装了 ErrLoggingFailure 的错误，其余目标仍会写入
func (r *Recorder) Record(ctx context.Context, record *domain.ConversationRecord) error {
	ctx = context.WithoutCancel(ctx)
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	var errs []error
	for _, s := range r.sinks {
		if err := s.Sink.Append(ctx, record); err != nil {
			log.FromContext(ctx, r.logger).Error("Failed to append conversation record",
				"sink", s.Name,
				"conversation_id", record.ID,
				"error", err,
			)
			errs = append(errs, fmt.Errorf("%s: %w", s.Name, err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", domain.ErrLoggingFailure, errors.Join(errs...))
	}
	return nil
}

// Submit 在后台写入记录，调用方不等待写入结果
// 写入失败时调用 onError（可为 nil）；Close 之后改为同步写入，避免关闭过程中丢失记录
func (r *Recorder) Submit(ctx context.Context, record *domain.ConversationRecord, onError func(error)) {
	ctx = context.WithoutCancel(ctx)

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		if err := r.Record(ctx, record); err != nil && onError != nil {
			onError(err)
		}
		return
	}
	r.pending.Add(1)
	r.mu.Unlock()

	go func() {
		defer r.pending.Done()
		if err := r.Record(ctx, record); err != nil && onError != nil {
			onError(err)
		}
	}()
}

// Wait 等待所有后台写入完成
func (r *Recorder) Wait() {
	r.pending.Wait()
}

// Close 停止后台写入并等待进行中的写入完成
// ctx 到期时返回 ctx.Err()，未完成的写入仍受各自超时约束
func (r *Recorder) Close(ctx context.Context) error {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()

	done := make(chan struct{})
	go func() {
		r.pending.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
