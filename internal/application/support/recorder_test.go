package support

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domain "github.com/supportdesk/backend/internal/domain/support"
)

func TestRecorder_FansOutToAllSinks(t *testing.T) {
	a, b := &memorySink{}, &memorySink{}
	r := NewRecorder(time.Second, NamedSink{Name: "a", Sink: a}, NamedSink{Name: "b", Sink: b}, NamedSink{Name: "nil"})

	assert.Equal(t, []string{"a", "b"}, r.Sinks())

	rec := &domain.ConversationRecord{ID: "c1", Category: domain.CategoryOtherGeneral}
	require.NoError(t, r.Record(context.Background(), rec))

	assert.Len(t, a.records, 1)
	assert.Len(t, b.records, 1)
}

func TestRecorder_PartialFailure(t *testing.T) {
	ok := &memorySink{}
	broken := &memorySink{err: errors.New("connection reset")}
	r := NewRecorder(time.Second, NamedSink{Name: "broken", Sink: broken}, NamedSink{Name: "ok", Sink: ok})

	err := r.Record(context.Background(), &domain.ConversationRecord{ID: "c2"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrLoggingFailure))
	assert.Contains(t, err.Error(), "broken: connection reset")
	assert.Len(t, ok.records, 1, "healthy sinks still receive the record")
}

func TestRecorder_DetachedFromCallerCancellation(t *testing.T) {
	sink := &memorySink{}
	r := NewRecorder(time.Second, NamedSink{Name: "memory", Sink: sink})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, r.Record(ctx, &domain.ConversationRecord{ID: "c3"}))
	assert.NoError(t, sink.ctxErr)
	assert.Len(t, sink.records, 1)
}

func TestRecorder_SubmitRunsInBackground(t *testing.T) {
	sink := &memorySink{}
	broken := &memorySink{err: errors.New("broker unavailable")}
	r := NewRecorder(time.Second, NamedSink{Name: "memory", Sink: sink}, NamedSink{Name: "stream", Sink: broken})

	var failures []error
	var mu sync.Mutex
	for i := 0; i < 5; i++ {
		r.Submit(context.Background(), &domain.ConversationRecord{ID: "c"}, func(err error) {
			mu.Lock()
			defer mu.Unlock()
			failures = append(failures, err)
		})
	}
	r.Wait()

	assert.Len(t, sink.records, 5)
	require.Len(t, failures, 5)
	assert.True(t, errors.Is(failures[0], domain.ErrLoggingFailure))
}

func TestRecorder_CloseDrainsAndSwitchesToSync(t *testing.T) {
	sink := &memorySink{}
	r := NewRecorder(time.Second, NamedSink{Name: "memory", Sink: sink})

	r.Submit(context.Background(), &domain.ConversationRecord{ID: "before"}, nil)
	require.NoError(t, r.Close(context.Background()))
	assert.Len(t, sink.records, 1)

	// 关闭后同步写入
	r.Submit(context.Background(), &domain.ConversationRecord{ID: "after"}, nil)
	assert.Len(t, sink.records, 2)
}

func TestRecorder_CloseHonorsDeadline(t *testing.T) {
	slow := &slowSink{release: make(chan struct{}), done: make(chan struct{})}
	r := NewRecorder(time.Second, NamedSink{Name: "slow", Sink: slow})
	r.Submit(context.Background(), &domain.ConversationRecord{ID: "c"}, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, r.Close(ctx), context.DeadlineExceeded)

	close(slow.release)
	r.Wait()
}
