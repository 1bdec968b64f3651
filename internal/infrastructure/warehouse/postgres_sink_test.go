package warehouse

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domain "github.com/supportdesk/backend/internal/domain/support"
	"github.com/supportdesk/backend/internal/infrastructure/config"
)

type execCall struct {
	sql  string
	args []any
}

type fakeExecer struct {
	calls []execCall
	err   error
}

func (f *fakeExecer) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.calls = append(f.calls, execCall{sql: sql, args: args})
	return pgconn.NewCommandTag("INSERT 0 1"), f.err
}

func TestPostgresSink_Append(t *testing.T) {
	db := &fakeExecer{}
	sink := NewPostgresSink(db, "conversation_records")

	rec := &domain.ConversationRecord{
		ID:             "c-1",
		Timestamp:      time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		Message:        "refund please",
		Language:       "en",
		Category:       domain.CategoryReturnsExchanges,
		SentimentScore: 0.2,
		HandledBy:      domain.HandledByAI,
		Response:       "Sure",
		Confidence:     domain.ConfidenceHigh,
		Status:         "success",
	}
	require.NoError(t, sink.Append(context.Background(), rec))

	require.Len(t, db.calls, 1)
	assert.Contains(t, db.calls[0].sql, `INSERT INTO "conversation_records"`)
	require.Len(t, db.calls[0].args, 12)
	assert.Equal(t, "c-1", db.calls[0].args[0])
	assert.Equal(t, "Returns_Exchanges", db.calls[0].args[4])
	assert.Equal(t, "ai_agent", db.calls[0].args[6])
}

func TestPostgresSink_QuotesTableName(t *testing.T) {
	db := &fakeExecer{}
	sink := NewPostgresSink(db, `records"; DROP TABLE x; --`)
	require.NoError(t, sink.EnsureTable(context.Background()))
	assert.Contains(t, db.calls[0].sql, `"records""; DROP TABLE x; --"`)
}

func TestPostgresSink_Error(t *testing.T) {
	sink := NewPostgresSink(&fakeExecer{err: errors.New("connection reset")}, "t")
	err := sink.Append(context.Background(), &domain.ConversationRecord{ID: "x"})
	assert.ErrorContains(t, err, "connection reset")
}

func TestProvidePostgresSink_Disabled(t *testing.T) {
	sink, cleanup, err := ProvidePostgresSink(&config.WarehouseConfig{})
	require.NoError(t, err)
	assert.Nil(t, sink)
	cleanup()
}
