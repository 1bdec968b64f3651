package warehouse

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	domain "github.com/supportdesk/backend/internal/domain/support"
	"github.com/supportdesk/backend/internal/infrastructure/config"
	"github.com/supportdesk/backend/internal/infrastructure/log"
)

// execer pgxpool.Pool 中用到的方法
type execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// PostgresSink 将交互记录追加写入分析库
type PostgresSink struct {
	db     execer
	table  string
	logger *slog.Logger
}

// NewPostgresSink 创建分析库写入器
func NewPostgresSink(db execer, table string) *PostgresSink {
	return &PostgresSink{
		db:     db,
		table:  pgx.Identifier{table}.Sanitize(),
		logger: log.NewModuleLogger("warehouse", "postgres"),
	}
}

// ProvidePostgresSink 根据配置创建写入器，未配置 DSN 时返回 nil
func ProvidePostgresSink(cfg *config.WarehouseConfig) (*PostgresSink, func(), error) {
	if cfg.DSN == "" {
		return nil, func() {}, nil
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create warehouse pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("failed to ping warehouse: %w", err)
	}

	sink := NewPostgresSink(pool, cfg.Table)
	if err := sink.EnsureTable(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}
	sink.logger.Info("Warehouse sink ready", "table", cfg.Table)
	return sink, pool.Close, nil
}

// EnsureTable 建表（幂等）
func (s *PostgresSink) EnsureTable(ctx context.Context) error {
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		conversation_id TEXT PRIMARY KEY,
		ts TIMESTAMPTZ NOT NULL,
		customer_message TEXT NOT NULL,
		language TEXT NOT NULL,
		category TEXT NOT NULL,
		sentiment_score DOUBLE PRECISION NOT NULL,
		handled_by TEXT NOT NULL,
		response TEXT NOT NULL,
		confidence TEXT,
		relevant_docs_count INTEGER NOT NULL,
		status TEXT NOT NULL,
		error TEXT
	)`, s.table)

	if _, err := s.db.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("failed to create warehouse table: %w", err)
	}
	return nil
}

// Append 写入一条记录
func (s *PostgresSink) Append(ctx context.Context, rec *domain.ConversationRecord) error {
	query := fmt.Sprintf(`INSERT INTO %s (
		conversation_id, ts, customer_message, language, category, sentiment_score,
		handled_by, response, confidence, relevant_docs_count, status, error
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`, s.table)

	_, err := s.db.Exec(ctx, query,
		rec.ID,
		rec.Timestamp,
		rec.Message,
		rec.Language,
		string(rec.Category),
		rec.SentimentScore,
		string(rec.HandledBy),
		rec.Response,
		string(rec.Confidence),
		rec.RelevantDocsCount,
		rec.Status,
		rec.Error,
	)
	if err != nil {
		return fmt.Errorf("failed to insert warehouse row: %w", err)
	}
	return nil
}
