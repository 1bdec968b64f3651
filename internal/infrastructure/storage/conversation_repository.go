package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	domain "github.com/supportdesk/backend/internal/domain/support"
)

// 查询默认与最大条数
const (
	defaultListLimit = 50
	maxListLimit     = 500
)

// conversationRepository 交互记录 SQLite 仓储实现
type conversationRepository struct {
	db *sql.DB
}

// NewConversationRepository 创建交互记录仓储
func NewConversationRepository(db *sql.DB) domain.ConversationRepository {
	return &conversationRepository{db: db}
}

// Append 写入一条记录，记录只写一次
func (r *conversationRepository) Append(ctx context.Context, record *domain.ConversationRecord) error {
	query := `
		INSERT INTO conversations
		(id, timestamp, customer_message, language, category, sentiment_score,
		 handled_by, response, confidence, relevant_docs_count, status, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		record.ID,
		record.Timestamp.UnixMilli(),
		record.Message,
		record.Language,
		string(record.Category),
		record.SentimentScore,
		string(record.HandledBy),
		record.Response,
		nullString(string(record.Confidence)),
		record.RelevantDocsCount,
		record.Status,
		nullString(record.Error),
	)
	if err != nil {
		return fmt.Errorf("failed to insert conversation: %w", err)
	}
	return nil
}

// FindByID 根据 ID 查找记录，不存在时返回 nil
func (r *conversationRepository) FindByID(id string) (*domain.ConversationRecord, error) {
	row := r.db.QueryRow(selectColumns+` WHERE id = ?`, id)

	record, err := scanConversation(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query conversation: %w", err)
	}
	return record, nil
}

// List 按时间倒序查询记录
func (r *conversationRepository) List(filter domain.ConversationFilter) ([]*domain.ConversationRecord, error) {
	var (
		conditions []string
		args       []any
	)
	if filter.Category != "" {
		conditions = append(conditions, "category = ?")
		args = append(args, string(filter.Category))
	}
	if filter.HandledBy != "" {
		conditions = append(conditions, "handled_by = ?")
		args = append(args, string(filter.HandledBy))
	}

	query := selectColumns
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY timestamp DESC, id LIMIT ?"
	args = append(args, clampLimit(filter.Limit))

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query conversations: %w", err)
	}
	defer rows.Close()

	records := make([]*domain.ConversationRecord, 0)
	for rows.Next() {
		record, err := scanConversation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan conversation: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate conversations: %w", err)
	}

	return records, nil
}

// CountByCategory 按分类与处理方统计记录数
func (r *conversationRepository) CountByCategory() ([]domain.CategoryCount, error) {
	query := `
		SELECT category, handled_by, COUNT(*)
		FROM conversations
		GROUP BY category, handled_by
		ORDER BY category, handled_by`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to count conversations: %w", err)
	}
	defer rows.Close()

	counts := make([]domain.CategoryCount, 0)
	for rows.Next() {
		var c domain.CategoryCount
		var category, handledBy string
		if err := rows.Scan(&category, &handledBy, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan count: %w", err)
		}
		c.Category = domain.Category(category)
		c.HandledBy = domain.HandledBy(handledBy)
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

const selectColumns = `
	SELECT id, timestamp, customer_message, language, category, sentiment_score,
	       handled_by, response, confidence, relevant_docs_count, status, error
	FROM conversations`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanConversation(row rowScanner) (*domain.ConversationRecord, error) {
	var (
		record     domain.ConversationRecord
		ts         int64
		category   string
		handledBy  string
		confidence sql.NullString
		errText    sql.NullString
	)
	if err := row.Scan(
		&record.ID,
		&ts,
		&record.Message,
		&record.Language,
		&category,
		&record.SentimentScore,
		&handledBy,
		&record.Response,
		&confidence,
		&record.RelevantDocsCount,
		&record.Status,
		&errText,
	); err != nil {
		return nil, err
	}

	record.Timestamp = time.UnixMilli(ts).UTC()
	record.Category = domain.Category(category)
	record.HandledBy = domain.HandledBy(handledBy)
	record.Confidence = domain.ConfidenceLabel(confidence.String)
	record.Error = errText.String
	return &record, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
