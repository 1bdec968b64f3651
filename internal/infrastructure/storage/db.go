package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/supportdesk/backend/internal/infrastructure/config"
	_ "modernc.org/sqlite"
)

// OpenDB 打开 SQLite 数据库连接，必要时创建目录
func OpenDB(dbPath string) (*sql.DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// WAL 模式允许读写并发
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	return db, nil
}

// ProvideDB 根据配置打开数据库并初始化表结构
func ProvideDB(cfg *config.DatabaseConfig) (*sql.DB, func(), error) {
	db, err := OpenDB(config.ResolveDatabasePath(cfg))
	if err != nil {
		return nil, nil, err
	}
	if err := InitSchema(db); err != nil {
		db.Close()
		return nil, nil, err
	}
	cleanup := func() {
		_ = db.Close()
	}
	return db, cleanup, nil
}

// InitSchema 初始化表结构
func InitSchema(db *sql.DB) error {
	createTableSQL := `
	CREATE TABLE IF NOT EXISTS conversations (
		id TEXT PRIMARY KEY,
		timestamp INTEGER NOT NULL,
		customer_message TEXT NOT NULL,
		language TEXT NOT NULL,
		category TEXT NOT NULL,
		sentiment_score REAL NOT NULL,
		handled_by TEXT NOT NULL,
		response TEXT NOT NULL,
		confidence TEXT,
		relevant_docs_count INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL,
		error TEXT
	);`

	if _, err := db.Exec(createTableSQL); err != nil {
		return fmt.Errorf("failed to create conversations table: %w", err)
	}

	createIndexSQL := `
	CREATE INDEX IF NOT EXISTS idx_conversations_timestamp ON conversations(timestamp);
	CREATE INDEX IF NOT EXISTS idx_conversations_category ON conversations(category);
	CREATE INDEX IF NOT EXISTS idx_conversations_handled_by ON conversations(handled_by);`

	if _, err := db.Exec(createIndexSQL); err != nil {
		return fmt.Errorf("failed to create conversations indexes: %w", err)
	}

	return nil
}
