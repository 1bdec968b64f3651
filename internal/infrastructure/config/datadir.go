package config

import (
	"os"
	"path/filepath"
	"sync"
)

const (
	// EnvDataDir 数据目录环境变量名
	EnvDataDir = "SUPPORTDESK_DATA_DIR"
	// DefaultDataDirName 默认数据目录名
	DefaultDataDirName = ".supportdesk"
	// DefaultDatabaseFile 默认 SQLite 文件名
	DefaultDatabaseFile = "supportdesk.db"
)

var (
	dataDirOnce sync.Once
	dataDirPath string
)

// GetDataDir 获取数据根目录
// 优先读取 SUPPORTDESK_DATA_DIR 环境变量，默认 ~/.supportdesk/
func GetDataDir() string {
	dataDirOnce.Do(func() {
		if dir := os.Getenv(EnvDataDir); dir != "" {
			dataDirPath = dir
		} else {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				// 回退到当前目录
				dataDirPath = DefaultDataDirName
				return
			}
			dataDirPath = filepath.Join(homeDir, DefaultDataDirName)
		}
	})
	return dataDirPath
}

// ResolveDatabasePath 返回 SQLite 文件路径
func ResolveDatabasePath(cfg *DatabaseConfig) string {
	if cfg != nil && cfg.Path != "" {
		return cfg.Path
	}
	return filepath.Join(GetDataDir(), DefaultDatabaseFile)
}

// ResetDataDir 重置数据目录缓存（仅用于测试）
func ResetDataDir() {
	dataDirOnce = sync.Once{}
	dataDirPath = ""
}
