package log

import (
	"os"
	"strconv"
	"strings"
)

// 日志相关环境变量，SUPPORTDESK_ 前缀优先于通用名称
const (
	envLevel     = "LOG_LEVEL"
	envFormat    = "LOG_FORMAT"
	envOutput    = "LOG_OUTPUT"
	envAddSource = "LOG_ADD_SOURCE"
	envMode      = "ENV"
	envPrefix    = "SUPPORTDESK_"
)

// Config 日志配置
type Config struct {
	// Level 日志级别：debug, info, warn, error
	Level string `json:"level"`

	// Format 日志格式：console, json（生产环境接入日志采集时使用 json）
	Format string `json:"format"`

	// Output 输出目标：stdout, stderr, file:/path/to/log
	Output string `json:"output"`

	// AddSource 是否添加源文件信息
	AddSource bool `json:"add_source"`
}

// NewConfigFromEnv 从环境变量创建配置
// ENV=development 时强制 debug 级别并输出源文件位置
func NewConfigFromEnv() *Config {
	cfg := &Config{
		Level:     strings.ToLower(lookupEnv(envLevel, "info")),
		Format:    strings.ToLower(lookupEnv(envFormat, "console")),
		Output:    lookupEnv(envOutput, "stdout"),
		AddSource: getEnvBool(envAddSource, false),
	}

	if isDevelopment() {
		cfg.Level = "debug"
		cfg.Format = "console"
		cfg.AddSource = true
	}
	return cfg
}

func isDevelopment() bool {
	return strings.EqualFold(lookupEnv(envMode, "production"), "development")
}

// lookupEnv 先查 SUPPORTDESK_<key>，再查 <key>
func lookupEnv(key, defaultValue string) string {
	if v := os.Getenv(envPrefix + key); v != "" {
		return v
	}
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

// getEnvBool 获取布尔型环境变量，非法值返回默认值
func getEnvBool(key string, defaultValue bool) bool {
	b, err := strconv.ParseBool(lookupEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return b
}
