package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// 全局 logger 实例
var (
	defaultLogger *slog.Logger
	debugMode     bool
)

// ServiceName 日志中的服务标识
const ServiceName = "supportdesk-backend"

// Init 初始化日志系统
func Init(cfg *Config) {
	if cfg == nil {
		cfg = NewConfigFromEnv()
	}
	InitWithWriter(cfg, outputWriter(cfg.Output))
}

// InitWithWriter 使用指定输出初始化日志系统（测试中用于捕获日志）
func InitWithWriter(cfg *Config, w io.Writer) {
	if cfg == nil {
		cfg = NewConfigFromEnv()
	}

	opts := &slog.HandlerOptions{
		Level:     parseLevel(cfg.Level),
		AddSource: cfg.AddSource,
	}

	var logHandler slog.Handler
	if strings.ToLower(cfg.Format) == "json" {
		logHandler = slog.NewJSONHandler(w, opts)
	} else {
		logHandler = slog.NewTextHandler(w, opts)
	}

	defaultLogger = slog.New(logHandler.WithAttrs([]slog.Attr{
		slog.String("service", ServiceName),
	}))

	debugMode = strings.ToLower(cfg.Level) == "debug"

	slog.SetDefault(defaultLogger)
}

// outputWriter 解析输出目标，支持 stdout、stderr 和 file:/path
func outputWriter(output string) io.Writer {
	switch {
	case output == "" || output == "stdout":
		return os.Stdout
	case output == "stderr":
		return os.Stderr
	case strings.HasPrefix(output, "file:"):
		f, err := os.OpenFile(strings.TrimPrefix(output, "file:"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return os.Stdout
		}
		return f
	default:
		return os.Stdout
	}
}

// GetLogger 获取默认 logger
func GetLogger() *slog.Logger {
	if defaultLogger == nil {
		Init(nil)
	}
	return defaultLogger
}

// With 创建带有额外字段的 logger
func With(args ...any) *slog.Logger {
	return GetLogger().With(args...)
}

// NewModuleLogger 为特定模块创建 logger
func NewModuleLogger(module, component string) *slog.Logger {
	return GetLogger().With(
		slog.String("module", module),
		slog.String("component", component),
	)
}

// FromContext 返回附带上下文字段（请求 ID、会话 ID）的 logger
func FromContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	attrs := LogCtxFromContext(ctx)
	if len(attrs) == 0 {
		return logger
	}
	args := make([]any, 0, len(attrs))
	for _, a := range attrs {
		args = append(args, a)
	}
	return logger.With(args...)
}

// IsDebugMode 检查是否为调试模式
func IsDebugMode() bool {
	return debugMode
}

// parseLevel 解析日志级别
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
