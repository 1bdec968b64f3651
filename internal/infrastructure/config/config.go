package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// 环境变量名
const (
	EnvHTTPPort          = "SUPPORTDESK_HTTP_PORT"
	EnvDatabasePath      = "SUPPORTDESK_DB_PATH"
	EnvTopK              = "SUPPORTDESK_TOP_K"
	EnvClassifierMode    = "SUPPORTDESK_CLASSIFIER_MODE"
	EnvPolicyFile        = "SUPPORTDESK_POLICY_FILE"
	EnvPolicyReload      = "SUPPORTDESK_POLICY_RELOAD"
	EnvRetrievalTimeout  = "SUPPORTDESK_RETRIEVAL_TIMEOUT"
	EnvGenerationTimeout = "SUPPORTDESK_GENERATION_TIMEOUT"
	EnvRecordTimeout     = "SUPPORTDESK_RECORD_TIMEOUT"
	EnvRetrievalRetries  = "SUPPORTDESK_RETRIEVAL_RETRIES"
	EnvContextTokens     = "SUPPORTDESK_CONTEXT_TOKENS"

	EnvLLMProvider = "LLM_PROVIDER"
	EnvLLMBaseURL  = "LLM_BASE_URL"
	EnvLLMAPIKey   = "LLM_API_KEY"
	EnvLLMModel    = "LLM_MODEL"
	EnvGeminiKey   = "GOOGLE_API_KEY"
	EnvGeminiModel = "GEMINI_MODEL"

	EnvEmbeddingBaseURL = "EMBEDDING_BASE_URL"
	EnvEmbeddingAPIKey  = "EMBEDDING_API_KEY"
	EnvEmbeddingModel   = "EMBEDDING_MODEL"

	EnvQdrantHost       = "QDRANT_HOST"
	EnvQdrantPort       = "QDRANT_PORT"
	EnvQdrantCollection = "QDRANT_COLLECTION"

	EnvRedisAddr     = "REDIS_ADDR"
	EnvRedisPassword = "REDIS_PASSWORD"
	EnvRedisDB       = "REDIS_DB"
	EnvCacheTTL      = "RETRIEVAL_CACHE_TTL"

	EnvWarehouseDSN   = "WAREHOUSE_DSN"
	EnvWarehouseTable = "WAREHOUSE_TABLE"

	EnvKafkaBrokers = "KAFKA_BROKERS"
	EnvKafkaTopic   = "KAFKA_TOPIC"

	EnvMetricsEnabled = "METRICS_ENABLED"
)

// LLM 提供方
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
	ProviderNone   = "none"
)

// 分类模式
const (
	ClassifierModeKeyword = "keyword"
	ClassifierModeModel   = "model"
)

// Config 应用配置
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	WebSocket WebSocketConfig
	Support   SupportConfig
	LLM       LLMConfig
	Embedding EmbeddingConfig
	Vector    VectorConfig
	Cache     CacheConfig
	Warehouse WarehouseConfig
	Stream    StreamConfig
	Metrics   MetricsConfig
}

// ServerConfig 服务器配置
type ServerConfig struct {
	HTTPPort        string
	ShutdownTimeout time.Duration
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	// Path SQLite 文件路径，留空使用数据目录下的 supportdesk.db
	Path string
}

// WebSocketConfig WebSocket 配置
type WebSocketConfig struct {
	ReadBufferSize  int
	WriteBufferSize int
}

// SupportConfig 客服编排配置
type SupportConfig struct {
	// TopK 检索的相似历史交互数量
	TopK int
	// ClassifierMode keyword 或 model
	ClassifierMode string
	// PolicyFile 策略 YAML 文件，留空使用内置策略
	PolicyFile string
	// PolicyReload 策略文件变更时自动重新加载
	PolicyReload bool

	RetrievalTimeout  time.Duration
	GenerationTimeout time.Duration
	RecordTimeout     time.Duration
	// RetrievalRetries 检索失败后的重试次数（生成不重试）
	RetrievalRetries int
	RetryBackoff     time.Duration
	// ContextTokens Prompt 中检索上下文的 token 预算
	ContextTokens int
}

// LLMConfig 生成式模型配置
type LLMConfig struct {
	// Provider openai、gemini 或 none
	Provider     string
	BaseURL      string
	APIKey       string
	Model        string
	GeminiAPIKey string
	GeminiModel  string
}

// EmbeddingConfig 向量化服务配置
type EmbeddingConfig struct {
	BaseURL string
	APIKey  string
	Model   string
}

// VectorConfig Qdrant 配置
type VectorConfig struct {
	Host       string
	Port       int
	Collection string
}

// CacheConfig Redis 检索缓存配置，Addr 为空时禁用
type CacheConfig struct {
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	TTL           time.Duration
}

// WarehouseConfig Postgres 分析库配置，DSN 为空时禁用
type WarehouseConfig struct {
	DSN   string
	Table string
}

// StreamConfig Kafka 事件流配置，Brokers 为空时禁用
type StreamConfig struct {
	Brokers []string
	Topic   string
}

// MetricsConfig Prometheus 指标配置
type MetricsConfig struct {
	Enabled bool
}

// NewConfig 创建配置（默认值 + 环境变量覆盖）
func NewConfig() *Config {
	cfg := &Config{
		Server: ServerConfig{
			HTTPPort:        ":8000",
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Path: "",
		},
		WebSocket: WebSocketConfig{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		Support: SupportConfig{
			TopK:              3,
			ClassifierMode:    ClassifierModeKeyword,
			PolicyReload:      true,
			RetrievalTimeout:  5 * time.Second,
			GenerationTimeout: 30 * time.Second,
			RecordTimeout:     5 * time.Second,
			RetrievalRetries:  2,
			RetryBackoff:      200 * time.Millisecond,
			ContextTokens:     1500,
		},
		LLM: LLMConfig{
			Provider:    ProviderGemini,
			BaseURL:     "https://api.openai.com/v1",
			Model:       "gpt-4o-mini",
			GeminiModel: "gemini-2.0-flash",
		},
		Embedding: EmbeddingConfig{
			BaseURL: "https://api.openai.com/v1",
			Model:   "text-embedding-3-small",
		},
		Vector: VectorConfig{
			Host:       "localhost",
			Port:       6334,
			Collection: "support_interactions",
		},
		Cache: CacheConfig{
			TTL: 10 * time.Minute,
		},
		Warehouse: WarehouseConfig{
			Table: "conversation_records",
		},
		Stream: StreamConfig{
			Topic: "support.conversations",
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}

	cfg.applyEnv()
	return cfg
}

// applyEnv 应用环境变量覆盖
func (c *Config) applyEnv() {
	setString(&c.Server.HTTPPort, EnvHTTPPort)
	setString(&c.Database.Path, EnvDatabasePath)

	setInt(&c.Support.TopK, EnvTopK)
	setString(&c.Support.ClassifierMode, EnvClassifierMode)
	setString(&c.Support.PolicyFile, EnvPolicyFile)
	setBool(&c.Support.PolicyReload, EnvPolicyReload)
	setDuration(&c.Support.RetrievalTimeout, EnvRetrievalTimeout)
	setDuration(&c.Support.GenerationTimeout, EnvGenerationTimeout)
	setDuration(&c.Support.RecordTimeout, EnvRecordTimeout)
	setInt(&c.Support.RetrievalRetries, EnvRetrievalRetries)
	setInt(&c.Support.ContextTokens, EnvContextTokens)

	setString(&c.LLM.Provider, EnvLLMProvider)
	setString(&c.LLM.BaseURL, EnvLLMBaseURL)
	setString(&c.LLM.APIKey, EnvLLMAPIKey)
	setString(&c.LLM.Model, EnvLLMModel)
	setString(&c.LLM.GeminiAPIKey, EnvGeminiKey)
	setString(&c.LLM.GeminiModel, EnvGeminiModel)

	setString(&c.Embedding.BaseURL, EnvEmbeddingBaseURL)
	setString(&c.Embedding.APIKey, EnvEmbeddingAPIKey)
	setString(&c.Embedding.Model, EnvEmbeddingModel)

	setString(&c.Vector.Host, EnvQdrantHost)
	setInt(&c.Vector.Port, EnvQdrantPort)
	setString(&c.Vector.Collection, EnvQdrantCollection)

	setString(&c.Cache.RedisAddr, EnvRedisAddr)
	setString(&c.Cache.RedisPassword, EnvRedisPassword)
	setInt(&c.Cache.RedisDB, EnvRedisDB)
	setDuration(&c.Cache.TTL, EnvCacheTTL)

	setString(&c.Warehouse.DSN, EnvWarehouseDSN)
	setString(&c.Warehouse.Table, EnvWarehouseTable)

	if v := os.Getenv(EnvKafkaBrokers); v != "" {
		c.Stream.Brokers = splitList(v)
	}
	setString(&c.Stream.Topic, EnvKafkaTopic)

	setBool(&c.Metrics.Enabled, EnvMetricsEnabled)

	c.LLM.Provider = strings.ToLower(strings.TrimSpace(c.LLM.Provider))
	c.Support.ClassifierMode = strings.ToLower(strings.TrimSpace(c.Support.ClassifierMode))
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// setInt 非法值保留默认值
func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// NewDatabaseConfig 创建数据库配置
func NewDatabaseConfig(cfg *Config) *DatabaseConfig {
	return &cfg.Database
}

// NewServerConfig 创建服务器配置
func NewServerConfig(cfg *Config) *ServerConfig {
	return &cfg.Server
}

// NewWebSocketConfig 创建 WebSocket 配置
func NewWebSocketConfig(cfg *Config) *WebSocketConfig {
	return &cfg.WebSocket
}

// NewSupportConfig 创建客服编排配置
func NewSupportConfig(cfg *Config) *SupportConfig {
	return &cfg.Support
}

// NewLLMConfig 创建生成式模型配置
func NewLLMConfig(cfg *Config) *LLMConfig {
	return &cfg.LLM
}

// NewEmbeddingConfig 创建向量化服务配置
func NewEmbeddingConfig(cfg *Config) *EmbeddingConfig {
	return &cfg.Embedding
}

// NewVectorConfig 创建 Qdrant 配置
func NewVectorConfig(cfg *Config) *VectorConfig {
	return &cfg.Vector
}

// NewCacheConfig 创建缓存配置
func NewCacheConfig(cfg *Config) *CacheConfig {
	return &cfg.Cache
}

// NewWarehouseConfig 创建分析库配置
func NewWarehouseConfig(cfg *Config) *WarehouseConfig {
	return &cfg.Warehouse
}

// NewStreamConfig 创建事件流配置
func NewStreamConfig(cfg *Config) *StreamConfig {
	return &cfg.Stream
}

// NewMetricsConfig 创建指标配置
func NewMetricsConfig(cfg *Config) *MetricsConfig {
	return &cfg.Metrics
}
