package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	domain "github.com/supportdesk/backend/internal/domain/support"
	"github.com/supportdesk/backend/internal/infrastructure/config"
	"github.com/supportdesk/backend/internal/infrastructure/log"
	"github.com/supportdesk/backend/internal/infrastructure/vector"
)

// keyPrefix 缓存键前缀
const keyPrefix = "supportdesk:retrieval:"

// CachedRetriever 在检索器前加一层 Redis 缓存
// 缓存不可用时直接透传，不影响检索结果
type CachedRetriever struct {
	inner  domain.Retriever
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewCachedRetriever 创建带缓存的检索器
func NewCachedRetriever(inner domain.Retriever, client *redis.Client, ttl time.Duration) *CachedRetriever {
	return &CachedRetriever{
		inner:  inner,
		client: client,
		ttl:    ttl,
		logger: log.NewModuleLogger("cache", "retrieval"),
	}
}

// ProvideRetriever 提供检索器，配置了 Redis 时包装缓存
func ProvideRetriever(cfg *config.CacheConfig, store *vector.QdrantStore) (domain.Retriever, func(), error) {
	if cfg.RedisAddr == "" {
		return store, func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr,
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("redis ping failed: %w", err)
	}

	cleanup := func() { _ = client.Close() }
	return NewCachedRetriever(store, client, cfg.TTL), cleanup, nil
}

// Similar 先查缓存，未命中时调用内部检索器并回填
func (c *CachedRetriever) Similar(ctx context.Context, query string, k int) ([]domain.RetrievedDocument, error) {
	key := cacheKey(query, k)

	if docs, ok := c.lookup(ctx, key); ok {
		c.logger.Debug("Retrieval cache hit", "k", k)
		return docs, nil
	}

	docs, err := c.inner.Similar(ctx, query, k)
	if err != nil {
		return nil, err
	}

	c.store(ctx, key, docs)
	return docs, nil
}

func (c *CachedRetriever) lookup(ctx context.Context, key string) ([]domain.RetrievedDocument, bool) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("Retrieval cache read failed", "error", err)
		}
		return nil, false
	}

	var docs []domain.RetrievedDocument
	if err := json.Unmarshal(raw, &docs); err != nil {
		c.logger.Warn("Retrieval cache entry corrupt", "error", err)
		return nil, false
	}
	return docs, true
}

func (c *CachedRetriever) store(ctx context.Context, key string, docs []domain.RetrievedDocument) {
	if docs == nil {
		docs = []domain.RetrievedDocument{}
	}
	data, err := json.Marshal(docs)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("Retrieval cache write failed", "error", err)
	}
}

func cacheKey(query string, k int) string {
	sum := sha256.Sum256([]byte(strconv.Itoa(k) + "\x00" + query))
	return keyPrefix + hex.EncodeToString(sum[:])
}
