package vector

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/qdrant/go-client/qdrant"
	domain "github.com/supportdesk/backend/internal/domain/support"
	"github.com/supportdesk/backend/internal/infrastructure/config"
	"github.com/supportdesk/backend/internal/infrastructure/embedding"
	"github.com/supportdesk/backend/internal/infrastructure/log"
)

// PayloadContent 存放文档正文的 payload 字段
const PayloadContent = "content"

// 单次 Upsert 的最大点数
const upsertBatchSize = 256

// PointsClient Qdrant 客户端中用到的方法，*qdrant.Client 满足该接口
type PointsClient interface {
	ListCollections(ctx context.Context) ([]string, error)
	CreateCollection(ctx context.Context, request *qdrant.CreateCollection) error
	Upsert(ctx context.Context, request *qdrant.UpsertPoints) (*qdrant.UpdateResult, error)
	Query(ctx context.Context, request *qdrant.QueryPoints) ([]*qdrant.ScoredPoint, error)
	Close() error
}

// Embedder 文本向量化
type Embedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// KnowledgePoint 写入知识库的一个向量点
type KnowledgePoint struct {
	ID       string
	Vector   []float32
	Content  string
	Metadata map[string]string
}

// QdrantStore 历史交互知识库，实现相似检索与写入
type QdrantStore struct {
	client     PointsClient
	embedder   Embedder
	collection string
	logger     *slog.Logger
}

// NewQdrantStore 创建 QdrantStore
func NewQdrantStore(client PointsClient, embedder Embedder, collection string) *QdrantStore {
	return &QdrantStore{
		client:     client,
		embedder:   embedder,
		collection: collection,
		logger:     log.NewModuleLogger("vector", "qdrant"),
	}
}

// Connect 创建 Qdrant gRPC 客户端
func Connect(cfg *config.VectorConfig) (*qdrant.Client, error) {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host: cfg.Host,
		Port: cfg.Port,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to qdrant: %w", err)
	}
	return client, nil
}

// ProvideQdrantStore 根据配置创建 QdrantStore
func ProvideQdrantStore(cfg *config.VectorConfig, embedder *embedding.Client) (*QdrantStore, func(), error) {
	client, err := Connect(cfg)
	if err != nil {
		return nil, nil, err
	}
	store := NewQdrantStore(client, embedder, cfg.Collection)
	cleanup := func() {
		_ = client.Close()
	}
	return store, cleanup, nil
}

// Collection 集合名称
func (s *QdrantStore) Collection() string {
	return s.collection
}

// Similar 返回与查询文本最相似的 k 条历史交互，按相似度降序
func (s *QdrantStore) Similar(ctx context.Context, query string, k int) ([]domain.RetrievedDocument, error) {
	if k <= 0 {
		return []domain.RetrievedDocument{}, nil
	}

	vector, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	limit := uint64(k)
	hits, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.collection,
		Query:          qdrant.NewQuery(vector...),
		Limit:          &limit,
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query qdrant: %w", err)
	}

	docs := make([]domain.RetrievedDocument, 0, len(hits))
	for _, hit := range hits {
		doc := hitToDocument(hit)
		if doc.Content == "" {
			continue
		}
		docs = append(docs, doc)
	}

	s.logger.Debug("Qdrant search completed",
		"collection", s.collection,
		"hits", len(hits),
		"documents", len(docs),
	)
	return docs, nil
}

// EnsureCollection 集合不存在时按向量维度创建
func (s *QdrantStore) EnsureCollection(ctx context.Context, vectorSize uint64) error {
	existing, err := s.client.ListCollections(ctx)
	if err != nil {
		return fmt.Errorf("failed to list collections: %w", err)
	}
	for _, name := range existing {
		if name == s.collection {
			return nil
		}
	}

	err = s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: s.collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     vectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection %s: %w", s.collection, err)
	}

	s.logger.Info("Qdrant collection created",
		"collection", s.collection,
		"vector_size", vectorSize,
	)
	return nil
}

// Upsert 分批写入知识点
func (s *QdrantStore) Upsert(ctx context.Context, points []KnowledgePoint) error {
	wait := true
	for start := 0; start < len(points); start += upsertBatchSize {
		end := min(start+upsertBatchSize, len(points))

		batch := make([]*qdrant.PointStruct, 0, end-start)
		for _, p := range points[start:end] {
			payload := map[string]any{PayloadContent: p.Content}
			for k, v := range p.Metadata {
				payload[k] = v
			}
			batch = append(batch, &qdrant.PointStruct{
				Id:      qdrant.NewID(p.ID),
				Vectors: qdrant.NewVectors(p.Vector...),
				Payload: qdrant.NewValueMap(payload),
			})
		}

		if _, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
			CollectionName: s.collection,
			Wait:           &wait,
			Points:         batch,
		}); err != nil {
			return fmt.Errorf("failed to upsert points %d-%d: %w", start, end, err)
		}
	}
	return nil
}

// Ping 检查 Qdrant 是否可用
func (s *QdrantStore) Ping(ctx context.Context) error {
	if _, err := s.client.ListCollections(ctx); err != nil {
		return fmt.Errorf("qdrant unavailable: %w", err)
	}
	return nil
}

// hitToDocument 转换检索结果
func hitToDocument(hit *qdrant.ScoredPoint) domain.RetrievedDocument {
	doc := domain.RetrievedDocument{
		ID:    pointIDString(hit.GetId()),
		Score: hit.GetScore(),
	}
	for key, value := range hit.GetPayload() {
		str := extractStringValue(value)
		if key == PayloadContent {
			doc.Content = str
			continue
		}
		if str == "" {
			continue
		}
		if doc.Metadata == nil {
			doc.Metadata = make(map[string]string)
		}
		doc.Metadata[key] = str
	}
	return doc
}

func pointIDString(id *qdrant.PointId) string {
	if id == nil {
		return ""
	}
	if u := id.GetUuid(); u != "" {
		return u
	}
	return strconv.FormatUint(id.GetNum(), 10)
}

// extractStringValue 从 qdrant.Value 提取字符串值
func extractStringValue(val *qdrant.Value) string {
	if val == nil {
		return ""
	}
	return val.GetStringValue()
}
