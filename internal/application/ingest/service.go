package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/google/uuid"
	"github.com/supportdesk/backend/internal/infrastructure/log"
	"github.com/supportdesk/backend/internal/infrastructure/vector"
)

// pointNamespace 知识点 ID 命名空间，同一交互片段重复导入得到相同 ID
var pointNamespace = uuid.MustParse("8a6f0f4e-3f0c-4d5e-9f57-2a6c1b0d7e11")

// embedBatchSize 单次向量化的片段数
const embedBatchSize = 64

// Embedder 文本向量化
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// KnowledgeStore 知识库写入
type KnowledgeStore interface {
	EnsureCollection(ctx context.Context, vectorSize uint64) error
	Upsert(ctx context.Context, points []vector.KnowledgePoint) error
}

// Result 导入统计
type Result struct {
	Loaded  int `json:"loaded"`
	Skipped int `json:"skipped"`
	Chunks  int `json:"chunks"`
}

// Service 历史交互导入服务
type Service struct {
	embedder Embedder
	store    KnowledgeStore
	splitter *Splitter
	logger   *slog.Logger
}

// NewService 创建导入服务
func NewService(embedder Embedder, store KnowledgeStore) *Service {
	return &Service{
		embedder: embedder,
		store:    store,
		splitter: NewSplitter(DefaultChunkSize, DefaultChunkOverlap),
		logger:   log.NewModuleLogger("ingest", "service"),
	}
}

// Ingest 切分、向量化并写入知识库
func (s *Service) Ingest(ctx context.Context, items []Interaction) (*Result, error) {
	result := &Result{Loaded: len(items)}

	var points []vector.KnowledgePoint
	for i, item := range items {
		if !item.Usable() {
			result.Skipped++
			continue
		}
		sourceID := item.ID
		if sourceID == "" {
			sourceID = strconv.Itoa(i)
		}
		for idx, chunk := range s.splitter.Split(item.ContextText()) {
			points = append(points, vector.KnowledgePoint{
				ID:      uuid.NewSHA1(pointNamespace, []byte(sourceID+":"+strconv.Itoa(idx))).String(),
				Content: chunk.Text,
				Metadata: map[string]string{
					"source_id":      sourceID,
					"category":       item.Category,
					"broad_category": item.BroadCategory,
					"start_index":    strconv.Itoa(chunk.StartIndex),
				},
			})
		}
	}
	result.Chunks = len(points)

	s.logger.Info("Interactions split",
		"loaded", result.Loaded,
		"skipped", result.Skipped,
		"chunks", result.Chunks,
	)
	if len(points) == 0 {
		return result, nil
	}

	ensured := false
	for start := 0; start < len(points); start += embedBatchSize {
		end := min(start+embedBatchSize, len(points))
		batch := points[start:end]

		texts := make([]string, len(batch))
		for i, p := range batch {
			texts[i] = p.Content
		}
		vectors, err := s.embedder.EmbedTexts(ctx, texts)
		if err != nil {
			return result, fmt.Errorf("failed to embed chunks %d-%d: %w", start, end, err)
		}
		if len(vectors) != len(batch) {
			return result, fmt.Errorf("embedding returned %d vectors for %d chunks", len(vectors), len(batch))
		}
		for i := range batch {
			batch[i].Vector = vectors[i]
		}

		if !ensured {
			if err := s.store.EnsureCollection(ctx, uint64(len(vectors[0]))); err != nil {
				return result, err
			}
			ensured = true
		}
		if err := s.store.Upsert(ctx, batch); err != nil {
			return result, err
		}
		s.logger.Debug("Chunks upserted", "from", start, "to", end)
	}

	s.logger.Info("Ingest completed", "chunks", result.Chunks)
	return result, nil
}

// IngestFile 从文件导入
func (s *Service) IngestFile(ctx context.Context, path string) (*Result, error) {
	items, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	return s.Ingest(ctx, items)
}
