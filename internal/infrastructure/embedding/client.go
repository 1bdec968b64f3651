package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/supportdesk/backend/internal/infrastructure/config"
	"github.com/supportdesk/backend/internal/infrastructure/log"
)

// OpenAI embeddings API 批量限制：每次最多 2048 个文本
const maxBatchSize = 2048

// Client Embedding API 客户端（OpenAI 兼容协议）
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	maxRetries int
	backoff    time.Duration
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient 创建 Embedding 客户端
func NewClient(baseURL, apiKey, model string) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		maxRetries: 3,
		backoff:    time.Second,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: log.NewModuleLogger("embedding", "client"),
	}
}

// ProvideClient 根据配置创建客户端
func ProvideClient(cfg *config.EmbeddingConfig) *Client {
	return NewClient(cfg.BaseURL, cfg.APIKey, cfg.Model)
}

// buildEmbeddingURL 构建 Embedding API URL
// 支持多种输入格式，智能拼接 /v1/embeddings 路径
func buildEmbeddingURL(baseURL string) string {
	if strings.Contains(baseURL, "/v1/embeddings") {
		return baseURL
	}
	if strings.HasSuffix(baseURL, "/v1") {
		return baseURL + "/embeddings"
	}
	if strings.HasSuffix(baseURL, "/v1/") {
		return baseURL + "embeddings"
	}
	return fmt.Sprintf("%s/v1/embeddings", baseURL)
}

// EmbeddingRequest Embedding 请求
type EmbeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

// EmbeddingResponse Embedding 响应
type EmbeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
	Model string `json:"model"`
	Usage struct {
		PromptTokens int `json:"prompt_tokens"`
		TotalTokens  int `json:"total_tokens"`
	} `json:"usage"`
}

// EmbedTexts 批量向量化文本，返回顺序与输入一致
func (c *Client) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("texts cannot be empty")
	}

	allVectors := make([][]float32, 0, len(texts))
	totalBatches := (len(texts) + maxBatchSize - 1) / maxBatchSize

	for i := 0; i < len(texts); i += maxBatchSize {
		end := min(i+maxBatchSize, len(texts))
		batchNum := i/maxBatchSize + 1

		if totalBatches > 1 {
			c.logger.Debug("Processing batch",
				"batch", batchNum,
				"total_batches", totalBatches,
				"batch_size", end-i,
			)
		}

		vectors, err := c.embedWithRetry(ctx, texts[i:end])
		if err != nil {
			return nil, fmt.Errorf("failed to embed batch %d: %w", batchNum, err)
		}
		allVectors = append(allVectors, vectors...)
	}

	return allVectors, nil
}

// EmbedQuery 向量化单条查询文本
func (c *Client) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vectors, err := c.EmbedTexts(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 || len(vectors[0]) == 0 {
		return nil, fmt.Errorf("invalid embedding result")
	}
	return vectors[0], nil
}

// embedWithRetry 带重试的嵌入处理，客户端错误（4xx）不重试
func (c *Client) embedWithRetry(ctx context.Context, texts []string) ([][]float32, error) {
	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			c.logger.Warn("Embedding request failed, retrying",
				"attempt", attempt+1,
				"max_retries", c.maxRetries,
				"error", lastErr,
			)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.backoff * time.Duration(attempt)):
			}
		}

		vectors, retryable, err := c.embedOnce(ctx, texts)
		if err == nil {
			return vectors, nil
		}
		lastErr = err
		if !retryable || ctx.Err() != nil {
			break
		}
	}
	return nil, lastErr
}

func (c *Client) embedOnce(ctx context.Context, texts []string) ([][]float32, bool, error) {
	jsonData, err := json.Marshal(EmbeddingRequest{Model: c.model, Input: texts})
	if err != nil {
		return nil, false, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := buildEmbeddingURL(c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return nil, false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))

	c.logger.Debug("Sending embedding request",
		"url", url,
		"batch_size", len(texts),
		"model", c.model,
		"api_key", maskKey(c.apiKey),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		retryable := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		return nil, retryable, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	var embeddingResp EmbeddingResponse
	if err := json.NewDecoder(resp.Body).Decode(&embeddingResp); err != nil {
		return nil, false, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(embeddingResp.Data) != len(texts) {
		return nil, false, fmt.Errorf("expected %d embeddings, got %d", len(texts), len(embeddingResp.Data))
	}

	vectors := make([][]float32, len(texts))
	for _, data := range embeddingResp.Data {
		if data.Index < 0 || data.Index >= len(vectors) {
			return nil, false, fmt.Errorf("embedding index %d out of range", data.Index)
		}
		vectors[data.Index] = data.Embedding
	}

	return vectors, false, nil
}

// Dimension 通过测试请求获取向量维度
func (c *Client) Dimension(ctx context.Context) (int, error) {
	vector, err := c.EmbedQuery(ctx, "test")
	if err != nil {
		return 0, err
	}
	return len(vector), nil
}

// maskKey API Key 脱敏
func maskKey(key string) string {
	if len(key) > 8 {
		return key[:4] + "..." + key[len(key)-4:]
	}
	return "***"
}
