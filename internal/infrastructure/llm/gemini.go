package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/supportdesk/backend/internal/infrastructure/log"
	"google.golang.org/genai"
)

// contentGenerator genai.Models 中用到的方法
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiClient 基于 Google GenAI SDK 的生成客户端
type GeminiClient struct {
	models      contentGenerator
	model       string
	temperature float32
	logger      *slog.Logger
}

// NewGeminiClient 使用 API Key 创建 Gemini 客户端
func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return newGeminiClient(client.Models, model), nil
}

func newGeminiClient(models contentGenerator, model string) *GeminiClient {
	return &GeminiClient{
		models:      models,
		model:       model,
		temperature: 0.3,
		logger:      log.NewModuleLogger("llm", "gemini"),
	}
}

// Generate 发送单轮 Prompt 并返回第一个候选的文本
func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	content := genai.NewContentFromText(prompt, genai.RoleUser)
	temperature := c.temperature

	resp, err := c.models.GenerateContent(ctx, c.model, []*genai.Content{content}, &genai.GenerateContentConfig{
		Temperature: &temperature,
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate content with Gemini: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no response candidates from Gemini")
	}

	var result strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && part.Text != "" {
			result.WriteString(part.Text)
		}
	}

	c.logger.Debug("Gemini request successful",
		"model", c.model,
		"response_chars", result.Len(),
	)
	return result.String(), nil
}
