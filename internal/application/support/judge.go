package support

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	domain "github.com/supportdesk/backend/internal/domain/support"
	"github.com/supportdesk/backend/internal/infrastructure/log"
)

// ModelJudge 使用生成式模型判断分类与情绪
type ModelJudge struct {
	generator domain.Generator
	prompts   *PromptBuilder
	logger    *slog.Logger
}

// NewModelJudge 创建 ModelJudge
func NewModelJudge(generator domain.Generator, prompts *PromptBuilder) *ModelJudge {
	return &ModelJudge{
		generator: generator,
		prompts:   prompts,
		logger:    log.NewModuleLogger("support", "judge"),
	}
}

// judgmentPayload 模型返回的 JSON 结构
type judgmentPayload struct {
	Category    string   `json:"category"`
	Confidence  *float64 `json:"confidence"`
	AngerLevel  *float64 `json:"anger_level"`
	Explanation string   `json:"explanation"`
}

// Judge 请求模型给出分类与情绪判断
// 模型输出无法解析时返回 FallbackJudgment，调用失败时返回错误
func (j *ModelJudge) Judge(ctx context.Context, text string, categories []domain.Category) (domain.Judgment, error) {
	raw, err := j.generator.Generate(ctx, j.prompts.ClassificationPrompt(text, categories))
	if err != nil {
		return domain.Judgment{}, err
	}

	judgment, err := ParseJudgment(raw)
	if err != nil {
		log.FromContext(ctx, j.logger).Warn("Model judgment could not be parsed, using fallback",
			"error", err,
			"raw_preview", preview(raw, 200),
		)
		return domain.FallbackJudgment(), nil
	}

	return judgment, nil
}

// ParseJudgment 解析模型返回的判断 JSON，允许被 markdown 代码块包裹
func ParseJudgment(raw string) (domain.Judgment, error) {
	body := extractJSONObject(raw)
	if body == "" {
		return domain.Judgment{}, fmt.Errorf("%w: no JSON object in model output", domain.ErrMalformedOutput)
	}

	var payload judgmentPayload
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		return domain.Judgment{}, fmt.Errorf("%w: %v", domain.ErrMalformedOutput, err)
	}
	if strings.TrimSpace(payload.Category) == "" {
		return domain.Judgment{}, fmt.Errorf("%w: missing category", domain.ErrMalformedOutput)
	}

	fallback := domain.FallbackJudgment()
	judgment := domain.Judgment{
		Category:    domain.Category(strings.TrimSpace(payload.Category)),
		Confidence:  fallback.Confidence,
		AngerLevel:  fallback.AngerLevel,
		Explanation: strings.TrimSpace(payload.Explanation),
	}
	if payload.Confidence != nil {
		judgment.Confidence = *payload.Confidence
	}
	if payload.AngerLevel != nil {
		judgment.AngerLevel = *payload.AngerLevel
	}
	return judgment, nil
}

// extractJSONObject 去除代码块标记，返回第一个 '{' 到最后一个 '}' 之间的内容
func extractJSONObject(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return ""
	}
	return s[start : end+1]
}

func preview(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
