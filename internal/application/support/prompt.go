package support

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	domain "github.com/supportdesk/backend/internal/domain/support"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// 检索上下文之间的分隔符
const contextSeparator = "\n\n---\n\n"

// TokenBudget Prompt 上下文的 Token 计数与截断
type TokenBudget interface {
	CountTokens(text string) int
	Truncate(text string, maxTokens int) string
}

// PromptBuilder 构建分类、回答和转人工 Prompt
type PromptBuilder struct {
	budget        TokenBudget
	contextTokens int
}

// NewPromptBuilder 创建 PromptBuilder
// budget 为 nil 或 contextTokens <= 0 时不限制上下文长度
func NewPromptBuilder(budget TokenBudget, contextTokens int) *PromptBuilder {
	return &PromptBuilder{budget: budget, contextTokens: contextTokens}
}

// AnswerInput 回答 Prompt 的输入
type AnswerInput struct {
	Question   string
	Language   string
	Category   domain.Category
	Guidance   string
	AngerLevel float64
	Documents  []domain.RetrievedDocument
}

// AnswerPrompt 构建基于检索上下文和分类指引的回答 Prompt
func (b *PromptBuilder) AnswerPrompt(in AnswerInput) string {
	var sb strings.Builder

	sb.WriteString("You are a helpful customer support assistant. Use the following context from previous customer interactions to help answer the customer's question.\n\n")

	fmt.Fprintf(&sb, "The message is categorized as %s.\n", in.Category)
	if in.Guidance != "" {
		sb.WriteString("Based on this category, structure your answer as follows:\n")
		sb.WriteString(in.Guidance)
		sb.WriteString("\n")
	}
	sb.WriteString("\nContext from similar customer interactions:\n")
	sb.WriteString(b.BuildContext(in.Documents))
	sb.WriteString("\n\n")

	fmt.Fprintf(&sb, "Customer Question: %s\n\n", in.Question)
	fmt.Fprintf(&sb, "The customer's anger level is %.2f (0-1 scale).\n", in.AngerLevel)
	fmt.Fprintf(&sb, "Write the response in %s.\n\n", LanguageName(in.Language))

	sb.WriteString("Please provide a helpful, professional, and empathetic response that:\n")
	sb.WriteString("- Directly addresses the customer's concern\n")
	sb.WriteString("- Uses information from the context when relevant\n")
	sb.WriteString("- Is clear and actionable\n")
	sb.WriteString("- Maintains a friendly and professional tone\n\n")
	sb.WriteString("Response:")

	return sb.String()
}

// HandoffPrompt 构建转人工确认 Prompt
func (b *PromptBuilder) HandoffPrompt(question, lang string) string {
	return fmt.Sprintf(`The customer message indicates they need human assistance.
Generate a polite response in %s that explains we're connecting them to a human agent.
Do not attempt to solve the problem yourself.

Message: %s`, LanguageName(lang), question)
}

// ClassificationPrompt 构建分类与情绪判断 Prompt
func (b *PromptBuilder) ClassificationPrompt(message string, categories []domain.Category) string {
	names := make([]string, len(categories))
	for i, c := range categories {
		names[i] = string(c)
	}

	return fmt.Sprintf(`Analyze the following customer support message and classify it into one of these categories: %s.
Also determine if the customer is angry (sentiment analysis) and provide a confidence score.

Message: %s

Provide the response in JSON format with the following structure:
{
    "category": "category_name",
    "confidence": 0.95,
    "anger_level": 0.3,
    "explanation": "brief explanation of the classification"
}

confidence and anger_level must be numbers between 0 and 1. Return only the JSON object.`,
		strings.Join(names, ", "), message)
}

// BuildContext 拼接检索到的文档，超出 Token 预算的部分被截断
func (b *PromptBuilder) BuildContext(docs []domain.RetrievedDocument) string {
	if len(docs) == 0 {
		return "No similar interactions found."
	}

	limited := b.budget != nil && b.contextTokens > 0
	remaining := b.contextTokens
	parts := make([]string, 0, len(docs))

	for _, doc := range docs {
		content := strings.TrimSpace(doc.Content)
		if content == "" {
			continue
		}
		if limited {
			if remaining <= 0 {
				break
			}
			n := b.budget.CountTokens(content)
			if n > remaining {
				content = b.budget.Truncate(content, remaining)
				n = remaining
			}
			remaining -= n
		}
		parts = append(parts, content)
	}

	if len(parts) == 0 {
		return "No similar interactions found."
	}
	return strings.Join(parts, contextSeparator)
}

// 语言名称的最大长度（按字符计）
const maxLanguageNameLen = 40

// NormalizeLanguage 规范化语言，空值返回默认语言
// BCP 47 标签返回规范形式；"English"、"svenska" 这类语言名称原样保留，由 LanguageName 直接写入 Prompt
// 只拒绝不像语言名称的输入：过长、含数字、标点或控制字符
func NormalizeLanguage(tag string) (string, error) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return domain.DefaultLanguage, nil
	}
	if parsed, err := language.Parse(tag); err == nil {
		return parsed.String(), nil
	}
	if !isLanguageName(tag) {
		return "", &domain.InputError{Field: "language", Reason: fmt.Sprintf("invalid language %q", tag)}
	}
	return tag, nil
}

// isLanguageName 判断是否为人类可读的语言名称，例如 "Brazilian Portuguese"
func isLanguageName(s string) bool {
	if utf8.RuneCountInString(s) > maxLanguageNameLen {
		return false
	}
	for _, r := range s {
		switch {
		case unicode.IsLetter(r), unicode.Is(unicode.Mn, r):
		case r == ' ', r == '-', r == '\'':
		default:
			return false
		}
	}
	return true
}

// LanguageName 返回语言标签的英文名称，无法识别时原样返回
func LanguageName(tag string) string {
	parsed, err := language.Parse(tag)
	if err != nil {
		return tag
	}
	if name := display.English.Tags().Name(parsed); name != "" {
		return name
	}
	return tag
}
