package support

import (
	"strings"
	"time"
)

// DefaultLanguage 未指定语言时使用的语言标签
const DefaultLanguage = "en"

// Category 支持分类标签，取值来自 Policy 配置
type Category string

const (
	// CategoryOtherGeneral 兜底分类
	CategoryOtherGeneral Category = "Other_General"
	// CategoryError 降级响应使用的分类
	CategoryError Category = "ERROR"
	// CategoryUnknown 模型判定无法解析时使用的分类
	CategoryUnknown Category = "UNKNOWN"
)

// String 返回分类名称
func (c Category) String() string {
	return string(c)
}

// ConfidenceLabel 基于检索结果数量的粗粒度置信度
type ConfidenceLabel string

const (
	ConfidenceHigh ConfidenceLabel = "high"
	ConfidenceLow  ConfidenceLabel = "low"
)

// HandledBy 处理方
type HandledBy string

const (
	HandledByAI    HandledBy = "ai_agent"
	HandledByHuman HandledBy = "human_agent"
)

// CustomerMessage 单次请求的客户输入（不可变）
type CustomerMessage struct {
	Text     string
	Language string
}

// NewCustomerMessage 创建客户消息，语言为空时使用默认语言
func NewCustomerMessage(text, language string) CustomerMessage {
	language = strings.TrimSpace(language)
	if language == "" {
		language = DefaultLanguage
	}
	return CustomerMessage{Text: text, Language: language}
}

// IsBlank 消息是否为空（仅包含空白字符也视为空）
func (m CustomerMessage) IsBlank() bool {
	return strings.TrimSpace(m.Text) == ""
}

// RetrievedDocument 检索到的相似历史交互
type RetrievedDocument struct {
	ID       string            `json:"id"`
	Content  string            `json:"content"`
	Score    float32           `json:"score"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// ClassificationOutcome 分类结果（响应中的瞬态字段）
type ClassificationOutcome struct {
	Category          Category        `json:"category"`
	Confidence        ConfidenceLabel `json:"confidence"`
	RelevantDocsCount int             `json:"relevant_docs_count"`
}

// Judgment 生成式模型给出的分类与情绪判断
type Judgment struct {
	Category    Category `json:"category"`
	Confidence  float64  `json:"confidence"`
	AngerLevel  float64  `json:"anger_level"`
	Explanation string   `json:"explanation"`
}

// FallbackJudgment 模型输出无法解析时的默认判断
func FallbackJudgment() Judgment {
	return Judgment{
		Category:    CategoryUnknown,
		Confidence:  0.0,
		AngerLevel:  0.5,
		Explanation: "parse failure",
	}
}

// ConversationRecord 持久化的交互记录，每个请求写入一次，之后不再修改
type ConversationRecord struct {
	ID                string          `json:"id"`
	Timestamp         time.Time       `json:"timestamp"`
	Message           string          `json:"customer_message"`
	Language          string          `json:"language"`
	Category          Category        `json:"category"`
	SentimentScore    float64         `json:"sentiment_score"`
	HandledBy         HandledBy       `json:"handled_by"`
	Response          string          `json:"response"`
	Confidence        ConfidenceLabel `json:"confidence,omitempty"`
	RelevantDocsCount int             `json:"relevant_docs_count"`
	Status            string          `json:"status"`
	Error             string          `json:"error,omitempty"`
}

// IsHandoff 是否转交人工
func (r *ConversationRecord) IsHandoff() bool {
	return r.HandledBy == HandledByHuman
}

// StructuredResponse 返回给调用方的结构化响应
type StructuredResponse struct {
	Response          string          `json:"response"`
	Category          Category        `json:"category"`
	HandledBy         HandledBy       `json:"handled_by"`
	Confidence        ConfidenceLabel `json:"confidence"`
	ModelConfidence   *float64        `json:"model_confidence,omitempty"`
	AngerLevel        float64         `json:"anger_level"`
	Explanation       string          `json:"explanation,omitempty"`
	RelevantDocsCount int             `json:"relevant_docs_count"`
	ConversationID    string          `json:"conversation_id,omitempty"`
	Error             string          `json:"error,omitempty"`
}
