package support

import "context"

// Retriever 检索协作方：返回与查询文本相似的历史交互，按相似度排序
// 实现必须幂等且无副作用
type Retriever interface {
	Similar(ctx context.Context, query string, k int) ([]RetrievedDocument, error)
}

// Generator 生成式模型协作方
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Judge 生成式模型的分类与情绪判断能力
type Judge interface {
	Judge(ctx context.Context, text string, categories []Category) (Judgment, error)
}

// ConversationSink 交互记录写入目标
type ConversationSink interface {
	Append(ctx context.Context, record *ConversationRecord) error
}

// ConversationRepository 可查询的交互记录仓储
type ConversationRepository interface {
	ConversationSink
	FindByID(id string) (*ConversationRecord, error)
	List(filter ConversationFilter) ([]*ConversationRecord, error)
	CountByCategory() ([]CategoryCount, error)
}

// HandoffNotifier 转人工通知
type HandoffNotifier interface {
	NotifyHandoff(ctx context.Context, record *ConversationRecord) error
}

// ConversationFilter 交互记录查询条件
type ConversationFilter struct {
	Category  Category
	HandledBy HandledBy
	Limit     int
}

// CategoryCount 分类统计
type CategoryCount struct {
	Category  Category  `json:"category"`
	HandledBy HandledBy `json:"handled_by"`
	Count     int       `json:"count"`
}
