package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	appSupport "github.com/supportdesk/backend/internal/application/support"
	domain "github.com/supportdesk/backend/internal/domain/support"
)

// ClassifyInput 分类工具输入
type ClassifyInput struct {
	Message    string  `json:"message" jsonschema:"Customer message text"`
	AngerLevel float64 `json:"anger_level,omitempty" jsonschema:"Anger level in [0,1] for the handoff preview"`
}

// ClassifyOutput 分类工具输出
type ClassifyOutput struct {
	Category       string `json:"category" jsonschema:"Routing category"`
	MatchedKeyword string `json:"matched_keyword,omitempty" jsonschema:"Keyword that selected the category, empty when the default category was used"`
	HandledBy      string `json:"handled_by" jsonschema:"ai_agent or human_agent"`
}

// AnswerInput 回答工具输入
type AnswerInput struct {
	Message  string `json:"message" jsonschema:"Customer message text"`
	Language string `json:"language,omitempty" jsonschema:"BCP 47 language tag for the reply"`
}

// ListConversationsInput 记录查询工具输入
type ListConversationsInput struct {
	Category  string `json:"category,omitempty" jsonschema:"Only conversations in this category"`
	HandledBy string `json:"handled_by,omitempty" jsonschema:"ai_agent or human_agent"`
	Limit     int    `json:"limit,omitempty" jsonschema:"Maximum number of records"`
}

// ListConversationsOutput 记录查询工具输出
type ListConversationsOutput struct {
	Conversations []*domain.ConversationRecord `json:"conversations"`
	Count         int                          `json:"count"`
}

// classifySupportMessageTool 仅关键词分类与转人工预判
func (s *MCPServer) classifySupportMessageTool(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input ClassifyInput,
) (*mcp.CallToolResult, ClassifyOutput, error) {
	if strings.TrimSpace(input.Message) == "" {
		return nil, ClassifyOutput{}, fmt.Errorf("message is required")
	}

	category, escalate, err := s.orchestrator.Preview(input.Message, input.AngerLevel)
	if err != nil {
		return nil, ClassifyOutput{}, err
	}
	_, keyword := s.orchestrator.MatchedKeyword(input.Message)

	handledBy := domain.HandledByAI
	if escalate {
		handledBy = domain.HandledByHuman
	}
	return nil, ClassifyOutput{
		Category:       string(category),
		MatchedKeyword: keyword,
		HandledBy:      string(handledBy),
	}, nil
}

// answerSupportMessageTool 完整编排
func (s *MCPServer) answerSupportMessageTool(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input AnswerInput,
) (*mcp.CallToolResult, domain.StructuredResponse, error) {
	outcome := s.orchestrator.Handle(ctx, domain.NewCustomerMessage(input.Message, input.Language))
	if outcome.Status == appSupport.StatusRejected {
		return nil, domain.StructuredResponse{}, outcome.Err
	}
	s.logger.Debug("Answered support message via MCP",
		"conversation_id", outcome.Response.ConversationID,
		"status", outcome.Status,
	)
	return nil, *outcome.Response, nil
}

// listRecentConversationsTool 查询最近的交互记录
func (s *MCPServer) listRecentConversationsTool(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input ListConversationsInput,
) (*mcp.CallToolResult, ListConversationsOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = 20
	}
	records, err := s.repo.List(domain.ConversationFilter{
		Category:  domain.Category(input.Category),
		HandledBy: domain.HandledBy(input.HandledBy),
		Limit:     limit,
	})
	if err != nil {
		return nil, ListConversationsOutput{}, fmt.Errorf("failed to list conversations: %w", err)
	}
	if records == nil {
		records = []*domain.ConversationRecord{}
	}
	return nil, ListConversationsOutput{Conversations: records, Count: len(records)}, nil
}
