package mcp

import (
	"log/slog"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	appSupport "github.com/supportdesk/backend/internal/application/support"
	domain "github.com/supportdesk/backend/internal/domain/support"
	"github.com/supportdesk/backend/internal/infrastructure/log"
)

// ServerVersion MCP 服务版本
const ServerVersion = "0.1.0"

// MCPServer MCP 服务器
type MCPServer struct {
	server       *mcp.Server
	handler      http.Handler
	orchestrator *appSupport.Orchestrator
	repo         domain.ConversationRepository
	logger       *slog.Logger
}

// NewServer 创建 MCP 服务器
func NewServer(orchestrator *appSupport.Orchestrator, repo domain.ConversationRepository) *MCPServer {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "supportdesk",
			Version: ServerVersion,
		},
		nil,
	)

	s := &MCPServer{
		server:       server,
		orchestrator: orchestrator,
		repo:         repo,
		logger:       log.NewModuleLogger("mcp", "server"),
	}

	mcp.AddTool(server, &mcp.Tool{
		Name: "classify_support_message",
		Description: `Classify a customer support message with the keyword routing policy and preview the handoff decision. Does not call any model and does not record anything.
Parameters:
- message (string, required): Customer message text
- anger_level (number, optional): Anger level in [0,1] used for the handoff preview, defaults to 0

Returns: category, matched keyword, and whether the message would be handed to a human agent.`,
	}, s.classifySupportMessageTool)

	mcp.AddTool(server, &mcp.Tool{
		Name: "answer_support_message",
		Description: `Answer a customer support message end to end: classify, retrieve similar past interactions, decide on human handoff, and generate a reply. The interaction is recorded.
Parameters:
- message (string, required): Customer message text
- language (string, optional): BCP 47 language tag for the reply, defaults to "en"

Returns: the structured support response.`,
	}, s.answerSupportMessageTool)

	mcp.AddTool(server, &mcp.Tool{
		Name: "list_recent_conversations",
		Description: `List recently recorded support conversations, newest first.
Parameters:
- category (string, optional): Only conversations in this category
- handled_by (string, optional): "ai_agent" or "human_agent"
- limit (int, optional): Maximum number of records, default 20

Returns: conversation records.`,
	}, s.listRecentConversationsTool)

	s.handler = mcp.NewSSEHandler(
		func(r *http.Request) *mcp.Server {
			return server
		},
		nil,
	)
	return s
}

// GetHandler 获取 HTTP Handler（用于集成到 HTTP 服务器）
func (s *MCPServer) GetHandler() http.Handler {
	return s.handler
}
