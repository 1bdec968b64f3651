package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/supportdesk/backend/internal/infrastructure/websocket"
)

// AgentHandler 坐席实时通知处理器
type AgentHandler struct {
	server *websocket.AgentServer
}

// NewAgentHandler 创建坐席实时通知处理器
func NewAgentHandler(server *websocket.AgentServer) *AgentHandler {
	return &AgentHandler{server: server}
}

// Subscribe 升级为 WebSocket，接收转人工通知
// @Summary 订阅转人工通知（WebSocket）
// @Tags 坐席
// @Param category query string false "只接收该分类的通知，默认全部"
// @Router /ws/agents [get]
func (h *AgentHandler) Subscribe(c *gin.Context) {
	h.server.HandleConnection(c.Writer, c.Request, c.Query("category"))
}
