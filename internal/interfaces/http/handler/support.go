package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	appSupport "github.com/supportdesk/backend/internal/application/support"
	domain "github.com/supportdesk/backend/internal/domain/support"
)

// Responder 客服编排入口
type Responder interface {
	Handle(ctx context.Context, msg domain.CustomerMessage) *appSupport.Outcome
}

// SupportHandler 客服对话处理器
type SupportHandler struct {
	responder Responder
}

// NewSupportHandler 创建客服对话处理器
func NewSupportHandler(orchestrator *appSupport.Orchestrator) *SupportHandler {
	return &SupportHandler{responder: orchestrator}
}

// ChatRequest 对话请求
type ChatRequest struct {
	Message  *string `json:"message"`
	Language string  `json:"language"`
}

// DetailResponse 对话接口的错误响应
type DetailResponse struct {
	Detail string `json:"detail"`
}

// HealthResponse 健康检查响应
type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Chat 处理一条客户消息
// @Summary 回复客户消息
// @Tags 客服
// @Accept json
// @Produce json
// @Param body body ChatRequest true "客户消息，language 为 BCP 47 语言标签，默认 en"
// @Success 200 {object} domain.StructuredResponse
// @Failure 400 {object} DetailResponse
// @Router /chat [post]
func (h *SupportHandler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, DetailResponse{Detail: "Invalid request body"})
		return
	}
	if req.Message == nil {
		c.JSON(http.StatusBadRequest, DetailResponse{Detail: "No message provided"})
		return
	}

	msg := domain.NewCustomerMessage(*req.Message, req.Language)
	if msg.IsBlank() {
		c.JSON(http.StatusBadRequest, DetailResponse{Detail: "No message provided"})
		return
	}

	outcome := h.responder.Handle(c.Request.Context(), msg)
	if outcome.Status == appSupport.StatusRejected {
		c.JSON(http.StatusBadRequest, DetailResponse{Detail: rejectionDetail(outcome.Err)})
		return
	}

	c.JSON(http.StatusOK, outcome.Response)
}

// Predict 与 Chat 相同，保留给旧客户端
// @Summary 回复客户消息（兼容接口）
// @Tags 客服
// @Accept json
// @Produce json
// @Param body body ChatRequest true "客户消息"
// @Success 200 {object} domain.StructuredResponse
// @Failure 400 {object} DetailResponse
// @Router /predict [post]
func (h *SupportHandler) Predict(c *gin.Context) {
	h.Chat(c)
}

// Health 健康检查
// @Summary 健康检查
// @Tags 系统
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h *SupportHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:  "healthy",
		Message: "Customer Support Bot API is running",
	})
}

func rejectionDetail(err error) string {
	var inputErr *domain.InputError
	if errors.As(err, &inputErr) {
		if inputErr.Field == "message" {
			return inputErr.Reason
		}
		return inputErr.Error()
	}
	if err != nil {
		return err.Error()
	}
	return "Invalid request"
}
