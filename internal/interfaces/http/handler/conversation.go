package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	domain "github.com/supportdesk/backend/internal/domain/support"
	"github.com/supportdesk/backend/internal/interfaces/http/response"
)

// ConversationHandler 交互记录查询处理器
type ConversationHandler struct {
	repo domain.ConversationRepository
}

// NewConversationHandler 创建交互记录查询处理器
func NewConversationHandler(repo domain.ConversationRepository) *ConversationHandler {
	return &ConversationHandler{repo: repo}
}

// List 查询交互记录
// @Summary 查询交互记录
// @Tags 交互记录
// @Produce json
// @Param limit query int false "返回条数，默认 50，最大 500"
// @Param category query string false "按分类过滤"
// @Param handled_by query string false "按处理方过滤：ai_agent 或 human_agent"
// @Success 200 {object} response.Response{data=[]domain.ConversationRecord}
// @Failure 400 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/conversations [get]
func (h *ConversationHandler) List(c *gin.Context) {
	filter := domain.ConversationFilter{
		Category:  domain.Category(c.Query("category")),
		HandledBy: domain.HandledBy(c.Query("handled_by")),
	}

	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			response.BadRequest(c, "invalid limit")
			return
		}
		filter.Limit = limit
	}
	if filter.HandledBy != "" && filter.HandledBy != domain.HandledByAI && filter.HandledBy != domain.HandledByHuman {
		response.BadRequest(c, "handled_by must be ai_agent or human_agent")
		return
	}

	records, err := h.repo.List(filter)
	if err != nil {
		response.StorageError(c, "failed to list conversations", err)
		return
	}
	if records == nil {
		records = []*domain.ConversationRecord{}
	}
	response.Success(c, records)
}

// Get 查询单条交互记录
// @Summary 查询单条交互记录
// @Tags 交互记录
// @Produce json
// @Param id path string true "会话 ID"
// @Success 200 {object} response.Response{data=domain.ConversationRecord}
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/conversations/{id} [get]
func (h *ConversationHandler) Get(c *gin.Context) {
	id := c.Param("id")
	record, err := h.repo.FindByID(id)
	if err != nil {
		response.StorageError(c, "failed to load conversation", err)
		return
	}
	if record == nil {
		response.NotFound(c, "conversation not found: "+id)
		return
	}
	response.Success(c, record)
}

// CategoryStats 按分类与处理方统计
// @Summary 分类统计
// @Tags 交互记录
// @Produce json
// @Success 200 {object} response.Response{data=[]domain.CategoryCount}
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/stats/categories [get]
func (h *ConversationHandler) CategoryStats(c *gin.Context) {
	counts, err := h.repo.CountByCategory()
	if err != nil {
		response.StorageError(c, "failed to count conversations", err)
		return
	}
	if counts == nil {
		counts = []domain.CategoryCount{}
	}
	response.Success(c, counts)
}
