package handler

import (
	"github.com/gin-gonic/gin"
	domain "github.com/supportdesk/backend/internal/domain/support"
	"github.com/supportdesk/backend/internal/infrastructure/policy"
	"github.com/supportdesk/backend/internal/interfaces/http/response"
)

// PolicyHandler 策略查询处理器
type PolicyHandler struct {
	store *policy.Store
}

// NewPolicyHandler 创建策略查询处理器
func NewPolicyHandler(store *policy.Store) *PolicyHandler {
	return &PolicyHandler{store: store}
}

// PolicyView 当前策略快照
type PolicyView struct {
	// Source 策略文件路径，内置策略为 builtin
	Source string        `json:"source"`
	Policy domain.Policy `json:"policy"`
}

// Get 返回当前生效的策略
// @Summary 当前路由策略
// @Tags 策略
// @Produce json
// @Success 200 {object} response.Response{data=PolicyView}
// @Router /api/v1/policy [get]
func (h *PolicyHandler) Get(c *gin.Context) {
	source := h.store.Path()
	if source == "" {
		source = "builtin"
	}
	response.Success(c, PolicyView{
		Source: source,
		Policy: h.store.Current().Policy,
	})
}
