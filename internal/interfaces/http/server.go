package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/supportdesk/backend/internal/infrastructure/config"
	"github.com/supportdesk/backend/internal/infrastructure/log"
	"github.com/supportdesk/backend/internal/infrastructure/metrics"
	"github.com/supportdesk/backend/internal/interfaces/http/handler"
	"github.com/supportdesk/backend/internal/interfaces/http/middleware"
	"github.com/supportdesk/backend/internal/interfaces/mcp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/supportdesk/backend/docs" // Swagger docs
)

// HTTPServer HTTP 服务器
type HTTPServer struct {
	router          *gin.Engine
	httpPort        string
	shutdownTimeout time.Duration
	server          *http.Server
	logger          *slog.Logger
}

// NewServer 创建 HTTP 服务器
// metrics 与 mcpServer 可为 nil
func NewServer(
	cfg *config.ServerConfig,
	supportHandler *handler.SupportHandler,
	conversationHandler *handler.ConversationHandler,
	policyHandler *handler.PolicyHandler,
	agentHandler *handler.AgentHandler,
	m *metrics.Metrics,
	mcpServer *mcp.MCPServer,
) *HTTPServer {
	if !log.IsDebugMode() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.AccessLog())

	logger := log.NewModuleLogger("http", "server")

	// 对话接口
	chat := router.Group("/", middleware.EnsureUTF8Body())
	{
		chat.POST("/chat", supportHandler.Chat)
		chat.POST("/predict", supportHandler.Predict)
	}

	// 健康检查
	router.GET("/health", supportHandler.Health)

	// 运营接口
	api := router.Group("/api/v1")
	{
		api.GET("/conversations", conversationHandler.List)
		api.GET("/conversations/:id", conversationHandler.Get)
		api.GET("/stats/categories", conversationHandler.CategoryStats)
		api.GET("/policy", policyHandler.Get)
	}

	// 坐席转人工通知
	router.GET("/ws/agents", agentHandler.Subscribe)

	// Prometheus 指标
	if m != nil {
		router.GET("/metrics", gin.WrapH(m.Handler()))
	}

	// Swagger UI
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// MCP SSE 端点
	if mcpServer != nil {
		router.Any("/mcp/sse", gin.WrapH(mcpServer.GetHandler()))
	}

	return &HTTPServer{
		router:          router,
		httpPort:        cfg.HTTPPort,
		shutdownTimeout: cfg.ShutdownTimeout,
		logger:          logger,
	}
}

// Handler 底层路由（测试使用）
func (s *HTTPServer) Handler() http.Handler {
	return s.router
}

// Start 启动服务器，阻塞直到关闭
func (s *HTTPServer) Start() error {
	s.server = &http.Server{
		Addr:              s.httpPort,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info("HTTP server starting",
		"port", s.httpPort,
	)

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown 优雅关闭
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

// Stop 停止服务器
func (s *HTTPServer) Stop() error {
	timeout := s.shutdownTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.Shutdown(ctx)
}
