package websocket

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/supportdesk/backend/internal/infrastructure/config"
	"github.com/supportdesk/backend/internal/infrastructure/log"
)

const (
	// pingInterval 心跳间隔
	pingInterval = 30 * time.Second
	// pongTimeout 超过该时间未收到任何消息则断开
	pongTimeout = 70 * time.Second
	// writeTimeout 单次写超时
	writeTimeout = 10 * time.Second
)

// AgentServer 坐席 WebSocket 服务端
type AgentServer struct {
	hub      *Hub
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewAgentServer 创建坐席 WebSocket 服务端
func NewAgentServer(hub *Hub, cfg *config.WebSocketConfig) *AgentServer {
	return &AgentServer{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  cfg.ReadBufferSize,
			WriteBufferSize: cfg.WriteBufferSize,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		logger: log.NewModuleLogger("websocket", "agent_server"),
	}
}

// HandleConnection 升级连接并订阅指定分类（空表示全部）
func (s *AgentServer) HandleConnection(w http.ResponseWriter, r *http.Request, category string) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("Failed to upgrade connection", "error", err)
		return
	}

	sub := NewConnection(category)
	s.hub.Register(sub)
	s.logger.Info("Agent connected", "category", category, "remote", r.RemoteAddr)

	go s.writePump(conn, sub)
	s.readPump(conn, sub)
}

// readPump 只处理控制帧，连接断开时注销
func (s *AgentServer) readPump(conn *websocket.Conn, sub *Connection) {
	defer func() {
		s.hub.Unregister(sub)
		_ = conn.Close()
		s.logger.Info("Agent disconnected", "category", sub.Category)
	}()

	conn.SetReadLimit(4 * 1024)
	_ = conn.SetReadDeadline(time.Now().Add(pongTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongTimeout))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				s.logger.Warn("Agent connection read error", "error", err)
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(pongTimeout))
	}
}

// writePump 转发 Hub 消息并定期发送 Ping
func (s *AgentServer) writePump(conn *websocket.Conn, sub *Connection) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()

	for {
		select {
		case message, ok := <-sub.Send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
				s.logger.Warn("Failed to write message", "error", err)
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
