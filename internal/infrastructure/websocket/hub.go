package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/supportdesk/backend/internal/infrastructure/log"
)

// AllCategories 订阅全部分类
const AllCategories = ""

// Hub 坐席连接管理中心
type Hub struct {
	// 按订阅分类分组的连接，AllCategories 组接收全部消息
	subscribers map[string]map[*Connection]bool
	// 注册连接
	register chan *Connection
	// 注销连接
	unregister chan *Connection
	// 广播消息
	broadcast chan *Message
	stopCh    chan struct{}
	stopOnce  sync.Once
	mu        sync.RWMutex
	logger    *slog.Logger
}

// Connection 订阅连接
type Connection struct {
	Category string
	Send     chan []byte
}

// NewConnection 创建订阅连接
func NewConnection(category string) *Connection {
	return &Connection{
		Category: category,
		Send:     make(chan []byte, 64),
	}
}

// Message 消息
type Message struct {
	Category string
	Data     []byte
}

// NewHub 创建 Hub
func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[string]map[*Connection]bool),
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		broadcast:   make(chan *Message, 256),
		stopCh:      make(chan struct{}),
		logger:      log.NewModuleLogger("websocket", "hub"),
	}
}

// Run 运行 Hub（需要在 goroutine 中运行）
func (h *Hub) Run() {
	for {
		select {
		case <-h.stopCh:
			h.closeAll()
			return

		case conn := <-h.register:
			h.mu.Lock()
			if h.subscribers[conn.Category] == nil {
				h.subscribers[conn.Category] = make(map[*Connection]bool)
			}
			h.subscribers[conn.Category][conn] = true
			h.mu.Unlock()

		case conn := <-h.unregister:
			h.mu.Lock()
			h.remove(conn)
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.Lock()
			h.deliver(h.subscribers[msg.Category], msg.Data)
			if msg.Category != AllCategories {
				h.deliver(h.subscribers[AllCategories], msg.Data)
			}
			h.mu.Unlock()
		}
	}
}

// deliver 发送给一组连接，缓冲区满的慢连接被断开（调用方持有写锁）
func (h *Hub) deliver(group map[*Connection]bool, data []byte) {
	for conn := range group {
		select {
		case conn.Send <- data:
		default:
			h.logger.Warn("Subscriber too slow, dropping connection", "category", conn.Category)
			h.remove(conn)
		}
	}
}

// remove 移除连接（调用方持有写锁）
func (h *Hub) remove(conn *Connection) {
	group, ok := h.subscribers[conn.Category]
	if !ok {
		return
	}
	if _, ok := group[conn]; !ok {
		return
	}
	delete(group, conn)
	close(conn.Send)
	if len(group) == 0 {
		delete(h.subscribers, conn.Category)
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, group := range h.subscribers {
		for conn := range group {
			close(conn.Send)
		}
	}
	h.subscribers = make(map[string]map[*Connection]bool)
}

// Start 启动 Hub（启动后台 goroutine）
func (h *Hub) Start() {
	go h.Run()
}

// Stop 停止 Hub 并关闭所有连接
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.stopCh) })
}

// Register 注册连接
func (h *Hub) Register(conn *Connection) {
	select {
	case h.register <- conn:
	case <-h.stopCh:
		close(conn.Send)
	}
}

// Unregister 注销连接
func (h *Hub) Unregister(conn *Connection) {
	select {
	case h.unregister <- conn:
	case <-h.stopCh:
	}
}

// Subscribers 当前订阅连接数
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, group := range h.subscribers {
		n += len(group)
	}
	return n
}

// Publish 向订阅了该分类（以及全部分类）的连接广播
func (h *Hub) Publish(ctx context.Context, category string, data interface{}) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}
	select {
	case h.broadcast <- &Message{Category: category, Data: jsonData}:
		return nil
	case <-h.stopCh:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
