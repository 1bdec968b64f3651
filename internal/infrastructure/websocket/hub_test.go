package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domain "github.com/supportdesk/backend/internal/domain/support"
	"github.com/supportdesk/backend/internal/infrastructure/config"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub()
	hub.Start()
	t.Cleanup(hub.Stop)
	return hub
}

func receive(t *testing.T, conn *Connection) []byte {
	t.Helper()
	select {
	case data, ok := <-conn.Send:
		require.True(t, ok, "connection closed")
		return data
	case <-time.After(2 * time.Second):
		t.Fatal("no message received")
		return nil
	}
}

func assertNoMessage(t *testing.T, conn *Connection) {
	t.Helper()
	select {
	case data := <-conn.Send:
		t.Fatalf("unexpected message: %s", data)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_PublishRoutesByCategory(t *testing.T) {
	hub := startHub(t)
	all := NewConnection(AllCategories)
	returns := NewConnection("Returns_Exchanges")
	shipping := NewConnection("Shipping_Delivery")
	hub.Register(all)
	hub.Register(returns)
	hub.Register(shipping)

	require.NoError(t, hub.Publish(context.Background(), "Returns_Exchanges", map[string]string{"id": "1"}))

	assert.JSONEq(t, `{"id":"1"}`, string(receive(t, returns)))
	assert.JSONEq(t, `{"id":"1"}`, string(receive(t, all)))
	assertNoMessage(t, shipping)
}

func TestHub_UnregisterClosesSend(t *testing.T) {
	hub := startHub(t)
	conn := NewConnection(AllCategories)
	hub.Register(conn)
	require.Eventually(t, func() bool { return hub.Subscribers() == 1 }, time.Second, 10*time.Millisecond)

	hub.Unregister(conn)
	_, ok := <-conn.Send
	assert.False(t, ok)
	assert.Equal(t, 0, hub.Subscribers())
}

func TestHub_StopClosesConnections(t *testing.T) {
	hub := NewHub()
	hub.Start()
	conn := NewConnection(AllCategories)
	hub.Register(conn)

	hub.Stop()
	_, ok := <-conn.Send
	assert.False(t, ok)
	assert.NoError(t, hub.Publish(context.Background(), "x", "ignored"))
}

func TestHandoffNotifier(t *testing.T) {
	hub := startHub(t)
	conn := NewConnection(AllCategories)
	hub.Register(conn)

	notifier := NewHandoffNotifier(hub)
	rec := &domain.ConversationRecord{
		ID:             "conv-9",
		Category:       domain.CategoryReturnsExchanges,
		SentimentScore: 0.9,
		HandledBy:      domain.HandledByHuman,
		Message:        "I am furious",
	}
	require.NoError(t, notifier.NotifyHandoff(context.Background(), rec))

	var event HandoffEvent
	require.NoError(t, json.Unmarshal(receive(t, conn), &event))
	assert.Equal(t, EventHandoff, event.Type)
	assert.Equal(t, "conv-9", event.ConversationID)
	assert.Equal(t, 0.9, event.AngerLevel)
}

func TestAgentServer_PushesToClient(t *testing.T) {
	hub := startHub(t)
	server := NewAgentServer(hub, &config.WebSocketConfig{ReadBufferSize: 1024, WriteBufferSize: 1024})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		server.HandleConnection(w, r, r.URL.Query().Get("category"))
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?category=Shipping_Delivery"
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer client.Close()

	require.Eventually(t, func() bool { return hub.Subscribers() == 1 }, 2*time.Second, 10*time.Millisecond)
	require.NoError(t, hub.Publish(context.Background(), "Shipping_Delivery", map[string]string{"type": "handoff"}))

	_ = client.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := client.ReadMessage()
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"handoff"}`, string(msg))
}
