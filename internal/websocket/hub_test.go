package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap/zaptest"

	"github.com/satriahrh/voicesync/usecase"
)

func setupTestHub(t *testing.T) (*Hub, *httptest.Server, context.CancelFunc) {
	t.Helper()
	logger := zaptest.NewLogger(t)
	hub := NewHub(logger)

	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	e := echo.New()
	e.GET("/ws", func(c echo.Context) error {
		return HandleWebSocket(hub, c, "admin", logger)
	})
	server := httptest.NewServer(e)

	t.Cleanup(func() {
		cancel()
		<-hub.done
		server.Close()
	})
	return hub, server, cancel
}

func dial(t *testing.T, hub *Hub, server *httptest.Server) *websocket.Conn {
	t.Helper()
	before := hub.ClientCount()
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() <= before {
		if time.Now().After(deadline) {
			t.Fatal("Client was not registered")
		}
		time.Sleep(5 * time.Millisecond)
	}
	return conn
}

func readJSON(t *testing.T, conn *websocket.Conn, v any) {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if err := conn.ReadJSON(v); err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
}

func TestHub_NewHub(t *testing.T) {
	hub := NewHub(zaptest.NewLogger(t))

	if hub.clients == nil {
		t.Error("Hub clients map not initialized")
	}
	if hub.register == nil || hub.unregister == nil || hub.broadcast == nil {
		t.Error("Hub channels not initialized")
	}
	if hub.ClientCount() != 0 {
		t.Errorf("Expected no clients, got %d", hub.ClientCount())
	}
}

func TestHub_BroadcastsSyncCompleted(t *testing.T) {
	hub, server, _ := setupTestHub(t)
	first := dial(t, hub, server)
	second := dial(t, hub, server)

	hub.SyncCompleted("tok-1", usecase.SyncReport{
		ChangedProfiles: []string{"v1"},
		Results: []usecase.AgentSyncResult{
			{AgentID: "agent-1", WorkspaceID: "ws-1", ProfileID: "v1", Provider: "elevenlabs", Duration: 120 * time.Millisecond},
			{AgentID: "agent-2", WorkspaceID: "ws-2", ProfileID: "v1", Provider: "elevenlabs", Err: errors.New("boom")},
		},
	})

	for _, conn := range []*websocket.Conn{first, second} {
		var msg SyncCompletedMessage
		readJSON(t, conn, &msg)

		if msg.Type != MessageTypeSyncCompleted || msg.SyncToken != "tok-1" {
			t.Errorf("Unexpected message header: %+v", msg.BaseMessage)
		}
		if msg.Succeeded != 1 || msg.Failed != 1 {
			t.Errorf("Expected 1 succeeded and 1 failed, got %d and %d", msg.Succeeded, msg.Failed)
		}
		if len(msg.Results) != 2 || msg.Results[1].Error != "boom" || msg.Results[0].DurationMs != 120 {
			t.Errorf("Unexpected results: %+v", msg.Results)
		}
	}
}

func TestHub_BroadcastsSyncAbandoned(t *testing.T) {
	hub, server, _ := setupTestHub(t)
	conn := dial(t, hub, server)

	hub.SyncAbandoned("tok-2", errors.New("workspace listing failed"))

	var msg SyncAbandonedMessage
	readJSON(t, conn, &msg)
	if msg.Type != MessageTypeSyncAbandoned || msg.SyncToken != "tok-2" || msg.Reason != "workspace listing failed" {
		t.Errorf("Unexpected message: %+v", msg)
	}
}

func TestHub_PingPong(t *testing.T) {
	hub, server, _ := setupTestHub(t)
	conn := dial(t, hub, server)

	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"ping","data":"hello"}`)); err != nil {
		t.Fatalf("WriteMessage: %v", err)
	}
	var pong PongMessage
	readJSON(t, conn, &pong)
	if pong.Type != MessageTypePong || pong.Data != "hello" {
		t.Errorf("Unexpected pong: %+v", pong)
	}

	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"subscribe"}`)); err != nil {
		t.Fatalf("WriteMessage: %v", err)
	}
	var errMsg ErrorMessage
	readJSON(t, conn, &errMsg)
	if errMsg.Type != MessageTypeError || errMsg.Code != "invalid_message" {
		t.Errorf("Unexpected error message: %+v", errMsg)
	}
}

func TestHub_UnregistersClosedClients(t *testing.T) {
	hub, server, _ := setupTestHub(t)
	conn := dial(t, hub, server)

	conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("Client was not unregistered")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHub_ShutdownClosesClients(t *testing.T) {
	hub, server, cancel := setupTestHub(t)
	conn := dial(t, hub, server)

	cancel()
	<-hub.done

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := conn.ReadMessage()
	if !websocket.IsCloseError(err, websocket.CloseNoStatusReceived, websocket.CloseNormalClosure) {
		t.Errorf("Expected close frame, got %v", err)
	}

	// Broadcasting after shutdown must not block
	done := make(chan struct{})
	go func() {
		for i := 0; i < 32; i++ {
			hub.Broadcast(CreatePongMessage("late"))
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Broadcast blocked after shutdown")
	}
}

func TestHub_DropsSlowClients(t *testing.T) {
	hub := NewHub(zaptest.NewLogger(t))
	ctx, cancel := context.WithCancel(context.Background())
	defer func() {
		cancel()
		<-hub.done
	}()
	go hub.Run(ctx)

	// A client whose writer never drains its buffer
	slow := &Client{hub: hub, send: make(chan []byte, 1), subject: "slow", logger: hub.logger}
	hub.register <- slow

	for i := 0; i < 3; i++ {
		hub.Broadcast(CreatePongMessage("x"))
	}

	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("Slow client was not dropped")
		}
		time.Sleep(5 * time.Millisecond)
	}

	payload := <-slow.send
	var msg PongMessage
	if err := json.Unmarshal(payload, &msg); err != nil || msg.Data != "x" {
		t.Errorf("Expected buffered message before drop, got %s (%v)", payload, err)
	}
	if _, ok := <-slow.send; ok {
		t.Error("Expected send channel to be closed")
	}
}
