package pomodoro

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"pomodoro/internal/timer"
)

func dial(t *testing.T, serverURL string) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(serverURL, "http") + "/connect"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readJSON(t *testing.T, conn *websocket.Conn, v any) {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		t.Fatalf("Unmarshal %s: %v", data, err)
	}
}

func TestWebsocketCommands(t *testing.T) {
	s, sched, _ := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	ts := httptest.NewServer(s.SetupRoutes())
	defer ts.Close()
	conn := dial(t, ts.URL)

	var v View
	readJSON(t, conn, &v)
	if v.Event != "state" || v.Timer.Status != timer.StatusIdle {
		t.Fatalf("Unexpected initial view %+v", v)
	}

	if err := conn.WriteMessage(websocket.TextMessage, []byte("start")); err != nil {
		t.Fatalf("WriteMessage: %v", err)
	}
	readJSON(t, conn, &v)
	if v.Timer.Status != timer.StatusRunning || v.Timer.Message != "focusing..." {
		t.Errorf("Expected running view, got %+v", v.Timer)
	}

	sched.Advance(1)
	readJSON(t, conn, &v)
	if v.Timer.RemainingSeconds != 59 || v.Timer.Seconds != "59" {
		t.Errorf("Expected tick broadcast with 59s, got %+v", v.Timer)
	}

	if err := conn.WriteMessage(websocket.TextMessage, []byte("dance")); err != nil {
		t.Fatalf("WriteMessage: %v", err)
	}
	var errMsg ErrorMessage
	readJSON(t, conn, &errMsg)
	if errMsg.Event != "error" || !strings.Contains(errMsg.Error, "unknown command") {
		t.Errorf("Unexpected error reply %+v", errMsg)
	}

	if err := conn.WriteMessage(websocket.TextMessage, []byte("get_state")); err != nil {
		t.Fatalf("WriteMessage: %v", err)
	}
	readJSON(t, conn, &v)
	if v.Timer.RemainingSeconds != 59 {
		t.Errorf("Expected current state on get_state, got %+v", v.Timer)
	}
}

func TestHubBroadcastReachesAllClients(t *testing.T) {
	s, _, _ := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	ts := httptest.NewServer(s.SetupRoutes())
	defer ts.Close()

	first := dial(t, ts.URL)
	second := dial(t, ts.URL)

	var v View
	readJSON(t, first, &v)
	readJSON(t, second, &v)

	deadline := time.Now().Add(5 * time.Second)
	for s.Hub.Count() < 2 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}

	if err := s.Execute("mode:break"); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	for _, conn := range []*websocket.Conn{first, second} {
		readJSON(t, conn, &v)
		if v.Timer.Mode != timer.ModeBreak {
			t.Errorf("Expected break mode broadcast, got %s", v.Timer.Mode)
		}
	}
}

func TestBacklogDeliversLatestState(t *testing.T) {
	s, sched, _ := newTestServer(t)
	ts := httptest.NewServer(s.SetupRoutes())
	defer ts.Close()
	conn := dial(t, ts.URL)

	var v View
	readJSON(t, conn, &v)

	// Changes pile up before anything forwards them.
	s.Execute("start")
	sched.Advance(20)
	s.Execute("pause")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	readJSON(t, conn, &v)
	if v.Timer.Status != timer.StatusPaused || v.Timer.RemainingSeconds != 40 || v.Timer.Message != "paused" {
		t.Errorf("Expected latest paused view, got %+v", v.Timer)
	}
}

func TestHubSkipsStaleViews(t *testing.T) {
	s, sched, _ := newTestServer(t)
	ts := httptest.NewServer(s.SetupRoutes())
	defer ts.Close()
	conn := dial(t, ts.URL)

	var v View
	readJSON(t, conn, &v)
	stale := v

	s.Execute("start")
	sched.Advance(1)
	if err := conn.WriteMessage(websocket.TextMessage, []byte("get_state")); err != nil {
		t.Fatalf("WriteMessage: %v", err)
	}
	readJSON(t, conn, &v)
	if v.Timer.Status != timer.StatusRunning {
		t.Fatalf("Expected running view, got %+v", v.Timer)
	}

	// Neither an older view nor a repeat of the current one is written.
	s.Hub.Broadcast(stale)
	s.Hub.Broadcast(s.View())

	s.Execute("pause")
	s.Hub.Broadcast(s.View())
	readJSON(t, conn, &v)
	if v.Timer.Status != timer.StatusPaused {
		t.Errorf("Expected paused view next, got %+v", v.Timer)
	}
}
