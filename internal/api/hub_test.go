package api

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/selivandex/pulsebrief/internal/brief"
	"github.com/selivandex/pulsebrief/internal/pulse"
)

func utc() *time.Location { return time.UTC }

func dialHub(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()

	srv := httptest.NewServer(hub)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("failed to dial hub: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	deadline := time.Now().Add(2 * time.Second)
	for hub.Clients() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client was not registered")
		}
		time.Sleep(5 * time.Millisecond)
	}
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) (string, json.RawMessage) {
	t.Helper()

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("failed to read message: %v", err)
	}

	var frame struct {
		Type    string          `json:"type"`
		Payload json.RawMessage `json:"payload"`
	}
	if err := json.Unmarshal(data, &frame); err != nil {
		t.Fatalf("failed to decode frame %q: %v", data, err)
	}
	return frame.Type, frame.Payload
}

func TestHub_PublishPulse(t *testing.T) {
	hub := NewHub(utc)
	conn := dialHub(t, hub)

	text := pulse.Format(pulse.Generate(fixedNow, nil))
	if err := hub.PublishPulse(context.Background(), pulse.Record{ID: 7, UpdateText: text, Timestamp: fixedNow}); err != nil {
		t.Fatalf("PublishPulse() error = %v", err)
	}

	typ, payload := readMessage(t, conn)
	if typ != MessageMarketPulse {
		t.Fatalf("type = %q, want %q", typ, MessageMarketPulse)
	}

	var got PulseView
	if err := json.Unmarshal(payload, &got); err != nil {
		t.Fatal(err)
	}
	if got.ID != 7 || got.Timestamp != fixedNow.UnixNano() || got.Sections == nil {
		t.Errorf("payload = %+v", got)
	}
}

func TestHub_PublishBrief(t *testing.T) {
	hub := NewHub(utc)
	conn := dialHub(t, hub)

	content := brief.Generate(fixedNow, nil).Content
	if err := hub.PublishBrief(context.Background(), brief.Record{ID: 3, Date: fixedNow, Content: content}); err != nil {
		t.Fatalf("PublishBrief() error = %v", err)
	}

	typ, payload := readMessage(t, conn)
	if typ != MessageDailyBrief {
		t.Fatalf("type = %q, want %q", typ, MessageDailyBrief)
	}

	var got BriefView
	if err := json.Unmarshal(payload, &got); err != nil {
		t.Fatal(err)
	}
	if got.DayKey != "2025-06-02" || got.Summary != content.Summary {
		t.Errorf("payload = %+v", got)
	}
}

func TestHub_NoClients(t *testing.T) {
	hub := NewHub(utc)
	if err := hub.PublishPulse(context.Background(), pulse.Record{ID: 1}); err != nil {
		t.Errorf("PublishPulse() without clients error = %v", err)
	}
}

func TestHub_ClientLeaves(t *testing.T) {
	hub := NewHub(utc)
	conn := dialHub(t, hub)
	conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for hub.Clients() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("closed client was not removed")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
