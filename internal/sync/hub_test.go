package sync

import (
	"bufio"
	"encoding/json"
	"net"
	"testing"
	"time"
)

func TestHub_BroadcastTCP(t *testing.T) {
	hub := NewHub()
	server, client := net.Pipe()
	defer client.Close()
	hub.Add(server)

	ev := CatalogEvent{
		Type:   EventAdd,
		ID:     "abc",
		Title:  "Invoice error",
		Module: "AP",
		Total:  3,
		At:     time.Now().UTC(),
	}
	go hub.Broadcast(ev)

	_ = client.SetReadDeadline(time.Now().Add(2 * time.Second))
	line, err := bufio.NewReader(client).ReadBytes('\n')
	if err != nil {
		t.Fatalf("read broadcast: %v", err)
	}

	var got CatalogEvent
	if err := json.Unmarshal(line, &got); err != nil {
		t.Fatalf("decode broadcast %q: %v", line, err)
	}
	if got.Type != EventAdd || got.ID != "abc" || got.Total != 3 {
		t.Errorf("event = %+v", got)
	}
}

func TestHub_DropsDeadClients(t *testing.T) {
	hub := NewHub()
	server, client := net.Pipe()
	hub.Add(server)
	_ = client.Close()
	_ = server.Close()

	hub.Broadcast(CatalogEvent{Type: EventImport})

	if got := hub.Count(); got != 0 {
		t.Errorf("Count = %d, want 0 after failed write", got)
	}
}

func TestHub_Stats(t *testing.T) {
	hub := NewHub()
	if s := hub.Stats(); s.TCPClients != 0 || s.WSClients != 0 {
		t.Fatalf("fresh hub stats = %+v", s)
	}

	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()

	hub.Add(server)
	if s := hub.Stats(); s.TCPClients != 1 {
		t.Errorf("TCPClients = %d, want 1", s.TCPClients)
	}

	hub.Remove(server)
	if s := hub.Stats(); s.TCPClients != 0 {
		t.Errorf("TCPClients = %d after remove, want 0", s.TCPClients)
	}
}

func TestHub_Welcome(t *testing.T) {
	hub := NewHub()
	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()

	go hub.Welcome(server)

	_ = client.SetReadDeadline(time.Now().Add(2 * time.Second))
	line, err := bufio.NewReader(client).ReadBytes('\n')
	if err != nil {
		t.Fatalf("read welcome: %v", err)
	}

	var msg map[string]any
	if err := json.Unmarshal(line, &msg); err != nil {
		t.Fatalf("welcome not JSON: %q", line)
	}
	if msg["type"] != "welcome" {
		t.Errorf("type = %v, want welcome", msg["type"])
	}
}
