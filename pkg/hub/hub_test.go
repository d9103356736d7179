package hub

import (
	"context"
	"encoding/json"
	"testing"
	"time"
)

func fakeClient(h *Hub, session string) *Client {
	c := &Client{hub: h, send: make(chan Message, 4), session: session}
	h.register <- c
	return c
}

func recv(t *testing.T, c *Client) (Event, bool) {
	t.Helper()
	select {
	case msg, ok := <-c.send:
		if !ok {
			return Event{}, false
		}
		var e Event
		if err := json.Unmarshal(msg.Data, &e); err != nil {
			t.Fatalf("bad event: %v", err)
		}
		return e, true
	case <-time.After(200 * time.Millisecond):
		return Event{}, false
	}
}

func TestHub_PublishFiltersBySession(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := New("test")
	go h.Run(ctx)
	<-h.Started()

	all := fakeClient(h, "")
	onlyA := fakeClient(h, "a")

	if err := h.Publish(EventMotor, "b", map[string]float64{"left": 1}); err != nil {
		t.Fatal(err)
	}
	if e, ok := recv(t, all); !ok || e.Kind != EventMotor || e.Session != "b" {
		t.Errorf("unfiltered client got %+v ok=%v", e, ok)
	}
	if _, ok := recv(t, onlyA); ok {
		t.Error("session a client should not receive session b event")
	}

	h.Publish(EventSession, "", "global")
	if _, ok := recv(t, onlyA); !ok {
		t.Error("session-less events go to every client")
	}

	if h.ClientCount() != 2 {
		t.Errorf("ClientCount = %d, want 2", h.ClientCount())
	}
}

func TestHub_Unregister(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := New("test")
	go h.Run(ctx)

	c := fakeClient(h, "")
	h.unregister <- c

	if _, ok := <-c.send; ok {
		t.Error("send channel should be closed after unregister")
	}
	if h.ClientCount() != 0 {
		t.Errorf("ClientCount = %d, want 0", h.ClientCount())
	}
}

func TestHub_StopClosesClients(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	h := New("test")
	go h.Run(ctx)

	c := fakeClient(h, "")
	cancel()

	select {
	case _, ok := <-c.send:
		if ok {
			t.Error("expected closed channel")
		}
	case <-time.After(time.Second):
		t.Fatal("client not closed on hub stop")
	}
}

func TestHub_PublishUnencodable(t *testing.T) {
	h := New("test")
	if err := h.Publish(EventStatus, "", make(chan int)); err == nil {
		t.Error("expected encode error")
	}
}
