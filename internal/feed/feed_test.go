package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

// peer is a feed server that pushes the given frames and forwards what it
// receives.
func peer(t *testing.T, push []Message) (string, <-chan Message) {
	t.Helper()
	received := make(chan Message, 4)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			t.Errorf("accept: %v", err)
			return
		}
		defer conn.CloseNow()
		ctx := r.Context()
		for _, m := range push {
			if err := wsjson.Write(ctx, conn, m); err != nil {
				return
			}
		}
		for {
			var m Message
			if err := wsjson.Read(ctx, conn, &m); err != nil {
				return
			}
			received <- m
		}
	}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http"), received
}

func TestEvents(t *testing.T) {
	url, _ := peer(t, []Message{
		{Type: "hello"},
		{Type: TypePlacement, FEN: "8/8/8/8/8/8/8/4K3"},
		{Type: TypeArrow, From: "e2", To: "e4", Color: "green"},
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c, err := Dial(ctx, url, nil)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer c.Close()

	want := []Message{
		{Type: TypePlacement, FEN: "8/8/8/8/8/8/8/4K3"},
		{Type: TypeArrow, From: "e2", To: "e4", Color: "green"},
	}
	for _, w := range want {
		select {
		case got := <-c.Events():
			if got != w {
				t.Errorf("Expected %+v, got %+v", w, got)
			}
		case <-ctx.Done():
			t.Fatal("Timed out waiting for feed event")
		}
	}
}

func TestSendDrop(t *testing.T) {
	url, received := peer(t, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c, err := Dial(ctx, url, nil)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	if err := c.SendDrop(ctx, "e2", "e4", "wp4", "fen", "abc"); err != nil {
		t.Fatalf("SendDrop failed: %v", err)
	}

	select {
	case m := <-received:
		if m.Type != TypeDrop || m.From != "e2" || m.To != "e4" || m.Piece != "wp4" || m.Session != "abc" {
			t.Errorf("Unexpected drop frame: %+v", m)
		}
	case <-ctx.Done():
		t.Fatal("Timed out waiting for drop")
	}

	if err := c.Close(); err != nil {
		t.Errorf("Expected clean close, got %v", err)
	}
	if _, ok := <-c.Events(); ok {
		t.Error("Expected events channel to be closed after Close")
	}
}

func TestOfferKeepsLatest(t *testing.T) {
	c := &Client{events: make(chan Message, 1), logger: zap.NewNop()}
	c.offer(Message{Type: TypePlacement, FEN: "a"})
	c.offer(Message{Type: TypePlacement, FEN: "b"})
	if got := <-c.events; got.FEN != "b" {
		t.Errorf("Expected latest placement b, got %q", got.FEN)
	}
}

func TestDialFailure(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if _, err := Dial(ctx, "ws://127.0.0.1:1/feed", nil); err == nil {
		t.Error("Expected dial error for a closed port")
	}
}
