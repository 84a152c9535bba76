package ui

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

	"github.com/hailam/chessboard/internal/board"
	"github.com/hailam/chessboard/internal/feed"
	"github.com/hailam/chessboard/internal/storage"
)

// feedPeer accepts one connection, forwards what it reads and hangs up when
// hangup is closed.
func feedPeer(t *testing.T, hangup <-chan struct{}) (string, <-chan feed.Message) {
	t.Helper()
	received := make(chan feed.Message, 4)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			t.Errorf("accept: %v", err)
			return
		}
		defer conn.CloseNow()
		go func() {
			<-hangup
			conn.Close(websocket.StatusNormalClosure, "done")
		}()
		for {
			var m feed.Message
			if err := wsjson.Read(r.Context(), conn, &m); err != nil {
				return
			}
			received <- m
		}
	}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http"), received
}

func dialFeed(t *testing.T, url string) *feed.Client {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	c, err := feed.Dial(ctx, url, zap.NewNop())
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	return c
}

func TestSendDropAfterFeedDetached(t *testing.T) {
	hangup := make(chan struct{})
	defer close(hangup)
	url, received := feedPeer(t, hangup)
	client := dialFeed(t, url)
	defer client.Close()

	g := &Game{
		logger:   zap.NewNop(),
		feedback: NewFeedbackManager(),
		feed:     client,
		session:  storage.NewSession(board.StartFEN),
	}
	g.sendDrop(board.E2, board.E4, "wp5", board.StartFEN)
	g.feed = nil

	select {
	case m := <-received:
		if m.Type != feed.TypeDrop || m.From != "e2" || m.To != "e4" || m.Piece != "wp5" {
			t.Errorf("Unexpected drop message %+v", m)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Timed out waiting for drop")
	}
}

func TestCheckFeedReleasesClosedFeed(t *testing.T) {
	hangup := make(chan struct{})
	url, _ := feedPeer(t, hangup)
	client := dialFeed(t, url)

	g := &Game{
		logger:   zap.NewNop(),
		feedback: NewFeedbackManager(),
		feed:     client,
	}
	close(hangup)

	deadline := time.Now().Add(5 * time.Second)
	for g.feed != nil {
		if time.Now().After(deadline) {
			t.Fatal("Expected the feed to be released after the peer hung up")
		}
		g.checkFeed()
		time.Sleep(10 * time.Millisecond)
	}

	toasts := g.feedback.toasts.toasts
	if len(toasts) != 1 || toasts[0].Message != "Feed disconnected" {
		t.Errorf("Expected a disconnect toast, got %+v", toasts)
	}
	if _, ok := <-client.Events(); ok {
		t.Error("Expected events channel to be closed")
	}
}
