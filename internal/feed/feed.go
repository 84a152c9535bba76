// Package feed connects a board to a websocket peer that pushes placements
// and drawings and receives the drops made on the board.
package feed

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

// Message types.
const (
	TypePlacement = "placement"
	TypeHighlight = "highlight"
	TypeArrow     = "arrow"
	TypeClear     = "clear"
	TypeDrop      = "drop"
)

// Message is the JSON frame exchanged in both directions.
type Message struct {
	Type    string `json:"type"`
	FEN     string `json:"fen,omitempty"`
	From    string `json:"from,omitempty"`
	To      string `json:"to,omitempty"`
	Square  string `json:"square,omitempty"`
	Color   string `json:"color,omitempty"`
	Piece   string `json:"piece,omitempty"`
	Session string `json:"session,omitempty"`
}

// eventBuffer bounds the messages waiting for the UI loop.
const eventBuffer = 32

// Client is a websocket feed connection.
type Client struct {
	conn   *websocket.Conn
	events chan Message
	logger *zap.Logger

	writeM  sync.Mutex
	closing atomic.Bool

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
	err    error
}

// Dial connects to url. The connection lives until Close or until the peer
// goes away; ctx only bounds the handshake.
func Dial(ctx context.Context, url string, logger *zap.Logger) (*Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	dialCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(dialCtx, url, &websocket.DialOptions{
		CompressionMode: websocket.CompressionNoContextTakeover,
	})
	if err != nil {
		return nil, fmt.Errorf("dial feed: %w", err)
	}

	c := &Client{
		conn:   conn,
		events: make(chan Message, eventBuffer),
		logger: logger,
		done:   make(chan struct{}),
	}
	c.ctx, c.cancel = context.WithCancel(context.Background())
	go c.listen()
	return c, nil
}

// Events delivers placement and drawing messages pushed by the peer. It is
// closed when the connection ends.
func (c *Client) Events() <-chan Message {
	return c.events
}

func (c *Client) listen() {
	defer close(c.done)
	defer close(c.events)
	for {
		var msg Message
		if err := wsjson.Read(c.ctx, c.conn, &msg); err != nil {
			if !c.closing.Load() && websocket.CloseStatus(err) != websocket.StatusNormalClosure {
				c.err = err
				c.logger.Warn("feed read failed", zap.Error(err))
			}
			return
		}
		switch msg.Type {
		case TypePlacement, TypeHighlight, TypeArrow, TypeClear:
			c.offer(msg)
		default:
			c.logger.Debug("ignoring feed message", zap.String("type", msg.Type))
		}
	}
}

// offer queues msg, discarding the oldest queued message when the UI falls
// behind.
func (c *Client) offer(msg Message) {
	for {
		select {
		case c.events <- msg:
			return
		default:
		}
		select {
		case stale := <-c.events:
			c.logger.Debug("dropping stale feed message", zap.String("type", stale.Type))
		default:
		}
	}
}

// SendDrop reports a drop to the peer.
func (c *Client) SendDrop(ctx context.Context, from, to, piece, fen, session string) error {
	c.writeM.Lock()
	defer c.writeM.Unlock()
	return wsjson.Write(ctx, c.conn, Message{
		Type:    TypeDrop,
		From:    from,
		To:      to,
		Piece:   piece,
		FEN:     fen,
		Session: session,
	})
}

// Close ends the connection and waits for the reader to stop. It returns
// the read error that ended the connection early, if any.
func (c *Client) Close() error {
	c.closing.Store(true)
	_ = c.conn.Close(websocket.StatusNormalClosure, "bye")
	c.cancel()
	<-c.done
	return c.err
}
