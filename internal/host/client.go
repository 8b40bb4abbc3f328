package host

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/coder/websocket"

	"github.com/inamate/canvas/internal/protocol"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
	maxMsgSize = 64 * 1024
	sendBuffer = 64
)

// Client is one websocket connection attached to a Session.
type Client struct {
	session *Session
	conn    *websocket.Conn
	send    chan []byte
	ID      string
}

func NewClient(session *Session, conn *websocket.Conn, id string) *Client {
	return &Client{
		session: session,
		conn:    conn,
		send:    make(chan []byte, sendBuffer),
		ID:      id,
	}
}

// ReadPump forwards inbound messages to the session until the connection
// closes or the session stops.
func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.session.Unregister(c)
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	c.conn.SetReadLimit(maxMsgSize)

	for {
		_, data, err := c.conn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) == websocket.StatusNormalClosure ||
				websocket.CloseStatus(err) == websocket.StatusGoingAway {
				return
			}
			slog.Debug("read error", "error", err, "client", c.ID)
			return
		}

		var msg protocol.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			slog.Warn("invalid message", "error", err, "client", c.ID)
			c.SendError("malformed message")
			continue
		}

		if !c.session.submit(c, &msg) {
			return
		}
	}
}

func (c *Client) WritePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				return
			}

			writeCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Write(writeCtx, websocket.MessageText, message)
			cancel()
			if err != nil {
				slog.Debug("write error", "error", err, "client", c.ID)
				return
			}

		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Ping(pingCtx)
			cancel()
			if err != nil {
				return
			}

		case <-c.session.Done():
			return

		case <-ctx.Done():
			return
		}
	}
}

// Send queues a message. When the buffer is full the message is dropped;
// the next scene message supersedes it.
func (c *Client) Send(msgType string, payload any) {
	data, err := protocol.Encode(msgType, payload)
	if err != nil {
		slog.Error("marshal message", "error", err, "type", msgType)
		return
	}
	c.sendRaw(data)
}

func (c *Client) SendError(message string) {
	c.Send(protocol.TypeError, protocol.ErrorPayload{Message: message})
}

func (c *Client) sendRaw(data []byte) {
	select {
	case c.send <- data:
	default:
		slog.Warn("client send buffer full, dropping message", "client", c.ID)
	}
}
