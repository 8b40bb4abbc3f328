// Package host runs an editor behind a single-goroutine event loop and
// exposes it to browsers over a websocket.
package host

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/inamate/canvas/internal/document"
	"github.com/inamate/canvas/internal/editor"
	"github.com/inamate/canvas/internal/protocol"
	"github.com/inamate/canvas/internal/typeid"
)

// ErrStopped is returned by Do once the session has stopped.
var ErrStopped = errors.New("session stopped")

// DocumentStore persists the editor's document.
type DocumentStore interface {
	SaveDocument(ctx context.Context, key string, doc document.Persisted) error
}

type inbound struct {
	client *Client
	msg    *protocol.Message
}

type call struct {
	fn   func(*editor.Editor)
	done chan struct{}
}

// Session owns one editor. Every access to the editor, whether from a
// websocket client or an HTTP handler, runs on the Run goroutine.
type Session struct {
	ID string

	ed           *editor.Editor
	store        DocumentStore
	key          string
	saveInterval time.Duration
	saved        uint64

	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	inbound    chan inbound
	calls      chan call
	done       chan struct{}
}

// NewSession wraps ed. When store is non-nil the document is saved under
// key every saveInterval if it changed, and once more when Run returns.
func NewSession(ed *editor.Editor, store DocumentStore, key string, saveInterval time.Duration) *Session {
	return &Session{
		ID:           typeid.NewSessionID(),
		ed:           ed,
		store:        store,
		key:          key,
		saveInterval: saveInterval,
		saved:        ed.Revision(),
		clients:      make(map[string]*Client),
		register:     make(chan *Client),
		unregister:   make(chan *Client),
		inbound:      make(chan inbound, 64),
		calls:        make(chan call),
		done:         make(chan struct{}),
	}
}

// Run processes events until ctx is cancelled, then saves and returns.
func (s *Session) Run(ctx context.Context) {
	interval := s.saveInterval
	if interval <= 0 {
		interval = 2 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	defer close(s.done)
	defer s.save(context.Background())

	slog.Info("session started", "session", s.ID, "elements", len(s.ed.Elements()))

	for {
		select {
		case c := <-s.register:
			s.clients[c.ID] = c
			c.Send(protocol.TypeWelcome, protocol.WelcomePayload{SessionID: s.ID, ClientID: c.ID})
			c.Send(protocol.TypeScene, s.scene())
			slog.Info("client joined", "client", c.ID, "clients", len(s.clients))

		case c := <-s.unregister:
			if _, ok := s.clients[c.ID]; ok {
				delete(s.clients, c.ID)
				close(c.send)
				slog.Info("client left", "client", c.ID, "clients", len(s.clients))
			}

		case in := <-s.inbound:
			if err := protocol.Apply(s.ed, in.msg); err != nil {
				slog.Warn("dropping message", "type", in.msg.Type, "error", err, "client", in.client.ID)
				in.client.SendError(err.Error())
			}
			s.broadcastScene()

		case c := <-s.calls:
			c.fn(s.ed)
			close(c.done)
			s.broadcastScene()

		case <-ticker.C:
			s.save(ctx)

		case <-ctx.Done():
			slog.Info("session stopping", "session", s.ID)
			return
		}
	}
}

// Done is closed once Run has returned.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Register attaches a client; it receives a welcome and the current scene.
func (s *Session) Register(c *Client) {
	select {
	case s.register <- c:
	case <-s.done:
	}
}

func (s *Session) Unregister(c *Client) {
	select {
	case s.unregister <- c:
	case <-s.done:
	}
}

// Do runs fn on the session goroutine and waits for it. Connected clients
// receive the resulting scene.
func (s *Session) Do(ctx context.Context, fn func(*editor.Editor)) error {
	c := call{fn: fn, done: make(chan struct{})}
	select {
	case s.calls <- c:
	case <-s.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-c.done:
		return nil
	case <-s.done:
		return ErrStopped
	}
}

// submit queues a client message. It reports false once the session has
// stopped.
func (s *Session) submit(c *Client, msg *protocol.Message) bool {
	select {
	case s.inbound <- inbound{client: c, msg: msg}:
		return true
	case <-s.done:
		return false
	}
}

func (s *Session) scene() protocol.ScenePayload {
	return protocol.ScenePayload{Commands: s.ed.DrawCommands(), State: s.ed.Snapshot()}
}

func (s *Session) broadcastScene() {
	if len(s.clients) == 0 {
		return
	}
	data, err := protocol.Encode(protocol.TypeScene, s.scene())
	if err != nil {
		slog.Error("marshal scene", "error", err)
		return
	}
	for _, c := range s.clients {
		c.sendRaw(data)
	}
}

func (s *Session) save(ctx context.Context) {
	if s.store == nil {
		return
	}
	rev := s.ed.Revision()
	if rev == s.saved {
		return
	}
	if err := s.store.SaveDocument(ctx, s.key, s.ed.Persisted()); err != nil {
		slog.Error("save document", "key", s.key, "error", err)
		return
	}
	s.saved = rev
	slog.Debug("document saved", "key", s.key, "revision", rev)
}

// ExportPNG renders the current document on the session goroutine. It
// returns nil bytes when no canvas is mounted.
func (s *Session) ExportPNG(ctx context.Context) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if derr := s.Do(ctx, func(ed *editor.Editor) { data, err = ed.ExportPNG(ctx) }); derr != nil {
		return nil, derr
	}
	return data, err
}
