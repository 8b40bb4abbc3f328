package host

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	"github.com/inamate/canvas/internal/document"
	"github.com/inamate/canvas/internal/editor"
)

const maxDocumentSize = 10 << 20 // 10MB

// Handler serves the session over HTTP: the websocket endpoint and the
// document read/replace endpoints.
type Handler struct {
	session        *Session
	originPatterns []string
}

func NewHandler(session *Session, originPatterns []string) *Handler {
	return &Handler{session: session, originPatterns: originPatterns}
}

// ServeHTTP upgrades GET /ws requests and attaches them to the session.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.originPatterns,
	})
	if err != nil {
		slog.Error("websocket accept", "error", err)
		return
	}

	client := NewClient(h.session, conn, uuid.New().String())
	h.session.Register(client)

	ctx := r.Context()
	go client.WritePump(ctx)
	client.ReadPump(ctx)
}

// GetDocument handles GET /document.
func (h *Handler) GetDocument(w http.ResponseWriter, r *http.Request) {
	var doc document.Persisted
	if err := h.session.Do(r.Context(), func(ed *editor.Editor) { doc = ed.Persisted() }); err != nil {
		http.Error(w, "session unavailable", http.StatusServiceUnavailable)
		return
	}
	data, err := document.Encode(doc)
	if err != nil {
		slog.Error("encode document", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

// PutDocument handles PUT /document. The body replaces the whole document
// and clears undo history; invalid elements are dropped as on load.
func (h *Handler) PutDocument(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxDocumentSize))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "document too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "read body", http.StatusBadRequest)
		return
	}
	if !json.Valid(data) {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	doc := document.Decode(data)
	if err := h.session.Do(r.Context(), func(ed *editor.Editor) { ed.Load(doc) }); err != nil {
		http.Error(w, "session unavailable", http.StatusServiceUnavailable)
		return
	}
	slog.Info("document replaced", "elements", len(doc.Elements))
	w.WriteHeader(http.StatusNoContent)
}
