package export

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
)

// Source renders the current canvas as PNG. Nil bytes with a nil error
// mean there is no mounted canvas to render.
type Source interface {
	ExportPNG(ctx context.Context) ([]byte, error)
}

type Handler struct {
	source Source
}

func NewHandler(source Source) *Handler {
	return &Handler{source: source}
}

// ExportPNG handles GET /export.png. With ?download=1 the image is sent as
// an attachment named after ?name (default "canvas").
func (h *Handler) ExportPNG(w http.ResponseWriter, r *http.Request) {
	data, err := h.source.ExportPNG(r.Context())
	if err != nil {
		slog.Error("export png", "error", err)
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}
	if data == nil {
		http.Error(w, "canvas not mounted", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "no-store")
	if r.URL.Query().Get("download") == "1" {
		name := sanitize(r.URL.Query().Get("name"))
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.png"`, name))
	}
	w.Write(data)

	slog.Info("export complete", "size", len(data))
}

func sanitize(name string) string {
	if name == "" {
		return "canvas"
	}
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}
		return '-'
	}, name)
}
