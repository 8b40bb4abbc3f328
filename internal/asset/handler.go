package asset

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gorilla/mux"
	_ "golang.org/x/image/webp"

	"github.com/inamate/canvas/internal/typeid"
)

const maxUploadSize = 10 << 20 // 10MB

var ErrNotFound = errors.New("asset not found")

var allowedTypes = []string{"image/png", "image/jpeg", "image/gif", "image/webp"}

// UploadResponse is returned from the upload endpoint. URL is suitable as
// the src of an image element.
type UploadResponse struct {
	ID     string `json:"id"`
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Name   string `json:"name"`
}

// Handler stores uploaded images on disk and serves them back.
type Handler struct {
	dir string
}

// NewHandler creates a new asset handler that stores files in dir.
func NewHandler(dir string) *Handler {
	if err := os.MkdirAll(dir, 0755); err != nil {
		slog.Error("create asset dir", "error", err, "dir", dir)
	}
	return &Handler{dir: dir}
}

// Upload handles POST /assets/upload (multipart form with "file" field).
// Every accepted image is re-encoded as PNG.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "file too large (max 10MB)", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if !allowed(header.Header.Get("Content-Type")) {
		http.Error(w, "only PNG, JPEG, GIF and WebP images are supported", http.StatusBadRequest)
		return
	}

	img, _, err := image.Decode(file)
	if err != nil {
		http.Error(w, "invalid image: "+err.Error(), http.StatusBadRequest)
		return
	}

	id, err := h.save(img)
	if err != nil {
		slog.Error("save asset", "error", err)
		http.Error(w, "failed to save file", http.StatusInternalServerError)
		return
	}

	bounds := img.Bounds()
	resp := UploadResponse{
		ID:     id,
		URL:    "/assets/" + id + ".png",
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Name:   header.Filename,
	}
	slog.Info("asset uploaded", "id", id, "width", resp.Width, "height", resp.Height)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func allowed(contentType string) bool {
	for _, t := range allowedTypes {
		if strings.HasPrefix(contentType, t) {
			return true
		}
	}
	return false
}

func (h *Handler) save(img image.Image) (string, error) {
	id := typeid.NewAssetID()
	path := filepath.Join(h.dir, id+".png")

	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create asset file: %w", err)
	}
	if err := png.Encode(out, img); err != nil {
		out.Close()
		os.Remove(path)
		return "", fmt.Errorf("encode png: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("close asset file: %w", err)
	}
	return id, nil
}

// Serve returns an http.Handler that serves stored asset files with caching headers.
func (h *Handler) Serve() http.Handler {
	fs := http.FileServer(http.Dir(h.dir))
	return http.StripPrefix("/assets/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Asset IDs are unique, so files are immutable
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		fs.ServeHTTP(w, r)
	}))
}

// Open opens a stored asset by file name (as it appears after "/assets/"
// in an image src). Names that are not stored asset files yield ErrNotFound.
func (h *Handler) Open(name string) (io.ReadCloser, error) {
	id, ok := strings.CutSuffix(name, ".png")
	if !ok || typeid.Validate(id, typeid.PrefixAsset) != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	f, err := os.Open(filepath.Join(h.dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("open asset: %w", err)
	}
	return f, nil
}

// InUse reports whether an asset URL is still referenced by the document.
type InUse func(ctx context.Context, url string) (bool, error)

// Remove returns the handler for DELETE /assets/{file}. Assets still
// referenced according to inUse are kept and answered with 409; forget,
// when set, is called with the URL of every removed asset.
func (h *Handler) Remove(inUse InUse, forget func(url string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := mux.Vars(r)["file"]
		id, ok := strings.CutSuffix(name, ".png")
		if !ok {
			http.Error(w, "asset not found", http.StatusNotFound)
			return
		}
		url := "/assets/" + name

		if inUse != nil {
			used, err := inUse(r.Context(), url)
			if err != nil {
				http.Error(w, "document unavailable", http.StatusServiceUnavailable)
				return
			}
			if used {
				http.Error(w, "asset is used by the document", http.StatusConflict)
				return
			}
		}

		if err := h.Delete(id); err != nil {
			if errors.Is(err, ErrNotFound) {
				http.Error(w, "asset not found", http.StatusNotFound)
				return
			}
			slog.Error("delete asset", "error", err, "id", id)
			http.Error(w, "failed to delete asset", http.StatusInternalServerError)
			return
		}
		if forget != nil {
			forget(url)
		}
		slog.Info("asset deleted", "id", id)
		w.WriteHeader(http.StatusNoContent)
	}
}

// Delete removes an asset file from disk.
func (h *Handler) Delete(assetID string) error {
	if err := typeid.Validate(assetID, typeid.PrefixAsset); err != nil {
		return fmt.Errorf("%w: %s", ErrNotFound, assetID)
	}
	err := os.Remove(filepath.Join(h.dir, assetID+".png"))
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrNotFound, assetID)
	}
	return err
}
