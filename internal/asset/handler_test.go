package asset

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gorilla/mux"
)

func uploadRequest(t *testing.T, contentType string, body []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	hdr := make(textproto.MIMEHeader)
	hdr.Set("Content-Disposition", `form-data; name="file"; filename="pic.png"`)
	hdr.Set("Content-Type", contentType)
	part, err := mw.CreatePart(hdr)
	if err != nil {
		t.Fatalf("CreatePart: %v", err)
	}
	part.Write(body)
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/assets/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.Bytes()
}

func TestUploadOpenServe(t *testing.T) {
	h := NewHandler(t.TempDir())

	rec := httptest.NewRecorder()
	h.Upload(rec, uploadRequest(t, "image/png", pngBytes(t, 12, 7)))
	if rec.Code != http.StatusOK {
		t.Fatalf("upload status = %d: %s", rec.Code, rec.Body.String())
	}

	var resp UploadResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Width != 12 || resp.Height != 7 || resp.Name != "pic.png" {
		t.Errorf("response = %+v", resp)
	}
	if resp.URL != "/assets/"+resp.ID+".png" {
		t.Errorf("url = %q", resp.URL)
	}

	rc, err := h.Open(resp.ID + ".png")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	img, err := png.Decode(rc)
	rc.Close()
	if err != nil {
		t.Fatalf("decode stored asset: %v", err)
	}
	if img.Bounds().Dx() != 12 {
		t.Errorf("stored width = %d", img.Bounds().Dx())
	}

	srv := httptest.NewRecorder()
	h.Serve().ServeHTTP(srv, httptest.NewRequest(http.MethodGet, resp.URL, nil))
	if srv.Code != http.StatusOK {
		t.Fatalf("serve status = %d", srv.Code)
	}
	if cc := srv.Header().Get("Cache-Control"); cc == "" {
		t.Error("missing Cache-Control header")
	}
	body, _ := io.ReadAll(srv.Body)
	if len(body) == 0 {
		t.Error("empty asset body")
	}

	if err := h.Delete(resp.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := h.Open(resp.ID + ".png"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Open after delete = %v, want ErrNotFound", err)
	}
}

func TestUploadRejects(t *testing.T) {
	h := NewHandler(t.TempDir())

	tests := []struct {
		name        string
		contentType string
		body        []byte
	}{
		{"unsupported type", "application/pdf", []byte("%PDF")},
		{"not an image", "image/png", []byte("definitely not png")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.Upload(rec, uploadRequest(t, tt.contentType, tt.body))
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestOpenRejectsForeignNames(t *testing.T) {
	h := NewHandler(t.TempDir())
	for _, name := range []string{"../secret.png", "notes.txt", "el_01h455vb4pex5vsknk084sn02q.png"} {
		if _, err := h.Open(name); !errors.Is(err, ErrNotFound) {
			t.Errorf("Open(%q) = %v, want ErrNotFound", name, err)
		}
	}
}

func TestRemove(t *testing.T) {
	h := NewHandler(t.TempDir())
	id, err := h.save(image.NewNRGBA(image.Rect(0, 0, 2, 2)))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	url := "/assets/" + id + ".png"

	var forgotten []string
	remove := func(inUse InUse) int {
		r := mux.NewRouter()
		r.HandleFunc("/assets/{file}", h.Remove(inUse, func(u string) { forgotten = append(forgotten, u) })).Methods("DELETE")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, url, nil))
		return rec.Code
	}
	used := func(v bool, err error) InUse {
		return func(_ context.Context, got string) (bool, error) {
			if got != url {
				t.Errorf("inUse asked about %q, want %q", got, url)
			}
			return v, err
		}
	}

	if code := remove(used(true, nil)); code != http.StatusConflict {
		t.Errorf("referenced asset: status = %d, want 409", code)
	}
	if code := remove(used(false, errors.New("stopped"))); code != http.StatusServiceUnavailable {
		t.Errorf("unavailable document: status = %d, want 503", code)
	}
	if _, err := h.Open(id + ".png"); err != nil {
		t.Fatalf("asset removed while still referenced: %v", err)
	}

	if code := remove(used(false, nil)); code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", code)
	}
	if _, err := h.Open(id + ".png"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Open after remove = %v, want ErrNotFound", err)
	}
	if len(forgotten) != 1 || forgotten[0] != url {
		t.Errorf("forgotten = %v", forgotten)
	}
	if code := remove(used(false, nil)); code != http.StatusNotFound {
		t.Errorf("second remove: status = %d, want 404", code)
	}
}
