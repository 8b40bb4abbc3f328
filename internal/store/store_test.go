package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/inamate/canvas/internal/document"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "canvas.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestGetMissingKey(t *testing.T) {
	s := openTemp(t)
	if _, err := s.Get(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get missing = %v, want ErrNotFound", err)
	}
}

func TestPutOverwrites(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()

	if err := s.Put(ctx, "k", []byte("one")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Put(ctx, "k", []byte("two")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := s.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != "two" {
		t.Errorf("Get = %q, want %q", got, "two")
	}
}

func TestDocumentRoundTrip(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()

	doc := document.NewSampleDocument()
	doc.Zoom = 1.5
	doc.Pan.X, doc.Pan.Y = -40, 12
	if err := s.SaveDocument(ctx, "canvas", doc); err != nil {
		t.Fatalf("SaveDocument: %v", err)
	}

	got, found := s.LoadDocument(ctx, "canvas")
	if !found {
		t.Fatal("document not found after save")
	}
	if got.Zoom != 1.5 || got.Pan != doc.Pan {
		t.Errorf("view = %v/%+v, want 1.5/%+v", got.Zoom, got.Pan, doc.Pan)
	}
	if len(got.Elements) != len(doc.Elements) {
		t.Fatalf("got %d elements, want %d", len(got.Elements), len(doc.Elements))
	}
	for i := range doc.Elements {
		if got.Elements[i].ID != doc.Elements[i].ID {
			t.Errorf("element %d id = %q, want %q", i, got.Elements[i].ID, doc.Elements[i].ID)
		}
	}
}

func TestLoadDocumentFallsBack(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()

	doc, found := s.LoadDocument(ctx, "missing")
	if found || doc.Zoom != document.DefaultZoom || len(doc.Elements) != 0 {
		t.Errorf("missing document = %+v (found %v), want defaults", doc, found)
	}

	if err := s.Put(ctx, "corrupt", []byte("{not json")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	doc, found = s.LoadDocument(ctx, "corrupt")
	if !found {
		t.Error("corrupt entry should still be reported as found")
	}
	if doc.Zoom != document.DefaultZoom || doc.Elements == nil || len(doc.Elements) != 0 {
		t.Errorf("corrupt document = %+v, want defaults", doc)
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "canvas.db")
	ctx := context.Background()

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.Put(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	got, err := s.Get(ctx, "k")
	if err != nil || string(got) != "v" {
		t.Errorf("Get after reopen = %q, %v", got, err)
	}
}

func TestOpenAppliesPragmas(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()

	var mode string
	if err := s.conn.QueryRowContext(ctx, "PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatalf("journal_mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %q, want wal", mode)
	}
	var timeout int
	if err := s.conn.QueryRowContext(ctx, "PRAGMA busy_timeout").Scan(&timeout); err != nil {
		t.Fatalf("busy_timeout: %v", err)
	}
	if timeout != 5000 {
		t.Errorf("busy_timeout = %d, want 5000", timeout)
	}
}
