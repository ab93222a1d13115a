package localfs

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/kirillkom/document-analysis/internal/core/domain"
)

func TestSaveAndOpenRoundTrip(t *testing.T) {
	storage, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	n, err := storage.Save(context.Background(), "doc-1_a.pdf", strings.NewReader("%PDF-1.7"))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if n != 8 {
		t.Fatalf("expected 8 bytes written, got %d", n)
	}

	reader, err := storage.Open(context.Background(), "doc-1_a.pdf")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer reader.Close()
	raw, err := io.ReadAll(reader)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if string(raw) != "%PDF-1.7" {
		t.Fatalf("unexpected content %q", raw)
	}
}

func TestRejectsKeysOutsideBasePath(t *testing.T) {
	storage, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, err := storage.Save(context.Background(), "../escape", strings.NewReader("x")); err == nil {
		t.Fatalf("expected error for traversal key")
	}
	if _, err := storage.Open(context.Background(), ".."); !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for parent key, got %v", err)
	}
}

func TestOpenMissingKeyIsNotFound(t *testing.T) {
	storage, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, err := storage.Open(context.Background(), "missing.pdf"); !domain.IsKind(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestSaveFailureLeavesNoFiles(t *testing.T) {
	root := t.TempDir()
	storage, err := New(root)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, err := storage.Save(context.Background(), "doc-1_a.pdf", failingReader{}); err == nil {
		t.Fatalf("expected write error")
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty storage root, got %d entries", len(entries))
	}
}
