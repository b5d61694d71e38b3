package localfs

import (
	"context"
	"io"
	"strings"
	"testing"
)

func TestSaveAndOpenRoundTrip(t *testing.T) {
	storage, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx := context.Background()
	if err := storage.Save(ctx, "doc-1_leccion_6.pdf", strings.NewReader("%PDF contenido")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	f, err := storage.Open(ctx, "doc-1_leccion_6.pdf")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer f.Close()

	raw, err := io.ReadAll(f)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if string(raw) != "%PDF contenido" {
		t.Fatalf("unexpected content %q", raw)
	}
}

func TestSaveOverwritesExistingKey(t *testing.T) {
	storage, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx := context.Background()
	if err := storage.Save(ctx, "doc.pdf", strings.NewReader("primera")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := storage.Save(ctx, "doc.pdf", strings.NewReader("segunda")); err != nil {
		t.Fatalf("Save() second error = %v", err)
	}

	f, err := storage.Open(ctx, "doc.pdf")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer f.Close()
	raw, _ := io.ReadAll(f)
	if string(raw) != "segunda" {
		t.Fatalf("expected overwrite, got %q", raw)
	}
}

func TestKeysCannotEscapeBaseDir(t *testing.T) {
	storage, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx := context.Background()
	for _, key := range []string{"", "../outside.pdf", "../../etc/passwd"} {
		if err := storage.Save(ctx, key, strings.NewReader("x")); err == nil {
			t.Fatalf("Save(%q) expected error", key)
		}
		if _, err := storage.Open(ctx, key); err == nil {
			t.Fatalf("Open(%q) expected error", key)
		}
	}
}
