package nats

import (
	"testing"
	"time"
)

func TestDecodeIngestionEventEnvelope(t *testing.T) {
	enqueued := time.Date(2025, time.November, 5, 12, 0, 0, 0, time.UTC)
	event := decodeIngestionEvent([]byte(`{"document_id":"doc-1","enqueued_at":"2025-11-05T12:00:00Z"}`))
	if event.DocumentID != "doc-1" {
		t.Fatalf("expected doc-1, got %q", event.DocumentID)
	}
	if !event.EnqueuedAt.Equal(enqueued) {
		t.Fatalf("expected enqueue time %v, got %v", enqueued, event.EnqueuedAt)
	}
}

func TestDecodeIngestionEventBareID(t *testing.T) {
	event := decodeIngestionEvent([]byte("doc-2"))
	if event.DocumentID != "doc-2" {
		t.Fatalf("expected doc-2, got %q", event.DocumentID)
	}
	if !event.EnqueuedAt.IsZero() {
		t.Fatalf("bare id must not carry an enqueue time")
	}
}
