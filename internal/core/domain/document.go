package domain

import "time"

type DocumentStatus string

const (
	StatusUploaded   DocumentStatus = "uploaded"
	StatusProcessing DocumentStatus = "processing"
	StatusReady      DocumentStatus = "ready"
	StatusFailed     DocumentStatus = "failed"
)

// IngestionEvent is the queue message that hands an uploaded lesson from
// the API to the indexing worker. EnqueuedAt feeds the queue lag metric.
type IngestionEvent struct {
	DocumentID string    `json:"document_id"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}

// LessonDocument tracks one uploaded lesson PDF through the ingestion
// pipeline. Pages is filled once processing succeeds.
type LessonDocument struct {
	ID          string         `json:"id"`
	Filename    string         `json:"filename"`
	MimeType    string         `json:"mime_type"`
	StoragePath string         `json:"storage_path"`
	Pages       int            `json:"pages,omitempty"`
	Status      DocumentStatus `json:"status"`
	Error       string         `json:"error,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}
