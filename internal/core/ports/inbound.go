package ports

import (
	"context"
	"io"
	"time"

	"github.com/escuelasabatica/lesson-assistant/internal/core/domain"
)

// LessonIngestor is the inbound contract for lesson PDF upload orchestration.
type LessonIngestor interface {
	Upload(ctx context.Context, filename, mimeType string, body io.Reader) (*domain.LessonDocument, error)
}

// LessonProcessor is the inbound contract for asynchronous PDF processing.
type LessonProcessor interface {
	ProcessByID(ctx context.Context, documentID string) error
}

// PassageRetriever runs the temporal-aware retrieval pipeline end to end.
// Failures inside the pipeline degrade to fewer or zero passages; an empty
// result is a valid terminal state, not an error.
type PassageRetriever interface {
	Retrieve(ctx context.Context, question string, limit int, recentHistory []string, now time.Time) []domain.Passage
}

// QuestionAnswerer is the inbound contract for RAG question answering.
type QuestionAnswerer interface {
	Ask(ctx context.Context, question string, limit int) (*domain.Answer, error)
	Chat(ctx context.Context, conversationID, message string, history []string, limit int) (*domain.Answer, string, error)
}

// DocumentReader is the inbound read model for document metadata/state.
type DocumentReader interface {
	GetByID(ctx context.Context, id string) (*domain.LessonDocument, error)
}
