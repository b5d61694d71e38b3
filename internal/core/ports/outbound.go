package ports

import (
	"context"
	"io"

	"github.com/escuelasabatica/lesson-assistant/internal/core/domain"
)

// DocumentRepository persists and reads lesson document state.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.LessonDocument) error
	GetByID(ctx context.Context, id string) (*domain.LessonDocument, error)
	UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, errMessage string) error
	MarkReady(ctx context.Context, id string, pages int) error
}

// ConversationStore persists chat turns for multi-turn questions.
type ConversationStore interface {
	EnsureConversation(ctx context.Context, id, title string) (*domain.Conversation, error)
	AppendMessage(ctx context.Context, message domain.ConversationMessage) error
	ListRecentUserTurns(ctx context.Context, conversationID string, limit int) ([]string, error)
}

// ObjectStorage stores source lesson PDFs.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// MessageQueue publishes/consumes ingestion events.
type MessageQueue interface {
	PublishDocumentIngested(ctx context.Context, documentID string) error
	SubscribeDocumentIngested(ctx context.Context, handler func(context.Context, domain.IngestionEvent) error) error
}

// PageExtractor extracts one text per source page, in page order. Pages
// without extractable text come back as empty strings so page numbers
// stay aligned with the source document.
type PageExtractor interface {
	ExtractPages(ctx context.Context, doc *domain.LessonDocument) ([]string, error)
}

// Embedder builds vectors for page texts and query text.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// VectorStore indexes passages and performs semantic search.
type VectorStore interface {
	UpsertPassages(ctx context.Context, doc *domain.LessonDocument, pages []domain.Passage, vectors [][]float32) error
	Search(ctx context.Context, queryVector []float32, limit int) ([]domain.Candidate, error)
	// ScrollAll lists stored passages without scoring, bounded at cap.
	ScrollAll(ctx context.Context, cap int) ([]domain.Passage, error)
}

// AnswerGenerator creates the final user-facing answer.
type AnswerGenerator interface {
	GenerateAnswer(ctx context.Context, question string, passages []domain.Passage) (string, error)
}

// ResponseCache stores generated answers keyed by normalized question.
// Get returns (nil, nil) on a miss or an expired entry.
type ResponseCache interface {
	Get(ctx context.Context, question string, topK int) (*domain.Answer, error)
	Put(ctx context.Context, question string, topK int, answer *domain.Answer) error
}
