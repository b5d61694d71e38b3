package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/escuelasabatica/lesson-assistant/internal/core/domain"
	"github.com/escuelasabatica/lesson-assistant/internal/core/ports"
)

// ProcessLessonUseCase turns an uploaded PDF into indexed passages: one
// passage per non-empty page, embedded and upserted into the vector store.
type ProcessLessonUseCase struct {
	repo      ports.DocumentRepository
	extractor ports.PageExtractor
	embedder  ports.Embedder
	vectorDB  ports.VectorStore
}

func NewProcessLessonUseCase(
	repo ports.DocumentRepository,
	extractor ports.PageExtractor,
	embedder ports.Embedder,
	vectorDB ports.VectorStore,
) *ProcessLessonUseCase {
	return &ProcessLessonUseCase{
		repo:      repo,
		extractor: extractor,
		embedder:  embedder,
		vectorDB:  vectorDB,
	}
}

func (uc *ProcessLessonUseCase) ProcessByID(ctx context.Context, documentID string) error {
	if err := uc.repo.UpdateStatus(ctx, documentID, domain.StatusProcessing, ""); err != nil {
		return fmt.Errorf("set status=processing: %w", err)
	}

	indexed, err := uc.processPipeline(ctx, documentID)
	if err != nil {
		if failErr := uc.repo.UpdateStatus(ctx, documentID, domain.StatusFailed, err.Error()); failErr != nil {
			return fmt.Errorf("%w; mark failed status: %v", err, failErr)
		}
		return err
	}

	if err := uc.repo.MarkReady(ctx, documentID, indexed); err != nil {
		return fmt.Errorf("set status=ready: %w", err)
	}
	return nil
}

func (uc *ProcessLessonUseCase) processPipeline(ctx context.Context, documentID string) (int, error) {
	doc, err := uc.repo.GetByID(ctx, documentID)
	if err != nil {
		return 0, fmt.Errorf("fetch document by id: %w", err)
	}

	pages, err := uc.extractor.ExtractPages(ctx, doc)
	if err != nil {
		return 0, fmt.Errorf("extract pages: %w", err)
	}

	passages := buildPassages(doc, pages)
	if len(passages) == 0 {
		return 0, domain.WrapError(domain.ErrInvalidInput, "extract pages", errors.New("no pages with content"))
	}

	texts := make([]string, len(passages))
	for i, p := range passages {
		texts[i] = p.Content
	}

	vectors, err := uc.embedder.Embed(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("embed pages: %w", err)
	}
	if len(vectors) != len(passages) {
		return 0, domain.WrapError(
			domain.ErrInvalidInput,
			"embed pages",
			fmt.Errorf("vectors/pages mismatch: %d/%d", len(vectors), len(passages)),
		)
	}

	if err := uc.vectorDB.UpsertPassages(ctx, doc, passages, vectors); err != nil {
		return 0, fmt.Errorf("index passages in vector db: %w", err)
	}
	return len(passages), nil
}

// buildPassages keeps source page numbers (1-based) even when empty pages
// are dropped, so citations point at the real PDF page.
func buildPassages(doc *domain.LessonDocument, pages []string) []domain.Passage {
	total := strconv.Itoa(len(pages))
	out := make([]domain.Passage, 0, len(pages))
	for i, text := range pages {
		if strings.TrimSpace(text) == "" {
			continue
		}
		out = append(out, domain.Passage{
			ID:      uuid.NewString(),
			Content: text,
			Metadata: map[string]string{
				"page_number": strconv.Itoa(i + 1),
				"filename":    doc.Filename,
				"total_pages": total,
			},
		})
	}
	return out
}
