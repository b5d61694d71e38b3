package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/escuelasabatica/lesson-assistant/internal/core/domain"
)

type processRepoFake struct {
	doc      *domain.LessonDocument
	statuses []domain.DocumentStatus
	lastErr  string
	ready    int
}

func (f *processRepoFake) Create(context.Context, *domain.LessonDocument) error {
	return errors.New("not implemented")
}

func (f *processRepoFake) GetByID(_ context.Context, id string) (*domain.LessonDocument, error) {
	if f.doc == nil {
		return nil, domain.WrapError(domain.ErrDocumentNotFound, "fetch", errors.New(id))
	}
	return f.doc, nil
}

func (f *processRepoFake) UpdateStatus(_ context.Context, _ string, status domain.DocumentStatus, errMessage string) error {
	f.statuses = append(f.statuses, status)
	f.lastErr = errMessage
	return nil
}

func (f *processRepoFake) MarkReady(_ context.Context, _ string, pages int) error {
	f.statuses = append(f.statuses, domain.StatusReady)
	f.ready = pages
	return nil
}

type processExtractorFake struct {
	pages []string
	err   error
}

func (f *processExtractorFake) ExtractPages(context.Context, *domain.LessonDocument) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.pages, nil
}

type processVectorFake struct {
	upserted []domain.Passage
	err      error
}

func (f *processVectorFake) UpsertPassages(_ context.Context, _ *domain.LessonDocument, passages []domain.Passage, _ [][]float32) error {
	if f.err != nil {
		return f.err
	}
	f.upserted = passages
	return nil
}

func (f *processVectorFake) Search(context.Context, []float32, int) ([]domain.Candidate, error) {
	return nil, errors.New("not implemented")
}

func (f *processVectorFake) ScrollAll(context.Context, int) ([]domain.Passage, error) {
	return nil, errors.New("not implemented")
}

func lessonDoc() *domain.LessonDocument {
	now := time.Now().UTC()
	return &domain.LessonDocument{
		ID:          "doc-1",
		Filename:    "leccion6.pdf",
		StoragePath: "doc-1_leccion6.pdf",
		Status:      domain.StatusUploaded,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestProcessIndexesNonEmptyPages(t *testing.T) {
	repo := &processRepoFake{doc: lessonDoc()}
	extractor := &processExtractorFake{pages: []string{"Sábado 1 de noviembre", "", "Lunes 3 de noviembre"}}
	vector := &processVectorFake{}
	uc := NewProcessLessonUseCase(repo, extractor, &embedderFake{}, vector)

	if err := uc.ProcessByID(context.Background(), "doc-1"); err != nil {
		t.Fatalf("ProcessByID() error = %v", err)
	}

	if len(vector.upserted) != 2 {
		t.Fatalf("expected 2 indexed passages, got %d", len(vector.upserted))
	}
	if vector.upserted[0].Metadata["page_number"] != "1" {
		t.Fatalf("expected page_number 1, got %s", vector.upserted[0].Metadata["page_number"])
	}
	if vector.upserted[1].Metadata["page_number"] != "3" {
		t.Fatalf("empty pages must not shift source page numbers, got %s", vector.upserted[1].Metadata["page_number"])
	}
	if vector.upserted[0].Metadata["total_pages"] != "3" {
		t.Fatalf("expected total_pages 3, got %s", vector.upserted[0].Metadata["total_pages"])
	}
	if vector.upserted[0].Metadata["filename"] != "leccion6.pdf" {
		t.Fatalf("expected filename metadata, got %s", vector.upserted[0].Metadata["filename"])
	}
	if repo.ready != 2 {
		t.Fatalf("expected 2 pages marked ready, got %d", repo.ready)
	}
}

func TestProcessAllPagesEmptyFails(t *testing.T) {
	repo := &processRepoFake{doc: lessonDoc()}
	extractor := &processExtractorFake{pages: []string{"", "   "}}
	uc := NewProcessLessonUseCase(repo, extractor, &embedderFake{}, &processVectorFake{})

	err := uc.ProcessByID(context.Background(), "doc-1")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	last := repo.statuses[len(repo.statuses)-1]
	if last != domain.StatusFailed {
		t.Fatalf("expected failed status, got %s", last)
	}
}

func TestProcessExtractorErrorMarksFailed(t *testing.T) {
	repo := &processRepoFake{doc: lessonDoc()}
	extractor := &processExtractorFake{err: errors.New("corrupt pdf")}
	uc := NewProcessLessonUseCase(repo, extractor, &embedderFake{}, &processVectorFake{})

	if err := uc.ProcessByID(context.Background(), "doc-1"); err == nil {
		t.Fatalf("expected error")
	}
	last := repo.statuses[len(repo.statuses)-1]
	if last != domain.StatusFailed {
		t.Fatalf("expected failed status, got %s", last)
	}
	if repo.lastErr == "" {
		t.Fatalf("expected error message persisted")
	}
}
