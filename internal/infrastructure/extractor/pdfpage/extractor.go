package pdfpage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/escuelasabatica/lesson-assistant/internal/core/domain"
	"github.com/escuelasabatica/lesson-assistant/internal/core/ports"
)

// Extractor pulls one text entry per PDF page. Page boundaries matter
// downstream, so unreadable pages become empty strings instead of being
// dropped.
type Extractor struct {
	storage ports.ObjectStorage
}

func NewExtractor(storage ports.ObjectStorage) *Extractor {
	return &Extractor{storage: storage}
}

func (e *Extractor) ExtractPages(ctx context.Context, doc *domain.LessonDocument) ([]string, error) {
	reader, err := e.storage.Open(ctx, doc.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("open source document: %w", err)
	}
	defer reader.Close()

	raw, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read source document: %w", err)
	}

	pdfReader, err := pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return nil, fmt.Errorf("parse pdf %s: %w", doc.Filename, err)
	}

	total := pdfReader.NumPage()
	pages := make([]string, 0, total)
	for number := 1; number <= total; number++ {
		page := pdfReader.Page(number)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			slog.Warn("pdf_page_unreadable", "filename", doc.Filename, "page", number, "error", err)
			pages = append(pages, "")
			continue
		}
		pages = append(pages, strings.TrimSpace(text))
	}
	return pages, nil
}
