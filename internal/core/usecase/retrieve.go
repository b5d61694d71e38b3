package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/escuelasabatica/lesson-assistant/internal/core/domain"
	"github.com/escuelasabatica/lesson-assistant/internal/core/ports"
)

// fallbackScanScore sits safely above the [0,1] cosine range so a scan hit
// always outranks vector hits.
const fallbackScanScore = 1.5

// RetrievalOptions bounds the three phases of the pipeline.
type RetrievalOptions struct {
	// TopK is the result count when the caller passes no limit.
	TopK int
	// DateLimit widens the vector search when a date was resolved, so the
	// right day's page has a chance to appear before re-ranking.
	DateLimit int
	// ScanLimit caps the exhaustive fallback listing.
	ScanLimit int
}

func (o RetrievalOptions) normalize() RetrievalOptions {
	if o.TopK <= 0 {
		o.TopK = 5
	}
	if o.DateLimit <= 0 {
		o.DateLimit = 20
	}
	if o.ScanLimit <= 0 {
		o.ScanLimit = 200
	}
	return o
}

// RetrieveUseCase implements the temporal-aware retrieval pipeline:
// date resolution, query enrichment, vector search, exhaustive fallback
// scan, date re-ranking and truncation.
type RetrieveUseCase struct {
	embedder ports.Embedder
	vectorDB ports.VectorStore
	opts     RetrievalOptions
}

func NewRetrieveUseCase(embedder ports.Embedder, vectorDB ports.VectorStore, opts RetrievalOptions) *RetrieveUseCase {
	return &RetrieveUseCase{
		embedder: embedder,
		vectorDB: vectorDB,
		opts:     opts.normalize(),
	}
}

// Retrieve returns the passages that should reach the answer generator.
// Every failure path degrades to fewer or zero passages; callers must treat
// an empty result as "nothing found", never as a hard error.
func (uc *RetrieveUseCase) Retrieve(
	ctx context.Context,
	question string,
	limit int,
	recentHistory []string,
	now time.Time,
) []domain.Passage {
	if limit <= 0 {
		limit = uc.opts.TopK
	}

	resolved := ResolveDate(question, now)
	enriched := enrichQuestion(question, resolved, recentHistory)
	if enriched != question {
		slog.Debug("query_enriched", "question", question, "enriched", enriched)
	}

	queryVector, err := uc.embedder.EmbedQuery(ctx, enriched)
	if err != nil {
		slog.Error("embed_query_failed", "error", err)
		return nil
	}

	searchLimit := limit
	if resolved != nil {
		searchLimit = uc.opts.DateLimit
	}

	candidates, err := uc.vectorDB.Search(ctx, queryVector, searchLimit)
	if err != nil {
		slog.Warn("vector_search_failed", "error", err)
		candidates = nil
	}

	if resolved != nil && !hasExactDateMatch(candidates, resolved) {
		if hit := uc.scanForExactDate(ctx, resolved); hit != nil {
			candidates = append([]domain.Candidate{*hit}, candidates...)
		}
	}

	candidates = rerankByDate(candidates, resolved)
	return truncateToPassages(candidates, limit)
}

// scanForExactDate lists the whole collection (bounded at ScanLimit) and
// returns the first passage whose content passes the exact-date test, with a
// synthetic score above anything the vector search can produce. Approximate
// similarity is not guaranteed to surface a near-verbatim date string; this
// guard closes that gap at the cost of one full listing.
func (uc *RetrieveUseCase) scanForExactDate(ctx context.Context, rd *domain.ResolvedDate) *domain.Candidate {
	passages, err := uc.vectorDB.ScrollAll(ctx, uc.opts.ScanLimit)
	if err != nil {
		slog.Warn("fallback_scan_failed", "error", err)
		return nil
	}

	for _, p := range passages {
		if matchDate(p.Content, rd) == dateMatchExact {
			slog.Info("fallback_scan_hit", "passage_id", p.ID, "date", rd.Phrase())
			return &domain.Candidate{
				Passage: p,
				Score:   fallbackScanScore,
				Source:  domain.SourceScan,
			}
		}
	}
	return nil
}
