package config

import "testing"

func TestLoadIncludesRetrievalDefaults(t *testing.T) {
	t.Setenv("RETRIEVAL_TOP_K", "")
	t.Setenv("RETRIEVAL_DATE_LIMIT", "")
	t.Setenv("RETRIEVAL_SCAN_LIMIT", "")
	t.Setenv("QDRANT_COLLECTION", "")
	t.Setenv("CACHE_TTL_HOURS", "")

	cfg := Load()
	if cfg.RetrievalTopK != 5 {
		t.Fatalf("expected default top k 5, got %d", cfg.RetrievalTopK)
	}
	if cfg.RetrievalDateLimit != 20 {
		t.Fatalf("expected default date limit 20, got %d", cfg.RetrievalDateLimit)
	}
	if cfg.RetrievalScanLimit != 200 {
		t.Fatalf("expected default scan limit 200, got %d", cfg.RetrievalScanLimit)
	}
	if cfg.QdrantCollection != "ESCUELA-SABATICA" {
		t.Fatalf("expected default collection, got %q", cfg.QdrantCollection)
	}
	if cfg.CacheTTLHours != 24 {
		t.Fatalf("expected default cache ttl 24h, got %d", cfg.CacheTTLHours)
	}
}

func TestLoadParsesRetrievalOverrides(t *testing.T) {
	t.Setenv("RETRIEVAL_TOP_K", "8")
	t.Setenv("RETRIEVAL_DATE_LIMIT", "30")
	t.Setenv("RETRIEVAL_SCAN_LIMIT", "500")
	t.Setenv("API_RATE_LIMIT_RPS", "2.5")

	cfg := Load()
	if cfg.RetrievalTopK != 8 {
		t.Fatalf("expected top k 8, got %d", cfg.RetrievalTopK)
	}
	if cfg.RetrievalDateLimit != 30 {
		t.Fatalf("expected date limit 30, got %d", cfg.RetrievalDateLimit)
	}
	if cfg.RetrievalScanLimit != 500 {
		t.Fatalf("expected scan limit 500, got %d", cfg.RetrievalScanLimit)
	}
	if cfg.APIRateLimitRPS != 2.5 {
		t.Fatalf("expected rate limit 2.5 rps, got %v", cfg.APIRateLimitRPS)
	}
}

func TestLoadSplitsModelLists(t *testing.T) {
	t.Setenv("GEMINI_EMBED_MODELS", "models/embed-a, models/embed-b")

	cfg := Load()
	if len(cfg.GeminiEmbedModels) != 2 {
		t.Fatalf("expected 2 embed models, got %v", cfg.GeminiEmbedModels)
	}
	if cfg.GeminiEmbedModels[1] != "models/embed-b" {
		t.Fatalf("expected trimmed model name, got %q", cfg.GeminiEmbedModels[1])
	}
}
