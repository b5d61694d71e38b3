package boltcache

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/escuelasabatica/lesson-assistant/internal/core/domain"
)

func openTestCache(t *testing.T, ttl time.Duration) *Cache {
	t.Helper()
	cache, err := Open(filepath.Join(t.TempDir(), "responses.db"), ttl)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { cache.Close() })
	return cache
}

func TestCacheRoundTrip(t *testing.T) {
	cache := openTestCache(t, time.Hour)
	ctx := context.Background()
	answer := &domain.Answer{
		Text:    "respuesta",
		Sources: []domain.Passage{{ID: "p1", Content: "texto"}},
	}

	if err := cache.Put(ctx, "¿Qué es la fe?", 5, answer); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, err := cache.Get(ctx, "¿Qué es la fe?", 5)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got == nil || got.Text != "respuesta" || len(got.Sources) != 1 {
		t.Fatalf("unexpected cached answer %+v", got)
	}
}

func TestCacheKeyNormalizesQuestion(t *testing.T) {
	cache := openTestCache(t, time.Hour)
	ctx := context.Background()

	if err := cache.Put(ctx, "  ¿Qué ES la fe?  ", 5, &domain.Answer{Text: "ok"}); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, err := cache.Get(ctx, "¿qué es la fe?", 5)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got == nil || got.Text != "ok" {
		t.Fatalf("case and whitespace variants must share a key, got %+v", got)
	}
}

func TestCacheMissOnDifferentTopK(t *testing.T) {
	cache := openTestCache(t, time.Hour)
	ctx := context.Background()

	if err := cache.Put(ctx, "pregunta", 5, &domain.Answer{Text: "ok"}); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, err := cache.Get(ctx, "pregunta", 8)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != nil {
		t.Fatalf("different topK must miss, got %+v", got)
	}
}

func TestCacheExpiredEntryPurged(t *testing.T) {
	cache := openTestCache(t, time.Hour)
	ctx := context.Background()

	if err := cache.Put(ctx, "pregunta", 5, &domain.Answer{Text: "ok"}); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	cache.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	got, err := cache.Get(ctx, "pregunta", 5)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != nil {
		t.Fatalf("expired entry must miss, got %+v", got)
	}

	cache.now = time.Now
	got, err = cache.Get(ctx, "pregunta", 5)
	if err != nil {
		t.Fatalf("Get() after purge error = %v", err)
	}
	if got != nil {
		t.Fatalf("expired entry must be purged, got %+v", got)
	}
}
