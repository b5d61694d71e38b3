package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/escuelasabatica/lesson-assistant/internal/config"
	"github.com/escuelasabatica/lesson-assistant/internal/core/ports"
	"github.com/escuelasabatica/lesson-assistant/internal/core/usecase"
	"github.com/escuelasabatica/lesson-assistant/internal/infrastructure/cache/boltcache"
	"github.com/escuelasabatica/lesson-assistant/internal/infrastructure/extractor/pdfpage"
	"github.com/escuelasabatica/lesson-assistant/internal/infrastructure/llm/gemini"
	"github.com/escuelasabatica/lesson-assistant/internal/infrastructure/queue/nats"
	"github.com/escuelasabatica/lesson-assistant/internal/infrastructure/repository/postgres"
	"github.com/escuelasabatica/lesson-assistant/internal/infrastructure/resilience"
	"github.com/escuelasabatica/lesson-assistant/internal/infrastructure/storage/localfs"
	"github.com/escuelasabatica/lesson-assistant/internal/infrastructure/vector/qdrant"
)

type App struct {
	Config config.Config

	Queue ports.MessageQueue
	Repo  ports.DocumentRepository

	IngestUC  ports.LessonIngestor
	ProcessUC ports.LessonProcessor
	AnswerUC  ports.QuestionAnswerer

	VectorHealth func(ctx context.Context) error

	closeFn func()
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	repo := postgres.NewDocumentRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure document schema: %w", err)
	}
	conversations := postgres.NewConversationRepository(db)
	if err := conversations.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure conversation schema: %w", err)
	}

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	executor := resilience.NewExecutor(resilience.DefaultConfig())

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: executor,
	})
	if err != nil {
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	responseCache, err := boltcache.Open(cfg.CachePath, time.Duration(cfg.CacheTTLHours)*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("open response cache: %w", err)
	}

	geminiClient := gemini.New(cfg.GeminiAPIURL, cfg.GeminiAPIKey, cfg.GeminiEmbedModels, cfg.GeminiGenModels, executor)
	embedder := gemini.NewEmbedder(geminiClient)
	generator := gemini.NewGenerator(geminiClient)

	vectorDB := qdrant.New(cfg.QdrantURL, cfg.QdrantCollection, cfg.QdrantAPIKey)
	extractor := pdfpage.NewExtractor(storage)

	ingestUC := usecase.NewIngestLessonUseCase(repo, storage, queue)
	processUC := usecase.NewProcessLessonUseCase(repo, extractor, embedder, vectorDB)
	retrieveUC := usecase.NewRetrieveUseCase(embedder, vectorDB, usecase.RetrievalOptions{
		TopK:      cfg.RetrievalTopK,
		DateLimit: cfg.RetrievalDateLimit,
		ScanLimit: cfg.RetrievalScanLimit,
	})
	answerUC := usecase.NewAnswerUseCase(retrieveUC, generator, responseCache, conversations, cfg.RetrievalTopK)

	return &App{
		Config: cfg,
		Queue:  queue,
		Repo:   repo,

		IngestUC:  ingestUC,
		ProcessUC: processUC,
		AnswerUC:  answerUC,

		VectorHealth: vectorDB.Healthy,

		closeFn: func() {
			queue.Close()
			_ = responseCache.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
