package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/escuelasabatica/lesson-assistant/internal/bootstrap"
	"github.com/escuelasabatica/lesson-assistant/internal/config"
	"github.com/escuelasabatica/lesson-assistant/internal/core/domain"
	"github.com/escuelasabatica/lesson-assistant/internal/observability/logging"
	"github.com/escuelasabatica/lesson-assistant/internal/observability/metrics"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	slog.SetDefault(logging.NewJSONLogger("worker", cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		slog.Error("bootstrap_failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	workerMetrics := metrics.NewWorkerMetrics("worker")
	metricsServer := &http.Server{
		Addr:    ":" + cfg.WorkerMetricsPort,
		Handler: workerMetrics.Handler(),
	}
	go func() {
		slog.Info("worker_metrics_listening", "port", cfg.WorkerMetricsPort)
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("worker_metrics_server_failed", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}()

	slog.Info("worker_subscribed", "subject", cfg.NATSSubject)
	err = app.Queue.SubscribeDocumentIngested(ctx, func(handlerCtx context.Context, event domain.IngestionEvent) error {
		processCtx, cancel := context.WithTimeout(handlerCtx, 5*time.Minute)
		defer cancel()

		workerMetrics.StartLesson()
		start := time.Now()
		if !event.EnqueuedAt.IsZero() {
			workerMetrics.ObserveQueueLag("worker", start.Sub(event.EnqueuedAt))
		}

		processErr := app.ProcessUC.ProcessByID(processCtx, event.DocumentID)
		workerMetrics.FinishLesson("worker", time.Since(start), processErr)

		if processErr == nil {
			if doc, err := app.Repo.GetByID(processCtx, event.DocumentID); err == nil {
				workerMetrics.ObserveIndexedPages("worker", doc.Pages)
			}
		}
		return processErr
	})
	if err != nil {
		slog.Error("worker_subscribe_failed", "error", err)
		os.Exit(1)
	}
}
