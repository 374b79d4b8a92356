package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"

	httpadapter "github.com/clearpathcoverage/dst-compiler/internal/adapter/http"
	kafkaadapter "github.com/clearpathcoverage/dst-compiler/internal/adapter/kafka"
	"github.com/clearpathcoverage/dst-compiler/internal/config"
	"github.com/clearpathcoverage/dst-compiler/internal/corpus"
	"github.com/clearpathcoverage/dst-compiler/internal/domain"
	"github.com/clearpathcoverage/dst-compiler/internal/observability"
	"github.com/clearpathcoverage/dst-compiler/internal/pipeline"
)

const generatedBy = "dst-compiler"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()
	clock := clockwork.NewRealClock()

	reader := kafkaadapter.NewReader(cfg, logger)
	writer := kafkaadapter.NewWriter(cfg, logger)
	store := corpus.NewStore(cfg.CorpusPath, cfg.AllCorpusPath)

	transformer := pipeline.NewRecordTransformer(clock)
	loader := pipeline.NewMultiLoader(writer, pipeline.NewCorpusLoader(store, metrics))

	p := pipeline.New(reader, transformer, loader, logger, metrics, cfg.BatchSize)

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, store, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start compile pipeline.
	go func() {
		if err := p.Run(ctx); err != nil {
			logger.Error("pipeline error", "error", err)
		}
	}()

	// Persist the corpus files periodically so consumers always have a
	// recent snapshot even if the service dies uncleanly.
	go flushLoop(ctx, store, clock, metrics, logger)

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if err := reader.Close(); err != nil {
		logger.Error("kafka reader close error", "error", err)
	}
	if err := writer.Close(); err != nil {
		logger.Error("kafka writer close error", "error", err)
	}

	flush(store, clock, metrics, logger)

	logger.Info("shutdown complete")
}

func flushLoop(ctx context.Context, store *corpus.Store, clock clockwork.Clock, metrics *observability.Metrics, logger *slog.Logger) {
	ticker := clock.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			flush(store, clock, metrics, logger)
		}
	}
}

func flush(store *corpus.Store, clock clockwork.Clock, metrics *observability.Metrics, logger *slog.Logger) {
	if store.Len() == 0 {
		return
	}
	now := clock.Now()
	if err := store.Flush(generatedBy, domain.DateOf(now), now); err != nil {
		logger.Error("corpus flush error", "error", err)
		metrics.FlushErrors.Inc()
		return
	}
	curated := 0
	for _, rec := range store.Records() {
		if rec.Source != domain.SourceFEMA {
			curated++
		}
	}
	metrics.CorpusRecords.WithLabelValues("curated").Set(float64(curated))
	metrics.CorpusRecords.WithLabelValues("all").Set(float64(store.Len()))
	logger.Info("corpus flushed", "records", store.Len(), "curated", curated)
}
