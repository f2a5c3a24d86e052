package main

import (
	"context"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"
	"time"

	"fieldservice-ai/internal/analytics"
	"fieldservice-ai/internal/chunker"
	"fieldservice-ai/internal/config"
	"fieldservice-ai/internal/embedding"
	"fieldservice-ai/internal/http"
	"fieldservice-ai/internal/indexer"
	"fieldservice-ai/internal/search"
	"fieldservice-ai/internal/storage"
	"fieldservice-ai/internal/vectorstore"
)

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure structured logging with configurable level and format
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	// Initialize database
	db, err := storage.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	slog.Info("Database initialized", "path", cfg.DBPath)

	// Create repository instances
	fileRepo := storage.NewFileRepo(db)
	chunkRepo := storage.NewChunkRepo(db)
	analyticsRepo := storage.NewAnalyticsRepo(db)

	ctx := context.Background()

	// Initialize Qdrant vector store
	vectorStore, err := vectorstore.NewQdrantStore(cfg.QdrantURL)
	if err != nil {
		log.Fatalf("Failed to create Qdrant client: %v", err)
	}

	// Ensure collection exists with correct vector size
	if err := vectorStore.EnsureCollection(ctx, cfg.QdrantCollection, cfg.VectorSize); err != nil {
		log.Fatalf("Failed to ensure Qdrant collection: %v", err)
	}
	slog.Info("Qdrant collection ready", "collection", cfg.QdrantCollection, "vector_size", cfg.VectorSize)

	embedder := embedding.NewClient(cfg.EmbeddingBaseURL, cfg.EmbeddingAPIKey, cfg.EmbeddingModelName, cfg.VectorSize)

	// Validate embedding client vector size (fail-fast)
	if cfg.EmbeddingAPIKey != "" {
		testEmbeddings, err := embedder.EmbedTexts(ctx, []string{"test"})
		if err != nil {
			log.Fatalf("Failed to validate embedding client: %v", err)
		}
		if len(testEmbeddings) == 0 || len(testEmbeddings[0]) != cfg.VectorSize {
			log.Fatalf("Embedding vector size mismatch: expected %d, got %d", cfg.VectorSize, len(testEmbeddings[0]))
		}
		slog.Info("Embedding client validated", "vector_size", cfg.VectorSize)
	}

	// Create indexing pipeline
	pipeline := indexer.NewPipeline(
		fileRepo,
		chunkRepo,
		embedder,
		vectorStore,
		cfg.QdrantCollection,
		chunker.Options{
			ChunkSize:    cfg.ChunkSize,
			ChunkOverlap: cfg.ChunkOverlap,
			MaxChunks:    cfg.MaxChunks,
		},
	)

	// Create analytics tracker and search engine
	tracker := analytics.NewTracker(analyticsRepo)
	engine := search.NewEngine(
		embedder,
		vectorStore,
		cfg.QdrantCollection,
		chunkRepo,
		fileRepo,
		tracker,
		search.Options{
			MatchThreshold: cfg.MatchThreshold,
			MatchCount:     cfg.MatchCount,
		},
	)
	slog.Info("Search engine initialized",
		"default_threshold", cfg.MatchThreshold, "default_count", cfg.MatchCount)

	// Create router with dependencies
	deps := &http.Deps{
		Pipeline: pipeline,
		Engine:   engine,
		FileRepo: fileRepo,
		Tracker:  tracker,
		DB:       db,
	}
	router := http.NewRouter(deps)

	// Periodic analytics retention cleanup
	if cfg.AnalyticsRetentionDays > 0 {
		go func() {
			ticker := time.NewTicker(24 * time.Hour)
			defer ticker.Stop()
			for {
				if ok := tracker.Cleanup(context.Background(), cfg.AnalyticsRetentionDays); ok {
					slog.Info("Analytics cleanup completed", "days_kept", cfg.AnalyticsRetentionDays)
				}
				<-ticker.C
			}
		}()
	}

	// Start API server
	addr := ":" + cfg.APIPort
	slog.Info("Starting API server", "addr", addr)
	slog.Debug("Embedding configuration", "base_url", cfg.EmbeddingBaseURL, "model", cfg.EmbeddingModelName)
	if err := nethttp.ListenAndServe(addr, router); err != nil {
		log.Fatalf("API server failed to start: %v", err)
	}
}
