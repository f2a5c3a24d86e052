package search

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"fieldservice-ai/internal/contextutil"
	"fieldservice-ai/internal/embedding"
	"fieldservice-ai/internal/service"
	"fieldservice-ai/internal/storage"
	"fieldservice-ai/internal/vectorstore"
)

// Engine provides similarity-ranked retrieval over indexed document chunks.
type Engine interface {
	// Search embeds the query, runs the similarity search and returns ranked
	// results with denormalized file context. Embedding or store failures
	// degrade to an empty result set; only invalid input is an error.
	Search(ctx context.Context, req Request) (Response, error)
}

// QueryTracker receives fire-and-forget analytics for executed searches.
type QueryTracker interface {
	TrackQuery(ctx context.Context, userID, query string, resultsCount int, threshold float32, executionTimeMs int64) string
}

// searchEngine implements the Engine interface.
type searchEngine struct {
	embedder         embedding.Embedder
	vectorStore      vectorstore.VectorStore
	collection       string
	chunkRepo        storage.ChunkStore
	fileRepo         storage.FileStore
	tracker          QueryTracker
	defaultThreshold float32
	defaultCount     int
	logger           *slog.Logger
}

// NewEngine creates a new search engine. tracker may be nil to disable
// analytics tracking. defaults fills in the threshold and count applied when
// a request carries no options; non-positive fields fall back to the package
// defaults.
func NewEngine(
	embedder embedding.Embedder,
	vectorStore vectorstore.VectorStore,
	collection string,
	chunkRepo storage.ChunkStore,
	fileRepo storage.FileStore,
	tracker QueryTracker,
	defaults Options,
) Engine {
	if defaults.MatchThreshold <= 0 {
		defaults.MatchThreshold = DefaultMatchThreshold
	}
	if defaults.MatchCount <= 0 {
		defaults.MatchCount = DefaultMatchCount
	}
	return &searchEngine{
		embedder:         embedder,
		vectorStore:      vectorStore,
		collection:       collection,
		chunkRepo:        chunkRepo,
		fileRepo:         fileRepo,
		tracker:          tracker,
		defaultThreshold: defaults.MatchThreshold,
		defaultCount:     defaults.MatchCount,
		logger:           slog.Default(),
	}
}

// Search performs a semantic search over indexed chunks.
func (e *searchEngine) Search(ctx context.Context, req Request) (Response, error) {
	logger := contextutil.LoggerFromContext(ctx)

	query := strings.TrimSpace(req.Query)
	if query == "" {
		// Rejected before any embedding provider call.
		return Response{}, fmt.Errorf("empty search query: %w", service.ErrInvalidInput)
	}

	threshold := req.Options.MatchThreshold
	if threshold <= 0 {
		threshold = e.defaultThreshold
	}
	count := req.Options.MatchCount
	if count <= 0 {
		count = e.defaultCount
	}

	start := time.Now()

	queryVector, err := e.embedder.EmbedText(ctx, query)
	if err != nil {
		// Degrade gracefully: a failed search is indistinguishable from
		// "no matches" for the caller, but operators still see it.
		logger.ErrorContext(ctx, "failed to embed query", "query", query, "error", err)
		return e.finish(ctx, req.UserID, query, nil, threshold, start), nil
	}

	hits, err := e.vectorStore.Search(ctx, e.collection, queryVector, count, threshold, req.Options.FileIDs)
	if err != nil {
		logger.ErrorContext(ctx, "failed to search vector store", "query", query, "error", err)
		return e.finish(ctx, req.UserID, query, nil, threshold, start), nil
	}

	// Resolve chunk content and file context, preserving the store's
	// similarity-descending order. One file lookup per distinct file_id.
	files := make(map[string]*FileSummary)
	results := make([]Result, 0, len(hits))
	for _, hit := range hits {
		chunk, err := e.chunkRepo.GetByID(ctx, hit.PointID)
		if err != nil {
			logger.WarnContext(ctx, "failed to fetch chunk for hit", "chunk_id", hit.PointID, "error", err)
			continue
		}

		summary, ok := files[chunk.FileID]
		if !ok {
			if file, err := e.fileRepo.GetByID(ctx, chunk.FileID); err != nil {
				logger.WarnContext(ctx, "failed to fetch file for hit", "file_id", chunk.FileID, "error", err)
				files[chunk.FileID] = nil
			} else {
				summary = &FileSummary{
					ID:        file.ID,
					Filename:  file.Filename,
					MimeType:  file.MimeType,
					CreatedAt: file.CreatedAt,
				}
				files[chunk.FileID] = summary
			}
		}

		results = append(results, Result{
			ChunkID:    chunk.ID,
			FileID:     chunk.FileID,
			Content:    chunk.Content,
			Similarity: hit.Score,
			Metadata: ResultMetadata{
				StartIndex: chunk.StartIndex,
				EndIndex:   chunk.EndIndex,
				Length:     chunk.Length,
				WordCount:  chunk.WordCount,
			},
			File: files[chunk.FileID],
		})
	}

	logger.InfoContext(ctx, "search completed",
		"query", query, "threshold", threshold, "count", count,
		"file_filter", len(req.Options.FileIDs), "results", len(results))

	return e.finish(ctx, req.UserID, query, results, threshold, start), nil
}

// finish assembles the response and dispatches analytics tracking on a
// detached goroutine so a slow or failed write never delays the search
// response.
func (e *searchEngine) finish(ctx context.Context, userID, query string, results []Result, threshold float32, start time.Time) Response {
	executionMs := time.Since(start).Milliseconds()

	if e.tracker != nil {
		trackCtx := context.WithoutCancel(ctx)
		go e.tracker.TrackQuery(trackCtx, userID, query, len(results), threshold, executionMs)
	}

	return Response{
		Results:         results,
		Query:           query,
		ExecutionTimeMs: executionMs,
	}
}
