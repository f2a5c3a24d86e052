package indexer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"fieldservice-ai/internal/chunker"
	"fieldservice-ai/internal/contextutil"
	"fieldservice-ai/internal/embedding"
	"fieldservice-ai/internal/extractor"
	"fieldservice-ai/internal/service"
	"fieldservice-ai/internal/storage"
	"fieldservice-ai/internal/vectorstore"
)

// Pipeline orchestrates extraction, chunking, embedding and storage to
// (re)index one file. It enforces per-file single-flight: at most one
// process/reprocess operation is in flight per file ID.
type Pipeline struct {
	fileRepo    storage.FileStore
	chunkRepo   storage.ChunkStore
	embedder    embedding.Embedder
	vectorStore vectorstore.VectorStore
	collection  string
	extractor   *extractor.Extractor
	chunkOpts   chunker.Options
	logger      *slog.Logger

	mu       sync.Mutex
	inflight map[string]struct{}
}

// NewPipeline creates a new indexing pipeline.
func NewPipeline(
	fileRepo storage.FileStore,
	chunkRepo storage.ChunkStore,
	embedder embedding.Embedder,
	vectorStore vectorstore.VectorStore,
	collection string,
	chunkOpts chunker.Options,
) *Pipeline {
	return &Pipeline{
		fileRepo:    fileRepo,
		chunkRepo:   chunkRepo,
		embedder:    embedder,
		vectorStore: vectorStore,
		collection:  collection,
		extractor:   extractor.New(),
		chunkOpts:   chunkOpts,
		logger:      slog.Default(),
		inflight:    make(map[string]struct{}),
	}
}

// acquire marks a file as having an in-flight indexing operation.
// A second concurrent request for the same file is rejected rather than
// queued; it must never interleave deletes and inserts for one file.
func (p *Pipeline) acquire(fileID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, busy := p.inflight[fileID]; busy {
		return fmt.Errorf("file %s: %w", fileID, service.ErrProcessingInProgress)
	}
	p.inflight[fileID] = struct{}{}
	return nil
}

func (p *Pipeline) release(fileID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.inflight, fileID)
}

// Process indexes a file from already-extracted text: chunk, batch-embed,
// persist the chunk set, then mark the file processed. A failed step leaves
// no partial chunk set committed.
func (p *Pipeline) Process(ctx context.Context, file *storage.FileRecord, text string) error {
	if err := p.acquire(file.ID); err != nil {
		return err
	}
	defer p.release(file.ID)

	return p.process(ctx, file, text)
}

// ProcessRaw extracts text from raw bytes using the file's declared media
// type, then indexes it like Process.
func (p *Pipeline) ProcessRaw(ctx context.Context, file *storage.FileRecord, data []byte) error {
	if err := p.acquire(file.ID); err != nil {
		return err
	}
	defer p.release(file.ID)

	text, err := p.extractor.Extract(ctx, data, file.MimeType, file.Filename)
	if err != nil {
		return fmt.Errorf("failed to extract text: %w", err)
	}
	return p.process(ctx, file, text)
}

// Reprocess deletes a file's existing chunk set and indexes the text fresh,
// as a single caller-visible unit. A concurrent ChunksFor call observes
// either the old or the new complete set, never a mixture.
func (p *Pipeline) Reprocess(ctx context.Context, file *storage.FileRecord, text string) error {
	if err := p.acquire(file.ID); err != nil {
		return err
	}
	defer p.release(file.ID)

	if err := p.deleteChunks(ctx, file.ID); err != nil {
		return err
	}
	if err := p.process(ctx, file, text); err != nil {
		// The old chunk set is already gone, so the file has no committed
		// chunks until a later pass succeeds.
		if markErr := p.fileRepo.MarkProcessed(ctx, file.ID, false); markErr != nil {
			contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to clear processed flag after reindex failure",
				"file_id", file.ID, "error", markErr)
		}
		return err
	}
	return nil
}

// DeleteChunks removes all chunks for a file from both stores and clears
// the file's processed flag.
func (p *Pipeline) DeleteChunks(ctx context.Context, fileID string) error {
	if err := p.acquire(fileID); err != nil {
		return err
	}
	defer p.release(fileID)

	if err := p.deleteChunks(ctx, fileID); err != nil {
		return err
	}
	if err := p.fileRepo.MarkProcessed(ctx, fileID, false); err != nil {
		return fmt.Errorf("failed to clear processed flag: %w", err)
	}
	return nil
}

// ChunksFor returns a file's chunks ordered by chunk_index.
func (p *Pipeline) ChunksFor(ctx context.Context, fileID string) ([]*storage.ChunkRecord, error) {
	return p.chunkRepo.ListByFile(ctx, fileID)
}

// process runs the indexing steps for a file whose single-flight slot is
// already held by the caller.
func (p *Pipeline) process(ctx context.Context, file *storage.FileRecord, text string) error {
	logger := contextutil.LoggerFromContext(ctx)

	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("empty text content for file %s: %w", file.ID, service.ErrInvalidInput)
	}

	chunks := chunker.Split(text, p.chunkOpts)
	if len(chunks) == 0 {
		return fmt.Errorf("no chunks produced for file %s: %w", file.ID, service.ErrInvalidInput)
	}

	// One batched embedding call per file regardless of chunk count, to
	// minimize provider round trips and quota pressure.
	chunkTexts := make([]string, len(chunks))
	for i, chunk := range chunks {
		chunkTexts[i] = chunk.Content
	}
	embeddings, err := p.embedder.EmbedTexts(ctx, chunkTexts)
	if err != nil {
		return fmt.Errorf("failed to generate embeddings: %w", err)
	}
	if len(embeddings) != len(chunks) {
		return fmt.Errorf("embedding count mismatch: expected %d, got %d", len(chunks), len(embeddings))
	}

	chunkRecords := make([]*storage.ChunkRecord, len(chunks))
	points := make([]vectorstore.Point, len(chunks))
	for i, chunk := range chunks {
		chunkID := uuid.New().String()

		chunkRecords[i] = &storage.ChunkRecord{
			ID:         chunkID,
			FileID:     file.ID,
			Content:    chunk.Content,
			ChunkIndex: chunk.Index,
			StartIndex: chunk.Metadata.StartIndex,
			EndIndex:   chunk.Metadata.EndIndex,
			Length:     chunk.Metadata.Length,
			WordCount:  chunk.Metadata.WordCount,
		}

		points[i] = vectorstore.Point{
			ID:  chunkID,
			Vec: embeddings[i],
			Meta: map[string]any{
				"file_id":     file.ID,
				"filename":    file.Filename,
				"chunk_index": chunk.Index,
				"start_index": chunk.Metadata.StartIndex,
				"end_index":   chunk.Metadata.EndIndex,
				"word_count":  chunk.Metadata.WordCount,
			},
		}
	}

	// Single-transaction insert: either the whole chunk set commits or none of it.
	if err := p.chunkRepo.InsertBatch(ctx, chunkRecords); err != nil {
		return fmt.Errorf("failed to insert chunks: %w", err)
	}

	if err := p.vectorStore.Upsert(ctx, p.collection, points); err != nil {
		// Compensate so no partial chunk set stays visible.
		if delErr := p.chunkRepo.DeleteByFile(ctx, file.ID); delErr != nil {
			logger.ErrorContext(ctx, "failed to roll back chunk insert", "file_id", file.ID, "error", delErr)
		}
		return fmt.Errorf("failed to upsert vectors: %w", err)
	}

	if err := p.fileRepo.MarkProcessed(ctx, file.ID, true); err != nil {
		return fmt.Errorf("failed to mark file processed: %w", err)
	}

	logger.InfoContext(ctx, "indexed file", "file_id", file.ID, "filename", file.Filename, "chunks", len(chunks))
	return nil
}

// deleteChunks removes a file's chunks from the vector store and the
// database. The caller must hold the file's single-flight slot.
func (p *Pipeline) deleteChunks(ctx context.Context, fileID string) error {
	logger := contextutil.LoggerFromContext(ctx)

	ids, err := p.chunkRepo.ListIDsByFile(ctx, fileID)
	if err != nil {
		return fmt.Errorf("failed to list chunk IDs: %w", err)
	}
	if len(ids) == 0 {
		return nil
	}

	if err := p.vectorStore.Delete(ctx, p.collection, ids); err != nil {
		logger.WarnContext(ctx, "failed to delete old vectors", "file_id", fileID, "count", len(ids), "error", err)
		// Continue anyway - the fresh upsert overwrites stale points by ID
		// and orphans are unreachable once the rows are gone.
	}

	if err := p.chunkRepo.DeleteByFile(ctx, fileID); err != nil {
		return fmt.Errorf("failed to delete chunks: %w", err)
	}

	logger.InfoContext(ctx, "deleted chunk set", "file_id", fileID, "count", len(ids))
	return nil
}
