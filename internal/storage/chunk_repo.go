package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_chunk_store.go -package=mocks fieldservice-ai/internal/storage ChunkStore

import (
	"context"
	"database/sql"
	"fmt"
)

// ChunkStore defines the interface for chunk storage operations.
type ChunkStore interface {
	// InsertBatch inserts all chunks for a file in a single transaction.
	// Either every chunk is committed or none are.
	InsertBatch(ctx context.Context, chunks []*ChunkRecord) error
	// DeleteByFile deletes all chunks for a given file ID.
	DeleteByFile(ctx context.Context, fileID string) error
	// ListByFile returns all chunks for a file, ordered by chunk_index.
	ListByFile(ctx context.Context, fileID string) ([]*ChunkRecord, error)
	// ListIDsByFile returns all chunk IDs for a file, ordered by chunk_index.
	ListIDsByFile(ctx context.Context, fileID string) ([]string, error)
	// GetByID gets a chunk by its ID. Returns ErrNotFound if not found.
	GetByID(ctx context.Context, id string) (*ChunkRecord, error)
}

// ChunkRepo provides methods for chunk operations.
// It implements the ChunkStore interface.
type ChunkRepo struct {
	db *sql.DB
}

// NewChunkRepo creates a new ChunkRepo.
func NewChunkRepo(db *sql.DB) *ChunkRepo {
	return &ChunkRepo{db: db}
}

// InsertBatch inserts all chunks for a file in a single transaction.
// Chunk IDs must be set (UUID) before calling this method.
func (r *ChunkRepo) InsertBatch(ctx context.Context, chunks []*ChunkRecord) error {
	if len(chunks) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO chunks (id, file_id, content, chunk_index, start_index, end_index, length, word_count)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() {
		_ = stmt.Close()
	}()

	for _, chunk := range chunks {
		if _, err := stmt.ExecContext(ctx,
			chunk.ID, chunk.FileID, chunk.Content, chunk.ChunkIndex,
			chunk.StartIndex, chunk.EndIndex, chunk.Length, chunk.WordCount,
		); err != nil {
			return fmt.Errorf("failed to insert chunk %d: %w", chunk.ChunkIndex, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit chunk insert: %w", err)
	}
	return nil
}

// DeleteByFile deletes all chunks for a given file ID.
// Used when reprocessing a file to remove old chunks before inserting new ones.
func (r *ChunkRepo) DeleteByFile(ctx context.Context, fileID string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM chunks WHERE file_id = ?", fileID)
	if err != nil {
		return fmt.Errorf("failed to delete chunks by file: %w", err)
	}
	return nil
}

// ListByFile returns all chunks for a file, ordered by chunk_index.
// Returns an empty slice if no chunks exist (not an error).
func (r *ChunkRepo) ListByFile(ctx context.Context, fileID string) ([]*ChunkRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, file_id, content, chunk_index, start_index, end_index, length, word_count, created_at
		 FROM chunks WHERE file_id = ? ORDER BY chunk_index`,
		fileID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query chunks: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var chunks []*ChunkRecord
	for rows.Next() {
		var c ChunkRecord
		if err := rows.Scan(&c.ID, &c.FileID, &c.Content, &c.ChunkIndex,
			&c.StartIndex, &c.EndIndex, &c.Length, &c.WordCount, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan chunk: %w", err)
		}
		chunks = append(chunks, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return chunks, nil
}

// ListIDsByFile returns all chunk IDs for a file, ordered by chunk_index.
// Used to get vector store point IDs for deletion before reprocessing.
func (r *ChunkRepo) ListIDsByFile(ctx context.Context, fileID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id FROM chunks WHERE file_id = ? ORDER BY chunk_index",
		fileID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query chunk IDs: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan chunk ID: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return ids, nil
}

// GetByID gets a chunk by its ID. Returns ErrNotFound if not found.
func (r *ChunkRepo) GetByID(ctx context.Context, id string) (*ChunkRecord, error) {
	var c ChunkRecord
	err := r.db.QueryRowContext(ctx,
		`SELECT id, file_id, content, chunk_index, start_index, end_index, length, word_count, created_at
		 FROM chunks WHERE id = ?`,
		id,
	).Scan(&c.ID, &c.FileID, &c.Content, &c.ChunkIndex,
		&c.StartIndex, &c.EndIndex, &c.Length, &c.WordCount, &c.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query chunk: %w", err)
	}

	return &c, nil
}
