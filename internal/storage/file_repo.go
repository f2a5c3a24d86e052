package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_file_store.go -package=mocks fieldservice-ai/internal/storage FileStore

import (
	"context"
	"database/sql"
	"fmt"

	"fieldservice-ai/internal/service"
)

// ErrNotFound is returned when a requested record does not exist. It wraps
// service.ErrNotFound so handlers can match either sentinel with errors.Is.
var ErrNotFound = fmt.Errorf("record %w", service.ErrNotFound)

// FileStore defines the read/flag interface over file records.
// File upload and metadata CRUD belong to the file-management layer; the
// document pipeline only looks files up and marks them processed.
type FileStore interface {
	// GetByID gets a file record by its ID. Returns ErrNotFound if absent.
	GetByID(ctx context.Context, id string) (*FileRecord, error)
	// MarkProcessed sets the is_processed flag for a file.
	MarkProcessed(ctx context.Context, id string, processed bool) error
}

// FileRepo provides methods for file record operations.
// It implements the FileStore interface.
type FileRepo struct {
	db *sql.DB
}

// NewFileRepo creates a new FileRepo.
func NewFileRepo(db *sql.DB) *FileRepo {
	return &FileRepo{db: db}
}

// GetByID gets a file record by its ID. Returns ErrNotFound if not found.
func (r *FileRepo) GetByID(ctx context.Context, id string) (*FileRecord, error) {
	var f FileRecord
	var relatedTaskID sql.NullString
	err := r.db.QueryRowContext(ctx,
		`SELECT id, filename, mime_type, file_size, is_processed, uploaded_by, related_task_id, created_at
		 FROM files WHERE id = ?`,
		id,
	).Scan(&f.ID, &f.Filename, &f.MimeType, &f.FileSize, &f.IsProcessed, &f.UploadedBy, &relatedTaskID, &f.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query file: %w", err)
	}
	f.RelatedTaskID = relatedTaskID.String

	return &f, nil
}

// MarkProcessed sets the is_processed flag for a file.
func (r *FileRepo) MarkProcessed(ctx context.Context, id string, processed bool) error {
	res, err := r.db.ExecContext(ctx, "UPDATE files SET is_processed = ? WHERE id = ?", processed, id)
	if err != nil {
		return fmt.Errorf("failed to mark file processed: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
