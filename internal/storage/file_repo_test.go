package storage

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"fieldservice-ai/internal/service"
)

func TestErrNotFound_MatchesServiceSentinel(t *testing.T) {
	if !errors.Is(ErrNotFound, service.ErrNotFound) {
		t.Error("storage.ErrNotFound must match service.ErrNotFound under errors.Is")
	}
}

func insertTestFile(t *testing.T, db *sql.DB, id, filename string, processed bool) {
	t.Helper()
	_, err := db.Exec(
		`INSERT INTO files (id, filename, mime_type, file_size, is_processed, uploaded_by)
		 VALUES (?, ?, 'text/plain', 42, ?, 'tech-1')`,
		id, filename, processed,
	)
	if err != nil {
		t.Fatalf("failed to insert test file: %v", err)
	}
}

func TestFileRepo_GetByID(t *testing.T) {
	db := newTestDB(t)
	repo := NewFileRepo(db)
	ctx := context.Background()

	insertTestFile(t, db, "file-1", "report.txt", false)

	file, err := repo.GetByID(ctx, "file-1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if file.Filename != "report.txt" {
		t.Errorf("GetByID() filename = %q, want report.txt", file.Filename)
	}
	if file.IsProcessed {
		t.Error("GetByID() IsProcessed = true, want false")
	}
	if file.RelatedTaskID != "" {
		t.Errorf("GetByID() RelatedTaskID = %q, want empty for NULL column", file.RelatedTaskID)
	}
}

func TestFileRepo_GetByID_NotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewFileRepo(db)

	_, err := repo.GetByID(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID() error = %v, want ErrNotFound", err)
	}
}

func TestFileRepo_MarkProcessed(t *testing.T) {
	db := newTestDB(t)
	repo := NewFileRepo(db)
	ctx := context.Background()

	insertTestFile(t, db, "file-1", "report.txt", false)

	if err := repo.MarkProcessed(ctx, "file-1", true); err != nil {
		t.Fatalf("MarkProcessed() error = %v", err)
	}
	file, err := repo.GetByID(ctx, "file-1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if !file.IsProcessed {
		t.Error("MarkProcessed() did not set the flag")
	}

	if err := repo.MarkProcessed(ctx, "file-1", false); err != nil {
		t.Fatalf("MarkProcessed() clear error = %v", err)
	}
	file, _ = repo.GetByID(ctx, "file-1")
	if file.IsProcessed {
		t.Error("MarkProcessed() did not clear the flag")
	}
}

func TestFileRepo_MarkProcessed_NotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewFileRepo(db)

	err := repo.MarkProcessed(context.Background(), "missing", true)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("MarkProcessed() error = %v, want ErrNotFound", err)
	}
}
