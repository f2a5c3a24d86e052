package storage

import "time"

// FileRecord represents an uploaded file in the database.
// The record is owned by the file-management layer; this subsystem reads it
// and flips IsProcessed once the file's chunk set has been committed.
type FileRecord struct {
	ID            string // UUID
	Filename      string
	MimeType      string
	FileSize      int64
	IsProcessed   bool
	UploadedBy    string
	RelatedTaskID string // Optional, empty when the file is not attached to a task
	CreatedAt     time.Time
}

// ChunkRecord represents one indexed chunk of a file's extracted text.
// Chunks are immutable once written; reprocessing a file replaces the
// whole set.
type ChunkRecord struct {
	ID         string // UUID (same as the vector store point ID)
	FileID     string // UUID (foreign key to files.id)
	Content    string // Trimmed, non-empty chunk text
	ChunkIndex int    // Dense 0-based index within the file
	StartIndex int    // Offset into the original extracted text
	EndIndex   int
	Length     int
	WordCount  int
	CreatedAt  time.Time
}

// SearchAnalyticsEntry records a single executed search.
type SearchAnalyticsEntry struct {
	ID                  string // UUID
	UserID              string
	Query               string
	ResultsCount        int
	SimilarityThreshold float32
	ExecutionTimeMs     int64
	ClickedResultIDs    []string // Deduplicated set of clicked chunk IDs
	CreatedAt           time.Time
}

// SavedQueryFilters holds the search options persisted with a saved query.
type SavedQueryFilters struct {
	MatchThreshold float32  `json:"match_threshold,omitempty"`
	MatchCount     int      `json:"match_count,omitempty"`
	FileIDs        []string `json:"file_ids,omitempty"`
}

// SavedQuery is a user-saved search, scoped to its owner.
type SavedQuery struct {
	ID         string // UUID
	UserID     string
	Name       string
	Query      string
	Filters    SavedQueryFilters
	UseCount   int
	LastUsedAt *time.Time
	CreatedAt  time.Time
}

// QuerySummary aggregates a user's search activity over a window.
type QuerySummary struct {
	TotalSearches    int
	UniqueQueries    int
	AvgResultsCount  float64
	AvgExecutionTime float64
	TotalClicks      int
}

// PopularQuery is a query string with its usage count.
type PopularQuery struct {
	Query string
	Count int
}

// PerformanceMetrics aggregates execution-time statistics across all
// recorded searches.
type PerformanceMetrics struct {
	TotalSearches   int
	AvgExecutionMs  float64
	MaxExecutionMs  int64
	ZeroResultRate  float64
	AvgResultsCount float64
}
