package search

import "time"

// DefaultMatchThreshold is the tuned similarity floor below which matches
// are considered noise.
const DefaultMatchThreshold float32 = 0.78

// DefaultMatchCount is the default upper bound on returned results.
const DefaultMatchCount = 10

// Options are the tunable search knobs. Zero values fall back to the defaults.
type Options struct {
	MatchThreshold float32
	MatchCount     int
	FileIDs        []string
}

// Request is a semantic search request.
type Request struct {
	UserID  string
	Query   string
	Options Options
}

// FileSummary is the denormalized file context attached to each result.
type FileSummary struct {
	ID        string    `json:"id"`
	Filename  string    `json:"filename"`
	MimeType  string    `json:"mime_type"`
	CreatedAt time.Time `json:"created_at"`
}

// ResultMetadata carries the chunk's position within the source text.
type ResultMetadata struct {
	StartIndex int `json:"start_index"`
	EndIndex   int `json:"end_index"`
	Length     int `json:"length"`
	WordCount  int `json:"word_count"`
}

// Result is one ranked search hit.
type Result struct {
	ChunkID    string         `json:"chunk_id"`
	FileID     string         `json:"file_id"`
	Content    string         `json:"content"`
	Similarity float32        `json:"similarity"`
	Metadata   ResultMetadata `json:"metadata"`
	File       *FileSummary   `json:"file,omitempty"`
}

// Response is an ordered, similarity-descending result set.
type Response struct {
	Results         []Result
	Query           string
	ExecutionTimeMs int64
}
