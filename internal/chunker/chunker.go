package chunker

import (
	"strings"
)

const (
	// DefaultChunkSize is the target chunk length in characters.
	DefaultChunkSize = 1000
	// DefaultChunkOverlap is how many trailing characters each chunk shares
	// with the next one.
	DefaultChunkOverlap = 200
	// DefaultMaxChunks caps how many chunks a single document may produce.
	// Text beyond the cap is silently truncated; callers needing full
	// coverage must raise MaxChunks.
	DefaultMaxChunks = 100

	// sentenceBoundaryRatio is the minimum fraction of the chunk size a
	// sentence-terminated cut must preserve to be used.
	sentenceBoundaryRatio = 0.7
	// wordBoundaryRatio is the minimum fraction of the chunk size a
	// word-boundary cut must preserve to be used.
	wordBoundaryRatio = 0.5
)

// Metadata carries a chunk's position within the original extracted text.
type Metadata struct {
	StartIndex int `json:"start_index"`
	EndIndex   int `json:"end_index"`
	Length     int `json:"length"`
	WordCount  int `json:"word_count"`
}

// Chunk is a bounded, positionally tracked segment of a document's text.
type Chunk struct {
	Content  string
	Index    int
	Metadata Metadata
}

// Options controls chunk sizing. Non-positive ChunkSize and MaxChunks fall
// back to the defaults. ChunkOverlap defaults only when negative; zero
// overlap is honored.
type Options struct {
	ChunkSize    int
	ChunkOverlap int
	MaxChunks    int
}

// DefaultOptions returns the production chunking configuration.
func DefaultOptions() Options {
	return Options{
		ChunkSize:    DefaultChunkSize,
		ChunkOverlap: DefaultChunkOverlap,
		MaxChunks:    DefaultMaxChunks,
	}
}

func (o Options) normalized() Options {
	if o.ChunkSize <= 0 {
		o.ChunkSize = DefaultChunkSize
	}
	if o.ChunkOverlap < 0 {
		o.ChunkOverlap = DefaultChunkOverlap
	}
	if o.MaxChunks <= 0 {
		o.MaxChunks = DefaultMaxChunks
	}
	return o
}

// Split divides text into overlapping, boundary-aware chunks.
// It is a pure function of its input: sentence terminators are preferred
// cut points, then word boundaries, then a hard cut at ChunkSize. Chunk
// indices are dense (0..N-1); all-whitespace slices are skipped without
// consuming an index slot.
func Split(text string, opts Options) []Chunk {
	if len(text) == 0 {
		return nil
	}
	opts = opts.normalized()

	var chunks []Chunk
	startIndex := 0
	chunkIndex := 0

	for startIndex < len(text) && chunkIndex < opts.MaxChunks {
		endIndex := startIndex + opts.ChunkSize
		if endIndex > len(text) {
			endIndex = len(text)
		}

		if endIndex < len(text) {
			endIndex = adjustToBoundary(text, startIndex, endIndex, opts.ChunkSize)
		}

		content := strings.TrimSpace(text[startIndex:endIndex])
		if content != "" {
			chunks = append(chunks, Chunk{
				Content: content,
				Index:   chunkIndex,
				Metadata: Metadata{
					StartIndex: startIndex,
					EndIndex:   endIndex,
					Length:     len(content),
					WordCount:  len(strings.Fields(content)),
				},
			})
			chunkIndex++
		}

		// Advance with overlap, but always make forward progress even when
		// the overlap is as large as the chunk itself.
		next := endIndex - opts.ChunkOverlap
		if next < startIndex+1 {
			next = startIndex + 1
		}
		startIndex = next
	}

	return chunks
}

// adjustToBoundary moves a tentative end index back to the nearest sentence
// terminator, provided the cut keeps at least 70% of the target size, or
// failing that to the nearest space keeping at least 50%. Otherwise the
// hard cut stands (a mid-word break is the last resort).
func adjustToBoundary(text string, startIndex, endIndex, chunkSize int) int {
	sentenceFloor := startIndex + int(sentenceBoundaryRatio*float64(chunkSize))
	for i := endIndex - 1; i > startIndex; i-- {
		c := text[i]
		if c == '.' || c == '?' || c == '!' {
			if i > sentenceFloor {
				return i + 1
			}
			break
		}
	}

	wordFloor := startIndex + int(wordBoundaryRatio*float64(chunkSize))
	for i := endIndex - 1; i > startIndex; i-- {
		if text[i] == ' ' {
			if i > wordFloor {
				return i
			}
			break
		}
	}

	return endIndex
}
