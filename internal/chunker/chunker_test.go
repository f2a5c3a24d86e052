package chunker

import (
	"strings"
	"testing"
)

func TestSplit_Empty(t *testing.T) {
	if chunks := Split("", DefaultOptions()); len(chunks) != 0 {
		t.Errorf("Split() on empty text = %d chunks, want 0", len(chunks))
	}
}

func TestSplit_WhitespaceOnly(t *testing.T) {
	if chunks := Split("   \n\t  \n   ", DefaultOptions()); len(chunks) != 0 {
		t.Errorf("Split() on whitespace-only text = %d chunks, want 0", len(chunks))
	}
}

func TestSplit_ShortText(t *testing.T) {
	text := "A short note that fits in one chunk."
	chunks := Split(text, DefaultOptions())

	if len(chunks) != 1 {
		t.Fatalf("Split() = %d chunks, want 1", len(chunks))
	}
	if chunks[0].Content != text {
		t.Errorf("Split() content = %q, want %q", chunks[0].Content, text)
	}
	if chunks[0].Index != 0 {
		t.Errorf("Split() index = %d, want 0", chunks[0].Index)
	}
	if chunks[0].Metadata.WordCount != 8 {
		t.Errorf("Split() word count = %d, want 8", chunks[0].Metadata.WordCount)
	}
}

func TestSplit_MaxChunksTruncation(t *testing.T) {
	// 10k characters with no boundaries, chunk size 100, no overlap:
	// text past the fifth chunk is silently dropped.
	text := strings.Repeat("a", 10000)
	chunks := Split(text, Options{ChunkSize: 100, ChunkOverlap: 0, MaxChunks: 5})

	if len(chunks) != 5 {
		t.Fatalf("Split() = %d chunks, want exactly 5", len(chunks))
	}
	for i, c := range chunks {
		if c.Metadata.Length != 100 {
			t.Errorf("chunk %d length = %d, want 100", i, c.Metadata.Length)
		}
	}
	if last := chunks[4].Metadata.EndIndex; last != 500 {
		t.Errorf("last chunk end index = %d, want 500", last)
	}
}

func TestSplit_DenseIndices(t *testing.T) {
	text := strings.Repeat("Some words to split across several chunks. ", 50)
	chunks := Split(text, Options{ChunkSize: 120, ChunkOverlap: 20, MaxChunks: 100})

	if len(chunks) < 2 {
		t.Fatalf("Split() = %d chunks, want several", len(chunks))
	}
	for i, c := range chunks {
		if c.Index != i {
			t.Errorf("chunk %d has index %d, indices must be dense", i, c.Index)
		}
	}
}

func TestSplit_SentenceBoundaryPreferred(t *testing.T) {
	// The sentence ends at 80% of the chunk size, past the 70% floor, so the
	// cut must land right after the terminator.
	sentence := strings.Repeat("x", 79) + "."
	text := sentence + " More text follows here and keeps going for a while after the break."
	chunks := Split(text, Options{ChunkSize: 100, ChunkOverlap: 0, MaxChunks: 100})

	if len(chunks) < 2 {
		t.Fatalf("Split() = %d chunks, want at least 2", len(chunks))
	}
	if !strings.HasSuffix(chunks[0].Content, ".") {
		t.Errorf("first chunk = %q, want a sentence-terminated cut", chunks[0].Content)
	}
	if chunks[0].Metadata.EndIndex != 80 {
		t.Errorf("first chunk end index = %d, want 80", chunks[0].Metadata.EndIndex)
	}
}

func TestSplit_WordBoundaryFallback(t *testing.T) {
	// No sentence terminators anywhere: every cut should land on a space,
	// so no chunk may contain a broken word.
	text := strings.TrimSpace(strings.Repeat("word ", 200))
	chunks := Split(text, Options{ChunkSize: 97, ChunkOverlap: 0, MaxChunks: 100})

	if len(chunks) < 2 {
		t.Fatalf("Split() = %d chunks, want several", len(chunks))
	}
	for i, c := range chunks {
		for _, w := range strings.Fields(c.Content) {
			if w != "word" {
				t.Fatalf("chunk %d contains split word %q", i, w)
			}
		}
	}
}

func TestSplit_HardCutLastResort(t *testing.T) {
	// A single unbroken run has no boundaries at all; the hard cut applies.
	text := strings.Repeat("b", 250)
	chunks := Split(text, Options{ChunkSize: 100, ChunkOverlap: 0, MaxChunks: 100})

	if len(chunks) != 3 {
		t.Fatalf("Split() = %d chunks, want 3", len(chunks))
	}
	if chunks[0].Metadata.EndIndex != 100 {
		t.Errorf("first chunk end index = %d, want hard cut at 100", chunks[0].Metadata.EndIndex)
	}
}

func TestSplit_OverlapAndProgress(t *testing.T) {
	text := strings.Repeat("c", 300)
	opts := Options{ChunkSize: 50, ChunkOverlap: 10, MaxChunks: 100}
	chunks := Split(text, opts)

	if len(chunks) < 3 {
		t.Fatalf("Split() = %d chunks, want at least 3", len(chunks))
	}
	for i := 1; i < len(chunks); i++ {
		prev, cur := chunks[i-1], chunks[i]
		if cur.Metadata.StartIndex <= prev.Metadata.StartIndex {
			t.Errorf("chunk %d start %d does not advance past chunk %d start %d",
				i, cur.Metadata.StartIndex, i-1, prev.Metadata.StartIndex)
		}
		if cur.Metadata.StartIndex >= prev.Metadata.EndIndex {
			t.Errorf("chunk %d start %d leaves a gap after chunk %d end %d",
				i, cur.Metadata.StartIndex, i-1, prev.Metadata.EndIndex)
		}
		if got := prev.Metadata.EndIndex - cur.Metadata.StartIndex; got != opts.ChunkOverlap {
			t.Errorf("chunk %d overlap = %d, want %d", i, got, opts.ChunkOverlap)
		}
	}
}

func TestSplit_OverlapLargerThanChunkStillAdvances(t *testing.T) {
	// Pathological config: overlap >= chunk size must not loop forever.
	text := strings.Repeat("d", 40)
	chunks := Split(text, Options{ChunkSize: 10, ChunkOverlap: 10, MaxChunks: 1000})

	if len(chunks) == 0 {
		t.Fatal("Split() returned no chunks")
	}
	for i := 1; i < len(chunks); i++ {
		if chunks[i].Metadata.StartIndex != chunks[i-1].Metadata.StartIndex+1 {
			t.Errorf("chunk %d start = %d, want minimal forward progress from %d",
				i, chunks[i].Metadata.StartIndex, chunks[i-1].Metadata.StartIndex)
		}
	}
}

func TestSplit_CoverageEndToEnd(t *testing.T) {
	// Mixed prose with sentences, split small enough to exercise every cut
	// strategy. Every character of the text must be covered by some chunk
	// span and the full set must reach the end of the text.
	text := strings.Repeat("The pump failed again today. Replacing the seal fixed it for now. ", 5)
	text = strings.TrimSpace(text)
	chunks := Split(text, Options{ChunkSize: 50, ChunkOverlap: 10, MaxChunks: 100})

	if len(chunks) < 3 {
		t.Fatalf("Split() = %d chunks, want at least 3", len(chunks))
	}

	covered := chunks[0].Metadata.EndIndex
	if chunks[0].Metadata.StartIndex != 0 {
		t.Errorf("first chunk starts at %d, want 0", chunks[0].Metadata.StartIndex)
	}
	for i := 1; i < len(chunks); i++ {
		if chunks[i].Metadata.StartIndex > covered {
			t.Errorf("gap before chunk %d: start %d > covered %d", i, chunks[i].Metadata.StartIndex, covered)
		}
		if chunks[i].Metadata.EndIndex > covered {
			covered = chunks[i].Metadata.EndIndex
		}
	}
	if covered != len(text) {
		t.Errorf("chunks cover up to %d, want %d", covered, len(text))
	}
}

func TestSplit_DefaultsApplied(t *testing.T) {
	text := strings.Repeat("e", 2500)
	chunks := Split(text, Options{})

	// Zero options fall back to the package defaults.
	if len(chunks) == 0 {
		t.Fatal("Split() returned no chunks")
	}
	if chunks[0].Metadata.EndIndex != DefaultChunkSize {
		t.Errorf("first chunk end = %d, want default chunk size %d", chunks[0].Metadata.EndIndex, DefaultChunkSize)
	}
}
