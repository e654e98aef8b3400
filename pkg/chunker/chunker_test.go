package chunker

import (
	"strings"
	"testing"
)

func TestCleanCollapsesWhitespace(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "hello world", "hello world"},
		{"spaces", "a   b\t\tc", "a b c"},
		{"newlines", "a\n\n\n\nb", "a b"},
		{"trim", "  padded  ", "padded"},
		{"empty", "   \n\t ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clean(tt.in); got != tt.want {
				t.Errorf("Clean(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSplitShortTextReturnsSingleChunk(t *testing.T) {
	text := "A short note."
	chunks := Split(text, Options{ChunkSize: 100, ChunkOverlap: 20})

	if len(chunks) != 1 {
		t.Fatalf("chunk count = %d, want 1", len(chunks))
	}
	if chunks[0].Content != text {
		t.Errorf("content = %q, want %q", chunks[0].Content, text)
	}
	if chunks[0].Index != 0 || chunks[0].StartOffset != 0 || chunks[0].EndOffset != len([]rune(text)) {
		t.Errorf("offsets = (%d, %d, %d), want (0, 0, %d)",
			chunks[0].Index, chunks[0].StartOffset, chunks[0].EndOffset, len([]rune(text)))
	}
}

func TestSplitEmptyText(t *testing.T) {
	if chunks := Split("   \n\n ", Options{}); chunks != nil {
		t.Errorf("expected nil chunks for whitespace-only input, got %d", len(chunks))
	}
}

func TestSplitPrefersSentenceBoundaries(t *testing.T) {
	// Paragraph breaks collapse to spaces during cleaning, so the cut
	// points land on the sentence periods.
	text := "Para one.\n\nPara two.\n\nPara three."
	chunks := Split(text, Options{ChunkSize: 15, ChunkOverlap: 5})

	if len(chunks) < 3 {
		t.Fatalf("chunk count = %d, want >= 3", len(chunks))
	}
	if chunks[0].Content != "Para one." {
		t.Errorf("first chunk = %q, want %q", chunks[0].Content, "Para one.")
	}
	for _, c := range chunks {
		if c.CharCount > 15 {
			t.Errorf("chunk %d is %d chars, want <= 15: %q", c.Index, c.CharCount, c.Content)
		}
		if !strings.HasSuffix(c.Content, ".") {
			t.Errorf("chunk %d does not end at a sentence boundary: %q", c.Index, c.Content)
		}
	}
}

func TestSplitIndexContiguity(t *testing.T) {
	text := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 60)
	chunks := Split(text, Options{ChunkSize: 200, ChunkOverlap: 40})

	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if c.Index != i {
			t.Errorf("chunk at position %d has index %d", i, c.Index)
		}
	}
}

func TestSplitCoversCleanedTextWithoutGaps(t *testing.T) {
	text := strings.Repeat("Sentence number one is here. Sentence number two follows it. ", 40)
	chunks := Split(text, Options{ChunkSize: 150, ChunkOverlap: 30})

	cleaned := []rune(Clean(text))

	if chunks[0].StartOffset != 0 {
		t.Errorf("first chunk starts at %d, want 0", chunks[0].StartOffset)
	}
	last := chunks[len(chunks)-1]
	if last.EndOffset != len(cleaned) {
		t.Errorf("last chunk ends at %d, want %d", last.EndOffset, len(cleaned))
	}
	for i := 1; i < len(chunks); i++ {
		if chunks[i].StartOffset > chunks[i-1].EndOffset {
			t.Errorf("gap between chunk %d (ends %d) and chunk %d (starts %d)",
				i-1, chunks[i-1].EndOffset, i, chunks[i].StartOffset)
		}
	}
}

func TestSplitConsecutiveChunksOverlap(t *testing.T) {
	text := strings.Repeat("abcdefghij ", 100)
	chunks := Split(text, Options{ChunkSize: 100, ChunkOverlap: 25})

	for i := 1; i < len(chunks); i++ {
		if chunks[i].StartOffset >= chunks[i-1].EndOffset {
			t.Errorf("chunk %d shares no window with its predecessor", i)
		}
	}
}

func TestSplitGuardsAgainstStalledCursor(t *testing.T) {
	// Overlap >= effective window must still terminate.
	text := strings.Repeat("x", 500)
	chunks := Split(text, Options{ChunkSize: 50, ChunkOverlap: 50})

	if len(chunks) == 0 {
		t.Fatal("expected chunks")
	}
	if got := chunks[len(chunks)-1].EndOffset; got != 500 {
		t.Errorf("final offset = %d, want 500", got)
	}
}

func TestEstimateTokens(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int
	}{
		{"empty", "", 0},
		{"latin", "abcd", 1},
		{"han", "你好", 3},
		{"mixed", "你好ab", 4}, // 2*1.5 + 2/4, ceil
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EstimateTokens(tt.in); got != tt.want {
				t.Errorf("EstimateTokens(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestSplitByTokens(t *testing.T) {
	text := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 80)
	chunks := SplitByTokens(text, 100, 10)

	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	// 100 tokens of pure Latin text is roughly 400 chars.
	for _, c := range chunks {
		if c.CharCount > 450 {
			t.Errorf("chunk %d is %d chars, exceeds the scaled budget", c.Index, c.CharCount)
		}
	}

	if got := SplitByTokens("", 100, 10); got != nil {
		t.Errorf("expected nil for empty input, got %d chunks", len(got))
	}
}
