// Package chunker splits normalized document text into overlapping,
// boundary-aware segments for independent embedding and retrieval.
package chunker

import (
	"math"
	"regexp"
	"strings"
	"unicode/utf8"
)

type Options struct {
	ChunkSize    int
	ChunkOverlap int
	Separators   []string
}

type Chunk struct {
	Content     string
	Index       int
	StartOffset int // rune offset into the cleaned text
	EndOffset   int
	CharCount   int
}

const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200

	// How far back from the window end we look for a cut point.
	separatorSearchWindow = 200
)

// DefaultSeparators in priority order: paragraph/newline breaks over
// sentence punctuation (CJK and Latin) over plain whitespace.
var DefaultSeparators = []string{"\n\n", "\n", "。", ".", "！", "!", "？", "?", "；", ";", " "}

var (
	whitespaceRuns = regexp.MustCompile(`\s+`)
	newlineRuns    = regexp.MustCompile(`\n{3,}`)
)

// Clean normalizes text before splitting: whitespace runs collapse to a
// single space, 3+ newlines collapse to 2, ends are trimmed. Lossy on
// purpose; retrieval is tolerant of the lost formatting.
func Clean(text string) string {
	t := whitespaceRuns.ReplaceAllString(text, " ")
	t = newlineRuns.ReplaceAllString(t, "\n\n")
	return strings.TrimSpace(t)
}

func (o Options) withDefaults() Options {
	if o.ChunkSize <= 0 {
		o.ChunkSize = DefaultChunkSize
	}
	if o.ChunkOverlap <= 0 {
		o.ChunkOverlap = DefaultChunkOverlap
	}
	if len(o.Separators) == 0 {
		o.Separators = DefaultSeparators
	}
	return o
}

// Split divides text into chunks of at most ChunkSize runes with
// ChunkOverlap runes shared between consecutive chunks. When a window
// does not end at the text end, the cut is moved back to the first
// separator (in priority order) found within the trailing search window,
// so chunks avoid breaking mid-sentence. Indices are assigned 0..N-1 in
// traversal order; whitespace-only segments are skipped without
// consuming an index.
func Split(text string, opts Options) []Chunk {
	opts = opts.withDefaults()

	cleaned := Clean(text)
	if cleaned == "" {
		return nil
	}

	runes := []rune(cleaned)
	total := len(runes)

	if total <= opts.ChunkSize {
		return []Chunk{{
			Content:     cleaned,
			Index:       0,
			StartOffset: 0,
			EndOffset:   total,
			CharCount:   total,
		}}
	}

	var chunks []Chunk
	cursor := 0
	index := 0
	lastStart := -1

	for cursor < total {
		end := cursor + opts.ChunkSize
		if end > total {
			end = total
		}

		// Not the last window: prefer cutting at a separator.
		if end < total {
			searchStart := cursor + opts.ChunkSize - separatorSearchWindow
			if searchStart < cursor {
				searchStart = cursor
			}
			if pos := findCut(runes[searchStart:end], opts.Separators); pos != -1 {
				end = searchStart + pos + 1
			}
		}

		content := strings.TrimSpace(string(runes[cursor:end]))
		if content != "" {
			chunks = append(chunks, Chunk{
				Content:     content,
				Index:       index,
				StartOffset: cursor,
				EndOffset:   end,
				CharCount:   utf8.RuneCountInString(content),
			})
			index++
			lastStart = cursor
		}

		next := end - opts.ChunkOverlap
		// Force advancement when overlap would revisit the previous start
		// (or stall entirely on a skipped segment).
		if lastStart >= 0 && next <= lastStart {
			next = end
		}
		if next <= cursor {
			next = end
		}
		cursor = next
	}

	return chunks
}

// findCut returns the rune position of the highest-priority separator in
// the window, or -1. The first separator in priority order that appears
// anywhere in the window wins; its last occurrence is used.
func findCut(window []rune, separators []string) int {
	s := string(window)
	for _, sep := range separators {
		if byteIdx := strings.LastIndex(s, sep); byteIdx != -1 {
			return utf8.RuneCountInString(s[:byteIdx])
		}
	}
	return -1
}

// EstimateTokens gives a rough token count: Han characters weigh 1.5
// tokens, everything else a quarter token. Approximate by design; never
// use it for billing-grade accounting.
func EstimateTokens(text string) int {
	han := 0
	other := 0
	for _, r := range text {
		if r >= 0x4e00 && r <= 0x9fa5 {
			han++
		} else {
			other++
		}
	}
	return int(math.Ceil(float64(han)*1.5 + float64(other)/4))
}

// SplitByTokens chunks by an estimated token budget: it derives an
// average chars-per-token ratio for the whole text and delegates to the
// character-based Split with scaled sizes.
func SplitByTokens(text string, maxTokens, overlapTokens int) []Chunk {
	if maxTokens <= 0 {
		maxTokens = 500
	}
	if overlapTokens < 0 {
		overlapTokens = 50
	}

	tokens := EstimateTokens(text)
	if tokens == 0 {
		return nil
	}

	avgCharsPerToken := float64(utf8.RuneCountInString(text)) / float64(tokens)

	return Split(text, Options{
		ChunkSize:    int(float64(maxTokens) * avgCharsPerToken),
		ChunkOverlap: int(float64(overlapTokens) * avgCharsPerToken),
	})
}
