// Package parser extracts plain text and light metadata from uploaded
// file blobs, dispatching on the declared file type.
package parser

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"

	"kb-platform-be/pkg/storage"

	"github.com/ledongthuc/pdf"
)

type Metadata struct {
	PageCount int    // 0 for unpaged formats
	WordCount int
	Title     string // only derived for markdown
}

type ParsedDocument struct {
	Content  string
	Metadata Metadata
}

// ParseError marks a terminal parse-stage failure for a file's
// pipeline run, carrying the original cause.
type ParseError struct {
	FileType FileType
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.FileType, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

type Parser struct {
	blobs storage.BlobStore
}

func New(blobs storage.BlobStore) *Parser {
	return &Parser{blobs: blobs}
}

// Parse fetches the blob and extracts text for the declared type. Pure
// function of (bytes, type) beyond the blob read; blob-store errors
// surface as parse failures.
func (p *Parser) Parse(ctx context.Context, blobKey string, fileType FileType) (*ParsedDocument, error) {
	data, err := p.blobs.Get(ctx, blobKey)
	if err != nil {
		return nil, &ParseError{FileType: fileType, Err: fmt.Errorf("fetch blob: %w", err)}
	}
	return ParseBytes(data, fileType)
}

// ParseBytes dispatches raw bytes to the type-specific extractor.
func ParseBytes(data []byte, fileType FileType) (*ParsedDocument, error) {
	switch fileType {
	case FileTypePDF:
		return parsePDF(data)
	case FileTypeTXT:
		return parseTXT(data)
	case FileTypeMD:
		return parseMD(data)
	case FileTypeDOCX:
		return parseDOCX(data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFileType, fileType)
	}
}

func parsePDF(data []byte) (*ParsedDocument, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &ParseError{FileType: FileTypePDF, Err: err}
	}

	pageCount := reader.NumPage()
	var sb strings.Builder
	for i := 1; i <= pageCount; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, &ParseError{FileType: FileTypePDF, Err: fmt.Errorf("page %d: %w", i, err)}
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}

	content := sb.String()
	return &ParsedDocument{
		Content: content,
		Metadata: Metadata{
			PageCount: pageCount,
			WordCount: CountWords(content),
		},
	}, nil
}

func parseTXT(data []byte) (*ParsedDocument, error) {
	text := string(data)
	return &ParsedDocument{
		Content:  text,
		Metadata: Metadata{WordCount: CountWords(text)},
	}, nil
}

var mdTitlePattern = regexp.MustCompile(`(?m)^#\s+(.+)$`)

func parseMD(data []byte) (*ParsedDocument, error) {
	text := string(data)

	var title string
	if m := mdTitlePattern.FindStringSubmatch(text); m != nil {
		title = strings.TrimSpace(m[1])
	}

	return &ParsedDocument{
		Content: text,
		Metadata: Metadata{
			WordCount: CountWords(text),
			Title:     title,
		},
	}, nil
}

var latinWordPattern = regexp.MustCompile(`[a-zA-Z]+`)

// CountWords approximates a mixed CJK/Latin word count: Han characters
// count individually, Latin word runs count once each. Not a
// locale-correct tokenizer.
func CountWords(text string) int {
	han := 0
	for _, r := range text {
		if r >= 0x4e00 && r <= 0x9fa5 {
			han++
		}
	}
	return han + len(latinWordPattern.FindAllStringIndex(text, -1))
}
