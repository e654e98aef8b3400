package parser

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"testing"

	"kb-platform-be/pkg/storage"
)

func TestParseFileType(t *testing.T) {
	tests := []struct {
		in      string
		want    FileType
		wantErr bool
	}{
		{"pdf", FileTypePDF, false},
		{"PDF", FileTypePDF, false},
		{"txt", FileTypeTXT, false},
		{"text", FileTypeTXT, false},
		{"md", FileTypeMD, false},
		{"markdown", FileTypeMD, false},
		{"docx", FileTypeDOCX, false},
		{"exe", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseFileType(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrUnsupportedFileType) {
				t.Errorf("ParseFileType(%q) error = %v, want ErrUnsupportedFileType", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseFileType(%q) = (%q, %v), want %q", tt.in, got, err, tt.want)
		}
	}
}

func TestFileTypeFromName(t *testing.T) {
	got, err := FileTypeFromName("report.final.DOCX")
	if err != nil || got != FileTypeDOCX {
		t.Errorf("FileTypeFromName = (%q, %v), want docx", got, err)
	}

	if _, err := FileTypeFromName("noextension"); err == nil {
		t.Error("expected error for missing extension")
	}
	if IsSupportedFileName("virus.exe") {
		t.Error("exe must not be supported")
	}
}

func TestParseTXT(t *testing.T) {
	doc, err := ParseBytes([]byte("hello plain world"), FileTypeTXT)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Content != "hello plain world" {
		t.Errorf("content = %q", doc.Content)
	}
	if doc.Metadata.WordCount != 3 {
		t.Errorf("word count = %d, want 3", doc.Metadata.WordCount)
	}
}

func TestParseMDExtractsTitle(t *testing.T) {
	src := "# My Document\n\nSome body text here."
	doc, err := ParseBytes([]byte(src), FileTypeMD)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Metadata.Title != "My Document" {
		t.Errorf("title = %q, want %q", doc.Metadata.Title, "My Document")
	}
	if doc.Content != src {
		t.Errorf("content must be verbatim, got %q", doc.Content)
	}
}

func TestParseMDWithoutHeading(t *testing.T) {
	doc, err := ParseBytes([]byte("no heading here"), FileTypeMD)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Metadata.Title != "" {
		t.Errorf("title = %q, want empty", doc.Metadata.Title)
	}
}

func buildDOCX(t *testing.T, documentXML string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := w.Write([]byte(documentXML)); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func TestParseDOCXBreaksAndTabs(t *testing.T) {
	data := buildDOCX(t, `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body><w:p><w:r><w:t>Hello</w:t><w:br/><w:t>World</w:t></w:r></w:p>
<w:p><w:r><w:t>Col1</w:t><w:tab/><w:t>Col2</w:t></w:r></w:p></w:body>
</w:document>`)

	doc, err := ParseBytes(data, FileTypeDOCX)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Contains([]byte(doc.Content), []byte("Hello\nWorld")) {
		t.Errorf("explicit break not converted to newline: %q", doc.Content)
	}
	if !bytes.Contains([]byte(doc.Content), []byte("Col1\tCol2")) {
		t.Errorf("tab marker not converted: %q", doc.Content)
	}
}

func TestParseDOCXIgnoresMarkupOutsideTextRuns(t *testing.T) {
	data := buildDOCX(t, `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body><w:p><w:pPr><w:pStyle w:val="Heading1"/></w:pPr><w:r><w:t>Only this</w:t></w:r></w:p></w:body>
</w:document>`)

	doc, err := ParseBytes(data, FileTypeDOCX)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := doc.Content; got != "Only this\n" {
		t.Errorf("content = %q, want %q", got, "Only this\n")
	}
}

func TestParseDOCXCorruptContainer(t *testing.T) {
	_, err := ParseBytes([]byte("definitely not a zip"), FileTypeDOCX)

	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("error = %v, want *ParseError", err)
	}
	if parseErr.FileType != FileTypeDOCX {
		t.Errorf("file type = %q", parseErr.FileType)
	}
}

func TestParsePDFCorruptBytes(t *testing.T) {
	_, err := ParseBytes([]byte("%PDF- nope"), FileTypePDF)

	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("error = %v, want *ParseError", err)
	}
}

func TestParseUnsupportedType(t *testing.T) {
	_, err := ParseBytes([]byte("data"), FileType("xlsx"))
	if !errors.Is(err, ErrUnsupportedFileType) {
		t.Errorf("error = %v, want ErrUnsupportedFileType", err)
	}
}

func TestParserReadsFromBlobStore(t *testing.T) {
	ctx := context.Background()
	blobs := storage.NewMemoryStore()
	if _, err := blobs.Put(ctx, "uploads/note.txt", []byte("from the store"), "text/plain"); err != nil {
		t.Fatalf("put: %v", err)
	}

	p := New(blobs)
	doc, err := p.Parse(ctx, "uploads/note.txt", FileTypeTXT)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Content != "from the store" {
		t.Errorf("content = %q", doc.Content)
	}
}

func TestParserMissingBlobIsParseFailure(t *testing.T) {
	p := New(storage.NewMemoryStore())
	_, err := p.Parse(context.Background(), "missing-key", FileTypeTXT)

	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("error = %v, want *ParseError", err)
	}
}

func TestCountWords(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int
	}{
		{"empty", "", 0},
		{"latin", "one two three", 3},
		{"han", "你好世界", 4},
		{"mixed", "Go语言 is fun", 5},
		{"punctuation", "a, b; c.", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CountWords(tt.in); got != tt.want {
				t.Errorf("CountWords(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}
