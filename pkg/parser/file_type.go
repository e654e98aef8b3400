package parser

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnsupportedFileType = errors.New("unsupported file type")

// FileType is the closed set of formats the ingestion pipeline accepts.
type FileType string

const (
	FileTypePDF  FileType = "pdf"
	FileTypeTXT  FileType = "txt"
	FileTypeMD   FileType = "md"
	FileTypeDOCX FileType = "docx"
)

// ParseFileType maps a declared type string (including the "text" and
// "markdown" aliases) onto the enum.
func ParseFileType(s string) (FileType, error) {
	switch strings.ToLower(s) {
	case "pdf":
		return FileTypePDF, nil
	case "txt", "text":
		return FileTypeTXT, nil
	case "md", "markdown":
		return FileTypeMD, nil
	case "docx":
		return FileTypeDOCX, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFileType, s)
	}
}

// FileTypeFromName derives the declared type from a filename extension.
func FileTypeFromName(filename string) (FileType, error) {
	idx := strings.LastIndex(filename, ".")
	if idx == -1 || idx == len(filename)-1 {
		return "", fmt.Errorf("%w: no extension on %s", ErrUnsupportedFileType, filename)
	}
	return ParseFileType(filename[idx+1:])
}

// IsSupportedFileName reports whether the filename's extension maps to
// a supported type.
func IsSupportedFileName(filename string) bool {
	_, err := FileTypeFromName(filename)
	return err == nil
}
