package parser

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
)

const docxMainPart = "word/document.xml"

var docxNewlineRuns = regexp.MustCompile(`\n{3,}`)

// parseDOCX unpacks the OOXML container and strips markup from the main
// document part. Paragraph ends and explicit breaks become newlines,
// tab markers become tabs.
func parseDOCX(data []byte) (*ParsedDocument, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &ParseError{FileType: FileTypeDOCX, Err: fmt.Errorf("open container: %w", err)}
	}

	var mainPart []byte
	for _, f := range zr.File {
		if f.Name == docxMainPart {
			rc, err := f.Open()
			if err != nil {
				return nil, &ParseError{FileType: FileTypeDOCX, Err: err}
			}
			mainPart, err = io.ReadAll(rc)
			rc.Close()
			if err != nil {
				return nil, &ParseError{FileType: FileTypeDOCX, Err: err}
			}
			break
		}
	}
	if mainPart == nil {
		return nil, &ParseError{FileType: FileTypeDOCX, Err: errors.New("missing " + docxMainPart)}
	}

	content, err := extractDocumentText(mainPart)
	if err != nil {
		return nil, &ParseError{FileType: FileTypeDOCX, Err: err}
	}

	return &ParsedDocument{
		Content:  content,
		Metadata: Metadata{WordCount: CountWords(content)},
	}, nil
}

func extractDocumentText(mainPart []byte) (string, error) {
	dec := xml.NewDecoder(bytes.NewReader(mainPart))

	var sb strings.Builder
	inText := false

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("decode document xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "br":
				sb.WriteString("\n")
			case "tab":
				sb.WriteString("\t")
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				sb.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}

	return docxNewlineRuns.ReplaceAllString(sb.String(), "\n\n"), nil
}
