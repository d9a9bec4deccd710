package extract

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/parafile/parafile/internal/common"
)

// DOCXExtractor reads Word documents.
type DOCXExtractor struct{}

// Extract returns the document's paragraph text. DOCX files carry no
// intrinsic page count, so PageCount is always 0.
func (DOCXExtractor) Extract(path string) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("failed to open docx: %w", err)
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return Result{}, fmt.Errorf("failed to stat docx: %w", err)
	}

	reader, err := zip.NewReader(f, info.Size())
	if err != nil {
		return Result{}, fmt.Errorf("%w: not a docx archive: %v", common.ErrExtraction, err)
	}

	text, err := documentText(reader)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", common.ErrExtraction, err)
	}

	return Result{Text: text}, nil
}

// documentXML mirrors the paragraph/run/text nesting of
// word/document.xml. Only body-level paragraphs are read.
type documentXML struct {
	Body struct {
		Paragraphs []paragraph `xml:"p"`
	} `xml:"body"`
}

type paragraph struct {
	Runs []run `xml:"r"`
}

type run struct {
	Text []textElement `xml:"t"`
}

type textElement struct {
	Content string `xml:",chardata"`
}

// documentText locates word/document.xml in the archive and flattens
// its paragraphs, one line per paragraph.
func documentText(reader *zip.Reader) (string, error) {
	for _, file := range reader.File {
		if file.Name != "word/document.xml" {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return "", fmt.Errorf("failed to open document.xml: %v", err)
		}

		content, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			return "", fmt.Errorf("failed to read document.xml: %v", err)
		}

		var doc documentXML
		if err := xml.Unmarshal(content, &doc); err != nil {
			return "", fmt.Errorf("malformed document.xml: %v", err)
		}

		var b strings.Builder
		for i, para := range doc.Body.Paragraphs {
			if i > 0 {
				b.WriteString("\n")
			}
			for _, r := range para.Runs {
				for _, t := range r.Text {
					b.WriteString(t.Content)
				}
			}
		}
		return strings.TrimSpace(b.String()), nil
	}
	return "", fmt.Errorf("missing word/document.xml")
}
