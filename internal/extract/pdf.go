package extract

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/parafile/parafile/internal/common"
)

// PDFExtractor reads PDF documents.
type PDFExtractor struct{}

// Extract returns the document's plain text and page count. Open
// failures, including permission errors, pass through so callers can
// classify them; parsing failures mean the file itself is bad and are
// reported as extraction errors.
func (PDFExtractor) Extract(path string) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("failed to open pdf: %w", err)
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return Result{}, fmt.Errorf("failed to stat pdf: %w", err)
	}

	text, err := pdfText(f, info.Size())
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", common.ErrExtraction, err)
	}

	return Result{Text: text, PageCount: pdfPageCount(path)}, nil
}

// pdfText parses the PDF and flattens it to plain text. The underlying
// parser panics on some malformed files, so the panic is converted to
// an ordinary error here.
func pdfText(f *os.File, size int64) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf parser panic: %v", r)
		}
	}()

	reader, err := pdf.NewReader(f, size)
	if err != nil {
		return "", err
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", err
	}

	var b strings.Builder
	if _, err := io.Copy(&b, plain); err != nil {
		return "", err
	}
	return b.String(), nil
}

// pdfPageCount reads the page count separately so a failure here never
// fails the document: the count is informational.
func pdfPageCount(path string) int {
	count, err := api.PageCountFile(path)
	if err != nil {
		slog.Debug("page count unavailable", "file", path, "error", err)
		return 0
	}
	return count
}
