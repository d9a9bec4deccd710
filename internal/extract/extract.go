// Package extract turns documents on disk into plain text for
// classification. One extractor is registered per file extension.
package extract

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/parafile/parafile/internal/common"
)

// Result holds everything an extractor learned about a document.
type Result struct {
	// Text is the document's plain text. May be empty for documents
	// with no extractable text, such as scanned PDFs.
	Text string
	// PageCount is the number of pages, or 0 when the format does not
	// report one.
	PageCount int
}

// Extractor reads one document format.
type Extractor interface {
	Extract(path string) (Result, error)
}

// Registry dispatches extraction by file extension.
type Registry struct {
	byExt map[string]Extractor
}

// NewRegistry returns a registry with the built-in PDF and DOCX
// extractors registered.
func NewRegistry() *Registry {
	r := &Registry{byExt: make(map[string]Extractor)}
	r.Register(".pdf", PDFExtractor{})
	r.Register(".docx", DOCXExtractor{})
	return r
}

// Register adds an extractor for an extension. The extension is
// normalized to lowercase with a leading dot.
func (r *Registry) Register(ext string, e Extractor) {
	r.byExt[normalizeExt(ext)] = e
}

// Supported reports whether documents with the given extension can be
// extracted.
func (r *Registry) Supported(ext string) bool {
	_, ok := r.byExt[normalizeExt(ext)]
	return ok
}

// Extensions returns the supported extensions in sorted order.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Extract runs the extractor registered for the path's extension.
func (r *Registry) Extract(path string) (Result, error) {
	ext := normalizeExt(filepath.Ext(path))
	e, ok := r.byExt[ext]
	if !ok {
		return Result{}, fmt.Errorf("%w: %q", common.ErrUnsupportedFile, ext)
	}
	return e.Extract(path)
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
