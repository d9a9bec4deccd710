package model

import (
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// PendingDocument is a file picked up from the watched folder that is
// moving through the organizing pipeline.
type PendingDocument struct {
	// ID identifies this processing run in logs and history.
	ID string
	// Path is the document's current location on disk.
	Path string
	// Extension is the lowercased extension including the dot, e.g. ".pdf".
	Extension string
	// Stem is the original filename without its extension.
	Stem string
	// Text is the extracted document text. Empty until extraction runs.
	Text string
	// PageCount is the number of pages, when the format reports one.
	PageCount int
}

// NewPendingDocument builds a PendingDocument for a file path, deriving
// the extension and stem from the filename.
func NewPendingDocument(path string) *PendingDocument {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	return &PendingDocument{
		ID:        uuid.New().String(),
		Path:      path,
		Extension: strings.ToLower(ext),
		Stem:      strings.TrimSuffix(base, ext),
	}
}

// ClassificationResult is the language model's verdict on which
// category a document belongs to.
type ClassificationResult struct {
	// Category is the chosen category name. The pipeline verifies it
	// against the catalogue and falls back to General when unknown.
	Category string
	// Confidence is the model's self-reported certainty from 0 to 100.
	Confidence float64
	// Reasoning is a short explanation of the verdict, surfaced in logs.
	Reasoning string
}
