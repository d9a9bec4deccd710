package model

import "time"

// RecordStatus is the terminal state of a processing run.
type RecordStatus string

const (
	// StatusOrganized means the document was renamed and placed.
	StatusOrganized RecordStatus = "organized"
	// StatusFailed means the document was left in place after all
	// attempts were exhausted.
	StatusFailed RecordStatus = "failed"
)

// ProcessingRecord is one row of the history ledger: what happened to a
// single document, successful or not.
type ProcessingRecord struct {
	ProcessedAt     time.Time
	ID              string
	SourcePath      string
	DestinationPath string
	Category        string
	RenderedName    string
	Reason          string
	Status          RecordStatus
	Confidence      float64
	PageCount       int
}
