// Package service defines the interfaces for all application services.
package service

import (
	"context"

	"github.com/parafile/parafile/internal/model"
)

// HistoryFilter defines filtering options for history queries.
type HistoryFilter struct {
	// Status limits results to one terminal state when set.
	Status model.RecordStatus
	// Category limits results to one category when set.
	Category string
	// Limit caps the number of rows returned; 0 means no cap.
	Limit int
}

// History is the contract for the processing ledger: every document the
// pipeline touches leaves a record here, successful or not.
type History interface {
	// SaveRecord appends one processing record.
	SaveRecord(ctx context.Context, record *model.ProcessingRecord) error
	// ListRecords returns records matching the filter, newest first.
	ListRecords(ctx context.Context, filter HistoryFilter) ([]model.ProcessingRecord, error)
	// CountByStatus reports how many records exist per terminal state.
	CountByStatus(ctx context.Context) (map[model.RecordStatus]int, error)
	// Close releases the underlying store.
	Close() error
}
