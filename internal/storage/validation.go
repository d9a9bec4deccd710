package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/parafile/parafile/internal/model"
)

// Validation errors.
var (
	ErrNilContext    = errors.New("context cannot be nil")
	ErrEmptyString   = errors.New("string parameter cannot be empty")
	ErrNilParameter  = errors.New("parameter cannot be nil")
	ErrInvalidRecord = errors.New("invalid processing record")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateRecord validates a processing record before it is persisted.
func validateRecord(record *model.ProcessingRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record", ErrNilParameter)
	}
	if record.ID == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidRecord)
	}
	if record.SourcePath == "" {
		return fmt.Errorf("%w: missing source path", ErrInvalidRecord)
	}
	switch record.Status {
	case model.StatusOrganized, model.StatusFailed:
	default:
		return fmt.Errorf("%w: unknown status %q", ErrInvalidRecord, record.Status)
	}
	return nil
}
