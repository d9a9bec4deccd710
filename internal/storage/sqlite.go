// Package storage provides the data persistence layer for the
// processing history ledger.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/parafile/parafile/internal/model"
	"github.com/parafile/parafile/internal/service"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStorage implements the service.History interface using SQLite.
type SQLiteStorage struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteStorage creates a new SQLite storage instance.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	// Validate input
	if err := validateString(dbPath, "dbPath"); err != nil {
		return nil, err
	}

	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Open database
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Set connection pool settings
	db.SetMaxOpenConns(1) // SQLite doesn't benefit from multiple connections
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteStorage{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// SaveRecord appends one processing record to the ledger.
func (s *SQLiteStorage) SaveRecord(ctx context.Context, record *model.ProcessingRecord) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateRecord(record); err != nil {
		return err
	}

	processedAt := record.ProcessedAt
	if processedAt.IsZero() {
		processedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO processing_records
			(id, source_path, destination_path, category, confidence,
			 rendered_name, page_count, status, reason, processed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.SourcePath,
		record.DestinationPath,
		record.Category,
		record.Confidence,
		record.RenderedName,
		record.PageCount,
		string(record.Status),
		record.Reason,
		processedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save processing record: %w", err)
	}
	return nil
}

// ListRecords returns ledger rows matching the filter, newest first.
func (s *SQLiteStorage) ListRecords(ctx context.Context, filter service.HistoryFilter) ([]model.ProcessingRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT id, source_path, destination_path, category, confidence,
		       rendered_name, page_count, status, reason, processed_at
		FROM processing_records`
	var args []any
	var conds []string

	if filter.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, string(filter.Status))
	}
	if filter.Category != "" {
		conds = append(conds, "category = ?")
		args = append(args, filter.Category)
	}
	for i, cond := range conds {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY processed_at DESC, id DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query processing records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []model.ProcessingRecord
	for rows.Next() {
		var r model.ProcessingRecord
		var status string
		if err := rows.Scan(
			&r.ID,
			&r.SourcePath,
			&r.DestinationPath,
			&r.Category,
			&r.Confidence,
			&r.RenderedName,
			&r.PageCount,
			&status,
			&r.Reason,
			&r.ProcessedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan processing record: %w", err)
		}
		r.Status = model.RecordStatus(status)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate processing records: %w", err)
	}
	return records, nil
}

// CountByStatus reports how many ledger rows exist per terminal state.
func (s *SQLiteStorage) CountByStatus(ctx context.Context) (map[model.RecordStatus]int, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT status, COUNT(*)
		FROM processing_records
		GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to count processing records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	counts := make(map[model.RecordStatus]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		counts[model.RecordStatus(status)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate status counts: %w", err)
	}
	return counts, nil
}
