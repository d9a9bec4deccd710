package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parafile/parafile/internal/model"
	"github.com/parafile/parafile/internal/service"
)

func testStorage(t *testing.T) *SQLiteStorage {
	t.Helper()

	s, err := NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func testRecord(status model.RecordStatus) *model.ProcessingRecord {
	return &model.ProcessingRecord{
		ID:              uuid.New().String(),
		SourcePath:      "/inbox/invoice.pdf",
		DestinationPath: "/inbox/Invoices/Acme_001.pdf",
		Category:        "Invoices",
		Confidence:      92,
		RenderedName:    "Acme_001.pdf",
		PageCount:       3,
		Status:          status,
		ProcessedAt:     time.Now(),
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	s := testStorage(t)
	require.NoError(t, s.Migrate(context.Background()))
}

func TestNewSQLiteStorageCreatesDirectory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "dir", "history.db")

	s, err := NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	require.NoError(t, s.Migrate(context.Background()))
}

func TestNewSQLiteStorageRejectsEmptyPath(t *testing.T) {
	_, err := NewSQLiteStorage("  ")
	require.ErrorIs(t, err, ErrEmptyString)
}

func TestSaveAndListRecords(t *testing.T) {
	s := testStorage(t)
	ctx := context.Background()

	rec := testRecord(model.StatusOrganized)
	require.NoError(t, s.SaveRecord(ctx, rec))

	records, err := s.ListRecords(ctx, service.HistoryFilter{})
	require.NoError(t, err)
	require.Len(t, records, 1)

	got := records[0]
	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, rec.SourcePath, got.SourcePath)
	assert.Equal(t, rec.DestinationPath, got.DestinationPath)
	assert.Equal(t, rec.Category, got.Category)
	assert.InDelta(t, rec.Confidence, got.Confidence, 0.001)
	assert.Equal(t, rec.RenderedName, got.RenderedName)
	assert.Equal(t, rec.PageCount, got.PageCount)
	assert.Equal(t, model.StatusOrganized, got.Status)
	assert.WithinDuration(t, rec.ProcessedAt, got.ProcessedAt, time.Second)
}

func TestListRecordsNewestFirst(t *testing.T) {
	s := testStorage(t)
	ctx := context.Background()

	older := testRecord(model.StatusOrganized)
	older.ProcessedAt = time.Now().Add(-time.Hour)
	newer := testRecord(model.StatusOrganized)

	require.NoError(t, s.SaveRecord(ctx, older))
	require.NoError(t, s.SaveRecord(ctx, newer))

	records, err := s.ListRecords(ctx, service.HistoryFilter{})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, newer.ID, records[0].ID)
	assert.Equal(t, older.ID, records[1].ID)
}

func TestListRecordsFilters(t *testing.T) {
	s := testStorage(t)
	ctx := context.Background()

	organized := testRecord(model.StatusOrganized)
	failed := testRecord(model.StatusFailed)
	failed.Category = "General"
	failed.Reason = "document extraction failed"
	receipts := testRecord(model.StatusOrganized)
	receipts.Category = "Receipts"

	for _, rec := range []*model.ProcessingRecord{organized, failed, receipts} {
		require.NoError(t, s.SaveRecord(ctx, rec))
	}

	byStatus, err := s.ListRecords(ctx, service.HistoryFilter{Status: model.StatusFailed})
	require.NoError(t, err)
	require.Len(t, byStatus, 1)
	assert.Equal(t, failed.ID, byStatus[0].ID)
	assert.Equal(t, "document extraction failed", byStatus[0].Reason)

	byCategory, err := s.ListRecords(ctx, service.HistoryFilter{Category: "Receipts"})
	require.NoError(t, err)
	require.Len(t, byCategory, 1)
	assert.Equal(t, receipts.ID, byCategory[0].ID)

	limited, err := s.ListRecords(ctx, service.HistoryFilter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	both, err := s.ListRecords(ctx, service.HistoryFilter{Status: model.StatusOrganized, Category: "Invoices"})
	require.NoError(t, err)
	require.Len(t, both, 1)
	assert.Equal(t, organized.ID, both[0].ID)
}

func TestCountByStatus(t *testing.T) {
	s := testStorage(t)
	ctx := context.Background()

	require.NoError(t, s.SaveRecord(ctx, testRecord(model.StatusOrganized)))
	require.NoError(t, s.SaveRecord(ctx, testRecord(model.StatusOrganized)))
	require.NoError(t, s.SaveRecord(ctx, testRecord(model.StatusFailed)))

	counts, err := s.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, counts[model.StatusOrganized])
	assert.Equal(t, 1, counts[model.StatusFailed])
}

func TestSaveRecordValidation(t *testing.T) {
	s := testStorage(t)
	ctx := context.Background()

	err := s.SaveRecord(ctx, nil)
	require.ErrorIs(t, err, ErrNilParameter)

	rec := testRecord(model.StatusOrganized)
	rec.ID = ""
	require.ErrorIs(t, s.SaveRecord(ctx, rec), ErrInvalidRecord)

	rec = testRecord(model.StatusOrganized)
	rec.SourcePath = ""
	require.ErrorIs(t, s.SaveRecord(ctx, rec), ErrInvalidRecord)

	rec = testRecord("partial")
	require.ErrorIs(t, s.SaveRecord(ctx, rec), ErrInvalidRecord)
}
