package organize

import (
	"context"
	"sync"

	"github.com/parafile/parafile/internal/extract"
	"github.com/parafile/parafile/internal/model"
	"github.com/parafile/parafile/internal/service"
)

// MockClassifier is a test implementation of the Classifier interface
// returning one scripted verdict.
type MockClassifier struct {
	Result model.ClassificationResult
	Err    error
	mu     sync.Mutex
	texts  []string
}

// Classify records the call and returns the scripted verdict.
func (m *MockClassifier) Classify(_ context.Context, text string, _ []model.Category) (model.ClassificationResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.texts = append(m.texts, text)
	if m.Err != nil {
		return model.ClassificationResult{}, m.Err
	}
	return m.Result, nil
}

// Calls returns how many classifications were requested.
func (m *MockClassifier) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.texts)
}

// MockValueExtractor is a test implementation of the ValueExtractor
// interface with per-variable scripted values and errors.
type MockValueExtractor struct {
	Values map[string]string
	Errs   map[string]error
	mu     sync.Mutex
	asked  []string
}

// ExtractValue records the call and returns the scripted value.
func (m *MockValueExtractor) ExtractValue(_ context.Context, _ string, variable model.Variable, _ model.Category) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.asked = append(m.asked, variable.Name)
	if err, ok := m.Errs[variable.Name]; ok {
		return "", err
	}
	return m.Values[variable.Name], nil
}

// Asked returns the variable names requested, in order.
func (m *MockValueExtractor) Asked() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.asked...)
}

// MockTextExtractor is a test implementation of the TextExtractor
// interface. Errors in Failures are consumed one per Extract call
// before Result is returned, which makes retry behavior scriptable.
type MockTextExtractor struct {
	Exts     []string
	Result   extract.Result
	Failures []error
	mu       sync.Mutex
	calls    int
}

// Supported reports whether ext is in Exts.
func (m *MockTextExtractor) Supported(ext string) bool {
	for _, e := range m.Exts {
		if e == ext {
			return true
		}
	}
	return false
}

// Extensions returns the scripted extension list.
func (m *MockTextExtractor) Extensions() []string {
	return append([]string(nil), m.Exts...)
}

// Extract consumes the next scripted failure or returns Result.
func (m *MockTextExtractor) Extract(_ string) (extract.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if len(m.Failures) > 0 {
		err := m.Failures[0]
		m.Failures = m.Failures[1:]
		return extract.Result{}, err
	}
	return m.Result, nil
}

// Calls returns how many extractions were attempted.
func (m *MockTextExtractor) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// MockHistory is an in-memory service.History implementation.
type MockHistory struct {
	SaveErr error
	mu      sync.Mutex
	records []model.ProcessingRecord
}

// SaveRecord appends the record to memory.
func (m *MockHistory) SaveRecord(_ context.Context, record *model.ProcessingRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.records = append(m.records, *record)
	return nil
}

// ListRecords returns saved records, newest first, honoring the filter.
func (m *MockHistory) ListRecords(_ context.Context, filter service.HistoryFilter) ([]model.ProcessingRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.ProcessingRecord
	for i := len(m.records) - 1; i >= 0; i-- {
		r := m.records[i]
		if filter.Status != "" && r.Status != filter.Status {
			continue
		}
		if filter.Category != "" && r.Category != filter.Category {
			continue
		}
		out = append(out, r)
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

// CountByStatus tallies saved records per status.
func (m *MockHistory) CountByStatus(_ context.Context) (map[model.RecordStatus]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := make(map[model.RecordStatus]int)
	for _, r := range m.records {
		counts[r.Status]++
	}
	return counts, nil
}

// Close is a no-op.
func (m *MockHistory) Close() error { return nil }

// Records returns a copy of everything saved so far.
func (m *MockHistory) Records() []model.ProcessingRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.ProcessingRecord(nil), m.records...)
}
