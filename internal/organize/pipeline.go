// Package organize implements the document organizing pipeline: extract
// text, classify the document, resolve its naming pattern, render the
// new filename, and place the file in its category folder.
package organize

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/parafile/parafile/internal/common"
	"github.com/parafile/parafile/internal/model"
	"github.com/parafile/parafile/internal/pattern"
	"github.com/parafile/parafile/internal/service"
)

// Step names the pipeline stage an error came from.
type Step string

// Pipeline steps, in execution order.
const (
	StepExtracting Step = "extracting"
	StepPlacing    Step = "placing"
)

// StepError tags a processing failure with the step that produced it.
type StepError struct {
	Err  error
	Step Step
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// Config holds the rules a pipeline applies. The catalogues are copied
// in at construction time; a pipeline never sees later rule edits.
type Config struct {
	WatchedFolder      string
	EnableOrganization bool
	Categories         []model.Category
	Variables          []model.Variable
	Retry              common.RetryOptions
}

// Pipeline drives one document at a time from detection to placement.
// It is safe for concurrent use by multiple workers.
type Pipeline struct {
	extractor  TextExtractor
	classifier Classifier
	values     ValueExtractor
	history    service.History
	placer     *placer
	placed     *placedLog
	cfg        Config
}

// New creates a pipeline. history may be nil, in which case no ledger
// is kept.
func New(extractor TextExtractor, classifier Classifier, values ValueExtractor, history service.History, cfg Config) *Pipeline {
	if cfg.Retry.MaxAttempts <= 0 || cfg.Retry.Delay <= 0 {
		defaults := common.DefaultRetryOptions()
		if cfg.Retry.MaxAttempts <= 0 {
			cfg.Retry.MaxAttempts = defaults.MaxAttempts
		}
		if cfg.Retry.Delay <= 0 {
			cfg.Retry.Delay = defaults.Delay
		}
	}
	return &Pipeline{
		extractor:  extractor,
		classifier: classifier,
		values:     values,
		history:    history,
		placer:     newPlacer(),
		placed:     newPlacedLog(),
		cfg:        cfg,
	}
}

// Process runs the full pipeline for one document. Permission errors
// are retried on a fixed delay; any other failure is final. Either way
// the outcome lands in the history ledger, and failed documents are
// left where they are.
func (p *Pipeline) Process(ctx context.Context, path string) (*model.ProcessingRecord, error) {
	doc := model.NewPendingDocument(path)
	logger := slog.With("document_id", doc.ID, "file", filepath.Base(path))
	logger.Info("processing document")

	var record *model.ProcessingRecord
	err := common.WithRetry(ctx, func() error {
		rec, attemptErr := p.attempt(ctx, doc)
		if attemptErr != nil {
			return attemptErr
		}
		record = rec
		return nil
	}, p.cfg.Retry)

	if err != nil {
		record = &model.ProcessingRecord{
			ID:          doc.ID,
			SourcePath:  path,
			PageCount:   doc.PageCount,
			Status:      model.StatusFailed,
			Reason:      err.Error(),
			ProcessedAt: time.Now(),
		}
		p.saveRecord(ctx, record)
		logger.Error("document left in place", "error", err)
		return record, err
	}

	p.saveRecord(ctx, record)
	logger.Info("document organized",
		"category", record.Category,
		"destination", record.DestinationPath)
	return record, nil
}

// attempt runs the pipeline steps once. Classification and naming
// problems degrade to fallbacks rather than failing the document; only
// extraction and placement can error out.
func (p *Pipeline) attempt(ctx context.Context, doc *model.PendingDocument) (*model.ProcessingRecord, error) {
	res, err := p.extractor.Extract(doc.Path)
	if err != nil {
		return nil, &StepError{Step: StepExtracting, Err: err}
	}
	doc.Text = res.Text
	doc.PageCount = res.PageCount

	result := p.classify(ctx, doc)
	category, ok := model.FindCategory(p.cfg.Categories, result.Category)
	if !ok {
		// classify falls back to General, which every catalogue holds;
		// an empty catalogue still files documents under their own name.
		category = model.Category{Name: result.Category, NamingPattern: "{original_name}"}
	}

	stem := p.resolveName(ctx, doc, category)

	dest, err := p.place(doc, category, stem)
	if err != nil {
		return nil, &StepError{Step: StepPlacing, Err: err}
	}

	return &model.ProcessingRecord{
		ID:              doc.ID,
		SourcePath:      doc.Path,
		DestinationPath: dest,
		Category:        category.Name,
		Confidence:      result.Confidence,
		RenderedName:    filepath.Base(dest),
		PageCount:       doc.PageCount,
		Status:          model.StatusOrganized,
		ProcessedAt:     time.Now(),
	}, nil
}

// classify asks the classifier for a verdict and degrades to the
// General category when the classifier errors or names a category that
// is not in the catalogue.
func (p *Pipeline) classify(ctx context.Context, doc *model.PendingDocument) model.ClassificationResult {
	result, err := p.classifier.Classify(ctx, doc.Text, p.cfg.Categories)
	if err != nil {
		slog.Warn("classification failed, filing under General",
			"document_id", doc.ID,
			"error", err)
		return model.ClassificationResult{
			Category:  model.GeneralCategory,
			Reasoning: "classification unavailable",
		}
	}

	if _, ok := model.FindCategory(p.cfg.Categories, result.Category); !ok {
		slog.Warn("classifier chose an unknown category, filing under General",
			"document_id", doc.ID,
			"category", result.Category)
		return model.ClassificationResult{
			Category:   model.GeneralCategory,
			Confidence: result.Confidence,
			Reasoning:  result.Reasoning,
		}
	}

	return result
}

// resolveName renders the document's new name stem from the category's
// naming pattern. A category without a pattern keeps the original stem.
func (p *Pipeline) resolveName(ctx context.Context, doc *model.PendingDocument, category model.Category) string {
	if category.NamingPattern == "" {
		return doc.Stem
	}

	placeholders := pattern.Parse(category.NamingPattern)
	values := make(map[string]string, len(placeholders))
	for _, name := range placeholders {
		if _, done := values[name]; done {
			continue
		}
		values[name] = p.extractValue(ctx, doc, category, name)
	}

	stem, err := pattern.Render(category.NamingPattern, values)
	if err == nil {
		return stem
	}

	// Should not happen: every parsed placeholder has a value. Render
	// once more with bare tokens before giving up on the pattern.
	slog.Warn("pattern rendering failed",
		"document_id", doc.ID,
		"pattern", category.NamingPattern,
		"error", err)
	for _, name := range placeholders {
		values[name] = pattern.Token(name)
	}
	stem, err = pattern.Render(category.NamingPattern, values)
	if err == nil {
		return stem
	}
	return FallbackStem
}

// extractValue resolves one placeholder. original_name is filled
// locally; everything else is asked of the value extractor, degrading
// to a visible token when no value comes back.
func (p *Pipeline) extractValue(ctx context.Context, doc *model.PendingDocument, category model.Category, name string) string {
	if name == model.OriginalNameVariable {
		return doc.Stem
	}

	variable, ok := model.FindVariable(p.cfg.Variables, name)
	if !ok {
		// Placeholder without a catalogue entry: the model still gets
		// a shot at it from the name alone.
		variable = model.Variable{Name: name}
	}

	value, err := p.values.ExtractValue(ctx, doc.Text, variable, category)
	if err != nil {
		slog.Warn("value extraction failed, using placeholder token",
			"document_id", doc.ID,
			"variable", name,
			"error", err)
		return pattern.Token(name)
	}
	return value
}

// place moves the document to its destination directory under its
// rendered name and remembers the destination so the watcher can tell
// its own renames apart from new documents.
func (p *Pipeline) place(doc *model.PendingDocument, category model.Category, stem string) (string, error) {
	destDir := p.cfg.WatchedFolder
	if p.cfg.EnableOrganization {
		dir, err := EnsureCategoryFolder(p.cfg.WatchedFolder, category.Name)
		if err != nil {
			return "", err
		}
		destDir = dir
	}

	dest, err := p.placer.Place(doc.Path, destDir, sanitizeStem(stem), doc.Extension)
	if err != nil {
		return "", err
	}
	p.placed.add(dest)
	return dest, nil
}

// WasPlacedRecently reports whether the pipeline itself created the
// file at path moments ago. Renaming a file inside the watched folder
// raises a new create event for the new name; without this check the
// pipeline would chase its own placements.
func (p *Pipeline) WasPlacedRecently(path string) bool {
	return p.placed.consume(path)
}

func (p *Pipeline) saveRecord(ctx context.Context, record *model.ProcessingRecord) {
	if p.history == nil {
		return
	}
	if err := p.history.SaveRecord(ctx, record); err != nil {
		slog.Warn("failed to record processing history",
			"document_id", record.ID,
			"error", err)
	}
}

// placedLogTTL bounds how long a placement is remembered. Watcher
// events for a placement arrive within milliseconds; the generous
// window covers slow filesystems.
const placedLogTTL = 30 * time.Second

// placedLog remembers recently placed paths.
type placedLog struct {
	mu    sync.Mutex
	paths map[string]time.Time
}

func newPlacedLog() *placedLog {
	return &placedLog{paths: make(map[string]time.Time)}
}

func (l *placedLog) add(path string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sweepLocked()
	l.paths[path] = time.Now()
}

func (l *placedLog) consume(path string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sweepLocked()
	if _, ok := l.paths[path]; !ok {
		return false
	}
	delete(l.paths, path)
	return true
}

func (l *placedLog) sweepLocked() {
	cutoff := time.Now().Add(-placedLogTTL)
	for path, at := range l.paths {
		if at.Before(cutoff) {
			delete(l.paths, path)
		}
	}
}
