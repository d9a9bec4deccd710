package organize

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parafile/parafile/internal/extract"
	"github.com/parafile/parafile/internal/model"
)

func TestWatcherQualify(t *testing.T) {
	root := t.TempDir()
	doc := writeDoc(t, root, "scan.pdf")
	upper := writeDoc(t, root, "SCAN.PDF")
	placed := writeDoc(t, root, "placed.pdf")
	subdir := filepath.Join(root, "folder.pdf")
	require.NoError(t, os.MkdirAll(subdir, 0o755))

	extractor := &MockTextExtractor{Exts: []string{".pdf"}}
	pipeline := New(extractor, &MockClassifier{}, &MockValueExtractor{}, nil, testConfig(root))
	pipeline.placed.add(placed)

	w := NewWatcher(pipeline, extractor, WatcherConfig{Root: root})

	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{
			name:  "created document qualifies",
			event: fsnotify.Event{Name: doc, Op: fsnotify.Create},
			want:  true,
		},
		{
			name:  "write events are ignored",
			event: fsnotify.Event{Name: doc, Op: fsnotify.Write},
			want:  false,
		},
		{
			name:  "unsupported extension",
			event: fsnotify.Event{Name: filepath.Join(root, "notes.txt"), Op: fsnotify.Create},
			want:  false,
		},
		{
			name:  "uppercase extension qualifies",
			event: fsnotify.Event{Name: upper, Op: fsnotify.Create},
			want:  true,
		},
		{
			name:  "directories are ignored",
			event: fsnotify.Event{Name: subdir, Op: fsnotify.Create},
			want:  false,
		},
		{
			name:  "vanished file is ignored",
			event: fsnotify.Event{Name: filepath.Join(root, "gone.pdf"), Op: fsnotify.Create},
			want:  false,
		},
		{
			name:  "own placement is ignored",
			event: fsnotify.Event{Name: placed, Op: fsnotify.Create},
			want:  false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, ok := w.qualify(tt.event)
			assert.Equal(t, tt.want, ok)
			if tt.want {
				assert.Equal(t, tt.event.Name, path)
			}
		})
	}
}

func TestWatcherProcessesNewDocuments(t *testing.T) {
	root := t.TempDir()

	extractor := &MockTextExtractor{Exts: []string{".pdf"}, Result: extract.Result{Text: "Invoice 9 from Acme", PageCount: 1}}
	classifier := &MockClassifier{Result: model.ClassificationResult{Category: "Invoices", Confidence: 88}}
	values := &MockValueExtractor{Values: map[string]string{"company": "Acme", "invoice_id": "9"}}
	history := &MockHistory{}

	pipeline := New(extractor, classifier, values, history, testConfig(root))
	w := NewWatcher(pipeline, extractor, WatcherConfig{Root: root, Workers: 2})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	defer w.Stop()

	// Dropped after the watch begins, like a scanner writing a file.
	writeDoc(t, root, "fresh_scan.pdf")

	dest := filepath.Join(root, "Invoices", "Acme_9.pdf")
	require.Eventually(t, func() bool {
		_, err := os.Stat(dest)
		return err == nil && len(history.Records()) == 1
	}, 5*time.Second, 20*time.Millisecond)

	assert.Equal(t, 1, classifier.Calls())

	// Unsupported files never enter the pipeline.
	writeDoc(t, root, "ignore_me.txt")
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, 1, extractor.Calls())

	require.NoError(t, w.Stop())
}

func TestWatcherIgnoresOwnPlacements(t *testing.T) {
	root := t.TempDir()

	extractor := &MockTextExtractor{Exts: []string{".pdf"}, Result: extract.Result{Text: "Invoice"}}
	classifier := &MockClassifier{Result: model.ClassificationResult{Category: "Invoices", Confidence: 88}}
	values := &MockValueExtractor{Values: map[string]string{"company": "Acme", "invoice_id": "9"}}

	// Organization off keeps the rename inside the watched folder, which
	// raises a fresh create event for the new name.
	cfg := testConfig(root)
	cfg.EnableOrganization = false
	pipeline := New(extractor, classifier, values, nil, cfg)
	w := NewWatcher(pipeline, extractor, WatcherConfig{Root: root})

	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	writeDoc(t, root, "fresh_scan.pdf")

	dest := filepath.Join(root, "Acme_9.pdf")
	require.Eventually(t, func() bool {
		_, err := os.Stat(dest)
		return err == nil
	}, 5*time.Second, 20*time.Millisecond)

	// Give the create event for the rename time to arrive-- it must not
	// start a second run.
	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, 1, extractor.Calls())
	assert.FileExists(t, dest)
}

func TestWatcherStartTwice(t *testing.T) {
	root := t.TempDir()
	extractor := &MockTextExtractor{Exts: []string{".pdf"}}
	pipeline := New(extractor, &MockClassifier{}, &MockValueExtractor{}, nil, testConfig(root))
	w := NewWatcher(pipeline, extractor, WatcherConfig{Root: root})

	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	assert.Error(t, w.Start(context.Background()))
}

func TestWatcherStopWithoutStart(t *testing.T) {
	root := t.TempDir()
	extractor := &MockTextExtractor{Exts: []string{".pdf"}}
	pipeline := New(extractor, &MockClassifier{}, &MockValueExtractor{}, nil, testConfig(root))
	w := NewWatcher(pipeline, extractor, WatcherConfig{Root: root})

	assert.NoError(t, w.Stop())
}

func TestWatcherCreatesMissingRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "inbox")
	extractor := &MockTextExtractor{Exts: []string{".pdf"}}
	pipeline := New(extractor, &MockClassifier{}, &MockValueExtractor{}, nil, testConfig(root))
	w := NewWatcher(pipeline, extractor, WatcherConfig{Root: root})

	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	assert.DirExists(t, root)
}
