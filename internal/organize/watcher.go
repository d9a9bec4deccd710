package organize

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"
)

// WatcherConfig configures the folder watcher.
type WatcherConfig struct {
	// Root is the watched folder. It is created if missing. Only the
	// folder itself is watched, not its subfolders, so organized files
	// in category folders never retrigger processing.
	Root string
	// Workers is the number of documents processed concurrently.
	Workers int
	// QueueSize bounds the intake queue between event delivery and the
	// workers. Event delivery blocks when the queue is full.
	QueueSize int
}

// Watcher turns filesystem events in the watched folder into pipeline
// runs. Documents already being processed keep running after Stop;
// only intake halts.
type Watcher struct {
	pipeline  *Pipeline
	extractor TextExtractor
	fw        *fsnotify.Watcher
	queue     chan string
	group     *errgroup.Group
	procCtx   context.Context
	cfg       WatcherConfig
	started   bool
	stopOnce  sync.Once
	stopErr   error
}

// NewWatcher creates a watcher bound to a pipeline. The extractor
// decides which file extensions are worth queueing.
func NewWatcher(pipeline *Pipeline, extractor TextExtractor, cfg WatcherConfig) *Watcher {
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 64
	}
	return &Watcher{
		pipeline:  pipeline,
		extractor: extractor,
		cfg:       cfg,
	}
}

// Start verifies the watched folder, begins delivering events, and
// returns. Processing happens on background goroutines until Stop.
func (w *Watcher) Start(ctx context.Context) error {
	if w.started {
		return fmt.Errorf("watcher already started")
	}

	if err := os.MkdirAll(w.cfg.Root, 0o755); err != nil {
		return fmt.Errorf("failed to create watched folder: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create filesystem watcher: %w", err)
	}
	if err := fw.Add(w.cfg.Root); err != nil {
		_ = fw.Close()
		return fmt.Errorf("failed to watch folder: %w", err)
	}

	w.started = true
	w.fw = fw
	w.queue = make(chan string, w.cfg.QueueSize)
	// In-flight documents run to completion even after ctx is cancelled.
	w.procCtx = context.WithoutCancel(ctx)
	w.group = &errgroup.Group{}

	w.group.Go(w.dispatch)
	for range w.cfg.Workers {
		w.group.Go(w.work)
	}

	slog.Info("watching folder",
		"folder", w.cfg.Root,
		"extensions", w.extractor.Extensions(),
		"workers", w.cfg.Workers)
	return nil
}

// Stop halts event intake, waits for queued and in-flight documents to
// finish, and releases the filesystem watcher. Safe to call more than
// once.
func (w *Watcher) Stop() error {
	if !w.started {
		return nil
	}
	w.stopOnce.Do(func() {
		w.stopErr = w.fw.Close()
		if err := w.group.Wait(); err != nil && w.stopErr == nil {
			w.stopErr = err
		}
		slog.Info("stopped watching", "folder", w.cfg.Root)
	})
	return w.stopErr
}

// dispatch forwards qualifying events to the worker queue until the
// filesystem watcher closes.
func (w *Watcher) dispatch() error {
	defer close(w.queue)
	for {
		select {
		case event, ok := <-w.fw.Events:
			if !ok {
				return nil
			}
			if path, ok := w.qualify(event); ok {
				slog.Info("new document detected", "file", filepath.Base(path))
				w.queue <- path
			}
		case err, ok := <-w.fw.Errors:
			if !ok {
				return nil
			}
			slog.Error("watch error", "error", err)
		}
	}
}

// qualify decides whether an event is a new document worth processing.
// fsnotify reports files moved into the folder as create events, so
// watching creates covers both fresh files and moves.
func (w *Watcher) qualify(event fsnotify.Event) (string, bool) {
	if !event.Op.Has(fsnotify.Create) {
		return "", false
	}

	ext := strings.ToLower(filepath.Ext(event.Name))
	if !w.extractor.Supported(ext) {
		return "", false
	}

	if w.pipeline.WasPlacedRecently(event.Name) {
		return "", false
	}

	info, err := os.Lstat(event.Name)
	if err != nil || info.IsDir() {
		return "", false
	}

	return event.Name, true
}

func (w *Watcher) work() error {
	for path := range w.queue {
		// Process logs its own outcome and records it in the ledger.
		_, _ = w.pipeline.Process(w.procCtx, path)
	}
	return nil
}
