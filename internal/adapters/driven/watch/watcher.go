// Package watch reloads the document corpus when artifact files under
// the corpus directory change on disk.
package watch

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/arkline-labs/chainpulse/internal/core/ports/driven"
	"github.com/arkline-labs/chainpulse/internal/logger"
)

// DefaultDebounce batches rapid editor write bursts into one reload.
const DefaultDebounce = 500 * time.Millisecond

// Watcher reingests the corpus directory after file changes settle.
type Watcher struct {
	registry driven.LoaderRegistry
	corpus   driven.CorpusStore
	dir      string
	debounce time.Duration

	mu      sync.Mutex
	fsw     *fsnotify.Watcher
	stopCh  chan struct{}
	wg      sync.WaitGroup
	started bool
}

// NewWatcher creates a corpus watcher for dir. A zero debounce uses
// the default.
func NewWatcher(registry driven.LoaderRegistry, corpus driven.CorpusStore, dir string, debounce time.Duration) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		registry: registry,
		corpus:   corpus,
		dir:      dir,
		debounce: debounce,
	}
}

// Start begins watching. Reloads happen on a background goroutine
// until Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started {
		return fmt.Errorf("watcher already started")
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(w.dir); err != nil {
		_ = fsw.Close()
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}

	w.fsw = fsw
	w.stopCh = make(chan struct{})
	w.started = true

	w.wg.Add(1)
	go w.run(ctx)

	logger.Info("Watching corpus directory %s", w.dir)
	return nil
}

// Stop ends watching and waits for the event loop to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.started {
		w.mu.Unlock()
		return
	}
	w.started = false
	close(w.stopCh)
	_ = w.fsw.Close()
	w.mu.Unlock()

	w.wg.Wait()
}

func (w *Watcher) run(ctx context.Context) {
	defer w.wg.Done()

	var timer *time.Timer
	var timerCh <-chan time.Time

	for {
		select {
		case <-w.stopCh:
			return
		case <-ctx.Done():
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !relevant(event) {
				continue
			}
			logger.Debug("Corpus change detected: %s", event)
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerCh = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			logger.Warn("Corpus watcher error: %v", err)
		case <-timerCh:
			timer = nil
			timerCh = nil
			w.reload(ctx)
		}
	}
}

// reload reingests the directory and swaps the corpus wholesale. A
// failed ingestion leaves the previous corpus serving.
func (w *Watcher) reload(ctx context.Context) {
	chunks, err := w.registry.LoadDir(ctx, w.dir)
	if err != nil {
		logger.Warn("Corpus reload failed, keeping previous corpus: %v", err)
		return
	}
	if err := w.corpus.ReplaceAll(ctx, chunks); err != nil {
		logger.Warn("Corpus swap failed: %v", err)
		return
	}
	logger.Info("Corpus reloaded: %d chunks", len(chunks))
}

// relevant filters out chmod-only noise and hidden files.
func relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	name := event.Name
	if idx := strings.LastIndexByte(name, '/'); idx >= 0 {
		name = name[idx+1:]
	}
	return !strings.HasPrefix(name, ".")
}
