package settings

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ghostcopy/ghostd/internal/infrastructure/logging"
)

const watchDebounce = 200 * time.Millisecond

// Watcher reloads a FileStore when its file changes on disk, so edits
// made by other processes (or a text editor) take effect live. Only
// useful when the store sits on the real filesystem.
type Watcher struct {
	store     *FileStore
	fsWatcher *fsnotify.Watcher
	logger    *logging.Logger
	onReload  func()

	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// NewWatcher starts watching the store's file. onReload, if non-nil, is
// invoked after each successful reload.
func NewWatcher(store *FileStore, logger *logging.Logger, onReload func()) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	// Watch the directory, not the file: editors replace files by rename,
	// which drops a direct file watch.
	if err := fsWatcher.Add(filepath.Dir(store.Path())); err != nil {
		fsWatcher.Close()
		return nil, err
	}

	if logger == nil {
		logger = logging.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		store:     store,
		fsWatcher: fsWatcher,
		logger:    logger,
		onReload:  onReload,
		cancel:    cancel,
	}

	w.wg.Add(1)
	go w.loop(ctx)

	return w, nil
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.mu.Unlock()

	w.cancel()
	err := w.fsWatcher.Close()
	w.wg.Wait()
	return err
}

// loop coalesces bursts of file events into a single reload.
func (w *Watcher) loop(ctx context.Context) {
	defer w.wg.Done()

	var debounce *time.Timer
	var debounceC <-chan time.Time

	target := filepath.Clean(w.store.Path())

	for {
		select {
		case <-ctx.Done():
			if debounce != nil {
				debounce.Stop()
			}
			return

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.NewTimer(watchDebounce)
			debounceC = debounce.C

		case <-debounceC:
			debounce = nil
			debounceC = nil
			if err := w.store.reload(); err != nil {
				w.logger.Warn("settings reload failed", "error", err.Error())
				continue
			}
			w.logger.Debug("settings reloaded", "path", w.store.Path())
			if w.onReload != nil {
				w.onReload()
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("settings watcher error", "error", err.Error())
		}
	}
}
