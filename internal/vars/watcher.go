package vars

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"pgwarp/internal/logging"
)

// Watcher reloads the store when saved_variables.json changes on disk,
// meaning another PgWarp instance or an external editor rewrote it. Events are
// debounced because saves land as a temp-file rename preceded by directory
// churn. Reloads go through Store.Refresh, which never writes back.
type Watcher struct {
	fs    *FileStore
	store *Store

	watcher     *fsnotify.Watcher
	debounceDur time.Duration

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewWatcher creates a watcher for the file store's directory.
func NewWatcher(fs *FileStore, store *Store) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		fs:          fs,
		store:       store,
		watcher:     fsw,
		debounceDur: 300 * time.Millisecond,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}, nil
}

// Start begins watching. Non-blocking; Stop shuts the goroutine down.
func (w *Watcher) Start() error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	dir := filepath.Dir(w.fs.Path())
	if err := w.watcher.Add(dir); err != nil {
		logging.Get(logging.CategoryWatch).Warn("watch %s failed: %v", dir, err)
		// The directory may not exist until the first save. Run anyway so
		// Stop still works; reloads just never fire.
	} else {
		logging.Get(logging.CategoryWatch).Info("watching %s", dir)
	}

	go w.run()
	return nil
}

// Stop stops the watcher and waits for the goroutine to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh
	w.watcher.Close()
}

func (w *Watcher) run() {
	defer close(w.doneCh)

	var timer *time.Timer
	var timerCh <-chan time.Time
	target := filepath.Base(w.fs.Path())

	for {
		select {
		case <-w.stopCh:
			if timer != nil {
				timer.Stop()
			}
			return

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) != target {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounceDur)
			} else {
				timer.Reset(w.debounceDur)
			}
			timerCh = timer.C

		case <-timerCh:
			timerCh = nil
			w.reload()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logging.Get(logging.CategoryWatch).Warn("watch error: %v", err)
		}
	}
}

func (w *Watcher) reload() {
	snapshot, err := w.fs.Load()
	if err != nil {
		logging.Get(logging.CategoryWatch).Warn("reload failed: %v", err)
		return
	}
	if err := w.store.Refresh(snapshot); err != nil {
		logging.Get(logging.CategoryWatch).Warn("refresh rejected: %v", err)
		return
	}
	logging.Get(logging.CategoryWatch).Info("reloaded %d variables from disk", len(snapshot))
}
