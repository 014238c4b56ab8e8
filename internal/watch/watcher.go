// Package watch re-runs summaries when watched files change on disk.
package watch

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period before changed files are reported.
// Editors often write a file several times in quick succession.
const DefaultDebounce = 300 * time.Millisecond

// Watcher watches a fixed set of files and reports changes after a debounce
// window. The parent directories are watched rather than the files
// themselves, because many editors replace files on save.
type Watcher struct {
	fs       *fsnotify.Watcher
	files    map[string]bool
	debounce time.Duration

	callback func(files []string)
	cancel   context.CancelFunc
	doneCh   chan struct{}
	stopOnce sync.Once

	mu          sync.Mutex
	accumulated map[string]bool
	timer       *time.Timer
}

// New creates a watcher for the given files.
func New(files []string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fs:          fsw,
		files:       make(map[string]bool),
		debounce:    DefaultDebounce,
		doneCh:      make(chan struct{}),
		accumulated: make(map[string]bool),
	}

	dirs := make(map[string]bool)
	for _, file := range files {
		abs, err := filepath.Abs(file)
		if err != nil {
			fsw.Close()
			return nil, err
		}
		w.files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, err
		}
	}
	return w, nil
}

// Start begins watching. The callback receives the changed files, sorted by
// nothing in particular, after each debounce window. Start returns
// immediately; watching stops when ctx is cancelled or Stop is called.
func (w *Watcher) Start(ctx context.Context, callback func(files []string)) {
	w.callback = callback
	ctx, w.cancel = context.WithCancel(ctx)
	go w.loop(ctx)
}

// Stop stops the watcher. It is safe to call more than once.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		if w.cancel != nil {
			w.cancel()
			<-w.doneCh
		} else {
			close(w.doneCh)
		}
		err = w.fs.Close()
	})
	return err
}

func (w *Watcher) loop(ctx context.Context) {
	defer close(w.doneCh)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil || !w.files[abs] {
				continue
			}
			w.record(abs)
		case _, ok := <-w.fs.Errors:
			if !ok {
				return
			}
		}
	}
}

// record accumulates a change and (re)arms the debounce timer.
func (w *Watcher) record(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.accumulated[path] = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.fire)
}

// fire hands the accumulated changes to the callback and resets the set.
func (w *Watcher) fire() {
	w.mu.Lock()
	changed := make([]string, 0, len(w.accumulated))
	for path := range w.accumulated {
		changed = append(changed, path)
	}
	w.accumulated = make(map[string]bool)
	w.mu.Unlock()

	if len(changed) > 0 && w.callback != nil {
		w.callback(changed)
	}
}
