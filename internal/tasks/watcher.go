package tasks

import (
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"scrollstitch/internal/fsutil"
)

// SequenceHandler receives a capture directory once its frame sequence has
// settled.
type SequenceHandler func(dir string)

// SequenceWatcher monitors capture directories for incoming screenshot
// frames and fires the handler after a directory has been quiet for the
// settle period — the point at which a scroll capture is assumed complete.
type SequenceWatcher struct {
	watcher   *fsnotify.Watcher
	log       *slog.Logger
	handler   SequenceHandler
	tracker   *settleTracker
	minFrames int
	watchDirs []string
	done      chan struct{}
	wg        sync.WaitGroup
}

// NewSequenceWatcher creates a watcher over the given directories.
func NewSequenceWatcher(dirs []string, settle time.Duration, minFrames int, handler SequenceHandler, log *slog.Logger) (*SequenceWatcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if settle <= 0 {
		settle = 2 * time.Second
	}
	return &SequenceWatcher{
		watcher:   fsw,
		log:       log,
		handler:   handler,
		tracker:   newSettleTracker(settle),
		minFrames: minFrames,
		watchDirs: dirs,
		done:      make(chan struct{}),
	}, nil
}

// Start begins monitoring the configured directories.
func (w *SequenceWatcher) Start() error {
	for _, dir := range w.watchDirs {
		if err := w.watcher.Add(dir); err != nil {
			return err
		}
		w.log.Info("watching capture directory", "dir", dir)
	}

	w.wg.Add(1)
	go w.run()
	return nil
}

// Stop stops the watcher and waits for the event loop to exit.
func (w *SequenceWatcher) Stop() error {
	close(w.done)
	err := w.watcher.Close()
	w.wg.Wait()
	return err
}

func (w *SequenceWatcher) run() {
	defer w.wg.Done()
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if !fsutil.IsFrameFile(event.Name) {
				continue
			}
			w.tracker.Touch(filepath.Dir(event.Name), time.Now())
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("watcher error", "error", err)
		case now := <-ticker.C:
			for _, dir := range w.tracker.Due(now) {
				w.dispatch(dir)
			}
		}
	}
}

func (w *SequenceWatcher) dispatch(dir string) {
	frames, err := fsutil.ListFrames(dir)
	if err != nil {
		w.log.Warn("failed to list settled sequence", "dir", dir, "error", err)
		return
	}
	if len(frames) < w.minFrames {
		w.log.Debug("sequence too short, skipping", "dir", dir, "frames", len(frames))
		return
	}
	w.log.Info("frame sequence settled", "dir", dir, "frames", len(frames))
	w.handler(dir)
}

// settleTracker debounces per-directory activity: a directory becomes due
// once no touch has arrived for the settle period.
type settleTracker struct {
	mu     sync.Mutex
	settle time.Duration
	last   map[string]time.Time
}

func newSettleTracker(settle time.Duration) *settleTracker {
	return &settleTracker{settle: settle, last: make(map[string]time.Time)}
}

// Touch records activity in dir at time now.
func (t *settleTracker) Touch(dir string, now time.Time) {
	t.mu.Lock()
	t.last[dir] = now
	t.mu.Unlock()
}

// Due returns the directories whose settle period expired before now and
// forgets them.
func (t *settleTracker) Due(now time.Time) []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	var due []string
	for dir, last := range t.last {
		if now.Sub(last) >= t.settle {
			due = append(due, dir)
			delete(t.last, dir)
		}
	}
	return due
}
