package content

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/iburimskiy/portfolio/internal/logging"
)

var watchLog = logging.Module("content")

// DefaultDebounce is how long a file must settle before it is reloaded.
const DefaultDebounce = 200 * time.Millisecond

// Watcher reloads a content file whenever it changes on disk and publishes
// the parsed result on Updates. Invalid edits are logged and skipped.
type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	debounce time.Duration
	updates  chan *Content

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewWatcher creates a watcher for path. The parent directory is watched so
// editors that save through rename are picked up.
func NewWatcher(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	return &Watcher{
		path:     abs,
		watcher:  fw,
		debounce: DefaultDebounce,
		updates:  make(chan *Content, 1),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Updates delivers freshly parsed content. Only the latest unread value is kept.
func (w *Watcher) Updates() <-chan *Content {
	return w.updates
}

// Start begins watching in a goroutine.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}
	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.path, err)
	}
	w.running = true
	go w.run(ctx)
	watchLog.Debug().Str("path", w.path).Msg("watching content file")
	return nil
}

// Stop ends the watch loop and releases the underlying watcher.
func (w *Watcher) Stop() {
	w.mu.Lock()
	running := w.running
	w.running = false
	w.mu.Unlock()

	if running {
		close(w.stopCh)
		<-w.doneCh
	}
	if err := w.watcher.Close(); err != nil {
		watchLog.Error().Err(err).Msg("failed to close watcher")
	}
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	var (
		timer   *time.Timer
		timerCh <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			timerCh = timer.C

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			watchLog.Warn().Err(err).Msg("watcher error")

		case <-timerCh:
			timerCh = nil
			w.reload()
		}
	}
}

func (w *Watcher) reload() {
	c, err := Load(w.path)
	if err != nil {
		watchLog.Warn().Err(err).Str("path", w.path).Msg("ignoring invalid content edit")
		return
	}
	// Drop a stale unread value so the consumer always sees the newest edit.
	select {
	case <-w.updates:
	default:
	}
	w.updates <- c
	watchLog.Info().Str("path", w.path).Msg("content reloaded")
}
