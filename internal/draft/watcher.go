package draft

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/Dallionking/talenthub/internal/logging"
)

// EventType classifies a change to a draft key.
type EventType string

const (
	EventSaved   EventType = "saved"
	EventRemoved EventType = "removed"
)

// Event is a debounced change to one draft key.
type Event struct {
	Key  string
	Type EventType
	Time time.Time
}

// Watcher reports changes made to a FileStorage directory, for example by
// another running wizard.
type Watcher struct {
	dir      string
	watcher  *fsnotify.Watcher
	debounce time.Duration
	logger   *slog.Logger
}

// NewWatcher starts an fsnotify watch on dir.
func NewWatcher(dir string, logger *slog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch directory %s: %w", dir, err)
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Watcher{
		dir:      dir,
		watcher:  fsw,
		debounce: 100 * time.Millisecond,
		logger:   logger,
	}, nil
}

// Watch returns a channel of events. Rapid writes to the same key within the
// debounce window collapse into one event carrying the last operation. The
// channel is closed when ctx is cancelled or the watcher is closed.
func (w *Watcher) Watch(ctx context.Context) <-chan Event {
	out := make(chan Event, 16)

	go func() {
		defer close(out)

		pending := make(map[string]EventType)
		var order []string

		timer := time.NewTimer(0)
		if !timer.Stop() {
			<-timer.C
		}

		flush := func() bool {
			for _, key := range order {
				ev := Event{Key: key, Type: pending[key], Time: time.Now()}
				select {
				case out <- ev:
				case <-ctx.Done():
					return false
				}
			}
			clear(pending)
			order = order[:0]
			return true
		}

		for {
			select {
			case <-ctx.Done():
				return

			case ev, ok := <-w.watcher.Events:
				if !ok {
					return
				}
				key := filepath.Base(ev.Name)
				// Skip temp files used for atomic writes.
				if strings.HasPrefix(key, ".tmp-") || !slices.Contains(Keys(), key) {
					continue
				}
				if _, seen := pending[key]; !seen {
					order = append(order, key)
				}
				pending[key] = classify(ev)
				timer.Reset(w.debounce)

			case <-timer.C:
				if len(order) > 0 && !flush() {
					return
				}

			case err, ok := <-w.watcher.Errors:
				if !ok {
					return
				}
				w.logger.Warn("draft watcher error", "dir", w.dir, "error", err)
			}
		}
	}()

	return out
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

func classify(ev fsnotify.Event) EventType {
	if ev.Has(fsnotify.Remove) {
		return EventRemoved
	}
	// A rename onto the key arrives as Create; a rename away as Rename.
	if ev.Has(fsnotify.Rename) {
		return EventRemoved
	}
	return EventSaved
}
