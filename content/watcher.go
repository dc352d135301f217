// ABOUTME: Watches a document directory and triggers a reload on change
// ABOUTME: Debounces bursts of editor writes into a single callback
package content

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 500 * time.Millisecond

// Watcher calls onChange after markdown or manifest files in dir change.
type Watcher struct {
	dir      string
	fsw      *fsnotify.Watcher
	debounce time.Duration
	onChange func(context.Context)
}

// NewWatcher starts watching dir. Call Run to process events.
func NewWatcher(dir string, debounce time.Duration, onChange func(context.Context)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	return &Watcher{dir: dir, fsw: fsw, debounce: debounce, onChange: onChange}, nil
}

// Run blocks until ctx is done, firing onChange once per quiet period.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !relevant(ev) {
				continue
			}
			log.Debug("content: change detected", "path", ev.Name, "op", ev.Op.String())
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			log.Warn("content: watch error", "dir", w.dir, "err", err)
		case <-fire:
			fire = nil
			w.onChange(ctx)
		}
	}
}

func relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return false
	}
	switch filepath.Ext(ev.Name) {
	case ".md", ".yaml", ".yml":
		return true
	}
	return false
}
