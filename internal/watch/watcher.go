// Package watch reports changes to observation files.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/chrissnell/polltrend/internal/chart"
)

// DefaultQuiet is how long a file must stay unchanged before a change is
// reported.
const DefaultQuiet = 500 * time.Millisecond

// Watcher calls back when any of a set of files is written, created or
// replaced. Bursts of events are reported once.
type Watcher struct {
	watcher *fsnotify.Watcher
	files   map[string]bool
	quiet   time.Duration
	logger  *zap.SugaredLogger
}

// New watches files. The containing directories are watched so that files
// replaced by rename are still seen.
func New(files []string, quiet time.Duration, logger *zap.SugaredLogger) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed creating file watcher: %w", err)
	}

	w := &Watcher{
		watcher: fw,
		files:   make(map[string]bool, len(files)),
		quiet:   quiet,
		logger:  logger,
	}

	dirs := make(map[string]bool)
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			fw.Close()
			return nil, fmt.Errorf("failed to resolve %s: %w", f, err)
		}
		w.files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	return w, nil
}

// Run delivers change notifications to onChange until ctx is done. onChange
// runs on a timer goroutine.
func (w *Watcher) Run(ctx context.Context, onChange func()) error {
	defer w.watcher.Close()

	debounce := chart.NewDebouncer(w.quiet, onChange)
	defer debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev) {
				continue
			}
			w.logger.Debugw("observation file changed", "file", ev.Name, "op", ev.Op.String())
			debounce.Trigger()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warnw("file watcher error", "error", err)
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
		return false
	}
	abs, err := filepath.Abs(ev.Name)
	if err != nil {
		return false
	}
	return w.files[abs]
}
