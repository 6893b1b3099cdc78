package analysis

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/heatwatch/heatwatch/internal/logger"
)

// ReportWatcher signals whenever the anomaly report file is created or
// rewritten. It prefers filesystem notifications and falls back to mtime
// polling when a watcher cannot be established.
type ReportWatcher struct {
	changes   chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// WatchReport starts watching path for writes. Changes are coalesced: a
// burst of writes produces at most one pending signal.
func WatchReport(path string, log logger.Logger) *ReportWatcher {
	if log == nil {
		log = logger.Default()
	}
	w := &ReportWatcher{
		changes: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}

	dir := filepath.Dir(path)
	base := filepath.Base(path)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Warn("report watcher unavailable, polling instead: %v", err)
		go w.poll(path)
		return w
	}
	if err := watcher.Add(dir); err != nil {
		log.Warn("cannot watch %s, polling instead: %v", dir, err)
		watcher.Close()
		go w.poll(path)
		return w
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-w.done:
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&fsnotify.Create != 0 || event.Op&fsnotify.Write != 0 {
					if filepath.Base(event.Name) == base {
						w.signal()
					}
				}
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
				// Watch errors are non-fatal; keep watching.
			}
		}
	}()

	return w
}

// Changes returns the channel that receives one signal per detected change.
func (w *ReportWatcher) Changes() <-chan struct{} {
	return w.changes
}

// Close stops the watcher and its goroutine.
func (w *ReportWatcher) Close() {
	w.closeOnce.Do(func() { close(w.done) })
}

func (w *ReportWatcher) signal() {
	select {
	case w.changes <- struct{}{}:
	default:
		// A signal is already pending.
	}
}

// poll tracks the report mtime when fsnotify is unavailable.
func (w *ReportWatcher) poll(path string) {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	var last time.Time
	if info, err := os.Stat(path); err == nil {
		last = info.ModTime()
	}

	for {
		select {
		case <-w.done:
			return
		case <-ticker.C:
			info, err := os.Stat(path)
			if err != nil {
				continue
			}
			if mt := info.ModTime(); mt.After(last) {
				last = mt
				w.signal()
			}
		}
	}
}
