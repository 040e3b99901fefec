package synth

import (
	"context"
	"errors"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"
)

// DefaultWatchInterval is the minimum time between two change
// notifications. Copying a voice model produces a burst of events.
const DefaultWatchInterval = 2 * time.Second

// Watcher calls onChange when files are added to, removed from or renamed
// in the watched directories. Bursts are coalesced so that onChange runs
// at most once per interval, and always after the last event.
type Watcher struct {
	watcher  *fsnotify.Watcher
	limiter  *rate.Limiter
	onChange func()
	pending  chan struct{}

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewWatcher watches dirs. Directories that do not exist are skipped; it
// is an error if none can be watched.
func NewWatcher(dirs []string, interval time.Duration, onChange func()) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	watched := 0
	for _, dir := range dirs {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			log.Debug("voice directory not watched", "dir", dir)
			continue
		}
		if err := fw.Add(dir); err != nil {
			log.Warn("error adding dir to fsnotify watcher", "dir", dir, "error", err)
			continue
		}
		log.Debug("fsnotify watching dir", "dir", dir)
		watched++
	}
	if watched == 0 {
		_ = fw.Close()
		return nil, errors.New("no voice directory to watch")
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		watcher:  fw,
		limiter:  rate.NewLimiter(rate.Every(interval), 1),
		onChange: onChange,
		pending:  make(chan struct{}, 1),
		cancel:   cancel,
	}
	w.wg.Add(2)
	go w.watch(ctx)
	go w.notify(ctx)
	return w, nil
}

func (w *Watcher) watch(ctx context.Context) {
	defer w.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			log.Debug("fsnotify event", "file", event.Name, "event", event.Op)
			select {
			case w.pending <- struct{}{}:
			default: // a notification is already pending
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Debug("fsnotify error", "error", err)
		}
	}
}

func (w *Watcher) notify(ctx context.Context) {
	defer w.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.pending:
		}
		if err := w.limiter.Wait(ctx); err != nil {
			return
		}
		w.onChange()
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	w.cancel()
	err := w.watcher.Close()
	w.wg.Wait()
	return err
}
