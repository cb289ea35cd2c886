package matrixquiz

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultWatchDebounce is the quiet period before a file change triggers
// a reload.
const DefaultWatchDebounce = 300 * time.Millisecond

// configWatcher calls onChange after a configuration file has been written
// and left alone for the debounce period.
type configWatcher struct {
	watcher  *fsnotify.Watcher
	path     string
	debounce time.Duration
	onChange func() error
	onError  func(error)

	mu      sync.Mutex
	running bool
	stop    chan struct{}
	done    chan struct{}
}

// newConfigWatcher watches the directory holding path, so that editors
// saving through rename-and-replace are still noticed.
func newConfigWatcher(path string, debounce time.Duration, onChange func() error, onError func(error)) (*configWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		w.Close()
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultWatchDebounce
	}
	return &configWatcher{
		watcher:  w,
		path:     path,
		debounce: debounce,
		onChange: onChange,
		onError:  onError,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}, nil
}

// Start runs the event loop in a new goroutine. Calling it twice is a no-op.
func (cw *configWatcher) Start() {
	cw.mu.Lock()
	defer cw.mu.Unlock()
	if cw.running {
		return
	}
	cw.running = true
	go cw.loop()
}

// Stop ends the event loop and waits for it to exit.
func (cw *configWatcher) Stop() {
	cw.mu.Lock()
	if !cw.running {
		cw.mu.Unlock()
		return
	}
	cw.running = false
	cw.mu.Unlock()

	close(cw.stop)
	<-cw.done
}

func (cw *configWatcher) matches(name string) bool {
	if filepath.Base(name) != filepath.Base(cw.path) {
		return false
	}
	want, err1 := filepath.Abs(cw.path)
	got, err2 := filepath.Abs(name)
	return err1 != nil || err2 != nil || want == got
}

func (cw *configWatcher) loop() {
	defer close(cw.done)
	defer cw.watcher.Close()

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-cw.stop:
			return

		case ev, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			if !cw.matches(ev.Name) || !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(cw.debounce)
			} else {
				timer.Reset(cw.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			if cw.onChange == nil {
				continue
			}
			if err := cw.onChange(); err != nil && cw.onError != nil {
				cw.onError(err)
			}

		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			if cw.onError != nil {
				cw.onError(err)
			}
		}
	}
}
