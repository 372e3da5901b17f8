package manifest

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/lixenwraith/ducky/parameter"
)

// Watcher reports changes to a single manifest file
// The parent directory is watched so editors that replace the file by rename are still seen
type Watcher struct {
	watcher *fsnotify.Watcher
	target  string
	Events  chan string
	Errors  chan error
	closeCh chan struct{}
	done    chan struct{}
	once    sync.Once
}

// NewWatcher starts watching path
func NewWatcher(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return nil, err
	}

	watcher := &Watcher{
		watcher: w,
		target:  abs,
		Events:  make(chan string, 16),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

// Close stops the watcher; Events and Errors are closed once the run loop exits
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
		close(w.Events)
		close(w.Errors)
	})
	return err
}

// run reports the target once it has been quiet for WatchDebounce
// Editors that truncate and write in steps produce one event for the finished file
func (w *Watcher) run() {
	defer close(w.done)

	var (
		quiet *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if quiet != nil {
			quiet.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			name, err := filepath.Abs(event.Name)
			if err != nil || name != w.target {
				continue
			}
			if quiet == nil {
				quiet = time.NewTimer(parameter.WatchDebounce)
			} else {
				quiet.Reset(parameter.WatchDebounce)
			}
			fire = quiet.C

		case <-fire:
			fire = nil
			select {
			case w.Events <- w.target:
			case <-w.closeCh:
				return
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}

		case <-w.closeCh:
			return
		}
	}
}
