package config

import (
	"fmt"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher hot-reloads a DeviceProfile file on change, the same
// debounced-fsnotify pattern as the teacher's cmd/vision3/config_watcher.go
// ConfigWatcher, reduced to the one file this package owns.
type Watcher struct {
	mu       sync.RWMutex
	path     string
	profile  DeviceProfile
	watcher  *fsnotify.Watcher
	done     chan struct{}
	onChange func(DeviceProfile)
}

// debounceDuration avoids reloading on rapid successive writes, matching
// the teacher's 500ms debounce window.
const debounceDuration = 500 * time.Millisecond

// NewWatcher loads path once and starts watching its parent directory for
// further changes. onChange, if non-nil, is called with each successfully
// reloaded profile.
func NewWatcher(path string, onChange func(DeviceProfile)) (*Watcher, error) {
	profile, err := Load(path)
	if err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("config: create watcher: %w", err)
	}
	dir := filepath.Dir(path)
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("config: watch %s: %w", dir, err)
	}
	w := &Watcher{
		path:     path,
		profile:  profile,
		watcher:  fw,
		done:     make(chan struct{}),
		onChange: onChange,
	}
	go w.loop()
	log.Printf("INFO: watching %s for profile changes", path)
	return w, nil
}

// Profile returns the most recently loaded profile.
func (w *Watcher) Profile() DeviceProfile {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.profile
}

// Stop closes the underlying fsnotify watcher.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.watcher == nil {
		return
	}
	select {
	case <-w.done:
	default:
		close(w.done)
	}
	w.watcher.Close()
	w.watcher = nil
}

func (w *Watcher) loop() {
	var timer *time.Timer
	for {
		select {
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if ev.Name != w.path {
				continue
			}
			if ev.Op&fsnotify.Write == 0 && ev.Op&fsnotify.Create == 0 {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounceDuration, w.reload)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("ERROR: profile watcher: %v", err)
		case <-w.done:
			return
		}
	}
}

func (w *Watcher) reload() {
	profile, err := Load(w.path)
	if err != nil {
		log.Printf("ERROR: reload %s: %v", w.path, err)
		return
	}
	w.mu.Lock()
	w.profile = profile
	cb := w.onChange
	w.mu.Unlock()
	log.Printf("INFO: profile %s reloaded", w.path)
	if cb != nil {
		cb(profile)
	}
}
