package server

import (
	"io"
	"log"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

type closerFunc func() error

func (c closerFunc) Close() error { return c() }

// operatorWatcher reloads the operator registry once changes in the
// operators dir have been quiet for the debounce period.
type operatorWatcher struct {
	st       *state
	mu       *sync.Mutex
	dir      string
	debounce time.Duration
	w        *fsnotify.Watcher
	stop     chan struct{}
	done     chan struct{}
}

// installOperatorsAutoReload starts a watcher when auto reload is enabled;
// otherwise it returns nil.
func installOperatorsAutoReload(st *state, mu *sync.Mutex) (io.Closer, error) {
	if st == nil || mu == nil || !st.cfg.Operators.AutoReload.Enabled {
		return nil, nil
	}
	dir := strings.TrimSpace(st.cfg.Operators.Dir)
	if dir == "" {
		return nil, nil
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// Operator files are read from the top level only.
	if err := fw.Add(dir); err != nil {
		_ = fw.Close()
		return nil, err
	}
	ow := &operatorWatcher{
		st:       st,
		mu:       mu,
		dir:      dir,
		debounce: time.Duration(st.cfg.Operators.AutoReload.DebounceMs) * time.Millisecond,
		w:        fw,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go ow.loop()
	log.Printf("operators auto-reload enabled: dir=%q debounce_ms=%d", dir, st.cfg.Operators.AutoReload.DebounceMs)
	return closerFunc(ow.close), nil
}

func (ow *operatorWatcher) close() error {
	close(ow.stop)
	err := ow.w.Close()
	<-ow.done
	return err
}

func (ow *operatorWatcher) loop() {
	defer close(ow.done)
	// pending is nil while no reload is scheduled.
	var pending <-chan time.Time
	for {
		select {
		case <-ow.stop:
			return
		case <-pending:
			pending = nil
			ow.reload()
		case err, ok := <-ow.w.Errors:
			if !ok {
				return
			}
			log.Printf("operators auto-reload watcher error: %v", err)
		case evt, ok := <-ow.w.Events:
			if !ok {
				return
			}
			if shouldTriggerOperatorReload(evt) {
				pending = time.After(ow.debounce)
			}
		}
	}
}

func (ow *operatorWatcher) reload() {
	ow.mu.Lock()
	res, err := reloadOperatorsRuntime(ow.st)
	ow.mu.Unlock()
	if err != nil {
		log.Printf("reload failed (operators auto): %v", err)
		return
	}
	log.Printf("reload ok (operators auto): operators_dir=%q changed_operators=%s", ow.dir, operatorNamesForLog(res.Changed))
}

// shouldTriggerOperatorReload accepts content changes of visible yaml files.
func shouldTriggerOperatorReload(evt fsnotify.Event) bool {
	if strings.TrimSpace(evt.Name) == "" {
		return false
	}
	if !evt.Has(fsnotify.Create) && !evt.Has(fsnotify.Write) && !evt.Has(fsnotify.Remove) && !evt.Has(fsnotify.Rename) {
		return false
	}
	base := filepath.Base(evt.Name)
	if strings.HasPrefix(base, ".") {
		return false
	}
	ext := filepath.Ext(base)
	return ext == ".yaml" || ext == ".yml"
}
