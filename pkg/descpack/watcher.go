package descpack

import (
	"fmt"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher triggers Manager.HotReload whenever dir changes on disk, per the
// DOMAIN STACK's "directory-change-triggered hot reload" wiring for
// fsnotify.
type Watcher struct {
	fsw     *fsnotify.Watcher
	mgr     *Manager
	dir     string
	logger  *zap.Logger
	done    chan struct{}
}

// NewWatcher opens an fsnotify watch on dir and wires it to mgr.
func NewWatcher(mgr *Manager, dir string, logger *zap.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("descpack: new watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("descpack: watch %s: %w", dir, err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{fsw: fsw, mgr: mgr, dir: dir, logger: logger, done: make(chan struct{})}, nil
}

// Run blocks, reloading the pack on every write/create/remove event until
// Close is called.
func (w *Watcher) Run() {
	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if err := w.mgr.HotReload(w.dir); err != nil {
				w.logger.Warn("descpack: hot reload failed, keeping previous pack active", zap.String("dir", w.dir), zap.Error(err))
				continue
			}
			w.logger.Info("descpack: hot reload succeeded", zap.String("dir", w.dir))
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("descpack: watch error", zap.Error(err))
		case <-w.done:
			return
		}
	}
}

// Close stops Run and releases the underlying fsnotify watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fsw.Close()
}
