// Package watcher re-runs component extraction when template sources change.
//
// A Watcher turns fsnotify events under a directory tree into Changes,
// drops the ones its filters reject, and hands debounced batches to its
// handlers. Rebuilder is the handler that re-extracts.
package watcher

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/conneroisu/tackweld/internal/errors"
	"github.com/conneroisu/tackweld/internal/logging"
)

// Op is the kind of a file change.
type Op string

const (
	Created Op = "created"
	Written Op = "written"
	Removed Op = "removed"
	Renamed Op = "renamed"
)

// Change is one observed change to a file.
type Change struct {
	Path string
	Op   Op
}

// Filter reports whether a path is relevant.
type Filter func(path string) bool

// Handler receives one debounced batch of changes.
type Handler func(ctx context.Context, changes []Change) error

// Watcher watches a directory tree and reports debounced file changes.
type Watcher struct {
	fsw      *fsnotify.Watcher
	debounce *Debouncer
	logger   logging.Logger

	mu       sync.RWMutex
	filters  []Filter
	keepDir  Filter
	handlers []Handler
	cancel   context.CancelFunc
}

// New creates a watcher whose batches close after delay of quiet. A nil
// logger discards output.
func New(delay time.Duration, logger logging.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.NewInternalError(errors.ErrCodeWatch, "failed to create file watcher", err)
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	return &Watcher{
		fsw:      fsw,
		debounce: NewDebouncer(delay),
		logger:   logger.WithComponent("watcher"),
	}, nil
}

// AddFilter adds a file filter. A change is reported only if every filter
// accepts its path.
func (w *Watcher) AddFilter(f Filter) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.filters = append(w.filters, f)
}

// SetDirFilter decides which subdirectories are watched, both by
// AddRecursive and when they appear later.
func (w *Watcher) SetDirFilter(f Filter) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.keepDir = f
}

// AddHandler adds a batch handler. Handlers run in order on one goroutine.
func (w *Watcher) AddHandler(h Handler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlers = append(w.handlers, h)
}

// AddRecursive watches root and every subdirectory the dir filter accepts.
func (w *Watcher) AddRecursive(root string) error {
	return w.addTree(filepath.Clean(root), nil)
}

// addTree watches dir and its accepted subdirectories. When found is not
// nil it is called for every regular file inside.
func (w *Watcher) addTree(dir string, found func(path string)) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return errors.ErrWalk(path, err)
		}
		if !d.IsDir() {
			if found != nil && d.Type().IsRegular() {
				found(path)
			}
			return nil
		}
		if path != dir && !w.acceptDir(path) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return errors.NewIOError(errors.ErrCodeWatch, "cannot watch directory", err).WithFile(path)
		}
		return nil
	})
}

// Start runs the watcher until ctx is done or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.cancel != nil {
		return errors.NewInternalError(errors.ErrCodeWatch, "watcher already started", nil)
	}
	ctx, w.cancel = context.WithCancel(ctx)

	go w.debounce.Run(ctx)
	go w.dispatch(ctx)
	go w.observe(ctx)

	return nil
}

// Stop halts the watcher and releases its fsnotify handle.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if w.cancel != nil {
		w.cancel()
	}
	w.mu.Unlock()

	return w.fsw.Close()
}

func (w *Watcher) observe(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.record(ctx, event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn(ctx, err, "File watcher error")
		}
	}
}

func (w *Watcher) record(ctx context.Context, event fsnotify.Event) {
	op, ok := opOf(event.Op)
	if !ok {
		return
	}

	if op == Created {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			w.watchNewDir(ctx, event.Name)
			return
		}
	}

	w.push(ctx, Change{Path: event.Name, Op: op})
}

// watchNewDir starts watching a directory created after AddRecursive and
// reports the files already inside it, since their own events were missed.
func (w *Watcher) watchNewDir(ctx context.Context, dir string) {
	if !w.acceptDir(dir) {
		return
	}
	err := w.addTree(dir, func(path string) {
		w.push(ctx, Change{Path: path, Op: Created})
	})
	if err != nil {
		w.logger.Warn(ctx, err, "Failed to watch new directory", "path", dir)
	}
}

func (w *Watcher) push(ctx context.Context, c Change) {
	if !w.accept(c.Path) {
		return
	}
	w.logger.Debug(ctx, "File changed", "path", c.Path, "op", string(c.Op))
	if !w.debounce.Push(c) {
		w.logger.Warn(ctx, nil, "Change dropped, queue is full", "path", c.Path)
	}
}

func (w *Watcher) dispatch(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case batch := <-w.debounce.Batches():
			w.mu.RLock()
			handlers := w.handlers
			w.mu.RUnlock()

			for _, h := range handlers {
				if err := h(ctx, batch); err != nil {
					w.logger.Error(ctx, err, "Change handler failed", "changes", len(batch))
				}
			}
		}
	}
}

func (w *Watcher) accept(path string) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return All(w.filters...)(path)
}

func (w *Watcher) acceptDir(path string) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.keepDir == nil || w.keepDir(path)
}

// opOf maps an fsnotify op to a Change op. Permission-only changes are
// dropped.
func opOf(op fsnotify.Op) (Op, bool) {
	switch {
	case op.Has(fsnotify.Create):
		return Created, true
	case op.Has(fsnotify.Write):
		return Written, true
	case op.Has(fsnotify.Remove):
		return Removed, true
	case op.Has(fsnotify.Rename):
		return Renamed, true
	default:
		return "", false
	}
}
