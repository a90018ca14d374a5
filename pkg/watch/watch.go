// Package watch reports changes to LKQL source files.
package watch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is the quiet period between two reports for the same file
const DefaultDebounce = 100 * time.Millisecond

// Option configures a Watcher
type Option func(*Watcher)

// WithExtensions replaces the reported file extensions (default ".lkql").
func WithExtensions(exts ...string) Option {
	return func(w *Watcher) {
		w.extensions = make(map[string]bool, len(exts))
		for _, ext := range exts {
			w.extensions[strings.ToLower(ext)] = true
		}
	}
}

// WithDebounce sets the debounce period.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// Watcher monitors files and directories and calls back when a source
// file is written or created.
type Watcher struct {
	watcher    *fsnotify.Watcher
	onChange   func(path string)
	logger     *zap.Logger
	extensions map[string]bool
	files      map[string]bool // explicitly named files
	dirs       map[string]bool // recursively watched directories
	debounce   time.Duration

	mu         sync.Mutex
	lastChange map[string]time.Time
}

// New watches paths. Directories are watched recursively; for a file its
// directory is watched and only that file is reported.
func New(paths []string, onChange func(path string), logger *zap.Logger, opts ...Option) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	w := &Watcher{
		watcher:    fsWatcher,
		onChange:   onChange,
		logger:     logger,
		extensions: map[string]bool{".lkql": true},
		files:      make(map[string]bool),
		dirs:       make(map[string]bool),
		debounce:   DefaultDebounce,
		lastChange: make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(w)
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			fsWatcher.Close()
			return nil, err
		}
		if info.IsDir() {
			err = w.watchDirRecursive(path)
		} else {
			w.files[filepath.Clean(path)] = true
			err = fsWatcher.Add(filepath.Dir(path))
		}
		if err != nil {
			fsWatcher.Close()
			return nil, err
		}
		w.logger.Info("watching", zap.String("path", path))
	}

	return w, nil
}

// Run processes events until ctx is cancelled, then releases the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.watchDirRecursive(event.Name); err != nil {
				w.logger.Warn("failed to watch new directory", zap.String("path", event.Name), zap.Error(err))
			}
			return
		}
	}

	if !w.wanted(event.Name) {
		return
	}

	w.mu.Lock()
	if time.Since(w.lastChange[event.Name]) < w.debounce {
		w.mu.Unlock()
		return
	}
	w.lastChange[event.Name] = time.Now()
	w.mu.Unlock()

	w.logger.Debug("file changed", zap.String("path", event.Name), zap.Stringer("op", event.Op))
	w.onChange(event.Name)
}

// wanted reports whether path is a named file or a source file inside a
// recursively watched directory
func (w *Watcher) wanted(path string) bool {
	path = filepath.Clean(path)
	if w.files[path] {
		return true
	}
	if !w.extensions[strings.ToLower(filepath.Ext(path))] {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.dirs[filepath.Dir(path)]
}

// watchDirRecursive adds a directory and its subdirectories to the watch list
func (w *Watcher) watchDirRecursive(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			return nil
		}
		if strings.HasPrefix(info.Name(), ".") && path != root {
			return filepath.SkipDir
		}
		w.mu.Lock()
		w.dirs[filepath.Clean(path)] = true
		w.mu.Unlock()
		return w.watcher.Add(path)
	})
}
