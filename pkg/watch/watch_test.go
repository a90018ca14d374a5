package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func startWatcher(t *testing.T, paths []string, opts ...Option) <-chan string {
	t.Helper()
	changes := make(chan string, 16)
	w, err := New(paths, func(path string) { changes <- path }, zap.NewNop(), opts...)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return changes
}

func waitFor(t *testing.T, changes <-chan string) string {
	t.Helper()
	select {
	case path := <-changes:
		return path
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for change")
		return ""
	}
}

func TestReportsSourceFilesInDirectory(t *testing.T) {
	dir := t.TempDir()
	changes := startWatcher(t, []string{dir})

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
	target := filepath.Join(dir, "rules.lkql")
	require.NoError(t, os.WriteFile(target, []byte("let x = 1"), 0644))

	assert.Equal(t, target, waitFor(t, changes))
}

func TestReportsOnlyNamedFile(t *testing.T) {
	dir := t.TempDir()
	named := filepath.Join(dir, "a.lkql")
	require.NoError(t, os.WriteFile(named, []byte("a"), 0644))

	changes := startWatcher(t, []string{named})

	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.lkql"), []byte("b"), 0644))
	require.NoError(t, os.WriteFile(named, []byte("a + 1"), 0644))

	assert.Equal(t, named, waitFor(t, changes))
}

func TestWatchesNewSubdirectories(t *testing.T) {
	dir := t.TempDir()
	changes := startWatcher(t, []string{dir})

	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.Mkdir(sub, 0755))
	// give the event loop time to add the new directory
	time.Sleep(200 * time.Millisecond)

	target := filepath.Join(sub, "c.lkql")
	require.NoError(t, os.WriteFile(target, []byte("c"), 0644))
	assert.Equal(t, target, waitFor(t, changes))
}

func TestNewFailsForMissingPath(t *testing.T) {
	_, err := New([]string{filepath.Join(t.TempDir(), "missing")}, func(string) {}, nil)
	assert.Error(t, err)
}

func TestDebounce(t *testing.T) {
	var got []string
	w := &Watcher{
		onChange:   func(path string) { got = append(got, path) },
		logger:     zap.NewNop(),
		extensions: map[string]bool{".lkql": true},
		files:      map[string]bool{},
		dirs:       map[string]bool{"src": true},
		debounce:   time.Hour,
		lastChange: map[string]time.Time{},
	}

	w.handleEvent(fsnotify.Event{Name: "src/a.lkql", Op: fsnotify.Write})
	w.handleEvent(fsnotify.Event{Name: "src/a.lkql", Op: fsnotify.Write})
	w.handleEvent(fsnotify.Event{Name: "src/b.lkql", Op: fsnotify.Create})
	w.handleEvent(fsnotify.Event{Name: "src/c.lkql", Op: fsnotify.Remove})
	w.handleEvent(fsnotify.Event{Name: "src/d.txt", Op: fsnotify.Write})
	w.handleEvent(fsnotify.Event{Name: "other/e.lkql", Op: fsnotify.Write})

	assert.Equal(t, []string{"src/a.lkql", "src/b.lkql"}, got)
}

func TestWithExtensions(t *testing.T) {
	w := &Watcher{}
	WithExtensions(".LKQL", ".q")(w)
	assert.Equal(t, map[string]bool{".lkql": true, ".q": true}, w.extensions)
}
