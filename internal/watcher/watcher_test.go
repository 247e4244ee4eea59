package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/tackweld/internal/build"
	"github.com/conneroisu/tackweld/internal/scanner"
	"github.com/conneroisu/tackweld/internal/testutils"
)

func TestOpOf(t *testing.T) {
	testCases := []struct {
		name string
		op   fsnotify.Op
		want Op
		ok   bool
	}{
		{"create", fsnotify.Create, Created, true},
		{"write", fsnotify.Write, Written, true},
		{"remove", fsnotify.Remove, Removed, true},
		{"rename", fsnotify.Rename, Renamed, true},
		{"create and write", fsnotify.Create | fsnotify.Write, Created, true},
		{"chmod", fsnotify.Chmod, "", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := opOf(tc.op)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDebouncerKeepsLatestChangePerPath(t *testing.T) {
	debouncer := NewDebouncer(30 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go debouncer.Run(ctx)

	require.True(t, debouncer.Push(Change{Path: "b.html", Op: Created}))
	require.True(t, debouncer.Push(Change{Path: "a.html", Op: Written}))
	require.True(t, debouncer.Push(Change{Path: "b.html", Op: Removed}))

	select {
	case batch := <-debouncer.Batches():
		assert.Equal(t, []Change{
			{Path: "a.html", Op: Written},
			{Path: "b.html", Op: Removed},
		}, batch)
	case <-time.After(2 * time.Second):
		t.Fatal("debouncer did not flush")
	}
}

func TestDebouncerMergesWhileConsumerIsBusy(t *testing.T) {
	debouncer := NewDebouncer(20 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go debouncer.Run(ctx)

	// The first batch fills the output; later ones must merge, not drop.
	require.True(t, debouncer.Push(Change{Path: "a.html", Op: Written}))
	require.Eventually(t, func() bool { return len(debouncer.out) == 1 }, 2*time.Second, 5*time.Millisecond)

	require.True(t, debouncer.Push(Change{Path: "b.html", Op: Written}))
	time.Sleep(60 * time.Millisecond)
	require.True(t, debouncer.Push(Change{Path: "c.html", Op: Written}))
	time.Sleep(60 * time.Millisecond)

	first := <-debouncer.Batches()
	assert.Equal(t, []Change{{Path: "a.html", Op: Written}}, first)

	select {
	case second := <-debouncer.Batches():
		assert.Equal(t, []Change{
			{Path: "b.html", Op: Written},
			{Path: "c.html", Op: Written},
		}, second)
	case <-time.After(2 * time.Second):
		t.Fatal("pending changes were not flushed")
	}
}

func TestPatternFilter(t *testing.T) {
	root := t.TempDir()
	matcher, err := scanner.CompileMatcher([]string{"src/**/*.html"})
	require.NoError(t, err)

	filter := PatternFilter(root, matcher)

	assert.True(t, filter(filepath.Join(root, "src", "a.html")))
	assert.True(t, filter(filepath.Join(root, "src", "pages", "b.html")))
	assert.False(t, filter(filepath.Join(root, "src", "a.css")))
	assert.False(t, filter(filepath.Join(root, "other", "a.html")))
	assert.False(t, filter(filepath.Join(filepath.Dir(root), "src", "a.html")))
}

func TestIgnoreFilter(t *testing.T) {
	filter := IgnoreFilter([]string{".git", "node_modules", "*.swp"})

	testCases := []struct {
		path     string
		expected bool
	}{
		{"src/main.html", true},
		{".git/config", false},
		{"web/node_modules/x/index.html", false},
		{"src/.page.html.swp", false},
		{"src/gitlike.html", true},
	}

	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			assert.Equal(t, tc.expected, filter(filepath.FromSlash(tc.path)))
		})
	}
}

func TestExcludeDirFilter(t *testing.T) {
	root := t.TempDir()
	out := filepath.Join(root, "build")
	filter := ExcludeDirFilter(out)

	assert.False(t, filter(out))
	assert.False(t, filter(filepath.Join(out, "tw_tpl_card")))
	assert.True(t, filter(filepath.Join(root, "build.html")))
	assert.True(t, filter(filepath.Join(root, "src", "card.html")))
}

func TestAll(t *testing.T) {
	yes := func(string) bool { return true }
	no := func(string) bool { return false }

	assert.True(t, All()("x"))
	assert.True(t, All(yes, yes)("x"))
	assert.False(t, All(yes, no)("x"))
}

func TestRebuilderHandle(t *testing.T) {
	root := t.TempDir()
	out := filepath.Join(root, "out")
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.html"), []byte("::card\n<b>1</b>\n"), 0644))

	r := NewRebuilder(build.Options{
		Root:     root,
		Patterns: []string{"*.html"},
		OutDir:   out,
	}, nil)

	require.NoError(t, r.Handle(context.Background(), []Change{{Path: "a.html", Op: Written}}))
	assert.Equal(t, 1, r.Runs())

	assert.Equal(t, "<b>1</b>", testutils.ReadFile(t, out, "tw_tpl_card"))

	require.NoError(t, os.WriteFile(filepath.Join(root, "a.html"), []byte("no marker\n"), 0644))
	assert.Error(t, r.Handle(context.Background(), nil))
	assert.Equal(t, 2, r.Runs())
}

func TestRebuilderSerializesRuns(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.html"), []byte("::x\ny\n"), 0644))

	r := NewRebuilder(build.Options{
		Root:     root,
		Patterns: []string{"*.html"},
		OutDir:   filepath.Join(root, "out"),
	}, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := r.Rebuild(context.Background())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 8, r.Runs())
}

func TestWatcherDeliversFilteredChanges(t *testing.T) {
	root := t.TempDir()

	w, err := New(30*time.Millisecond, nil)
	require.NoError(t, err)
	defer w.Stop()

	var mu sync.Mutex
	var seen []string

	w.AddFilter(func(path string) bool { return filepath.Ext(path) == ".html" })
	w.AddHandler(func(ctx context.Context, changes []Change) error {
		mu.Lock()
		defer mu.Unlock()
		for _, c := range changes {
			seen = append(seen, filepath.Base(c.Path))
		}
		return nil
	})
	require.NoError(t, w.AddRecursive(root))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	assert.Error(t, w.Start(ctx), "second Start must fail")

	require.NoError(t, os.WriteFile(filepath.Join(root, "skip.txt"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "page.html"), []byte("::a\nb\n"), 0644))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) > 0
	}, 3*time.Second, 20*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.NotContains(t, seen, "skip.txt")
	assert.Contains(t, seen, "page.html")
}

func TestWatcherReportsFilesInNewDirectory(t *testing.T) {
	root := t.TempDir()

	w, err := New(30*time.Millisecond, nil)
	require.NoError(t, err)
	defer w.Stop()

	var mu sync.Mutex
	seen := make(map[string]bool)

	w.SetDirFilter(IgnoreFilter([]string{"ignored"}))
	w.AddHandler(func(ctx context.Context, changes []Change) error {
		mu.Lock()
		defer mu.Unlock()
		for _, c := range changes {
			if rel, err := filepath.Rel(root, c.Path); err == nil {
				seen[filepath.ToSlash(rel)] = true
			}
		}
		return nil
	})
	require.NoError(t, w.AddRecursive(root))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))

	// Files written before the directory is watched are still reported.
	staging := t.TempDir()
	testutils.WriteFiles(t, staging, map[string]string{"pages/about.html": "::about\nhi\n"})
	require.NoError(t, os.Rename(filepath.Join(staging, "pages"), filepath.Join(root, "pages")))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return seen["pages/about.html"]
	}, 3*time.Second, 20*time.Millisecond)
}

func TestWatchReextractsOnChange(t *testing.T) {
	root := t.TempDir()
	out := filepath.Join(root, "out")
	src := filepath.Join(root, "page.html")
	require.NoError(t, os.WriteFile(src, []byte("::card\nv1\n"), 0644))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, Config{
			Options: build.Options{
				Root:     root,
				Patterns: []string{"**/*.html"},
				OutDir:   out,
			},
			Debounce: 30 * time.Millisecond,
			Ignore:   []string{".git"},
		}, nil)
	}()

	artifact := filepath.Join(out, "tw_tpl_card")
	testutils.WaitForContent(t, artifact, "v1", 3*time.Second)

	// Give the watcher time to register the root before editing.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(src, []byte("::card\nv2\n"), 0644))

	testutils.WaitForContent(t, artifact, "v2", 3*time.Second)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}

func TestWatchRejectsInvalidOptions(t *testing.T) {
	err := Watch(context.Background(), Config{Options: build.Options{Root: "."}}, nil)
	assert.Error(t, err)
}
