package scanner

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/conneroisu/tackweld/internal/errors"
	"github.com/conneroisu/tackweld/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatcherDoubleStar(t *testing.T) {
	m, err := CompileMatcher([]string{"src/**/*.html"})
	require.NoError(t, err)

	assert.True(t, m.Match("src/home.html"))
	assert.True(t, m.Match("src/pages/about.html"))
	assert.True(t, m.Match("src/a/b/c.html"))
	assert.False(t, m.Match("src/home.txt"))
	assert.False(t, m.Match("other/home.html"))
}

func TestMatcherSingleStarStaysInSegment(t *testing.T) {
	m, err := CompileMatcher([]string{"src/*.html"})
	require.NoError(t, err)

	assert.True(t, m.Match("src/home.html"))
	assert.False(t, m.Match("src/pages/about.html"))
}

func TestMatcherMultiplePatterns(t *testing.T) {
	m, err := CompileMatcher([]string{"./views/*.tpl", "**/*.{html,htm}"})
	require.NoError(t, err)

	assert.True(t, m.Match("views/a.tpl"))
	assert.True(t, m.Match("index.htm"))
	assert.True(t, m.Match("deep/nested/page.html"))
	assert.False(t, m.Match("views/a.txt"))
	assert.Equal(t, []string{"./views/*.tpl", "**/*.{html,htm}"}, m.Patterns())
}

func TestMatcherInvalidPattern(t *testing.T) {
	_, err := CompileMatcher([]string{"src/*.html", "src/[.html"})
	require.Error(t, err)
	assert.True(t, errors.IsConfigError(err))
	assert.Contains(t, err.Error(), "src/[.html")
}

func TestExpandDoubleStar(t *testing.T) {
	assert.ElementsMatch(t, []string{"a/**/b/**/*.html", "a/**/b/*.html", "a/b/**/*.html", "a/b/*.html"},
		expandDoubleStar("a/**/b/**/*.html"))
	assert.Equal(t, []string{"src/**"}, expandDoubleStar("src/**"))
	assert.Equal(t, []string{"*.html"}, expandDoubleStar("*.html"))
}

func TestScanSortedRelativePaths(t *testing.T) {
	root := t.TempDir()
	testutils.WriteFiles(t, root, map[string]string{
		"src/pages/about.html": "::about\n",
		"src/home.html":        "::home\n",
		"src/home.txt":         "not a template",
		"src/b.html":           "::b\n",
		"README.md":            "# readme",
	})

	paths, err := Scan(root, []string{"src/**/*.html"})
	require.NoError(t, err)
	assert.Equal(t, []string{"src/b.html", "src/home.html", "src/pages/about.html"}, paths)
}

func TestScanNoMatches(t *testing.T) {
	root := t.TempDir()
	testutils.WriteFiles(t, root, map[string]string{"a.txt": "x"})

	paths, err := Scan(root, []string{"**/*.html"})
	require.NoError(t, err)
	assert.Empty(t, paths)
}

func TestScanSkipsOutputDirectory(t *testing.T) {
	root := t.TempDir()
	testutils.WriteFiles(t, root, map[string]string{
		"src/home.html":         "::home\n",
		"build/tpl/stale.html":  "::stale\n",
		"build/other/keep.html": "::keep\n",
	})

	s, err := NewScanner(root, []string{"**/*.html"}, WithSkipDir(filepath.Join(root, "build", "tpl")))
	require.NoError(t, err)

	paths, err := s.Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"build/other/keep.html", "src/home.html"}, paths)
}

func TestScanSkipsSymlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks require privileges on windows")
	}
	root := t.TempDir()
	testutils.WriteFiles(t, root, map[string]string{"real.html": "::real\n"})
	require.NoError(t, os.Symlink(filepath.Join(root, "real.html"), filepath.Join(root, "link.html")))

	paths, err := Scan(root, []string{"*.html"})
	require.NoError(t, err)
	assert.Equal(t, []string{"real.html"}, paths)
}

func TestScanMissingRootIsFatal(t *testing.T) {
	_, err := Scan(filepath.Join(t.TempDir(), "missing"), []string{"**/*.html"})
	require.Error(t, err)
	assert.True(t, errors.IsIOError(err))
}

func TestReadSource(t *testing.T) {
	root := t.TempDir()
	testutils.WriteFiles(t, root, map[string]string{"src/home.html": "::home\n<p></p>"})

	s, err := NewScanner(root, []string{"**/*.html"})
	require.NoError(t, err)

	src, err := s.ReadSource("src/home.html")
	require.NoError(t, err)
	assert.Equal(t, "src/home.html", src.Path)
	assert.Equal(t, "::home\n<p></p>", src.Text)

	_, err = s.ReadSource("src/missing.html")
	require.Error(t, err)
	assert.True(t, errors.IsIOError(err))
}
