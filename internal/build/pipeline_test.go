package build

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/conneroisu/tackweld/internal/errors"
	"github.com/conneroisu/tackweld/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readArtifact(t *testing.T, outDir, id string) string {
	t.Helper()
	return testutils.ReadFile(t, outDir, DefaultPrefix+id)
}

func newOptions(root string) Options {
	return Options{
		Root:     root,
		Patterns: []string{"src/**/*.html"},
		OutDir:   filepath.Join(root, "out"),
	}
}

func TestExtractOneArtifactPerComponent(t *testing.T) {
	root := t.TempDir()
	testutils.WriteFiles(t, root, map[string]string{
		"src/home.html":        "::root\n<div>Items: {items}</div>\n::item\n<div>value: {val}</div>",
		"src/pages/about.html": "::about\n<section>\n<h1>{title}</h1>\n</section>\n",
		"src/notes.txt":        "ignored",
	})

	opts := newOptions(root)
	result, err := Extract(context.Background(), opts, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"src/home.html", "src/pages/about.html"}, result.Sources)
	require.Len(t, result.Artifacts, 3)
	assert.Equal(t, "about", result.Artifacts[0].ID)
	assert.Equal(t, "item", result.Artifacts[1].ID)
	assert.Equal(t, "root", result.Artifacts[2].ID)

	assert.Equal(t, "<div>Items: {items}</div>", readArtifact(t, opts.OutDir, "root"))
	assert.Equal(t, "<div>value: {val}</div>", readArtifact(t, opts.OutDir, "item"))
	assert.Equal(t, "<section><h1>{title}</h1></section>", readArtifact(t, opts.OutDir, "about"))

	entries, err := os.ReadDir(opts.OutDir)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestExtractIsIdempotent(t *testing.T) {
	root := t.TempDir()
	testutils.WriteFiles(t, root, map[string]string{
		"src/a.html": "::a\n<p>{x}</p>\n::b\n<i>b</i>",
	})
	opts := newOptions(root)

	first, err := Extract(context.Background(), opts, nil)
	require.NoError(t, err)
	before := map[string]string{}
	for _, a := range first.Artifacts {
		before[a.ID] = readArtifact(t, opts.OutDir, a.ID)
	}

	second, err := Extract(context.Background(), opts, nil)
	require.NoError(t, err)
	assert.Equal(t, first.Artifacts, second.Artifacts)
	for id, content := range before {
		assert.Equal(t, content, readArtifact(t, opts.OutDir, id))
	}
}

func TestExtractRedefinitionDisallowed(t *testing.T) {
	root := t.TempDir()
	testutils.WriteFiles(t, root, map[string]string{
		"src/a.html": "::root\n<p>from a</p>",
		"src/b.html": "::root\n<p>from b</p>",
	})
	opts := newOptions(root)

	_, err := Extract(context.Background(), opts, nil)
	require.Error(t, err)
	assert.True(t, errors.IsRedefinition(err))
	assert.Contains(t, err.Error(), "root")
	assert.Contains(t, err.Error(), "src/a.html")
	assert.Contains(t, err.Error(), "src/b.html")

	_, statErr := os.Stat(opts.OutDir)
	assert.True(t, os.IsNotExist(statErr), "no artifacts may be written")
}

func TestExtractRedefinitionAllowedKeepsLastScanned(t *testing.T) {
	root := t.TempDir()
	testutils.WriteFiles(t, root, map[string]string{
		"src/z.html": "::root\n<p>from z</p>",
		"src/a.html": "::root\n<p>from a</p>",
	})
	opts := newOptions(root)
	opts.AllowRedefinition = true

	result, err := Extract(context.Background(), opts, nil)
	require.NoError(t, err)

	assert.Equal(t, "<p>from z</p>", readArtifact(t, opts.OutDir, "root"))
	require.Len(t, result.Conflicts, 1)
	assert.Equal(t, []string{"src/a.html", "src/z.html"}, result.Conflicts[0].DefinedIn)
}

func TestExtractMissingStartDefStops(t *testing.T) {
	root := t.TempDir()
	testutils.WriteFiles(t, root, map[string]string{
		"src/good.html": "::good\n<p></p>",
		"src/bad.html":  "<p>no marker</p>",
	})
	opts := newOptions(root)

	_, err := Extract(context.Background(), opts, nil)
	require.Error(t, err)
	assert.True(t, errors.IsMissingStartDef(err))
	assert.Contains(t, err.Error(), "src/bad.html")

	_, statErr := os.Stat(opts.OutDir)
	assert.True(t, os.IsNotExist(statErr))
}

func TestExtractInvalidPattern(t *testing.T) {
	opts := newOptions(t.TempDir())
	opts.Patterns = []string{"src/[.html"}

	_, err := Extract(context.Background(), opts, nil)
	require.Error(t, err)
	assert.True(t, errors.IsConfigError(err))
}

func TestExtractCustomPrefixAndNewlines(t *testing.T) {
	root := t.TempDir()
	testutils.WriteFiles(t, root, map[string]string{
		"src/a.html": "::card\n<div>\n</div>",
	})
	opts := newOptions(root)
	opts.Prefix = "cmp_"
	opts.PreserveNewlines = true

	_, err := Extract(context.Background(), opts, nil)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(opts.OutDir, "cmp_card"))
	require.NoError(t, err)
	assert.Equal(t, "<div>\n</div>\n", string(data))
}

func TestOptionsValidate(t *testing.T) {
	valid := Options{Root: ".", Patterns: []string{"*.html"}, OutDir: "out"}
	require.NoError(t, valid.Validate())

	testCases := map[string]func(o *Options){
		"no root":         func(o *Options) { o.Root = "" },
		"no out dir":      func(o *Options) { o.OutDir = " " },
		"no patterns":     func(o *Options) { o.Patterns = nil },
		"prefix with sep": func(o *Options) { o.Prefix = "a/b" },
	}
	for name, mutate := range testCases {
		t.Run(name, func(t *testing.T) {
			o := valid
			mutate(&o)
			err := o.Validate()
			require.Error(t, err)
			assert.True(t, errors.IsConfigError(err))
		})
	}
}

func TestCollectDoesNotWrite(t *testing.T) {
	root := t.TempDir()
	testutils.WriteFiles(t, root, map[string]string{
		"src/a.html": "::root\nx",
		"src/b.html": "::root\ny",
	})
	opts := newOptions(root)

	defs, paths, err := NewExtractor(opts, nil).Collect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"src/a.html", "src/b.html"}, paths)
	assert.Len(t, defs.Conflicts(), 1)

	_, statErr := os.Stat(opts.OutDir)
	assert.True(t, os.IsNotExist(statErr))
}
