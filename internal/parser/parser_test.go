package parser

import (
	"testing"

	"github.com/conneroisu/tackweld/internal/errors"
	"github.com/conneroisu/tackweld/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contents(t *testing.T, reg *registry.Registry, id string) string {
	t.Helper()
	def, ok := reg.Get(id)
	require.True(t, ok, "component %q not found", id)
	return def.Contents()
}

func TestParseTwoComponents(t *testing.T) {
	src := "::root\n<div>Items: {items}</div>\n::item\n<div>value: {val}</div>"

	reg, err := ParseString("src/home.html", src)
	require.NoError(t, err)

	assert.Equal(t, []string{"item", "root"}, reg.IDs())
	assert.Equal(t, "<div>Items: {items}</div>", contents(t, reg, "root"))
	assert.Equal(t, "<div>value: {val}</div>", contents(t, reg, "item"))
}

func TestParseConcatenatesBodyLines(t *testing.T) {
	src := "::card\n<div>\n  <p>{text}</p>\n</div>\n"

	reg, err := ParseString("card.html", src)
	require.NoError(t, err)
	assert.Equal(t, "<div>  <p>{text}</p></div>", contents(t, reg, "card"))
}

func TestParsePreserveNewlines(t *testing.T) {
	reg := registry.NewRegistry()
	src := TemplateSource{Path: "card.html", Text: "::card\n<div>\n</div>\n"}

	require.NoError(t, Parse(src, reg, Options{PreserveNewlines: true}))
	assert.Equal(t, "<div>\n</div>\n", contents(t, reg, "card"))
}

func TestParseSkipsLeadingBlankLines(t *testing.T) {
	src := "\n   \n\t\n  ::root\n<b>x</b>\n"

	reg, err := ParseString("a.html", src)
	require.NoError(t, err)
	assert.Equal(t, "<b>x</b>", contents(t, reg, "root"))
}

func TestParseKeepsInnerBlankLines(t *testing.T) {
	src := "::root\n<a>\n  \n</a>"

	reg, err := ParseString("a.html", src)
	require.NoError(t, err)
	assert.Equal(t, "<a>  </a>", contents(t, reg, "root"))
}

func TestParseLineTerminators(t *testing.T) {
	testCases := map[string]string{
		"crlf":    "::root\r\n<a>\r\n</a>\r\n",
		"cr":      "::root\r<a>\r</a>\r",
		"mixed":   "::root\n<a>\r\n</a>",
		"bom":     "\ufeff::root\n<a>\n</a>",
		"trailer": "::root\n<a>\n</a>\n",
	}

	for name, src := range testCases {
		t.Run(name, func(t *testing.T) {
			reg, err := ParseString("a.html", src)
			require.NoError(t, err)
			assert.Equal(t, "<a></a>", contents(t, reg, "root"))
		})
	}
}

func TestParseMissingStartDef(t *testing.T) {
	testCases := map[string]string{
		"markup first":     "<div>oops</div>\n::root\n<p></p>",
		"after blank":      "\n\n<div>oops</div>",
		"marker with junk": "::root extra\n<p></p>",
		"single colon":     ":root\n<p></p>",
	}

	for name, src := range testCases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseString("src/bad.html", src)
			require.Error(t, err)
			assert.True(t, errors.IsMissingStartDef(err))
			assert.Contains(t, err.Error(), "src/bad.html")
		})
	}
}

func TestParseEmptyInput(t *testing.T) {
	for _, src := range []string{"", "\n\n", "  \t \n"} {
		reg, err := ParseString("empty.html", src)
		require.NoError(t, err)
		assert.Equal(t, 0, reg.Len())
	}
}

func TestParseEmptyComponent(t *testing.T) {
	reg, err := ParseString("a.html", "::empty\n::full\nx")
	require.NoError(t, err)
	assert.Equal(t, "", contents(t, reg, "empty"))
	assert.Equal(t, "x", contents(t, reg, "full"))
}

func TestParseRepeatedMarkerInOneFile(t *testing.T) {
	reg, err := ParseString("a.html", "::root\nfirst\n::root\nsecond")
	require.NoError(t, err)

	def, ok := reg.Get("root")
	require.True(t, ok)
	assert.Equal(t, "second", def.Contents())
	assert.Equal(t, []string{"a.html", "a.html"}, def.DefinedIn)
}

func TestParseAcrossFilesLastWins(t *testing.T) {
	reg := registry.NewRegistry()
	require.NoError(t, Parse(TemplateSource{Path: "a.html", Text: "::root\nfrom a"}, reg, Options{}))
	require.NoError(t, Parse(TemplateSource{Path: "b.html", Text: "::root\nfrom b"}, reg, Options{}))

	def, _ := reg.Get("root")
	assert.Equal(t, "from b", def.Contents())
	assert.Equal(t, []string{"a.html", "b.html"}, def.DefinedIn)
}

func TestParseMarker(t *testing.T) {
	testCases := []struct {
		line string
		id   string
		ok   bool
	}{
		{"::root", "root", true},
		{"  ::item_2\t", "item_2", true},
		{"::A1_b", "A1_b", true},
		{"::", "", false},
		{":: root", "", false},
		{"::root ::x", "", false},
		{"::ro-ot", "", false},
		{"::héllo", "", false},
		{"x::root", "", false},
		{"<div>::root</div>", "", false},
		{"", "", false},
	}

	for _, tc := range testCases {
		t.Run(tc.line, func(t *testing.T) {
			id, ok := ParseMarker(tc.line)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.id, id)
		})
	}
}

func TestSplitLines(t *testing.T) {
	assert.Nil(t, SplitLines(""))
	assert.Equal(t, []string{"a"}, SplitLines("a\n"))
	assert.Equal(t, []string{"a", ""}, SplitLines("a\n\n"))
	assert.Equal(t, []string{"a", "b", "c"}, SplitLines("a\r\nb\rc"))
}
