package scanner

import (
	"strings"

	"github.com/gobwas/glob"

	"github.com/conneroisu/tackweld/internal/errors"
)

// Matcher tests slash-separated relative paths against a set of glob
// patterns. `*` and `?` stay within one path segment, `**` spans segments,
// and a `**/` segment also matches zero directories, so `src/**/*.html`
// accepts both `src/home.html` and `src/pages/about.html`.
type Matcher struct {
	patterns []string
	globs    []glob.Glob
}

// CompileMatcher compiles every pattern up front. The first pattern that
// fails to compile is reported as a glob pattern error.
func CompileMatcher(patterns []string) (*Matcher, error) {
	m := &Matcher{patterns: patterns}
	seen := make(map[string]bool)

	for _, pattern := range patterns {
		for _, variant := range expandDoubleStar(normalizePattern(pattern)) {
			if seen[variant] {
				continue
			}
			seen[variant] = true

			g, err := glob.Compile(variant, '/')
			if err != nil {
				return nil, errors.ErrGlobPattern(pattern, err)
			}
			m.globs = append(m.globs, g)
		}
	}

	return m, nil
}

// Match reports whether rel matches at least one pattern.
func (m *Matcher) Match(rel string) bool {
	for _, g := range m.globs {
		if g.Match(rel) {
			return true
		}
	}
	return false
}

// Patterns returns the patterns the matcher was compiled from.
func (m *Matcher) Patterns() []string {
	return m.patterns
}

func normalizePattern(pattern string) string {
	pattern = strings.TrimSpace(pattern)
	for strings.HasPrefix(pattern, "./") {
		pattern = pattern[2:]
	}
	return pattern
}

// expandDoubleStar returns pattern plus every variant with some `**/`
// segments removed, which is how a `**` directory segment comes to match
// zero directories. A trailing `**` is always kept.
func expandDoubleStar(pattern string) []string {
	segments := strings.Split(pattern, "/")
	variants := [][]string{nil}

	for i, seg := range segments {
		optional := seg == "**" && i < len(segments)-1
		next := make([][]string, 0, len(variants)*2)
		for _, v := range variants {
			with := append(append([]string(nil), v...), seg)
			next = append(next, with)
			if optional {
				next = append(next, append([]string(nil), v...))
			}
		}
		variants = next
	}

	out := make([]string, len(variants))
	for i, v := range variants {
		out[i] = strings.Join(v, "/")
	}
	return out
}
