package watcher

import (
	"path/filepath"
	"strings"

	"github.com/conneroisu/tackweld/internal/scanner"
)

// PatternFilter accepts paths under root whose slash-separated relative path
// matches m, the same test the scanner applies.
func PatternFilter(root string, m *scanner.Matcher) Filter {
	return func(path string) bool {
		rel, ok := relativeTo(root, path)
		return ok && m.Match(rel)
	}
}

// IgnoreFilter rejects any path with a segment matching one of names.
// Names may use filepath.Match wildcards.
func IgnoreFilter(names []string) Filter {
	return func(path string) bool {
		for _, seg := range strings.Split(filepath.ToSlash(path), "/") {
			for _, name := range names {
				if matched, _ := filepath.Match(name, seg); matched {
					return false
				}
			}
		}
		return true
	}
}

// ExcludeDirFilter rejects dir and everything below it.
func ExcludeDirFilter(dir string) Filter {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		absDir = filepath.Clean(dir)
	}

	return func(path string) bool {
		abs, err := filepath.Abs(path)
		if err != nil {
			return true
		}
		return abs != absDir && !strings.HasPrefix(abs, absDir+string(filepath.Separator))
	}
}

// All combines filters; the result accepts a path only if every filter does.
func All(filters ...Filter) Filter {
	return func(path string) bool {
		for _, f := range filters {
			if !f(path) {
				return false
			}
		}
		return true
	}
}

func relativeTo(root, path string) (string, bool) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", false
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", false
	}

	rel, err := filepath.Rel(absRoot, absPath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}
