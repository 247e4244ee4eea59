// Package scanner discovers template source files under a root directory.
//
// The scanner walks the root recursively, keeps regular files whose path
// relative to the root matches at least one glob pattern, and returns them
// sorted lexicographically by their slash-separated relative path. That
// sorted order is the global scan order: when the same component is defined
// in several files, the file that sorts last supplies the final body.
package scanner

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/conneroisu/tackweld/internal/errors"
	"github.com/conneroisu/tackweld/internal/logging"
	"github.com/conneroisu/tackweld/internal/parser"
)

// Scanner walks a root directory for template sources.
type Scanner struct {
	root     string
	matcher  *Matcher
	skipDirs map[string]bool
	logger   logging.Logger
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithSkipDir excludes dir and everything below it from the walk. It is used
// to keep the artifact output directory out of the scan when it lives under
// the root.
func WithSkipDir(dir string) Option {
	return func(s *Scanner) {
		if abs, err := filepath.Abs(dir); err == nil {
			s.skipDirs[abs] = true
		}
	}
}

// WithLogger sets the logger used for per-file debug output.
func WithLogger(logger logging.Logger) Option {
	return func(s *Scanner) {
		s.logger = logger
	}
}

// NewScanner compiles patterns and prepares a scanner for root.
func NewScanner(root string, patterns []string, opts ...Option) (*Scanner, error) {
	matcher, err := CompileMatcher(patterns)
	if err != nil {
		return nil, err
	}

	s := &Scanner{
		root:     root,
		matcher:  matcher,
		skipDirs: make(map[string]bool),
		logger:   logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Scan returns the relative paths of every matching regular file, sorted.
// Directories, symlinks and other non-regular entries are skipped. Any error
// reported by the walk itself is fatal.
func (s *Scanner) Scan(ctx context.Context) ([]string, error) {
	var matches []string

	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return errors.ErrWalk(path, walkErr)
		}

		if d.IsDir() {
			if len(s.skipDirs) > 0 && path != s.root {
				if abs, err := filepath.Abs(path); err == nil && s.skipDirs[abs] {
					return filepath.SkipDir
				}
			}
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return errors.ErrWalk(path, err)
		}
		rel = filepath.ToSlash(rel)

		if s.matcher.Match(rel) {
			s.logger.Debug(ctx, "Matched template source", "path", rel)
			matches = append(matches, rel)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(matches)

	return matches, nil
}

// ReadSource loads the template at rel, a path returned by Scan.
func (s *Scanner) ReadSource(rel string) (parser.TemplateSource, error) {
	data, err := os.ReadFile(filepath.Join(s.root, filepath.FromSlash(rel)))
	if err != nil {
		return parser.TemplateSource{}, errors.ErrRead(rel, err)
	}

	return parser.TemplateSource{Path: rel, Text: string(data)}, nil
}

// Scan is a convenience wrapper that scans root with patterns.
func Scan(root string, patterns []string) ([]string, error) {
	s, err := NewScanner(root, patterns)
	if err != nil {
		return nil, err
	}
	return s.Scan(context.Background())
}
