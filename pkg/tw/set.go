package tw

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"
)

// DefaultPrefix matches the artifact naming used by the extractor.
const DefaultPrefix = "tw_tpl_"

// ErrUnknownComponent is returned when a Set has no artifact for an id.
var ErrUnknownComponent = errors.New("unknown component")

// Set holds the parsed artifacts of one output directory, keyed by
// component id. It is read-only after loading and safe for concurrent use.
type Set struct {
	templates map[string]*Template
}

// Load reads every `prefix+id` file at the top level of fsys.
func Load(fsys fs.FS, prefix string) (*Set, error) {
	if prefix == "" {
		prefix = DefaultPrefix
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("reading artifacts: %w", err)
	}

	set := &Set{templates: make(map[string]*Template)}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, prefix) || len(name) == len(prefix) {
			continue
		}

		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("reading artifact %s: %w", name, err)
		}

		t, err := Parse(string(data))
		if err != nil {
			return nil, fmt.Errorf("artifact %s: %w", name, err)
		}
		set.templates[strings.TrimPrefix(name, prefix)] = t
	}

	return set, nil
}

// LoadDir loads the artifacts in dir.
func LoadDir(dir, prefix string) (*Set, error) {
	return Load(os.DirFS(dir), prefix)
}

// MustLoad is like Load but panics on error. It suits package level
// variables initialized from an embedded file system.
func MustLoad(fsys fs.FS, prefix string) *Set {
	set, err := Load(fsys, prefix)
	if err != nil {
		panic(err)
	}
	return set
}

// IDs returns the loaded component ids in sorted order.
func (s *Set) IDs() []string {
	ids := make([]string, 0, len(s.templates))
	for id := range s.templates {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Template returns the parsed artifact for id.
func (s *Set) Template(id string) (*Template, bool) {
	t, ok := s.templates[id]
	return t, ok
}

// Render executes the artifact for id with args.
func (s *Set) Render(id string, args Args) (string, error) {
	t, ok := s.templates[id]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownComponent, id)
	}

	out, err := t.Execute(args)
	if err != nil {
		return "", fmt.Errorf("component %s: %w", id, err)
	}
	return out, nil
}

// Item renders id and wraps the result as Raw, ready to fill a parent slot.
func (s *Set) Item(id string, args Args) (Item, error) {
	out, err := s.Render(id, args)
	if err != nil {
		return Item{}, err
	}
	return Raw(out), nil
}
