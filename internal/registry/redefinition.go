package registry

import (
	"strings"

	"github.com/conneroisu/tackweld/internal/errors"
)

// Conflict describes a component id that was defined more than once.
type Conflict struct {
	ID        string   `json:"id" yaml:"id"`
	DefinedIn []string `json:"defined_in" yaml:"defined_in"`
}

// Conflicts returns every redefined id sorted by id.
func (r *Registry) Conflicts() []Conflict {
	var conflicts []Conflict
	for _, def := range r.All() {
		if !def.Redefined() {
			continue
		}
		files := make([]string, len(def.DefinedIn))
		copy(files, def.DefinedIn)
		conflicts = append(conflicts, Conflict{ID: def.ID, DefinedIn: files})
	}

	return conflicts
}

// Clean returns the ids defined exactly once, sorted.
func (r *Registry) Clean() []string {
	var ids []string
	for _, def := range r.All() {
		if !def.Redefined() {
			ids = append(ids, def.ID)
		}
	}

	return ids
}

// Check applies the redefinition policy. With allow set, conflicting ids
// keep whatever body was parsed last and Check returns nil. Otherwise a
// single error lists every conflicting id and every file that defined it.
func (r *Registry) Check(allow bool) error {
	if allow {
		return nil
	}

	conflicts := r.Conflicts()
	if len(conflicts) == 0 {
		return nil
	}

	ids := make([]string, len(conflicts))
	for i, c := range conflicts {
		ids[i] = c.ID
	}

	return errors.ErrComponentRedefinition(ids, Report(conflicts))
}

// Report renders conflicts as an indented listing: each id on its own line
// followed by the files that defined it.
func Report(conflicts []Conflict) string {
	var b strings.Builder
	for i, c := range conflicts {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("  ")
		b.WriteString(c.ID)
		for _, path := range c.DefinedIn {
			b.WriteString("\n    ")
			b.WriteString(path)
		}
	}

	return b.String()
}
