// Package registry aggregates component definitions across every scanned
// template file and tracks which files defined each component id, so that
// redefinitions can be reported or resolved once the scan is complete.
//
// A Registry is built and consumed by a single extraction run and is not
// safe for concurrent use.
package registry

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Definition is the aggregate state for one component id.
type Definition struct {
	// ID is the component identifier taken from its `::id` marker line.
	ID string
	// DefinedIn lists the source path of every marker seen for ID, in
	// scan order, including repeats within the same file.
	DefinedIn []string

	body strings.Builder
}

// Contents returns the body captured since the most recent marker for ID.
func (d *Definition) Contents() string {
	return d.body.String()
}

// Append adds text to the body with no separator.
func (d *Definition) Append(text string) {
	d.body.WriteString(text)
}

// Redefined reports whether more than one marker was seen for the id.
func (d *Definition) Redefined() bool {
	return len(d.DefinedIn) > 1
}

// Checksum returns the zero-padded hex xxhash64 of the current contents.
func (d *Definition) Checksum() string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(d.body.String()))
}

// Registry maps component ids to their definitions.
type Registry struct {
	components map[string]*Definition
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		components: make(map[string]*Definition),
	}
}

// Begin records a marker for id found in path. The definition is created on
// first sight; on every sighting its body is reset and path is appended to
// DefinedIn, so the last marker in scan order wins.
func (r *Registry) Begin(id, path string) *Definition {
	def, exists := r.components[id]
	if !exists {
		def = &Definition{ID: id}
		r.components[id] = def
	}

	def.body.Reset()
	def.DefinedIn = append(def.DefinedIn, path)

	return def
}

// Get returns the definition for id.
func (r *Registry) Get(id string) (*Definition, bool) {
	def, ok := r.components[id]
	return def, ok
}

// Len returns the number of distinct component ids.
func (r *Registry) Len() int {
	return len(r.components)
}

// IDs returns every component id in sorted order.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.components))
	for id := range r.components {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	return ids
}

// All returns every definition sorted by id.
func (r *Registry) All() []*Definition {
	ids := r.IDs()
	defs := make([]*Definition, len(ids))
	for i, id := range ids {
		defs[i] = r.components[id]
	}

	return defs
}
