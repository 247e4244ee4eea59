// Package parser splits a template source file into named component bodies.
//
// A template is a sequence of blocks. Each block opens with a marker line of
// the form `::name` (optionally surrounded by spaces or tabs) and continues
// with body lines until the next marker or the end of the file:
//
//	::root
//	<div>Items: {items}</div>
//	::item
//	<div>value: {val}</div>
//
// Body lines are appended to the component with no separator, so a body that
// spans several source lines is stored as one unbroken string unless
// Options.PreserveNewlines is set.
package parser

import (
	"strings"

	"github.com/conneroisu/tackweld/internal/errors"
	"github.com/conneroisu/tackweld/internal/registry"
)

const byteOrderMark = "\ufeff"

// TemplateSource is one template file read from the scan root.
type TemplateSource struct {
	// Path is relative to the scan root, slash separated.
	Path string
	// Text is the UTF-8 file contents.
	Text string
}

// Options tune how body lines are captured.
type Options struct {
	// PreserveNewlines terminates every captured body line with "\n"
	// instead of concatenating lines directly.
	PreserveNewlines bool
}

// Parse feeds every component in src into defs. A marker line resets the
// component's body and records src.Path in its DefinedIn list. A body line
// seen before the first marker fails with a missing start definition error
// naming src.Path.
func Parse(src TemplateSource, defs *registry.Registry, opts Options) error {
	var current *registry.Definition
	leading := true

	text := strings.TrimPrefix(src.Text, byteOrderMark)
	for _, line := range SplitLines(text) {
		if leading {
			if isBlank(line) {
				continue
			}
			leading = false
		}

		if id, ok := ParseMarker(line); ok {
			current = defs.Begin(id, src.Path)
			continue
		}

		if current == nil {
			return errors.ErrTemplateMissingStartDef(src.Path)
		}

		current.Append(line)
		if opts.PreserveNewlines {
			current.Append("\n")
		}
	}

	return nil
}

// ParseString parses a single template into a fresh registry.
func ParseString(path, text string) (*registry.Registry, error) {
	defs := registry.NewRegistry()
	if err := Parse(TemplateSource{Path: path, Text: text}, defs, Options{}); err != nil {
		return nil, err
	}
	return defs, nil
}
