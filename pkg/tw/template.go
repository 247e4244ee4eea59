package tw

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMalformedTemplate is returned for unbalanced braces or a slot
	// whose name is not an identifier.
	ErrMalformedTemplate = errors.New("malformed template")
	// ErrMissingSlot is returned when a slot has no argument.
	ErrMissingSlot = errors.New("missing slot argument")
)

// Args maps slot names to the items that fill them.
type Args map[string]Item

type segment struct {
	literal string
	slot    string
}

// Template is a parsed artifact. It is read-only after Parse and safe for
// concurrent use.
type Template struct {
	segments []segment
	slots    []string
}

// Parse compiles text. `{name}` is a slot, `{{` and `}}` are literal braces.
func Parse(text string) (*Template, error) {
	t := &Template{}
	seen := make(map[string]bool)

	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			t.segments = append(t.segments, segment{literal: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(text); i++ {
		c := text[i]
		switch c {
		case '{':
			if i+1 < len(text) && text[i+1] == '{' {
				lit.WriteByte('{')
				i++
				continue
			}
			end := strings.IndexByte(text[i+1:], '}')
			if end < 0 {
				return nil, fmt.Errorf("%w: unclosed '{' at offset %d", ErrMalformedTemplate, i)
			}
			name := text[i+1 : i+1+end]
			if !isSlotName(name) {
				return nil, fmt.Errorf("%w: invalid slot name %q at offset %d", ErrMalformedTemplate, name, i)
			}
			flush()
			t.segments = append(t.segments, segment{slot: name})
			if !seen[name] {
				seen[name] = true
				t.slots = append(t.slots, name)
			}
			i += end + 1
		case '}':
			if i+1 < len(text) && text[i+1] == '}' {
				lit.WriteByte('}')
				i++
				continue
			}
			return nil, fmt.Errorf("%w: unmatched '}' at offset %d", ErrMalformedTemplate, i)
		default:
			lit.WriteByte(c)
		}
	}
	flush()

	return t, nil
}

// MustParse is like Parse but panics on error.
func MustParse(text string) *Template {
	t, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return t
}

// Slots returns the distinct slot names in order of first appearance.
func (t *Template) Slots() []string {
	out := make([]string, len(t.slots))
	copy(out, t.slots)
	return out
}

// Execute substitutes every slot with its rendered argument. Every slot must
// have an argument; arguments without a slot are ignored.
func (t *Template) Execute(args Args) (string, error) {
	var missing []string
	for _, name := range t.slots {
		if _, ok := args[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return "", fmt.Errorf("%w: %s", ErrMissingSlot, strings.Join(missing, ", "))
	}

	var b strings.Builder
	for _, seg := range t.segments {
		if seg.slot == "" {
			b.WriteString(seg.literal)
			continue
		}
		b.WriteString(args[seg.slot].Render())
	}

	return b.String(), nil
}

// Execute parses text and executes it with args in one step.
func Execute(text string, args Args) (string, error) {
	t, err := Parse(text)
	if err != nil {
		return "", err
	}
	return t.Execute(args)
}

func isSlotName(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c != '_' && !('a' <= c && c <= 'z') && !('A' <= c && c <= 'Z') && !('0' <= c && c <= '9') {
			return false
		}
	}
	return true
}
