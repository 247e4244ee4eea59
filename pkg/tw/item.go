// Package tw renders extracted component artifacts.
//
// An artifact is a format template: literal markup with `{name}` slots. A
// slot is filled with an Item, a small closed set of values:
//
//	tw.Event()          // placeholder for an event binding, renders as ""
//	tw.Attribute(v)     // attribute text, rendered with fmt.Sprint
//	tw.Value(v)         // element text, rendered with fmt.Sprint
//	tw.Raw(s)           // pre-rendered markup, usually a child component
//
// Attribute and Value are not escaped. Use Sanitized for text that must be
// cleaned before it is embedded.
//
// Repeated children are embedded by rendering each one and collapsing the
// list into a single Value with no separator:
//
//	items := tw.Map([]int{1, 2, 3}, func(v int) tw.Item {
//		out, _ := set.Render("item", tw.Args{"val": tw.Value(v)})
//		return tw.Raw(out)
//	})
//	page, err := set.Render("root", tw.Args{"items": items})
package tw

import (
	"fmt"
	"strings"
)

// Kind identifies the variant of an Item.
type Kind int

const (
	// KindEvent marks an event hook slot; it renders as "".
	KindEvent Kind = iota
	// KindAttribute is text placed inside an attribute value.
	KindAttribute
	// KindValue is text placed in element content.
	KindValue
	// KindRaw is markup inserted as is, such as a rendered child component.
	KindRaw
)

// String returns the variant name.
func (k Kind) String() string {
	switch k {
	case KindEvent:
		return "event"
	case KindAttribute:
		return "attribute"
	case KindValue:
		return "value"
	case KindRaw:
		return "raw"
	default:
		return "unknown"
	}
}

// Item is a value that can fill a template slot. Items are immutable and
// can only be built with the constructors in this package. The zero Item is
// an Event.
type Item struct {
	kind Kind
	text string
}

// Event returns the placeholder for a future event binding attribute.
func Event() Item {
	return Item{kind: KindEvent}
}

// Attribute wraps the canonical string form of v for use inside an attribute.
func Attribute(v any) Item {
	return Item{kind: KindAttribute, text: stringify(v)}
}

// Value wraps the canonical string form of v for use as element content.
func Value(v any) Item {
	return Item{kind: KindValue, text: stringify(v)}
}

// Raw wraps an already rendered string, typically the output of a nested
// component.
func Raw(s string) Item {
	return Item{kind: KindRaw, text: s}
}

// Kind returns the variant of i.
func (i Item) Kind() Kind {
	return i.kind
}

// Render returns the text i contributes to a slot.
func (i Item) Render() string {
	if i.kind == KindEvent {
		return ""
	}
	return i.text
}

// String implements fmt.Stringer.
func (i Item) String() string {
	return i.Render()
}

// Collapse renders every item and concatenates the results, with no
// separator, into a single Value.
func Collapse(items []Item) Item {
	var b strings.Builder
	for _, item := range items {
		b.WriteString(item.Render())
	}
	return Item{kind: KindValue, text: b.String()}
}

// Join is the variadic form of Collapse.
func Join(items ...Item) Item {
	return Collapse(items)
}

// Map converts each element with fn and collapses the results.
func Map[T any](xs []T, fn func(T) Item) Item {
	items := make([]Item, len(xs))
	for i, x := range xs {
		items[i] = fn(x)
	}
	return Collapse(items)
}

func stringify(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case Item:
		return s.Render()
	case []Item:
		return Collapse(s).Render()
	default:
		return fmt.Sprint(v)
	}
}
