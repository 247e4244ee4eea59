package tw

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
	"github.com/microcosm-cc/bluemonday"
)

// Component exposes the rendered item as a templ component, so artifacts can
// be embedded in templ views. The text is written as is.
func (i Item) Component() templ.Component {
	return templ.Raw(i.Render())
}

// WriteTo writes the rendered item to w.
func (i Item) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, i.Render())
	return int64(n), err
}

// FromComponent renders a templ component and wraps its output as Raw, so
// templ views can fill artifact slots.
func FromComponent(ctx context.Context, c templ.Component) (Item, error) {
	var b strings.Builder
	if err := c.Render(ctx, &b); err != nil {
		return Item{}, err
	}
	return Raw(b.String()), nil
}

var sanitizePolicy = bluemonday.UGCPolicy()

// Sanitized renders v like Value and then strips unsafe markup with a user
// generated content policy. The result is Raw because it is already clean
// markup. Attribute and Value never sanitize.
func Sanitized(v any) Item {
	return Raw(sanitizePolicy.Sanitize(stringify(v)))
}
