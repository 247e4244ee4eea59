// Package validation reports problems in extracted component bodies that do
// not stop extraction but will likely surprise whoever renders them.
package validation

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/conneroisu/tackweld/internal/registry"
	"github.com/conneroisu/tackweld/pkg/tw"
)

// Severity ranks an issue.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Issue is one finding about a component body.
type Issue struct {
	Component string   `json:"component" yaml:"component"`
	Severity  Severity `json:"severity" yaml:"severity"`
	Message   string   `json:"message" yaml:"message"`
}

func (i Issue) String() string {
	if i.Component == "" {
		return fmt.Sprintf("%s: %s", i.Severity, i.Message)
	}
	return fmt.Sprintf("%s: %s: %s", i.Severity, i.Component, i.Message)
}

// Void elements never have an end tag.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

// Elements whose end tag HTML lets authors omit.
var optionalEndTag = map[string]bool{
	"li": true, "p": true, "dt": true, "dd": true, "option": true,
	"optgroup": true, "tr": true, "td": true, "th": true, "thead": true,
	"tbody": true, "tfoot": true, "colgroup": true, "caption": true,
	"rb": true, "rt": true, "rtc": true, "rp": true,
	"html": true, "head": true, "body": true,
}

// CheckMarkup tokenizes body and reports unclosed and unexpected tags.
// Bodies are fragments, so a component may legitimately open a tag another
// component closes; everything reported here is a warning.
func CheckMarkup(body string) []Issue {
	var issues []Issue
	var open []string

	warn := func(format string, args ...interface{}) {
		issues = append(issues, Issue{Severity: SeverityWarning, Message: fmt.Sprintf(format, args...)})
	}

	z := html.NewTokenizer(strings.NewReader(body))
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if err := z.Err(); err != nil && err != io.EOF {
				warn("tokenizer error: %v", err)
			}
			for i := len(open) - 1; i >= 0; i-- {
				if !optionalEndTag[open[i]] {
					warn("unclosed <%s>", open[i])
				}
			}
			return issues

		case html.StartTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if !voidElements[tag] {
				open = append(open, tag)
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if voidElements[tag] {
				warn("end tag </%s> for void element", tag)
				continue
			}

			idx := lastIndex(open, tag)
			if idx < 0 {
				warn("unexpected </%s>", tag)
				continue
			}
			for i := len(open) - 1; i > idx; i-- {
				if !optionalEndTag[open[i]] {
					warn("<%s> closed implicitly by </%s>", open[i], tag)
				}
			}
			open = open[:idx]
		}
	}
}

// CheckSlots reports a body that the substitution syntax cannot parse.
func CheckSlots(body string) []Issue {
	if _, err := tw.Parse(body); err != nil {
		return []Issue{{Severity: SeverityError, Message: err.Error()}}
	}
	return nil
}

// Component runs every check on def.
func Component(def *registry.Definition) []Issue {
	body := def.Contents()
	issues := append(CheckSlots(body), CheckMarkup(body)...)
	for i := range issues {
		issues[i].Component = def.ID
	}
	return issues
}

// Definitions checks each definition in order.
func Definitions(defs []*registry.Definition) []Issue {
	var issues []Issue
	for _, def := range defs {
		issues = append(issues, Component(def)...)
	}
	return issues
}

// HasErrors reports whether any issue is an error.
func HasErrors(issues []Issue) bool {
	for _, issue := range issues {
		if issue.Severity == SeverityError {
			return true
		}
	}
	return false
}

func lastIndex(stack []string, tag string) int {
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i] == tag {
			return i
		}
	}
	return -1
}
