package errors

import (
	"errors"
)

// Suggestion returns a one line hint for fixing err, or "" when none applies.
func Suggestion(err error) string {
	var te *TackweldError
	if !errors.As(err, &te) {
		return ""
	}

	switch te.Code {
	case ErrCodeMissingStartDef:
		return "start the file with a marker line such as `::root` before any markup"
	case ErrCodeComponentRedefinition:
		return "rename one of the components, or set extract.allow_redefinition to keep the last definition"
	case ErrCodeGlobPattern:
		return "patterns are matched against paths relative to the root, e.g. `src/**/*.html`"
	case ErrCodeWalk:
		return "check that the root directory exists and is readable"
	case ErrCodeWrite:
		return "check that the output directory is writable"
	case ErrCodeNoComponents:
		return "extract at least one component before generating bindings"
	default:
		return ""
	}
}
