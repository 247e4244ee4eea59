// Package errors defines the structured error kinds raised while extracting
// template components: traversal, glob, read and write failures, templates
// with body text before their first marker, and component redefinitions.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents different categories of errors.
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeIO         ErrorType = "io"
	ErrorTypeTemplate   ErrorType = "template"
	ErrorTypeConfig     ErrorType = "config"
	ErrorTypeInternal   ErrorType = "internal"
)

// Common error codes.
const (
	ErrCodeWalk                  = "ERR_WALK"
	ErrCodeGlobPattern           = "ERR_GLOB_PATTERN"
	ErrCodeRead                  = "ERR_READ"
	ErrCodeWrite                 = "ERR_WRITE"
	ErrCodeMissingStartDef       = "ERR_MISSING_START_DEF"
	ErrCodeComponentRedefinition = "ERR_COMPONENT_REDEFINITION"
	ErrCodeConfigInvalid         = "ERR_CONFIG_INVALID"
	ErrCodeInternalError         = "ERR_INTERNAL"
	ErrCodeWatch                 = "ERR_WATCH"
	ErrCodeBindingCollision      = "ERR_BINDING_COLLISION"
	ErrCodeCheckFailed           = "ERR_CHECK_FAILED"
	ErrCodeNoComponents          = "ERR_NO_COMPONENTS"
)

// TackweldError is a structured error type with context.
type TackweldError struct {
	Type      ErrorType
	Code      string
	Message   string
	Cause     error
	Context   map[string]interface{}
	Component string
	FilePath  string
}

// Error implements the error interface.
func (e *TackweldError) Error() string {
	var parts []string

	if e.Code != "" {
		parts = append(parts, fmt.Sprintf("[%s]", e.Code))
	}

	if e.Component != "" {
		parts = append(parts, "component:"+e.Component)
	}

	if e.FilePath != "" {
		parts = append(parts, e.FilePath)
	}

	parts = append(parts, e.Message)

	result := strings.Join(parts, " ")

	if e.Cause != nil {
		result += fmt.Sprintf(": %v", e.Cause)
	}

	return result
}

// Unwrap returns the underlying cause error.
func (e *TackweldError) Unwrap() error {
	return e.Cause
}

// Is implements error comparison.
func (e *TackweldError) Is(target error) bool {
	var t *TackweldError
	if errors.As(target, &t) {
		return e.Type == t.Type && e.Code == t.Code
	}

	return false
}

// WithContext adds context information to the error.
func (e *TackweldError) WithContext(key string, value interface{}) *TackweldError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value

	return e
}

// WithFile adds the offending file path.
func (e *TackweldError) WithFile(filePath string) *TackweldError {
	e.FilePath = filePath

	return e
}

// WithComponent adds component context.
func (e *TackweldError) WithComponent(component string) *TackweldError {
	e.Component = component

	return e
}

// Error creation functions

// NewValidationError creates a validation error.
func NewValidationError(code, message string) *TackweldError {
	return &TackweldError{
		Type:    ErrorTypeValidation,
		Code:    code,
		Message: message,
	}
}

// NewIOError creates an I/O error.
func NewIOError(code, message string, cause error) *TackweldError {
	return &TackweldError{
		Type:    ErrorTypeIO,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewTemplateError creates an error describing malformed template source.
func NewTemplateError(code, message string) *TackweldError {
	return &TackweldError{
		Type:    ErrorTypeTemplate,
		Code:    code,
		Message: message,
	}
}

// NewConfigError creates a configuration error.
func NewConfigError(code, message string) *TackweldError {
	return &TackweldError{
		Type:    ErrorTypeConfig,
		Code:    code,
		Message: message,
	}
}

// NewInternalError creates an internal error.
func NewInternalError(code, message string, cause error) *TackweldError {
	return &TackweldError{
		Type:    ErrorTypeInternal,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Helper functions for the extraction failures

// ErrWalk reports a failure while traversing the source root.
func ErrWalk(path string, cause error) *TackweldError {
	return NewIOError(ErrCodeWalk, "failed to walk source directory", cause).WithFile(path)
}

// ErrGlobPattern reports a pattern that could not be compiled.
func ErrGlobPattern(pattern string, cause error) *TackweldError {
	return &TackweldError{
		Type:    ErrorTypeConfig,
		Code:    ErrCodeGlobPattern,
		Message: fmt.Sprintf("invalid glob pattern %q", pattern),
		Cause:   cause,
		Context: map[string]interface{}{"pattern": pattern},
	}
}

// ErrRead reports a template source that could not be read.
func ErrRead(path string, cause error) *TackweldError {
	return NewIOError(ErrCodeRead, "failed to read template source", cause).WithFile(path)
}

// ErrWrite reports an artifact that could not be written.
func ErrWrite(path string, cause error) *TackweldError {
	return NewIOError(ErrCodeWrite, "failed to write component artifact", cause).WithFile(path)
}

// ErrTemplateMissingStartDef reports body text that appears before any
// `::name` marker line in the template at templatePath.
func ErrTemplateMissingStartDef(templatePath string) *TackweldError {
	return NewTemplateError(
		ErrCodeMissingStartDef,
		"template body appears before the first component marker",
	).WithFile(templatePath)
}

// ErrComponentRedefinition reports every component id defined more than once.
// The report is rendered into the message so the build output names each id
// and each file that defined it.
func ErrComponentRedefinition(ids []string, report string) *TackweldError {
	return NewTemplateError(
		ErrCodeComponentRedefinition,
		"components defined more than once:\n"+report,
	).WithContext("components", ids)
}

// ErrConfigInvalid creates a configuration validation error.
func ErrConfigInvalid(message string) *TackweldError {
	return NewConfigError(ErrCodeConfigInvalid, message)
}

// Predicates

func hasCode(err error, code string) bool {
	var te *TackweldError
	if errors.As(err, &te) {
		return te.Code == code
	}

	return false
}

// IsMissingStartDef checks if err reports body text before the first marker.
func IsMissingStartDef(err error) bool {
	return hasCode(err, ErrCodeMissingStartDef)
}

// IsRedefinition checks if err reports conflicting component definitions.
func IsRedefinition(err error) bool {
	return hasCode(err, ErrCodeComponentRedefinition)
}

// IsIOError checks if an error is an I/O error.
func IsIOError(err error) bool {
	var te *TackweldError
	if errors.As(err, &te) {
		return te.Type == ErrorTypeIO
	}

	return false
}

// IsConfigError checks if an error is configuration related.
func IsConfigError(err error) bool {
	var te *TackweldError
	if errors.As(err, &te) {
		return te.Type == ErrorTypeConfig
	}

	return false
}
