package errors

import (
	"errors"
)

// Wrap wraps an error with additional context, creating a TackweldError if the input is not already one
func Wrap(err error, errType ErrorType, code, message string) *TackweldError {
	if err == nil {
		return nil
	}

	var te *TackweldError
	if errors.As(err, &te) {
		return &TackweldError{
			Type:      errType,
			Code:      code,
			Message:   message,
			Cause:     te,
			Context:   te.Context,
			Component: te.Component,
			FilePath:  te.FilePath,
		}
	}

	return &TackweldError{
		Type:    errType,
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// WrapConfig wraps an error as a configuration error
func WrapConfig(err error, message string) *TackweldError {
	return Wrap(err, ErrorTypeConfig, ErrCodeConfigInvalid, message)
}

// WrapInternal wraps an error as an internal error
func WrapInternal(err error, message string) *TackweldError {
	return Wrap(err, ErrorTypeInternal, ErrCodeInternalError, message)
}

// FormatError formats an error for user display, appending a hint when one is known.
func FormatError(err error) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	if hint := Suggestion(err); hint != "" {
		msg += "\n  hint: " + hint
	}

	return msg
}

// GetErrorContext returns the code, type, file, component and context
// entries of the TackweldError in err's chain, or nil if there is none.
func GetErrorContext(err error) map[string]interface{} {
	var te *TackweldError
	if !errors.As(err, &te) {
		return nil
	}

	context := make(map[string]interface{}, len(te.Context)+4)
	for k, v := range te.Context {
		context[k] = v
	}
	if te.Component != "" {
		context["component"] = te.Component
	}
	if te.FilePath != "" {
		context["file"] = te.FilePath
	}
	context["type"] = string(te.Type)
	context["code"] = te.Code
	return context
}
