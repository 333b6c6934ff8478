package agrocostos

import (
	"errors"
	"fmt"
	"strings"
)

// Application error codes.
const (
	EINVALID   = "invalid"
	ENOTFOUND  = "not_found"
	EINTERNAL  = "internal"
	EPATTERN   = "pattern"
	EEXTRACT   = "extraction"
	EDISCOVERY = "discovery"
	EHARVEST   = "harvest"
)

// Error represents an application-specific error.
type Error struct {
	Code    string
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("agrocostos error: code=%s message=%s", e.Code, e.Message)
}

// Errorf is a helper function to return an Error with a given code and formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// ValidationError reports caller input that is missing or malformed.
// Fields names every offending field.
type ValidationError struct {
	Fields []string
	Reason string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	reason := e.Reason
	if reason == "" {
		reason = "missing required parameters"
	}
	return reason + ": " + strings.Join(e.Fields, ", ")
}

// PatternError reports a filter string that could not be compiled.
type PatternError struct {
	Field string
	Input string
	Err   error
}

// Error implements the error interface.
func (e *PatternError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid %s pattern %q: %v", e.Field, e.Input, e.Err)
	}
	return fmt.Sprintf("invalid pattern %q: %v", e.Input, e.Err)
}

// Unwrap returns the underlying regexp error.
func (e *PatternError) Unwrap() error {
	return e.Err
}

// HarvestError reports a listing page that could not be fetched. The rows
// collected before the failure are returned alongside it.
type HarvestError struct {
	Season string
	Page   int
	Err    error
}

// Error implements the error interface.
func (e *HarvestError) Error() string {
	return fmt.Sprintf("harvest of %q stopped at page %d: %v", e.Season, e.Page, e.Err)
}

// Unwrap returns the underlying fetch error.
func (e *HarvestError) Unwrap() error {
	return e.Err
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always return EINTERNAL.
func ErrorCode(err error) string {
	var e *Error
	var ve *ValidationError
	var pe *PatternError
	var he *HarvestError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &ve):
		return EINVALID
	case errors.As(err, &pe):
		return EPATTERN
	case errors.As(err, &he):
		return EHARVEST
	case errors.As(err, &e):
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors always return "Internal error".
func ErrorMessage(err error) string {
	var e *Error
	var ve *ValidationError
	var pe *PatternError
	var he *HarvestError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &ve):
		return ve.Error()
	case errors.As(err, &pe):
		return pe.Error()
	case errors.As(err, &he):
		return he.Error()
	case errors.As(err, &e):
		return e.Message
	}
	return "Internal error"
}

// ErrorField returns the caller-supplied field an error refers to, if any.
func ErrorField(err error) string {
	var ve *ValidationError
	var pe *PatternError
	switch {
	case errors.As(err, &ve):
		return strings.Join(ve.Fields, ",")
	case errors.As(err, &pe):
		return pe.Field
	}
	return ""
}
