// Package domainerrors defines the typed error results returned for expected
// business-rule violations. Services return these instead of panicking or
// using ad-hoc error strings; callers branch on the machine-readable code.
//
// Infrastructure facts (row missing, unique violation) are reported by stores
// as pkg/platform/sentinel errors and translated into these codes at the
// service boundary.
package domainerrors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Code classifies an expected failure.
type Code string

const (
	// CodeNotFound: a referenced entity (booking, bed, reason) does not exist.
	CodeNotFound Code = "not_found"
	// CodeUnauthorised: the acting user lacks permission. The decision itself
	// is delegated to the authorization collaborator.
	CodeUnauthorised Code = "unauthorised"
	// CodeGeneralValidation: a single precondition was violated, e.g. a
	// mutually-exclusive sub-record slot is already occupied.
	CodeGeneralValidation Code = "general_validation"
	// CodeFieldValidation: one or more fields are invalid; inspect FieldsOf
	// for the field-path → violation-code map.
	CodeFieldValidation Code = "field_validation"
	// CodeConflict: a date-range overlap with another booking or an
	// out-of-service period. The message names the overlapping range.
	CodeConflict Code = "conflict"
	// CodeInvariantViolation: an aggregate rejected a state transition.
	CodeInvariantViolation Code = "invariant_violation"
	// CodeInternal: an unexpected infrastructure failure wrapped for context.
	CodeInternal Code = "internal"
)

// Error carries a code, a human-readable message, and for field validation
// failures a map of field path (e.g. "$.dateTime") to violation code
// (e.g. "beforeBookingArrivalDate").
type Error struct {
	Code    Code
	Message string
	Fields  map[string]string
	cause   error
}

// New builds a domain error with the given code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf builds a domain error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// NewFieldErrors builds a field validation error from a field-path → code map.
func NewFieldErrors(fields map[string]string) *Error {
	return &Error{
		Code:    CodeFieldValidation,
		Message: summariseFields(fields),
		Fields:  fields,
	}
}

// Wrap annotates an underlying error with a domain code and message. The
// cause remains reachable via errors.Is / errors.Unwrap.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, cause: err}
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// HasCode reports whether err (or anything it wraps) is a domain error with
// the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// FieldsOf returns the field violation map carried by err, or nil when err is
// not a field validation error.
func FieldsOf(err error) map[string]string {
	var de *Error
	if errors.As(err, &de) && de.Code == CodeFieldValidation {
		return de.Fields
	}
	return nil
}

func summariseFields(fields map[string]string) string {
	paths := make([]string, 0, len(fields))
	for path := range fields {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	parts := make([]string, 0, len(paths))
	for _, path := range paths {
		parts = append(parts, path+": "+fields[path])
	}
	return "invalid fields: " + strings.Join(parts, ", ")
}
