// Package errors provides structured error handling for colframe
package errors

import (
	"errors"
	"runtime"

	stringpool "github.com/ajitpratap0/colframe/pkg/strings"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeRowCountMismatch is returned when a column added after the
	// first does not have the table's current row count
	ErrorTypeRowCountMismatch ErrorType = "row_count_mismatch"
	// ErrorTypeSchemaRequired is returned when a row is added to a table
	// without columns
	ErrorTypeSchemaRequired ErrorType = "schema_required"
	// ErrorTypeColumnCountMismatch is returned when a row has a different
	// number of entries than the table has columns
	ErrorTypeColumnCountMismatch ErrorType = "column_count_mismatch"
	// ErrorTypeTypeMismatch is returned when a row entry's kind does not
	// match its target column's kind
	ErrorTypeTypeMismatch ErrorType = "type_mismatch"
	// ErrorTypeOutOfRange represents row or column index lookups past the end
	ErrorTypeOutOfRange ErrorType = "out_of_range"

	// ErrorTypeInternal represents internal system errors
	ErrorTypeInternal ErrorType = "internal"
	// ErrorTypeValidation represents validation errors
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeConfig represents configuration errors
	ErrorTypeConfig ErrorType = "config"
	// ErrorTypeFile represents file operation errors
	ErrorTypeFile ErrorType = "file"
	// ErrorTypeData represents data encoding errors
	ErrorTypeData ErrorType = "data"
	// ErrorTypeCapability represents capability/feature not supported errors
	ErrorTypeCapability ErrorType = "capability"
)

// Error represents a structured error with context
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
	Details map[string]interface{}
	Stack   []StackFrame
}

// StackFrame represents a single frame in the call stack
type StackFrame struct {
	Function string
	File     string
	Line     int
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return stringpool.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return stringpool.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a kind marker (see Kind) or an *Error of the
// same type, so errors.Is can match on the category alone.
func (e *Error) Is(target error) bool {
	switch t := target.(type) {
	case kindMarker:
		return e.Type == ErrorType(t)
	case *Error:
		return t.Message == "" && e.Type == t.Type
	default:
		return false
	}
}

// WithDetail adds a key-value detail to the error
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// Detail returns a detail previously attached with WithDetail
func (e *Error) Detail(key string) (interface{}, bool) {
	if e.Details == nil {
		return nil, false
	}
	v, ok := e.Details[key]
	return v, ok
}

// kindMarker is the target returned by Kind.
type kindMarker ErrorType

func (k kindMarker) Error() string { return string(k) }

// Kind returns a comparison target for errors.Is that matches any *Error of
// the given type.
//
//	if errors.Is(err, colerrors.Kind(colerrors.ErrorTypeTypeMismatch)) { ... }
func Kind(errType ErrorType) error {
	return kindMarker(errType)
}

// New creates a new error with the given type and message
func New(errType ErrorType, message string) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Stack:   captureStack(2),
	}
}

// Newf creates a new error with a formatted message
func Newf(errType ErrorType, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: stringpool.Sprintf(format, args...),
		Stack:   captureStack(2),
	}
}

// Wrap wraps an existing error with additional context
func Wrap(err error, errType ErrorType, message string) *Error {
	if err == nil {
		return nil
	}

	// If already our error type, preserve the stack
	var existingErr *Error
	if errors.As(err, &existingErr) {
		return &Error{
			Type:    errType,
			Message: message,
			Cause:   err,
			Stack:   existingErr.Stack,
		}
	}

	return &Error{
		Type:    errType,
		Message: message,
		Cause:   err,
		Stack:   captureStack(2),
	}
}

// IsRetryable returns true if the error is retryable. No colframe operation
// is safe to retry blindly, so this only reports true for wrapped causes that
// declare themselves temporary.
func IsRetryable(err error) bool {
	var temp interface{ Temporary() bool }
	if errors.As(err, &temp) {
		return temp.Temporary()
	}
	return false
}

// IsType checks if the error is of the given type
func IsType(err error, errType ErrorType) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Type == errType
}

// TypeOf returns the type of the outermost *Error in err's chain
func TypeOf(err error) (ErrorType, bool) {
	var e *Error
	if !errors.As(err, &e) {
		return "", false
	}
	return e.Type, true
}

// captureStack captures the current call stack
func captureStack(skip int) []StackFrame {
	const maxFrames = 32
	frames := make([]StackFrame, 0, maxFrames)

	for i := skip; i < maxFrames+skip; i++ {
		pc, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}

		fn := runtime.FuncForPC(pc)
		if fn == nil {
			continue
		}

		frames = append(frames, StackFrame{
			Function: fn.Name(),
			File:     file,
			Line:     line,
		})
	}

	return frames
}
