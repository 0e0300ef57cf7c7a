package frame

import (
	"errors"

	colerrors "github.com/ajitpratap0/colframe/pkg/errors"
)

func errRowCountMismatch(name string, expected, actual int) *colerrors.Error {
	return colerrors.Newf(colerrors.ErrorTypeRowCountMismatch,
		"column %q has %d rows, table has %d", name, actual, expected).
		WithDetail("column", name).
		WithDetail("expected", expected).
		WithDetail("actual", actual)
}

func errSchemaRequired() *colerrors.Error {
	return colerrors.New(colerrors.ErrorTypeSchemaRequired,
		"cannot add a row to a table without columns")
}

func errColumnCountMismatch(expected, actual int) *colerrors.Error {
	return colerrors.Newf(colerrors.ErrorTypeColumnCountMismatch,
		"row has %d entries, table has %d columns", actual, expected).
		WithDetail("expected", expected).
		WithDetail("actual", actual)
}

func errTypeMismatch(position int, column string, expected, actual Kind) *colerrors.Error {
	return colerrors.Newf(colerrors.ErrorTypeTypeMismatch,
		"row entry %d has kind %s, column %q has kind %s", position, actual, column, expected).
		WithDetail("position", position).
		WithDetail("column", column).
		WithDetail("expected", expected).
		WithDetail("actual", actual)
}

func errOutOfRange(what string, index, length int) *colerrors.Error {
	return colerrors.Newf(colerrors.ErrorTypeOutOfRange,
		"%s index %d out of range [0, %d)", what, index, length).
		WithDetail("index", index).
		WithDetail("length", length)
}

// MismatchPosition returns the row position reported by a TypeMismatch error.
func MismatchPosition(err error) (int, bool) {
	var e *colerrors.Error
	if !errors.As(err, &e) || e.Type != colerrors.ErrorTypeTypeMismatch {
		return 0, false
	}
	v, ok := e.Detail("position")
	if !ok {
		return 0, false
	}
	pos, ok := v.(int)
	return pos, ok
}
