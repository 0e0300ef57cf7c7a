package frame

import (
	"fmt"
	"slices"
)

// Column is one field's worth of data across all rows. The only
// implementations are IntColumn, StringColumn and BoolColumn; each holds a
// sequence of its kind's primitive.
type Column interface {
	// Len returns the number of elements stored, regardless of kind.
	Len() int
	// Kind returns the kind every element of the column has.
	Kind() Kind
	// At returns element i as a scalar. It panics if i is out of range.
	At(i int) Value
	isColumn()
}

// IntColumn is a column of signed 64-bit integers
type IntColumn []int64

// StringColumn is a column of strings
type StringColumn []string

// BoolColumn is a column of booleans
type BoolColumn []bool

// Ints returns an integer column holding vals
func Ints(vals ...int64) Column { return IntColumn(vals) }

// Strings returns a string column holding vals
func Strings(vals ...string) Column { return StringColumn(vals) }

// Bools returns a boolean column holding vals
func Bools(vals ...bool) Column { return BoolColumn(vals) }

func (c IntColumn) Len() int    { return len(c) }
func (c StringColumn) Len() int { return len(c) }
func (c BoolColumn) Len() int   { return len(c) }

func (IntColumn) Kind() Kind    { return KindInt }
func (StringColumn) Kind() Kind { return KindString }
func (BoolColumn) Kind() Kind   { return KindBool }

func (c IntColumn) At(i int) Value    { return IntValue(c[i]) }
func (c StringColumn) At(i int) Value { return StringValue(c[i]) }
func (c BoolColumn) At(i int) Value   { return BoolValue(c[i]) }

func (IntColumn) isColumn()    {}
func (StringColumn) isColumn() {}
func (BoolColumn) isColumn()   {}

// MatchColumn dispatches c to the handler for its kind, passing the
// underlying slice. Handlers must not retain or modify the slice. Every
// handler is required, so adding a kind breaks every call site at compile
// time.
func MatchColumn[R any](c Column, onInt func([]int64) R, onString func([]string) R, onBool func([]bool) R) R {
	switch x := c.(type) {
	case IntColumn:
		return onInt(x)
	case StringColumn:
		return onString(x)
	case BoolColumn:
		return onBool(x)
	}
	panic(fmt.Sprintf("frame: MatchColumn on unsupported column %T", c))
}

// cloneColumn returns a copy of c that shares no memory with it.
func cloneColumn(c Column) Column {
	return MatchColumn(c,
		func(v []int64) Column { return IntColumn(slices.Clone(v)) },
		func(v []string) Column { return StringColumn(slices.Clone(v)) },
		func(v []bool) Column { return BoolColumn(slices.Clone(v)) },
	)
}

// appendValue returns c with v appended. The caller has already checked that
// v's kind matches c's kind.
func appendValue(c Column, v Value) Column {
	return MatchColumn(c,
		func(col []int64) Column { return IntColumn(append(col, int64(v.(IntValue)))) },
		func(col []string) Column { return StringColumn(append(col, string(v.(StringValue)))) },
		func(col []bool) Column { return BoolColumn(append(col, bool(v.(BoolValue)))) },
	)
}
