package frame

import (
	"fmt"
	"strconv"
)

// Kind identifies one of the closed set of scalar kinds a table can hold.
type Kind int

const (
	// KindInt is a signed 64-bit integer
	KindInt Kind = iota
	// KindString is a text string
	KindString
	// KindBool is a boolean
	KindBool
)

// String returns the lower-case kind name
func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Value is a single cell's worth of data. The only implementations are
// IntValue, StringValue and BoolValue.
type Value interface {
	Kind() Kind
	String() string
	isValue()
}

// IntValue is a signed 64-bit integer scalar
type IntValue int64

// StringValue is a text scalar
type StringValue string

// BoolValue is a boolean scalar
type BoolValue bool

// Int returns an integer scalar
func Int(v int64) Value { return IntValue(v) }

// Str returns a string scalar
func Str(v string) Value { return StringValue(v) }

// Bool returns a boolean scalar
func Bool(v bool) Value { return BoolValue(v) }

func (IntValue) Kind() Kind    { return KindInt }
func (StringValue) Kind() Kind { return KindString }
func (BoolValue) Kind() Kind   { return KindBool }

func (v IntValue) String() string    { return strconv.FormatInt(int64(v), 10) }
func (v StringValue) String() string { return strconv.Quote(string(v)) }
func (v BoolValue) String() string   { return strconv.FormatBool(bool(v)) }

func (IntValue) isValue()    {}
func (StringValue) isValue() {}
func (BoolValue) isValue()   {}

// MatchValue dispatches v to the handler for its kind. Every handler is
// required, so adding a kind breaks every call site at compile time.
func MatchValue[R any](v Value, onInt func(int64) R, onString func(string) R, onBool func(bool) R) R {
	switch x := v.(type) {
	case IntValue:
		return onInt(int64(x))
	case StringValue:
		return onString(string(x))
	case BoolValue:
		return onBool(bool(x))
	}
	panic(fmt.Sprintf("frame: MatchValue on unsupported value %T", v))
}
