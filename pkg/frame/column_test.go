package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindString(t *testing.T) {
	assert.Equal(t, "int", KindInt.String())
	assert.Equal(t, "string", KindString.String())
	assert.Equal(t, "bool", KindBool.String())
	assert.Equal(t, "Kind(7)", Kind(7).String())
}

func TestColumnLenAndKind(t *testing.T) {
	tests := []struct {
		col  Column
		len  int
		kind Kind
	}{
		{Ints(), 0, KindInt},
		{Ints(1, 2, 3), 3, KindInt},
		{Strings("a"), 1, KindString},
		{Bools(true, false), 2, KindBool},
		{StringColumn(nil), 0, KindString},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.len, tt.col.Len())
		assert.Equal(t, tt.kind, tt.col.Kind())
	}
}

func TestColumnAt(t *testing.T) {
	assert.Equal(t, Int(100), Ints(11, 100).At(1))
	assert.Equal(t, Str("Sally"), Strings("Joe", "Sally").At(1))
	assert.Equal(t, Bool(true), Bools(false, true).At(1))
	assert.Panics(t, func() { Ints(1).At(1) })
}

func TestValueKindAndString(t *testing.T) {
	assert.Equal(t, KindInt, Int(-4).Kind())
	assert.Equal(t, KindString, Str("x").Kind())
	assert.Equal(t, KindBool, Bool(false).Kind())

	assert.Equal(t, "-4", Int(-4).String())
	assert.Equal(t, `"a \"b\""`, Str(`a "b"`).String())
	assert.Equal(t, "false", Bool(false).String())
}

func TestMatchValue(t *testing.T) {
	describe := func(v Value) string {
		return MatchValue(v,
			func(i int64) string { return "int" },
			func(s string) string { return "string:" + s },
			func(b bool) string { return "bool" },
		)
	}

	assert.Equal(t, "int", describe(Int(1)))
	assert.Equal(t, "string:hi", describe(Str("hi")))
	assert.Equal(t, "bool", describe(Bool(true)))
	assert.Panics(t, func() { describe(nil) })
}

func TestMatchColumn(t *testing.T) {
	sum := func(c Column) int {
		return MatchColumn(c,
			func(v []int64) int {
				total := 0
				for _, x := range v {
					total += int(x)
				}
				return total
			},
			func(v []string) int { return len(v) },
			func(v []bool) int { return -len(v) },
		)
	}

	assert.Equal(t, 6, sum(Ints(1, 2, 3)))
	assert.Equal(t, 2, sum(Strings("a", "b")))
	assert.Equal(t, -1, sum(Bools(true)))
	assert.Panics(t, func() { sum(nil) })
}

func TestCloneColumnSharesNothing(t *testing.T) {
	orig := BoolColumn{true, false}
	clone := cloneColumn(orig).(BoolColumn)
	clone[0] = false
	assert.Equal(t, BoolColumn{true, false}, orig)
}

func TestAppendValue(t *testing.T) {
	assert.Equal(t, IntColumn{1, 2}, appendValue(Ints(1), Int(2)))
	assert.Equal(t, StringColumn{"a"}, appendValue(Strings(), Str("a")))
	assert.Equal(t, BoolColumn{true}, appendValue(BoolColumn(nil), Bool(true)))
}
