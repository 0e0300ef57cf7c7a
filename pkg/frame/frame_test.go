package frame

import (
	stderrors "errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	colerrors "github.com/ajitpratap0/colframe/pkg/errors"
	"github.com/ajitpratap0/colframe/pkg/metrics"
)

// snapshot captures everything observable about a table's structure.
type snapshot struct {
	names   []string
	schema  []Field
	numRows int
	lens    []int
	columns []Column
}

func take(t *testing.T, f *DataFrame) snapshot {
	t.Helper()
	s := snapshot{
		names:   f.ColumnNames(),
		schema:  f.Schema(),
		numRows: f.NumRows(),
	}
	for i := 0; i < f.NumColumns(); i++ {
		c, err := f.ColumnAt(i)
		require.NoError(t, err)
		s.lens = append(s.lens, c.Len())
		s.columns = append(s.columns, c)
	}
	return s
}

func requireInvariants(t *testing.T, f *DataFrame) {
	t.Helper()
	require.NoError(t, f.Validate())
	require.Len(t, f.ColumnNames(), f.NumColumns())
	for i := 0; i < f.NumColumns(); i++ {
		c, err := f.ColumnAt(i)
		require.NoError(t, err)
		require.Equal(t, f.NumRows(), c.Len(), "column %d", i)
	}
}

func sample(t *testing.T, opts ...Option) *DataFrame {
	t.Helper()
	f := New(opts...)
	require.NoError(t, f.AddColumn("Name", Strings("Joe", "Sally", "Sam")))
	require.NoError(t, f.AddColumn("Age", Ints(11, 100, 1)))
	return f
}

func TestNewIsEmpty(t *testing.T) {
	f := New()

	assert.Equal(t, StateEmpty, f.State())
	assert.Equal(t, 0, f.NumRows())
	assert.Equal(t, 0, f.NumColumns())
	assert.Empty(t, f.ColumnNames())
	requireInvariants(t, f)
}

// Scenarios 1-6: build the people table step by step.
func TestPeopleScenario(t *testing.T) {
	f := New()

	// 1
	require.NoError(t, f.AddColumn("Name", Strings("Joe", "Sally", "Sam")))
	assert.Equal(t, 3, f.NumRows())
	assert.Equal(t, StatePopulated, f.State())

	// 2
	require.NoError(t, f.AddColumn("Age", Ints(11, 100, 1)))
	assert.Equal(t, 2, f.NumColumns())

	// 3
	err := f.AddColumn("Bad", Ints(1, 2))
	require.Error(t, err)
	assert.True(t, colerrors.IsType(err, colerrors.ErrorTypeRowCountMismatch))
	assert.Equal(t, 2, f.NumColumns())
	assert.Equal(t, 3, f.NumRows())
	requireInvariants(t, f)

	// 4
	require.NoError(t, f.AddRow(Str("Bob"), Int(101)))
	name, ok := f.Column("Name")
	require.True(t, ok)
	assert.Equal(t, StringColumn{"Joe", "Sally", "Sam", "Bob"}, name)
	age, ok := f.Column("Age")
	require.True(t, ok)
	assert.Equal(t, IntColumn{11, 100, 1, 101}, age)
	assert.Equal(t, 4, f.NumRows())

	// 5: hardened contract, neither column grows
	err = f.AddRow(Int(5), Int(6))
	require.Error(t, err)
	assert.True(t, colerrors.IsType(err, colerrors.ErrorTypeTypeMismatch))
	pos, ok := MismatchPosition(err)
	require.True(t, ok)
	assert.Equal(t, 0, pos)
	requireInvariants(t, f)
	for i := 0; i < 2; i++ {
		c, err := f.ColumnAt(i)
		require.NoError(t, err)
		assert.Equal(t, 4, c.Len())
	}

	// 6
	err = f.AddRow(Str("X"))
	require.Error(t, err)
	assert.True(t, colerrors.IsType(err, colerrors.ErrorTypeColumnCountMismatch))
	requireInvariants(t, f)
}

func TestAddColumnOnEmptyTableAlwaysSucceeds(t *testing.T) {
	cols := []Column{
		Ints(),
		Ints(1),
		Strings("a", "b", "c", "d", "e"),
		Bools(true, false),
		IntColumn(nil),
	}
	for _, c := range cols {
		f := New()
		require.NoError(t, f.AddColumn("only", c))
		assert.Equal(t, c.Len(), f.NumRows())
		assert.Equal(t, StatePopulated, f.State())
		requireInvariants(t, f)
	}
}

func TestEmptyFirstColumnFixesZeroRows(t *testing.T) {
	f := New()
	require.NoError(t, f.AddColumn("a", Ints()))
	assert.Equal(t, StatePopulated, f.State())

	err := f.AddColumn("b", Bools(true))
	assert.True(t, colerrors.IsType(err, colerrors.ErrorTypeRowCountMismatch))

	require.NoError(t, f.AddColumn("b", Bools()))
	require.NoError(t, f.AddRow(Int(1), Bool(false)))
	assert.Equal(t, 1, f.NumRows())
}

func TestAddColumnRowCountRule(t *testing.T) {
	tests := []struct {
		name    string
		col     Column
		wantErr bool
	}{
		{"same length int", Ints(7, 8, 9), false},
		{"same length bool", Bools(true, true, false), false},
		{"shorter", Strings("a"), true},
		{"longer", Ints(1, 2, 3, 4), true},
		{"empty", Bools(), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := sample(t)
			before := take(t, f)

			err := f.AddColumn("new", tt.col)
			if !tt.wantErr {
				require.NoError(t, err)
				assert.Equal(t, 3, f.NumColumns())
				requireInvariants(t, f)
				return
			}

			require.Error(t, err)
			assert.True(t, colerrors.IsType(err, colerrors.ErrorTypeRowCountMismatch))
			assert.Equal(t, before, take(t, f))

			var e *colerrors.Error
			require.True(t, stderrors.As(err, &e))
			assert.Equal(t, 3, e.Details["expected"])
			assert.Equal(t, tt.col.Len(), e.Details["actual"])
			assert.Equal(t, "new", e.Details["column"])
		})
	}
}

func TestAddColumnCopiesInput(t *testing.T) {
	src := []int64{1, 2, 3}
	f := New()
	require.NoError(t, f.AddColumn("n", IntColumn(src)))

	src[0] = 99
	c, _ := f.Column("n")
	assert.Equal(t, IntColumn{1, 2, 3}, c)

	// Returned columns are copies too.
	c.(IntColumn)[1] = 42
	again, _ := f.Column("n")
	assert.Equal(t, IntColumn{1, 2, 3}, again)
}

func TestAddColumnRejectsUnsupported(t *testing.T) {
	f := sample(t)
	before := take(t, f)

	err := f.AddColumn("nil", nil)
	assert.True(t, colerrors.IsType(err, colerrors.ErrorTypeValidation))

	ptr := &IntColumn{1, 2, 3}
	err = f.AddColumn("ptr", ptr)
	assert.True(t, colerrors.IsType(err, colerrors.ErrorTypeValidation))

	assert.Equal(t, before, take(t, f))
}

func TestAddRowAppendsToEveryColumn(t *testing.T) {
	f := New()
	require.NoError(t, f.AddColumn("id", Ints(1, 2)))
	require.NoError(t, f.AddColumn("label", Strings("a", "b")))
	require.NoError(t, f.AddColumn("ok", Bools(true, false)))

	row := []Value{Int(3), Str("c"), Bool(true)}
	require.NoError(t, f.AddRow(row...))

	assert.Equal(t, 3, f.NumRows())
	got, err := f.Row(2)
	require.NoError(t, err)
	assert.Equal(t, row, got)
	requireInvariants(t, f)
}

func TestAddRowOnEmptyTable(t *testing.T) {
	rows := [][]Value{
		nil,
		{},
		{Int(1)},
		{Str("a"), Bool(true)},
	}
	for _, row := range rows {
		f := New()
		err := f.AddRow(row...)
		require.Error(t, err)
		assert.True(t, colerrors.IsType(err, colerrors.ErrorTypeSchemaRequired))
		assert.Equal(t, StateEmpty, f.State())
		assert.Equal(t, 0, f.NumRows())
	}
}

func TestAddRowWrongLength(t *testing.T) {
	for _, row := range [][]Value{
		{},
		{Str("X")},
		{Str("X"), Int(1), Bool(true)},
	} {
		f := sample(t)
		before := take(t, f)

		err := f.AddRow(row...)
		require.Error(t, err)
		assert.True(t, colerrors.IsType(err, colerrors.ErrorTypeColumnCountMismatch))
		assert.Equal(t, before, take(t, f))
	}
}

// Appending while walking the row would leave earlier columns one element
// longer when a later entry mismatches. Every entry is checked first, so a
// mismatch at any position leaves every column untouched.
func TestAddRowTypeMismatchIsAtomic(t *testing.T) {
	tests := []struct {
		name     string
		row      []Value
		position int
		expected Kind
		actual   Kind
	}{
		{"first column", []Value{Int(5), Int(6)}, 0, KindString, KindInt},
		{"last column", []Value{Str("Ann"), Str("six")}, 1, KindInt, KindString},
		{"bool into int", []Value{Str("Ann"), Bool(true)}, 1, KindInt, KindBool},
		{"both wrong reports first", []Value{Bool(false), Bool(true)}, 0, KindString, KindBool},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := sample(t)
			before := take(t, f)

			err := f.AddRow(tt.row...)
			require.Error(t, err)
			assert.True(t, stderrors.Is(err, colerrors.Kind(colerrors.ErrorTypeTypeMismatch)))

			pos, ok := MismatchPosition(err)
			require.True(t, ok)
			assert.Equal(t, tt.position, pos)

			var e *colerrors.Error
			require.True(t, stderrors.As(err, &e))
			assert.Equal(t, tt.expected, e.Details["expected"])
			assert.Equal(t, tt.actual, e.Details["actual"])

			assert.Equal(t, before, take(t, f))
			requireInvariants(t, f)
		})
	}
}

func TestAddRowRejectsUnsupportedValues(t *testing.T) {
	f := sample(t)
	before := take(t, f)

	err := f.AddRow(Str("Ann"), nil)
	assert.True(t, colerrors.IsType(err, colerrors.ErrorTypeValidation))

	v := IntValue(3)
	err = f.AddRow(Str("Ann"), &v)
	assert.True(t, colerrors.IsType(err, colerrors.ErrorTypeValidation))

	assert.Equal(t, before, take(t, f))
}

func TestManyRows(t *testing.T) {
	f := New()
	require.NoError(t, f.AddColumn("i", Ints()))
	require.NoError(t, f.AddColumn("b", Bools()))

	for i := 0; i < 1000; i++ {
		require.NoError(t, f.AddRow(Int(int64(i)), Bool(i%2 == 0)))
	}
	assert.Equal(t, 1000, f.NumRows())
	requireInvariants(t, f)

	row, err := f.Row(999)
	require.NoError(t, err)
	assert.Equal(t, []Value{Int(999), Bool(false)}, row)
}

func TestDuplicateNamesResolveToFirst(t *testing.T) {
	f := New()
	require.NoError(t, f.AddColumn("x", Ints(1)))
	require.NoError(t, f.AddColumn("x", Strings("second")))

	assert.Equal(t, []string{"x", "x"}, f.ColumnNames())
	c, ok := f.Column("x")
	require.True(t, ok)
	assert.Equal(t, KindInt, c.Kind())

	second, err := f.ColumnAt(1)
	require.NoError(t, err)
	assert.Equal(t, StringColumn{"second"}, second)

	_, ok = f.Column("missing")
	assert.False(t, ok)
}

func TestLookupsOutOfRange(t *testing.T) {
	f := sample(t)

	_, err := f.Row(3)
	assert.True(t, colerrors.IsType(err, colerrors.ErrorTypeOutOfRange))
	_, err = f.Row(-1)
	assert.True(t, colerrors.IsType(err, colerrors.ErrorTypeOutOfRange))
	_, err = f.ColumnAt(2)
	assert.True(t, colerrors.IsType(err, colerrors.ErrorTypeOutOfRange))
}

func TestSchema(t *testing.T) {
	f := sample(t)
	require.NoError(t, f.AddColumn("Active", Bools(true, false, true)))

	assert.Equal(t, []Field{
		{Name: "Name", Kind: KindString},
		{Name: "Age", Kind: KindInt},
		{Name: "Active", Kind: KindBool},
	}, f.Schema())
}

func TestColumnNamesIsACopy(t *testing.T) {
	f := sample(t)
	names := f.ColumnNames()
	names[0] = "changed"
	assert.Equal(t, []string{"Name", "Age"}, f.ColumnNames())
}

func TestValidateDetectsCorruption(t *testing.T) {
	f := sample(t)
	f.columns[1] = IntColumn{1}
	assert.True(t, colerrors.IsType(f.Validate(), colerrors.ErrorTypeInternal))

	g := sample(t)
	g.names = g.names[:1]
	assert.True(t, colerrors.IsType(g.Validate(), colerrors.ErrorTypeInternal))
}

func TestMismatchPositionOnOtherErrors(t *testing.T) {
	_, ok := MismatchPosition(nil)
	assert.False(t, ok)
	_, ok = MismatchPosition(colerrors.New(colerrors.ErrorTypeSchemaRequired, "x"))
	assert.False(t, ok)
	_, ok = MismatchPosition(colerrors.New(colerrors.ErrorTypeTypeMismatch, "no details"))
	assert.False(t, ok)
}

func TestLogsRejectedMutations(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	f := sample(t, WithName("people"), WithLogger(zap.New(core)))

	assert.Equal(t, 2, logs.FilterMessage("column added").Len())

	_ = f.AddRow(Int(1), Int(2))
	rejected := logs.FilterMessage("table mutation rejected").All()
	require.Len(t, rejected, 1)
	fields := rejected[0].ContextMap()
	assert.Equal(t, "people", fields["frame"])
	assert.Equal(t, metrics.OperationAddRow, fields["operation"])
	assert.Equal(t, string(colerrors.ErrorTypeTypeMismatch), fields["error_type"])
	assert.Equal(t, zapcore.WarnLevel, rejected[0].Level)
}

func TestNilLoggerOption(t *testing.T) {
	f := New(WithLogger(nil))
	assert.NotPanics(t, func() {
		_ = f.AddRow(Int(1))
		_ = f.AddColumn("a", Ints(1))
	})
}

func TestRecordsMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := metrics.NewCollector(reg, "frametest")
	require.NoError(t, err)

	f := sample(t, WithName("people"), WithMetrics(collector))
	require.NoError(t, f.AddRow(Str("Bob"), Int(101)))
	_ = f.AddColumn("Bad", Ints(1))
	_ = f.AddRow(Str("X"))

	expected := `
# HELP frametest_rows Current number of rows in a table
# TYPE frametest_rows gauge
frametest_rows{frame="people"} 4
`
	require.NoError(t, promtestutil.GatherAndCompare(reg, strings.NewReader(expected), "frametest_rows"))

	count, err := promtestutil.GatherAndCount(reg, "frametest_operation_errors_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
