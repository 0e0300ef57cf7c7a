package frame

import (
	"slices"

	"go.uber.org/zap"

	colerrors "github.com/ajitpratap0/colframe/pkg/errors"
	"github.com/ajitpratap0/colframe/pkg/metrics"
)

// State is the table's logical lifecycle state
type State int

const (
	// StateEmpty means no columns have been added yet
	StateEmpty State = iota
	// StatePopulated means at least one column exists
	StatePopulated
)

func (s State) String() string {
	if s == StateEmpty {
		return "empty"
	}
	return "populated"
}

// Field describes one column of the schema
type Field struct {
	Name string
	Kind Kind
}

// DataFrame is a column-oriented table. columns[i] is named names[i] and every
// column holds exactly numRows elements.
//
// A DataFrame is not safe for concurrent use; guard shared tables with a
// mutex.
type DataFrame struct {
	names   []string
	columns []Column
	numRows int

	name    string
	logger  *zap.Logger
	metrics *metrics.Collector
}

// New creates an empty table
func New(opts ...Option) *DataFrame {
	f := &DataFrame{
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Name returns the label set with WithName
func (f *DataFrame) Name() string { return f.name }

// NumRows returns the row count shared by every column
func (f *DataFrame) NumRows() int { return f.numRows }

// NumColumns returns the number of columns
func (f *DataFrame) NumColumns() int { return len(f.columns) }

// State reports whether any column has been added
func (f *DataFrame) State() State {
	if len(f.columns) == 0 {
		return StateEmpty
	}
	return StatePopulated
}

// AddColumn appends a column named name. The first column defines the row
// count; every later column must have exactly NumRows elements. The table
// keeps its own copy of data. Names need not be unique.
//
// On error the table is unchanged.
func (f *DataFrame) AddColumn(name string, data Column) error {
	if !isColumn(data) {
		err := colerrors.Newf(colerrors.ErrorTypeValidation, "unsupported column %T", data).
			WithDetail("column", name)
		f.reject(metrics.OperationAddColumn, err)
		return err
	}

	if len(f.columns) > 0 && data.Len() != f.numRows {
		err := errRowCountMismatch(name, f.numRows, data.Len())
		f.reject(metrics.OperationAddColumn, err)
		return err
	}

	f.names = append(f.names, name)
	f.columns = append(f.columns, cloneColumn(data))
	f.numRows = data.Len()

	f.logger.Debug("column added",
		zap.String("frame", f.name),
		zap.String("column", name),
		zap.Stringer("kind", data.Kind()),
		zap.Int("rows", f.numRows))
	f.metrics.ColumnAdded(f.name, f.numRows)
	return nil
}

// AddRow appends one value to every column. row must have one entry per
// column, in column order, each of the same kind as its column.
//
// The whole row is validated before any column is touched, so a rejected row
// never leaves columns with unequal lengths.
func (f *DataFrame) AddRow(row ...Value) error {
	if err := f.checkRow(row); err != nil {
		f.reject(metrics.OperationAddRow, err)
		return err
	}

	for i, v := range row {
		f.columns[i] = appendValue(f.columns[i], v)
	}
	f.numRows++

	f.logger.Debug("row appended",
		zap.String("frame", f.name),
		zap.Int("rows", f.numRows))
	f.metrics.RowAppended(f.name, f.numRows)
	return nil
}

func (f *DataFrame) checkRow(row []Value) *colerrors.Error {
	if len(f.columns) == 0 {
		return errSchemaRequired()
	}
	if len(row) != len(f.columns) {
		return errColumnCountMismatch(len(f.columns), len(row))
	}
	for i, v := range row {
		if !isValue(v) {
			return colerrors.Newf(colerrors.ErrorTypeValidation, "unsupported value %T", v).
				WithDetail("position", i)
		}
		if want := f.columns[i].Kind(); v.Kind() != want {
			return errTypeMismatch(i, f.names[i], want, v.Kind())
		}
	}
	return nil
}

func (f *DataFrame) reject(op string, err *colerrors.Error) {
	f.logger.Warn("table mutation rejected",
		zap.String("frame", f.name),
		zap.String("operation", op),
		zap.String("error_type", string(err.Type)),
		zap.String("error", err.Message))
	f.metrics.OperationFailed(f.name, op, string(err.Type))
}

// ColumnNames returns a copy of the column names in insertion order
func (f *DataFrame) ColumnNames() []string {
	return slices.Clone(f.names)
}

// Schema returns the name and kind of every column in order
func (f *DataFrame) Schema() []Field {
	fields := make([]Field, len(f.columns))
	for i, c := range f.columns {
		fields[i] = Field{Name: f.names[i], Kind: c.Kind()}
	}
	return fields
}

// ColumnAt returns a copy of column i
func (f *DataFrame) ColumnAt(i int) (Column, error) {
	if i < 0 || i >= len(f.columns) {
		return nil, errOutOfRange("column", i, len(f.columns))
	}
	return cloneColumn(f.columns[i]), nil
}

// Column returns a copy of the first column named name. When names repeat,
// later columns are only reachable through ColumnAt.
func (f *DataFrame) Column(name string) (Column, bool) {
	i := slices.Index(f.names, name)
	if i < 0 {
		return nil, false
	}
	return cloneColumn(f.columns[i]), true
}

// Row returns the values at row i, one per column
func (f *DataFrame) Row(i int) ([]Value, error) {
	if i < 0 || i >= f.numRows {
		return nil, errOutOfRange("row", i, f.numRows)
	}
	row := make([]Value, len(f.columns))
	for c, col := range f.columns {
		row[c] = col.At(i)
	}
	return row, nil
}

// Validate re-checks the structural invariants. It only fails if the table
// was corrupted outside its API.
func (f *DataFrame) Validate() error {
	if len(f.names) != len(f.columns) {
		return colerrors.Newf(colerrors.ErrorTypeInternal,
			"%d column names for %d columns", len(f.names), len(f.columns))
	}
	for i, c := range f.columns {
		if c.Len() != f.numRows {
			return colerrors.Newf(colerrors.ErrorTypeInternal,
				"column %q has %d rows, table has %d", f.names[i], c.Len(), f.numRows).
				WithDetail("column", f.names[i])
		}
	}
	return nil
}

func isColumn(c Column) bool {
	switch c.(type) {
	case IntColumn, StringColumn, BoolColumn:
		return true
	}
	return false
}

func isValue(v Value) bool {
	switch v.(type) {
	case IntValue, StringValue, BoolValue:
		return true
	}
	return false
}
