// Package frame implements colframe's in-memory columnar table.
//
// # Overview
//
// A DataFrame owns an ordered list of named columns. Every column holds a
// sequence of one kind of scalar (int64, string or bool) and all columns
// always hold the same number of elements. The table only grows: columns are
// appended with AddColumn, rows with AddRow, and nothing is removed.
//
// # Kinds
//
// Values and columns are closed sum types. Value is implemented only by
// IntValue, StringValue and BoolValue; Column only by IntColumn, StringColumn
// and BoolColumn. Code that must handle every kind uses MatchValue and
// MatchColumn, which take one handler per kind, so a new kind is a compile
// error at every such site.
//
// # Building a table
//
//	df := frame.New(frame.WithName("people"))
//
//	// The first column sets the row count.
//	if err := df.AddColumn("Name", frame.Strings("Joe", "Sally", "Sam")); err != nil {
//		return err
//	}
//	// Later columns must match it.
//	if err := df.AddColumn("Age", frame.Ints(11, 100, 1)); err != nil {
//		return err
//	}
//	// Rows must match the schema exactly.
//	if err := df.AddRow(frame.Str("Bob"), frame.Int(101)); err != nil {
//		return err
//	}
//
// # Errors
//
// Rejected mutations return a *errors.Error from
// github.com/ajitpratap0/colframe/pkg/errors with one of these types:
//
//   - ErrorTypeRowCountMismatch: AddColumn with the wrong number of rows
//   - ErrorTypeSchemaRequired: AddRow on a table without columns
//   - ErrorTypeColumnCountMismatch: AddRow with the wrong number of entries
//   - ErrorTypeTypeMismatch: AddRow entry of the wrong kind; see MismatchPosition
//
// A rejected call leaves the table exactly as it was. AddRow checks every
// entry before appending any of them, so a type mismatch in the last column
// does not leave earlier columns one element longer.
//
// # Column names
//
// Names are labels, not keys. Duplicates are accepted; Column(name) returns
// the first match and ColumnAt reaches the others.
package frame
