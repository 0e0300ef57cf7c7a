// Package colframe provides a small in-memory columnar table with typed
// columns and checked, atomic appends.
//
// # Layout
//
//   - pkg/frame: the DataFrame, its Value and Column kinds, and rendering
//   - pkg/errors: structured errors with a type per failure kind
//   - pkg/formats/columnar: encode-only export to JSON, Arrow, Parquet and Avro
//   - pkg/compression: stream codecs applied to exported output
//   - pkg/config, pkg/logger, pkg/metrics, pkg/observability: ambient stack
//   - internal/demo, cmd/colframe: the sample table and its CLI
//
// # Quick Start
//
//	df := frame.New(frame.WithName("people"))
//	if err := df.AddColumn("Name", frame.Strings("Joe", "Sally", "Sam")); err != nil {
//		return err
//	}
//	if err := df.AddColumn("Age", frame.Ints(11, 100, 1)); err != nil {
//		return err
//	}
//	if err := df.AddRow(frame.Str("Bob"), frame.Int(101)); err != nil {
//		return err
//	}
//	fmt.Print(df)
//
// From the command line:
//
//	colframe demo --format grid
//	colframe demo --format parquet --config colframe.yaml > people.parquet
package colframe
