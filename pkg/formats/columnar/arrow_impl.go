package columnar

import (
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/ajitpratap0/colframe/pkg/errors"
	"github.com/ajitpratap0/colframe/pkg/frame"
)

// MetadataFrameName is the schema metadata key holding the table name
const MetadataFrameName = "colframe.name"

// ArrowType maps a column kind to its Arrow type
func ArrowType(k frame.Kind) (arrow.DataType, error) {
	switch k {
	case frame.KindInt:
		return arrow.PrimitiveTypes.Int64, nil
	case frame.KindString:
		return arrow.BinaryTypes.String, nil
	case frame.KindBool:
		return arrow.FixedWidthTypes.Boolean, nil
	default:
		return nil, errors.Newf(errors.ErrorTypeInternal, "no arrow type for %s", k)
	}
}

// ToArrowSchema converts the table's schema. Field names are kept as is;
// Arrow permits duplicates. No field is nullable.
func ToArrowSchema(f *frame.DataFrame) (*arrow.Schema, error) {
	schema := f.Schema()
	fields := make([]arrow.Field, len(schema))
	for i, field := range schema {
		typ, err := ArrowType(field.Kind)
		if err != nil {
			return nil, err
		}
		fields[i] = arrow.Field{Name: field.Name, Type: typ}
	}

	var md *arrow.Metadata
	if f.Name() != "" {
		m := arrow.NewMetadata([]string{MetadataFrameName}, []string{f.Name()})
		md = &m
	}
	return arrow.NewSchema(fields, md), nil
}

// ToArrowRecord copies the table into a single Arrow record batch allocated
// from mem. The caller must Release it.
func ToArrowRecord(f *frame.DataFrame, mem memory.Allocator) (arrow.Record, error) {
	if mem == nil {
		mem = memory.DefaultAllocator
	}
	schema, err := ToArrowSchema(f)
	if err != nil {
		return nil, err
	}

	b := array.NewRecordBuilder(mem, schema)
	defer b.Release()
	b.Reserve(f.NumRows())

	for i := 0; i < f.NumColumns(); i++ {
		col, err := f.ColumnAt(i)
		if err != nil {
			return nil, err
		}
		fb := b.Field(i)
		frame.MatchColumn(col,
			func(v []int64) struct{} {
				fb.(*array.Int64Builder).AppendValues(v, nil)
				return struct{}{}
			},
			func(v []string) struct{} {
				fb.(*array.StringBuilder).AppendValues(v, nil)
				return struct{}{}
			},
			func(v []bool) struct{} {
				fb.(*array.BooleanBuilder).AppendValues(v, nil)
				return struct{}{}
			},
		)
	}
	return b.NewRecord(), nil
}

func encodeArrow(w io.Writer, f *frame.DataFrame, _ *WriterConfig) error {
	mem := memory.NewGoAllocator()
	rec, err := ToArrowRecord(f, mem)
	if err != nil {
		return err
	}
	defer rec.Release()

	iw := ipc.NewWriter(w, ipc.WithSchema(rec.Schema()), ipc.WithAllocator(mem))
	if err := iw.Write(rec); err != nil {
		_ = iw.Close()
		return errors.Wrap(err, errors.ErrorTypeData, "write arrow record batch")
	}
	if err := iw.Close(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeData, "close arrow stream")
	}
	return nil
}
