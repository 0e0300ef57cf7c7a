package columnar

import (
	"io"
	"strconv"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"

	"github.com/ajitpratap0/colframe/pkg/errors"
	"github.com/ajitpratap0/colframe/pkg/frame"
)

func parquetCodec(name string) (compress.Compression, error) {
	switch strings.ToLower(name) {
	case "", "none":
		return compress.Codecs.Uncompressed, nil
	case "snappy":
		return compress.Codecs.Snappy, nil
	case "gzip":
		return compress.Codecs.Gzip, nil
	case "zstd":
		return compress.Codecs.Zstd, nil
	case "lz4":
		return compress.Codecs.Lz4Raw, nil
	default:
		return compress.Codecs.Uncompressed, errors.Newf(errors.ErrorTypeConfig,
			"unsupported parquet compression %q", name).WithDetail("compression", name)
	}
}

// uniqueNames suffixes repeated names with _2, _3, ... until every name is
// distinct
func uniqueNames(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, len(names))
	for i, name := range names {
		candidate := name
		for n := 2; seen[candidate]; n++ {
			candidate = name + "_" + strconv.Itoa(n)
		}
		seen[candidate] = true
		out[i] = candidate
	}
	return out
}

// encodeParquet writes one row group. Parquet columns are addressed by path,
// so repeated table names are made unique.
func encodeParquet(w io.Writer, f *frame.DataFrame, config *WriterConfig) error {
	if err := requireColumns(f, Parquet); err != nil {
		return err
	}
	codec, err := parquetCodec(config.Compression)
	if err != nil {
		return err
	}

	mem := memory.NewGoAllocator()
	rec, err := ToArrowRecord(f, mem)
	if err != nil {
		return err
	}
	defer rec.Release()

	names := uniqueNames(f.ColumnNames())
	fields := make([]arrow.Field, len(names))
	for i, field := range rec.Schema().Fields() {
		field.Name = names[i]
		fields[i] = field
	}
	md := rec.Schema().Metadata()
	schema := arrow.NewSchema(fields, &md)
	renamed := array.NewRecord(schema, rec.Columns(), rec.NumRows())
	defer renamed.Release()

	props := parquet.NewWriterProperties(
		parquet.WithCompression(codec),
		parquet.WithAllocator(mem),
		parquet.WithCreatedBy("colframe"),
	)
	fw, err := pqarrow.NewFileWriter(schema, w, props, pqarrow.NewArrowWriterProperties(
		pqarrow.WithAllocator(mem),
		pqarrow.WithStoreSchema(),
	))
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeData, "create parquet writer")
	}
	if err := fw.Write(renamed); err != nil {
		_ = fw.Close()
		return errors.Wrap(err, errors.ErrorTypeData, "write parquet row group")
	}
	if err := fw.Close(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeData, "close parquet writer")
	}
	return nil
}
