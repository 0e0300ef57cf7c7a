// Package columnar encodes a frame.DataFrame for export. Every writer is
// encode-only: Write turns one table into one complete document on the
// underlying stream.
package columnar

import (
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/ajitpratap0/colframe/pkg/errors"
	"github.com/ajitpratap0/colframe/pkg/frame"
	"github.com/ajitpratap0/colframe/pkg/metrics"
)

// Format names an export encoding
type Format string

const (
	// Table is the frame's debug rendering
	Table Format = "table"
	// Grid is an aligned text grid
	Grid Format = "grid"
	// JSON is a column-oriented JSON document
	JSON Format = "json"
	// Arrow is an Apache Arrow IPC stream with one record batch
	Arrow Format = "arrow"
	// Parquet is an Apache Parquet file with one row group
	Parquet Format = "parquet"
	// Avro is an Avro object container file with one record per row
	Avro Format = "avro"
)

// Formats returns every supported format
func Formats() []Format {
	return []Format{Table, Grid, JSON, Arrow, Parquet, Avro}
}

// ParseFormat maps a case-insensitive name to a Format. The empty string
// means Table.
func ParseFormat(name string) (Format, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return Table, nil
	}
	for _, f := range Formats() {
		if string(f) == name {
			return f, nil
		}
	}
	return "", errors.Newf(errors.ErrorTypeConfig, "unsupported output format %q", name).
		WithDetail("format", name)
}

// Writer encodes tables to an underlying stream
type Writer interface {
	// Write encodes f as one complete document
	Write(f *frame.DataFrame) error
	// Format returns the encoding
	Format() Format
	// BytesWritten returns the bytes written to the stream so far
	BytesWritten() int64
}

// WriterConfig configures export writers
type WriterConfig struct {
	Format Format
	// Compression is the codec applied inside the container for formats
	// that have one: parquet (snappy, gzip, zstd, lz4, none) and avro
	// (snappy, deflate, none). Other formats ignore it.
	Compression string
	// Indent pretty-prints JSON output
	Indent  bool
	Logger  *zap.Logger
	Metrics *metrics.Collector
}

// DefaultWriterConfig returns the table rendering
func DefaultWriterConfig() *WriterConfig {
	return &WriterConfig{
		Format:      Table,
		Compression: "none",
	}
}

// Validate checks the format and, for container formats, the codec
func (c *WriterConfig) Validate() error {
	switch c.Format {
	case Table, Grid, JSON, Arrow, "":
		return nil
	case Parquet:
		_, err := parquetCodec(c.Compression)
		return err
	case Avro:
		_, err := avroCodec(c.Compression)
		return err
	default:
		return errors.Newf(errors.ErrorTypeConfig, "unsupported output format %q", c.Format).
			WithDetail("format", string(c.Format))
	}
}

var encoders = map[Format]encodeFunc{
	Table:   encodeTable,
	Grid:    encodeGrid,
	JSON:    encodeJSON,
	Arrow:   encodeArrow,
	Parquet: encodeParquet,
	Avro:    encodeAvro,
}

// NewWriter creates a writer for config.Format. A nil config uses
// DefaultWriterConfig.
func NewWriter(w io.Writer, config *WriterConfig) (Writer, error) {
	if config == nil {
		config = DefaultWriterConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	cfg := *config
	if cfg.Format == "" {
		cfg.Format = Table
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &baseWriter{
		out:     &countingWriter{w: w},
		config:  &cfg,
		format:  cfg.Format,
		encoder: encoders[cfg.Format],
	}, nil
}

type encodeFunc func(w io.Writer, f *frame.DataFrame, config *WriterConfig) error

type baseWriter struct {
	out     *countingWriter
	config  *WriterConfig
	format  Format
	encoder encodeFunc
}

func (bw *baseWriter) Write(f *frame.DataFrame) error {
	timer := metrics.NewTimer()
	before := bw.out.n

	if err := bw.encoder(bw.out, f, bw.config); err != nil {
		bw.config.Logger.Warn("encode failed",
			zap.String("format", string(bw.format)),
			zap.String("frame", f.Name()),
			zap.Error(err))
		if _, ok := errors.TypeOf(err); ok {
			return err
		}
		return errors.Wrap(err, errors.ErrorTypeData, "encode "+string(bw.format))
	}

	elapsed := timer.Stop()
	bw.config.Metrics.ObserveEncode(string(bw.format), elapsed)
	bw.config.Logger.Debug("frame encoded",
		zap.String("format", string(bw.format)),
		zap.String("frame", f.Name()),
		zap.Int("columns", f.NumColumns()),
		zap.Int("rows", f.NumRows()),
		zap.Int64("bytes", bw.out.n-before),
		zap.Duration("duration", elapsed))
	return nil
}

func (bw *baseWriter) Format() Format { return bw.format }

func (bw *baseWriter) BytesWritten() int64 { return bw.out.n }

// countingWriter also hides any Close method of the destination from
// encoders that close their sink.
type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}

// FormatInfo describes an export format
type FormatInfo struct {
	Format        Format
	Name          string
	FileExtension string
	MIMEType      string
	Binary        bool
}

// GetFormatInfo returns information about format, or nil if it is unknown
func GetFormatInfo(format Format) *FormatInfo {
	switch format {
	case Table:
		return &FormatInfo{Format: Table, Name: "Debug rendering", FileExtension: ".txt", MIMEType: "text/plain"}
	case Grid:
		return &FormatInfo{Format: Grid, Name: "Text grid", FileExtension: ".txt", MIMEType: "text/plain"}
	case JSON:
		return &FormatInfo{Format: JSON, Name: "JSON", FileExtension: ".json", MIMEType: "application/json"}
	case Arrow:
		return &FormatInfo{Format: Arrow, Name: "Apache Arrow IPC stream", FileExtension: ".arrows",
			MIMEType: "application/vnd.apache.arrow.stream", Binary: true}
	case Parquet:
		return &FormatInfo{Format: Parquet, Name: "Apache Parquet", FileExtension: ".parquet",
			MIMEType: "application/vnd.apache.parquet", Binary: true}
	case Avro:
		return &FormatInfo{Format: Avro, Name: "Apache Avro object container", FileExtension: ".avro",
			MIMEType: "application/avro", Binary: true}
	default:
		return nil
	}
}

// requireColumns rejects tables without columns for formats whose schema
// cannot be empty
func requireColumns(f *frame.DataFrame, format Format) error {
	if f.NumColumns() == 0 {
		return errors.Newf(errors.ErrorTypeSchemaRequired, "%s output needs at least one column", format).
			WithDetail("format", string(format))
	}
	return nil
}
