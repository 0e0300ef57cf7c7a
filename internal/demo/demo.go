// Package demo builds the sample people table and exports it the way the
// configuration asks.
package demo

import (
	"bytes"
	"context"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/ajitpratap0/colframe/pkg/compression"
	"github.com/ajitpratap0/colframe/pkg/config"
	"github.com/ajitpratap0/colframe/pkg/errors"
	"github.com/ajitpratap0/colframe/pkg/formats/columnar"
	"github.com/ajitpratap0/colframe/pkg/frame"
	"github.com/ajitpratap0/colframe/pkg/logger"
	"github.com/ajitpratap0/colframe/pkg/metrics"
	"github.com/ajitpratap0/colframe/pkg/observability"
	stringpool "github.com/ajitpratap0/colframe/pkg/strings"
)

type step struct {
	name  string
	attrs []attribute.KeyValue
	apply func(f *frame.DataFrame) error
}

func sampleSteps() []step {
	return []step{
		{
			name:  metrics.OperationAddColumn,
			attrs: []attribute.KeyValue{attribute.String("column", "Name")},
			apply: func(f *frame.DataFrame) error {
				return f.AddColumn("Name", frame.Strings("Joe", "Sally", "Sam"))
			},
		},
		{
			name:  metrics.OperationAddColumn,
			attrs: []attribute.KeyValue{attribute.String("column", "Age")},
			apply: func(f *frame.DataFrame) error {
				return f.AddColumn("Age", frame.Ints(11, 100, 1))
			},
		},
		{
			name: metrics.OperationAddRow,
			apply: func(f *frame.DataFrame) error {
				return f.AddRow(frame.Str("Bob"), frame.Int(101))
			},
		},
	}
}

// BuildSample creates the people table: Name and Age columns with three
// rows, then a fourth row ("Bob", 101).
func BuildSample(opts ...frame.Option) (*frame.DataFrame, error) {
	return buildSample(context.Background(), opts...)
}

// buildSample runs each step in its own span
func buildSample(ctx context.Context, opts ...frame.Option) (*frame.DataFrame, error) {
	f := frame.New(opts...)
	for _, s := range sampleSteps() {
		err := observability.Trace(ctx, "frame."+s.name, func(context.Context) error {
			return s.apply(f)
		}, s.attrs...)
		if err != nil {
			return nil, err
		}
	}
	return f, nil
}

// Result summarises a Run
type Result struct {
	Frame        *frame.DataFrame
	Format       columnar.Format
	Compression  compression.Algorithm
	EncodedBytes int64
	WrittenBytes int64
}

type options struct {
	logger      *zap.Logger
	registry    *prometheus.Registry
	traceWriter io.Writer
}

// Option configures Run
type Option func(*options)

// WithLogger replaces the logger built from the logging section
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithRegistry registers metrics on reg instead of a private registry
func WithRegistry(reg *prometheus.Registry) Option {
	return func(o *options) { o.registry = reg }
}

// WithTraceWriter sends spans to w instead of stderr
func WithTraceWriter(w io.Writer) Option {
	return func(o *options) { o.traceWriter = w }
}

// Run builds the sample table and writes it to out using the configured
// format and compression.
func Run(ctx context.Context, cfg *config.Config, out io.Writer, opts ...Option) (*Result, error) {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	log := o.logger
	if log == nil {
		l, err := logger.New(cfg.Logging)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeConfig, "build logger")
		}
		log = l
	}
	ctx = logger.ContextWithFrame(ctx, cfg.Name)
	log = logger.Annotate(log, ctx)

	var collector *metrics.Collector
	if cfg.Observability.EnableMetrics {
		if o.registry == nil {
			o.registry = prometheus.NewRegistry()
		}
		c, err := metrics.NewCollector(o.registry, cfg.Observability.MetricsNamespace)
		if err != nil {
			return nil, err
		}
		collector = c
	}

	if cfg.Observability.EnableTracing {
		tc := observability.DefaultTracingConfig()
		tc.SamplingRate = cfg.Observability.TracingSampleRate
		provider, err := observability.InitTracing(tc, o.traceWriter)
		if err != nil {
			return nil, err
		}
		defer func() {
			if err := provider.Shutdown(context.Background()); err != nil {
				log.Warn("tracer shutdown failed", zap.Error(err))
			}
		}()
	}

	op := observability.StartOperation(ctx, log, "demo",
		zap.String("format", cfg.Output.Format),
		zap.String("compression", cfg.Output.Compression))

	res, err := run(ctx, cfg, out, log, collector)
	if err != nil {
		op.Complete(err)
		return nil, err
	}
	op.Complete(nil,
		zap.Int("rows", res.Frame.NumRows()),
		zap.Int("columns", res.Frame.NumColumns()),
		zap.Int64("encoded_bytes", res.EncodedBytes),
		zap.Int64("written_bytes", res.WrittenBytes))
	return res, nil
}

func run(ctx context.Context, cfg *config.Config, out io.Writer, log *zap.Logger, collector *metrics.Collector) (*Result, error) {
	ctx, span := observability.StartSpan(ctx, "demo.run")
	defer span.End()

	var f *frame.DataFrame
	err := observability.Trace(ctx, "frame.build", func(ctx context.Context) error {
		var err error
		f, err = buildSample(ctx,
			frame.WithName(cfg.Name),
			frame.WithLogger(log),
			frame.WithMetrics(collector))
		return err
	})
	if err != nil {
		return nil, err
	}

	wcfg := cfg.WriterConfig()
	wcfg.Logger = log
	wcfg.Metrics = collector

	encoded := stringpool.GetBuilder(stringpool.Medium)
	defer stringpool.PutBuilder(encoded, stringpool.Medium)

	var w columnar.Writer
	err = observability.Trace(ctx, "frame.encode", func(context.Context) error {
		var err error
		if w, err = columnar.NewWriter(encoded, wcfg); err != nil {
			return err
		}
		return w.Write(f)
	}, observability.FrameAttributes(f.Name(), f.NumColumns(), f.NumRows())...)
	if err != nil {
		return nil, err
	}

	ccfg, err := cfg.CompressionConfig()
	if err != nil {
		return nil, err
	}
	comp, err := compression.NewCompressor(ccfg)
	if err != nil {
		return nil, err
	}

	cw := &countingWriter{w: out}
	err = observability.Trace(ctx, "output.compress", func(context.Context) error {
		if err := comp.CompressStream(cw, bytes.NewReader(encoded.Bytes())); err != nil {
			return errors.Wrap(err, errors.ErrorTypeFile, "write output")
		}
		return nil
	}, attribute.String("compression", string(comp.Algorithm())))
	if err != nil {
		return nil, err
	}

	return &Result{
		Frame:        f,
		Format:       w.Format(),
		Compression:  comp.Algorithm(),
		EncodedBytes: w.BytesWritten(),
		WrittenBytes: cw.n,
	}, nil
}

// WriteMetrics writes every metric family in g in the Prometheus text format
func WriteMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeInternal, "gather metrics")
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return errors.Wrap(err, errors.ErrorTypeFile, "write metrics")
		}
	}
	return nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}
