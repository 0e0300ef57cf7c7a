package frame

import (
	"go.uber.org/zap"

	"github.com/ajitpratap0/colframe/pkg/metrics"
)

// Option configures a DataFrame
type Option func(*DataFrame)

// WithName labels the table in logs and metrics
func WithName(name string) Option {
	return func(f *DataFrame) {
		f.name = name
	}
}

// WithLogger sets the logger used for mutation diagnostics. A nil logger
// disables logging.
func WithLogger(logger *zap.Logger) Option {
	return func(f *DataFrame) {
		if logger == nil {
			logger = zap.NewNop()
		}
		f.logger = logger
	}
}

// WithMetrics records mutations on the given collector
func WithMetrics(collector *metrics.Collector) Option {
	return func(f *DataFrame) {
		f.metrics = collector
	}
}
