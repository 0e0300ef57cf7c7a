// Package config holds colframe's runtime configuration: logging, export
// output and observability.
//
// Configuration is read from YAML. Any ${VAR} in the file is replaced by the
// value of the environment variable VAR before parsing, so secrets and
// per-host settings can stay out of the file:
//
//	name: people
//	logging:
//	  level: ${LOG_LEVEL}
//	output:
//	  format: arrow
//	  compression: zstd
//
// Fields missing from the file keep the values from NewConfig.
package config

import (
	"strings"

	"github.com/ajitpratap0/colframe/pkg/compression"
	"github.com/ajitpratap0/colframe/pkg/errors"
	"github.com/ajitpratap0/colframe/pkg/formats/columnar"
	"github.com/ajitpratap0/colframe/pkg/logger"
)

// Config is the top-level configuration
type Config struct {
	// Name labels the demo table in logs, metrics and output
	Name          string              `yaml:"name" json:"name"`
	Logging       logger.Config       `yaml:"logging" json:"logging"`
	Output        OutputConfig        `yaml:"output" json:"output"`
	Observability ObservabilityConfig `yaml:"observability" json:"observability"`
}

// OutputConfig selects how tables are exported
type OutputConfig struct {
	// Format is one of table, grid, json, arrow, parquet, avro
	Format string `yaml:"format" json:"format"`
	// Compression wraps the whole output stream: none, gzip, snappy, lz4,
	// zstd, s2 or deflate
	Compression string `yaml:"compression" json:"compression"`
	// ContainerCompression is the codec inside parquet and avro files
	ContainerCompression string `yaml:"container_compression" json:"container_compression"`
	Indent               bool   `yaml:"indent" json:"indent"`
}

// ObservabilityConfig contains monitoring settings
type ObservabilityConfig struct {
	EnableMetrics     bool    `yaml:"enable_metrics" json:"enable_metrics"`
	MetricsNamespace  string  `yaml:"metrics_namespace" json:"metrics_namespace"`
	EnableTracing     bool    `yaml:"enable_tracing" json:"enable_tracing"`
	TracingSampleRate float64 `yaml:"tracing_sample_rate" json:"tracing_sample_rate"`
}

// NewConfig returns a configuration with defaults applied
func NewConfig() *Config {
	return &Config{
		Name:    "people",
		Logging: logger.DefaultConfig(),
		Output: OutputConfig{
			Format:               string(columnar.Table),
			Compression:          string(compression.None),
			ContainerCompression: "none",
		},
		Observability: ObservabilityConfig{
			MetricsNamespace:  "colframe",
			TracingSampleRate: 1.0,
		},
	}
}

// Validate checks every field that has a closed set of values
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return errors.New(errors.ErrorTypeConfig, "name is required")
	}
	if err := c.Logging.Validate(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeConfig, "logging").WithDetail("level", c.Logging.Level)
	}
	if _, err := columnar.ParseFormat(c.Output.Format); err != nil {
		return err
	}
	if _, err := compression.ParseAlgorithm(c.Output.Compression); err != nil {
		return err
	}
	if err := c.WriterConfig().Validate(); err != nil {
		return err
	}
	if c.Observability.EnableMetrics && c.Observability.MetricsNamespace == "" {
		return errors.New(errors.ErrorTypeConfig, "metrics_namespace is required when metrics are enabled")
	}
	if r := c.Observability.TracingSampleRate; r < 0 || r > 1 {
		return errors.Newf(errors.ErrorTypeConfig, "tracing_sample_rate %v outside [0, 1]", r)
	}
	return nil
}

// WriterConfig translates the output section for columnar.NewWriter. Logger
// and metrics are left for the caller.
func (c *Config) WriterConfig() *columnar.WriterConfig {
	format, err := columnar.ParseFormat(c.Output.Format)
	if err != nil {
		format = columnar.Format(c.Output.Format)
	}
	return &columnar.WriterConfig{
		Format:      format,
		Compression: c.Output.ContainerCompression,
		Indent:      c.Output.Indent,
	}
}

// CompressionConfig translates the output section for
// compression.NewCompressor
func (c *Config) CompressionConfig() (*compression.Config, error) {
	algo, err := compression.ParseAlgorithm(c.Output.Compression)
	if err != nil {
		return nil, err
	}
	return &compression.Config{Algorithm: algo, Level: compression.Default}, nil
}
