package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/colframe/pkg/compression"
	"github.com/ajitpratap0/colframe/pkg/errors"
	"github.com/ajitpratap0/colframe/pkg/formats/columnar"
	"github.com/ajitpratap0/colframe/pkg/testutil"
)

func TestNewConfigIsValid(t *testing.T) {
	cfg := NewConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, columnar.Table, cfg.WriterConfig().Format)

	cc, err := cfg.CompressionConfig()
	require.NoError(t, err)
	assert.Equal(t, compression.None, cc.Algorithm)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "empty name", mutate: func(c *Config) { c.Name = " " }},
		{name: "log level", mutate: func(c *Config) { c.Logging.Level = "loud" }},
		{name: "format", mutate: func(c *Config) { c.Output.Format = "orc" }},
		{name: "compression", mutate: func(c *Config) { c.Output.Compression = "brotli" }},
		{name: "avro codec", mutate: func(c *Config) {
			c.Output.Format = "avro"
			c.Output.ContainerCompression = "zstd"
		}},
		{name: "metrics namespace", mutate: func(c *Config) {
			c.Observability.EnableMetrics = true
			c.Observability.MetricsNamespace = ""
		}},
		{name: "sample rate", mutate: func(c *Config) { c.Observability.TracingSampleRate = 1.5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.ErrorTypeConfig), "got %v", err)
		})
	}
}

func TestLoadSubstitutesEnvironment(t *testing.T) {
	t.Setenv("COLFRAME_TEST_FORMAT", "parquet")
	path := testutil.WriteFile(t, "colframe.yaml", []byte(`
name: members
output:
  format: ${COLFRAME_TEST_FORMAT}
  compression: zstd
  container_compression: snappy
observability:
  enable_tracing: true
`))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "members", cfg.Name)
	assert.Equal(t, columnar.Parquet, cfg.WriterConfig().Format)
	assert.Equal(t, "snappy", cfg.WriterConfig().Compression)
	assert.True(t, cfg.Observability.EnableTracing)
	// untouched sections keep their defaults
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 1.0, cfg.Observability.TracingSampleRate)

	cc, err := cfg.CompressionConfig()
	require.NoError(t, err)
	assert.Equal(t, compression.Zstd, cc.Algorithm)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.True(t, errors.IsType(err, errors.ErrorTypeFile))

	path := testutil.WriteFile(t, "bad.yaml", []byte("name: [unterminated\n"))
	_, err = Load(path)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))

	path = testutil.WriteFile(t, "unknown.yaml", []byte("nmae: typo\n"))
	_, err = Load(path)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))

	path = testutil.WriteFile(t, "invalid.yaml", []byte("output:\n  format: orc\n"))
	_, err = Load(path)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
}

func TestSaveLoadRoundTrip(t *testing.T) {
	cfg := NewConfig()
	cfg.Name = "saved"
	cfg.Output.Format = "json"
	cfg.Output.Indent = true

	path := filepath.Join(t.TempDir(), "out.yaml")
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestSubstituteEnvVars(t *testing.T) {
	t.Setenv("COLFRAME_A", "1")
	tests := map[string]string{
		"plain":                      "plain",
		"${COLFRAME_A}":              "1",
		"x${COLFRAME_A}y":            "x1y",
		"${COLFRAME_UNSET}":          "",
		"open ${COLFRAME_A":          "open ${COLFRAME_A",
		"${COLFRAME_A}${COLFRAME_A}": "11",
	}
	for in, want := range tests {
		assert.Equal(t, want, substituteEnvVars(in), in)
	}
}
