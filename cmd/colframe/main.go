package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/ajitpratap0/colframe/internal/demo"
	"github.com/ajitpratap0/colframe/pkg/config"
)

var version = "0.1.0"

type demoFlags struct {
	configFile  string
	format      string
	compression string
	logLevel    string
	trace       bool
	metrics     bool
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCommand(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "colframe",
		Short:         "colframe - in-memory columnar tables",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "colframe v%s\n", version)
			fmt.Fprintf(cmd.OutOrStdout(), "Go version: %s\n", runtime.Version())
			fmt.Fprintf(cmd.OutOrStdout(), "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	})

	var flags demoFlags
	demoCmd := &cobra.Command{
		Use:   "demo",
		Short: "Build the sample table and print it",
		Long: `Build the sample people table (Name, Age), append the row ("Bob", 101)
and write it to stdout in the configured format.

Example:
  colframe demo --format arrow --compression zstd > people.arrows.zst`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, &flags)
			if err != nil {
				return err
			}
			return runDemo(cmd, cfg, flags.metrics)
		},
	}
	demoCmd.Flags().StringVarP(&flags.configFile, "config", "c", "", "Path to a YAML configuration file")
	demoCmd.Flags().StringVarP(&flags.format, "format", "f", "table", "Output format (table, grid, json, arrow, parquet, avro)")
	demoCmd.Flags().StringVar(&flags.compression, "compression", "none", "Output compression (none, gzip, snappy, lz4, zstd, s2, deflate)")
	demoCmd.Flags().StringVar(&flags.logLevel, "log-level", "error", "Log level (debug, info, warn, error)")
	demoCmd.Flags().BoolVar(&flags.trace, "trace", false, "Write spans to stderr")
	demoCmd.Flags().BoolVar(&flags.metrics, "metrics", false, "Write Prometheus metrics to stderr after the run")
	root.AddCommand(demoCmd)

	return root
}

// loadConfig reads the config file, if any, then applies flags that were set
// explicitly or that have no file to override them.
func loadConfig(cmd *cobra.Command, flags *demoFlags) (*config.Config, error) {
	cfg := config.NewConfig()
	if flags.configFile != "" {
		if err := config.LoadInto(flags.configFile, cfg); err != nil {
			return nil, err
		}
	}

	set := func(name string) bool {
		return flags.configFile == "" || cmd.Flags().Changed(name)
	}
	if set("format") {
		cfg.Output.Format = flags.format
	}
	if set("compression") {
		cfg.Output.Compression = flags.compression
	}
	if set("log-level") {
		cfg.Logging.Level = flags.logLevel
	}
	if flags.trace {
		cfg.Observability.EnableTracing = true
	}
	if flags.metrics {
		cfg.Observability.EnableMetrics = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runDemo(cmd *cobra.Command, cfg *config.Config, printMetrics bool) error {
	reg := prometheus.NewRegistry()
	if _, err := demo.Run(cmd.Context(), cfg, cmd.OutOrStdout(),
		demo.WithRegistry(reg),
		demo.WithTraceWriter(cmd.ErrOrStderr()),
	); err != nil {
		return err
	}
	if printMetrics {
		return demo.WriteMetrics(cmd.ErrOrStderr(), reg)
	}
	return nil
}
