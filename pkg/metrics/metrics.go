// Package metrics provides Prometheus instrumentation for colframe tables.
//
// # Overview
//
// A Collector owns a small set of metric vectors registered on a
// caller-supplied prometheus.Registerer:
//   - columns_added_total{frame}: successful AddColumn calls
//   - rows_appended_total{frame}: successful AddRow calls
//   - operation_errors_total{frame,operation,error_type}: rejected mutations
//   - rows{frame}: current row count
//   - encode_duration_seconds{format}: time spent writing export dumps
//
// # Basic Usage
//
//	reg := prometheus.NewRegistry()
//	collector, err := metrics.NewCollector(reg, "colframe")
//	if err != nil {
//	    return err
//	}
//	df := frame.New(frame.WithName("people"), frame.WithMetrics(collector))
//
// A nil *Collector is valid and records nothing, so instrumented code never
// has to branch on whether metrics are enabled.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Operation names used as the operation label
const (
	OperationAddColumn = "add_column"
	OperationAddRow    = "add_row"
)

// Collector records table mutation metrics.
type Collector struct {
	columnsAdded   *prometheus.CounterVec
	rowsAppended   *prometheus.CounterVec
	operationErrs  *prometheus.CounterVec
	rows           *prometheus.GaugeVec
	encodeDuration *prometheus.HistogramVec
}

// NewCollector creates the metric vectors and registers them on reg. When reg
// is nil the default Prometheus registerer is used. Registering two collectors
// with the same namespace on one registry fails.
func NewCollector(reg prometheus.Registerer, namespace string) (c *Collector, err error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	// promauto panics on duplicate registration
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = e
				return
			}
			panic(r)
		}
	}()

	factory := promauto.With(reg)
	return &Collector{
		columnsAdded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "columns_added_total",
				Help:      "Total number of columns added to tables",
			},
			[]string{"frame"},
		),
		rowsAppended: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rows_appended_total",
				Help:      "Total number of rows appended to tables",
			},
			[]string{"frame"},
		),
		operationErrs: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "operation_errors_total",
				Help:      "Total number of rejected table mutations",
			},
			[]string{"frame", "operation", "error_type"},
		),
		rows: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "rows",
				Help:      "Current number of rows in a table",
			},
			[]string{"frame"},
		),
		encodeDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "encode_duration_seconds",
				Help:      "Time spent encoding a table export",
				Buckets:   []float64{1e-6, 1e-5, 1e-4, 1e-3, 1e-2, 0.1, 1},
			},
			[]string{"format"},
		),
	}, nil
}

// ColumnAdded records a successful AddColumn and the resulting row count
func (c *Collector) ColumnAdded(frame string, rows int) {
	if c == nil {
		return
	}
	c.columnsAdded.WithLabelValues(frame).Inc()
	c.rows.WithLabelValues(frame).Set(float64(rows))
}

// RowAppended records a successful AddRow and the resulting row count
func (c *Collector) RowAppended(frame string, rows int) {
	if c == nil {
		return
	}
	c.rowsAppended.WithLabelValues(frame).Inc()
	c.rows.WithLabelValues(frame).Set(float64(rows))
}

// OperationFailed records a rejected mutation
func (c *Collector) OperationFailed(frame, operation, errorType string) {
	if c == nil {
		return
	}
	c.operationErrs.WithLabelValues(frame, operation, errorType).Inc()
}

// ObserveEncode records how long an export in the given format took
func (c *Collector) ObserveEncode(format string, d time.Duration) {
	if c == nil {
		return
	}
	c.encodeDuration.WithLabelValues(format).Observe(d.Seconds())
}

// Timer provides a simple timing mechanism for measuring operation durations.
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer and starts timing immediately.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Stop returns the elapsed duration since creation. It can be called
// repeatedly.
func (t *Timer) Stop() time.Duration {
	return time.Since(t.start)
}
