package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// TraceFields returns trace_id and span_id fields for the span in ctx, or
// nothing when ctx carries no valid span.
func TraceFields(ctx context.Context) []zap.Field {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return nil
	}
	return []zap.Field{
		zap.String("trace_id", sc.TraceID().String()),
		zap.String("span_id", sc.SpanID().String()),
	}
}

// OperationLogger logs the start and outcome of one named operation
type OperationLogger struct {
	logger    *zap.Logger
	operation string
	startTime time.Time
}

// StartOperation logs the start of operation with trace fields from ctx
func StartOperation(ctx context.Context, logger *zap.Logger, operation string, fields ...zap.Field) *OperationLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	l := logger.With(TraceFields(ctx)...).With(zap.String("operation", operation)).With(fields...)
	l.Debug("operation started")
	return &OperationLogger{logger: l, operation: operation, startTime: time.Now()}
}

// Logger returns the operation-scoped logger
func (ol *OperationLogger) Logger() *zap.Logger {
	return ol.logger
}

// Complete logs the outcome at info, or at error when err is non-nil
func (ol *OperationLogger) Complete(err error, fields ...zap.Field) {
	fields = append(fields, zap.Duration("duration", time.Since(ol.startTime)))
	if err != nil {
		ol.logger.Error("operation failed", append(fields, zap.Error(err))...)
		return
	}
	ol.logger.Info("operation completed", fields...)
}
