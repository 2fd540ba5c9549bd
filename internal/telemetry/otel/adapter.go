package otel

import (
	"context"
	"time"

	otellog "go.opentelemetry.io/otel/log"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

// RecordLogger is the part of otellog.Logger the emitter needs.
type RecordLogger interface {
	Emit(ctx context.Context, rec otellog.Record)
}

// LogEmitter turns domain events into OTel log records.
type LogEmitter struct {
	logger RecordLogger
}

// NewLogEmitter returns an emitter using the named logger scope of provider.
// A nil provider yields an emitter that drops everything.
func NewLogEmitter(provider *sdklog.LoggerProvider, scope string) *LogEmitter {
	if provider == nil {
		return &LogEmitter{}
	}
	return &LogEmitter{logger: provider.Logger(scope)}
}

// NewLogEmitterWithLogger wraps an existing logger (tests use a capturing one).
func NewLogEmitterWithLogger(l RecordLogger) *LogEmitter {
	return &LogEmitter{logger: l}
}

// Emit sends one record with body and string attributes; empty values are skipped.
// A zero ts is replaced by now.
func (e *LogEmitter) Emit(ctx context.Context, ts time.Time, body string, attrs map[string]string) {
	if e == nil || e.logger == nil {
		return
	}
	var rec otellog.Record
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	rec.SetTimestamp(ts)
	rec.SetObservedTimestamp(time.Now().UTC())
	rec.SetSeverity(otellog.SeverityInfo)
	if body != "" {
		rec.SetBody(otellog.StringValue(body))
	}
	for k, v := range attrs {
		if v != "" {
			rec.AddAttributes(otellog.String(k, v))
		}
	}
	e.logger.Emit(ctx, rec)
}
