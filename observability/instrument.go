package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/inject/di"
)

// SpanConstruct is the name of the span recorded for each constructor call.
const SpanConstruct = "di.construct"

// Instrument returns registry options that feed meter and tracer. Either may
// be nil to skip that signal.
func Instrument(meter metric.Meter, tracer trace.Tracer) ([]di.Option, error) {
	var opts []di.Option

	if meter != nil {
		m, err := NewRegistryMetrics(meter)
		if err != nil {
			return nil, err
		}
		opts = append(opts,
			di.WithResolveHook(func(key di.Key, _ time.Duration, err error) {
				m.RecordResolve(context.Background(), key.String(), err)
			}),
			di.WithConstructHook(func(key di.Key, d time.Duration, err error) {
				m.RecordConstruct(context.Background(), key.String(), d, err)
			}),
			di.WithInjectHook(func(_ int, err error) {
				m.RecordInject(context.Background(), err)
			}),
		)
	}

	if tracer != nil {
		opts = append(opts, di.WithConstructHook(func(key di.Key, d time.Duration, err error) {
			recordConstructSpan(tracer, key, d, err)
		}))
	}

	return opts, nil
}

// recordConstructSpan reports a finished constructor call as a span that
// covers its measured duration.
func recordConstructSpan(tracer trace.Tracer, key di.Key, d time.Duration, err error) {
	end := time.Now()
	_, span := tracer.Start(context.Background(), SpanConstruct,
		trace.WithTimestamp(end.Add(-d)),
		trace.WithAttributes(attribute.String(AttrTypeKey, key.String())),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End(trace.WithTimestamp(end))
}
