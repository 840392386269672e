package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/kbukum/inject/errors"
)

// Instrument names.
const (
	MetricResolveTotal      = "di.resolve.total"
	MetricConstructTotal    = "di.construct.total"
	MetricConstructDuration = "di.construct.duration"
	MetricInjectTotal       = "di.inject.total"
)

// Attribute keys.
const (
	AttrTypeKey   = "type_key"
	AttrStatus    = "status"
	AttrErrorCode = "error_code"
)

// Status values.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// RegistryMetrics holds the instruments fed by a registry's hooks.
type RegistryMetrics struct {
	resolveTotal      metric.Int64Counter
	constructTotal    metric.Int64Counter
	constructDuration metric.Float64Histogram
	injectTotal       metric.Int64Counter
}

// NewRegistryMetrics creates metric instruments on the given meter.
func NewRegistryMetrics(meter metric.Meter) (*RegistryMetrics, error) {
	resolveTotal, err := meter.Int64Counter(MetricResolveTotal,
		metric.WithDescription("Total number of resolutions"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricResolveTotal, err)
	}

	constructTotal, err := meter.Int64Counter(MetricConstructTotal,
		metric.WithDescription("Total number of constructor calls"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricConstructTotal, err)
	}

	constructDuration, err := meter.Float64Histogram(MetricConstructDuration,
		metric.WithDescription("Duration of constructor calls in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s histogram: %w", MetricConstructDuration, err)
	}

	injectTotal, err := meter.Int64Counter(MetricInjectTotal,
		metric.WithDescription("Total number of injection attempts"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricInjectTotal, err)
	}

	return &RegistryMetrics{
		resolveTotal:      resolveTotal,
		constructTotal:    constructTotal,
		constructDuration: constructDuration,
		injectTotal:       injectTotal,
	}, nil
}

// RecordResolve counts one resolution of typeKey.
func (m *RegistryMetrics) RecordResolve(ctx context.Context, typeKey string, err error) {
	m.resolveTotal.Add(ctx, 1, metric.WithAttributes(resultAttrs(typeKey, err)...))
}

// RecordConstruct counts one constructor call and records its duration.
func (m *RegistryMetrics) RecordConstruct(ctx context.Context, typeKey string, d time.Duration, err error) {
	m.constructTotal.Add(ctx, 1, metric.WithAttributes(resultAttrs(typeKey, err)...))
	m.constructDuration.Record(ctx, d.Seconds(), metric.WithAttributes(
		attribute.String(AttrTypeKey, typeKey),
	))
}

// RecordInject counts one injection attempt.
func (m *RegistryMetrics) RecordInject(ctx context.Context, err error) {
	attrs := []attribute.KeyValue{attribute.String(AttrStatus, status(err))}
	if code := errors.Code(err); code != "" {
		attrs = append(attrs, attribute.String(AttrErrorCode, string(code)))
	}
	m.injectTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func resultAttrs(typeKey string, err error) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String(AttrTypeKey, typeKey),
		attribute.String(AttrStatus, status(err)),
	}
	if code := errors.Code(err); code != "" {
		attrs = append(attrs, attribute.String(AttrErrorCode, string(code)))
	}
	return attrs
}

func status(err error) string {
	if err != nil {
		return StatusError
	}
	return StatusOK
}
