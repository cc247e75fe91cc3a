// Package telemetry holds the gateway's OpenTelemetry instruments. Without an
// SDK registered on the global providers every instrument is a no-op.
package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "pix-gateway"

// Tracer returns the gateway tracer from the global provider.
func Tracer() trace.Tracer {
	return otel.Tracer(instrumentationName)
}

// Counters groups the failure and attempt counters.
type Counters struct {
	AuditWriteFailures   metric.Int64Counter
	NotificationFailures metric.Int64Counter
	PspSendAttempts      metric.Int64Counter
	WebhookAuthFailures  metric.Int64Counter
}

// NewCounters registers the counters on meter.
func NewCounters(meter metric.Meter) (*Counters, error) {
	var (
		c   Counters
		err error
	)
	if c.AuditWriteFailures, err = meter.Int64Counter("audit_write_failures_total",
		metric.WithDescription("Audit log entries that could not be persisted")); err != nil {
		return nil, err
	}
	if c.NotificationFailures, err = meter.Int64Counter("notification_dispatch_failures_total",
		metric.WithDescription("Notifications that could not be delivered to the sink")); err != nil {
		return nil, err
	}
	if c.PspSendAttempts, err = meter.Int64Counter("psp_send_attempts_total",
		metric.WithDescription("PIX send calls issued to the PSP")); err != nil {
		return nil, err
	}
	if c.WebhookAuthFailures, err = meter.Int64Counter("webhook_auth_failures_total",
		metric.WithDescription("Webhook callbacks rejected by authentication")); err != nil {
		return nil, err
	}
	return &c, nil
}

// Default registers the counters on the global meter provider. The global
// provider never returns an error for well-formed names.
func Default() *Counters {
	c, err := NewCounters(otel.Meter(instrumentationName))
	if err != nil {
		panic(err)
	}
	return c
}

// Inc adds one to counter with the given string attributes as key/value pairs.
func Inc(ctx context.Context, counter metric.Int64Counter, kv ...string) {
	if counter == nil {
		return
	}
	attrs := make([]attribute.KeyValue, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		attrs = append(attrs, attribute.String(kv[i], kv[i+1]))
	}
	counter.Add(ctx, 1, metric.WithAttributes(attrs...))
}
